// to_tree.go converts markdown into a JSON document tree for external renderers.
package md

import (
	"encoding/json"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// TreeDocument is the root of a converted document.
type TreeDocument struct {
	Type    string      `json:"type"`
	Content []*TreeNode `json:"content"`
}

// TreeNode is a block or inline node of a converted document.
type TreeNode struct {
	Type    string         `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []*TreeNode    `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
	Marks   []*TreeMark    `json:"marks,omitempty"`
}

// TreeMark is inline formatting applied to a text node.
type TreeMark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// ToDocument parses markdown, converts interactive tags and returns the
// resulting tree. Interaction nodes have type "interaction" and carry the
// parsed fields in Attrs.
func ToDocument(markdown []byte, opts ConvertOptions) *TreeDocument {
	doc := &TreeDocument{Type: "doc", Content: []*TreeNode{}}
	if len(markdown) == 0 {
		return doc
	}
	if opts.Normalize {
		markdown = []byte(Normalize(string(markdown)))
	}

	gm := goldmark.New(goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
	))
	root := gm.Parser().Parse(text.NewReader(markdown))
	Transform(NewGoldmarkTree(root, markdown), NewMatcher(opts.matcherOptions()...))

	c := &treeConverter{source: markdown}
	if content := c.convertChildren(root); content != nil {
		doc.Content = content
	}
	return doc
}

// ToJSON converts markdown to the JSON encoding of ToDocument.
func ToJSON(markdown []byte, opts ConvertOptions) (string, error) {
	data, err := json.Marshal(ToDocument(markdown, opts))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// treeConverter holds state during AST conversion.
type treeConverter struct {
	source []byte
}

func (c *treeConverter) convertChildren(n ast.Node) []*TreeNode {
	var nodes []*TreeNode
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if node := c.convertNode(child); node != nil {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

func (c *treeConverter) convertNode(n ast.Node) *TreeNode {
	switch node := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		content := c.convertInlineChildren(node)
		if len(content) == 0 {
			return nil
		}
		return &TreeNode{Type: "paragraph", Content: content}
	case *ast.Heading:
		return &TreeNode{
			Type:    "heading",
			Attrs:   map[string]any{"level": node.Level},
			Content: c.convertInlineChildren(node),
		}
	case *ast.List:
		if node.IsOrdered() {
			return &TreeNode{
				Type:    "orderedList",
				Attrs:   map[string]any{"order": node.Start},
				Content: c.convertChildren(node),
			}
		}
		return &TreeNode{Type: "bulletList", Content: c.convertChildren(node)}
	case *ast.ListItem:
		return &TreeNode{Type: "listItem", Content: c.convertChildren(node)}
	case *ast.FencedCodeBlock:
		var attrs map[string]any
		if lang := string(node.Language(c.source)); lang != "" {
			attrs = map[string]any{"language": lang}
		}
		return &TreeNode{
			Type:    "codeBlock",
			Attrs:   attrs,
			Content: []*TreeNode{{Type: "text", Text: c.lines(node.Lines())}},
		}
	case *ast.CodeBlock:
		return &TreeNode{
			Type:    "codeBlock",
			Content: []*TreeNode{{Type: "text", Text: c.lines(node.Lines())}},
		}
	case *ast.Blockquote:
		return &TreeNode{Type: "blockquote", Content: c.convertChildren(node)}
	case *ast.ThematicBreak:
		return &TreeNode{Type: "rule"}
	case *extast.Table:
		return c.convertTable(node)
	default:
		return nil
	}
}

func (c *treeConverter) lines(lines *text.Segments) string {
	var code strings.Builder
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		code.Write(line.Value(c.source))
	}
	return strings.TrimSuffix(code.String(), "\n")
}

func (c *treeConverter) convertTable(n *extast.Table) *TreeNode {
	var rows []*TreeNode
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		header := false
		switch child.(type) {
		case *extast.TableHeader:
			header = true
		case *extast.TableRow:
		default:
			continue
		}
		var cells []*TreeNode
		for cell := child.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cellType := "tableCell"
			if header {
				cellType = "tableHeader"
			}
			cells = append(cells, &TreeNode{Type: cellType, Content: c.convertInlineChildren(cell)})
		}
		rows = append(rows, &TreeNode{Type: "tableRow", Content: cells})
	}
	return &TreeNode{Type: "table", Content: rows}
}

func (c *treeConverter) convertInlineChildren(n ast.Node) []*TreeNode {
	var nodes []*TreeNode
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		nodes = append(nodes, c.convertInlineNode(child, nil)...)
	}
	return nodes
}

func (c *treeConverter) textNode(s string, marks []*TreeMark) []*TreeNode {
	if s == "" {
		return nil
	}
	node := &TreeNode{Type: "text", Text: s}
	if len(marks) > 0 {
		node.Marks = marks
	}
	return []*TreeNode{node}
}

func (c *treeConverter) convertInlineNode(n ast.Node, marks []*TreeMark) []*TreeNode {
	switch node := n.(type) {
	case *ast.Text:
		nodes := c.textNode(string(node.Segment.Value(c.source)), marks)
		if node.SoftLineBreak() {
			nodes = append(nodes, &TreeNode{Type: "text", Text: " "})
		}
		if node.HardLineBreak() {
			nodes = append(nodes, &TreeNode{Type: "hardBreak"})
		}
		return nodes

	case *ast.String:
		return c.textNode(string(node.Value), marks)

	case *InteractionNode:
		return []*TreeNode{interactionTreeNode(node.Interaction)}

	case *ast.Emphasis:
		markType := "em"
		if node.Level == 2 {
			markType = "strong"
		}
		return c.convertMarked(node, marks, &TreeMark{Type: markType})

	case *extast.Strikethrough:
		return c.convertMarked(node, marks, &TreeMark{Type: "strike"})

	case *ast.CodeSpan:
		var sb strings.Builder
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			if t, ok := child.(*ast.Text); ok {
				sb.Write(t.Segment.Value(c.source))
			}
		}
		return c.textNode(sb.String(), append(copyMarks(marks), &TreeMark{Type: "code"}))

	case *ast.Link:
		return c.convertMarked(node, marks, &TreeMark{
			Type:  "link",
			Attrs: map[string]any{"href": string(node.Destination)},
		})

	case *ast.AutoLink:
		url := string(node.URL(c.source))
		return c.textNode(url, append(copyMarks(marks), &TreeMark{
			Type:  "link",
			Attrs: map[string]any{"href": url},
		}))

	case *ast.RawHTML:
		return nil

	default:
		var nodes []*TreeNode
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			nodes = append(nodes, c.convertInlineNode(child, marks)...)
		}
		return nodes
	}
}

func (c *treeConverter) convertMarked(n ast.Node, marks []*TreeMark, mark *TreeMark) []*TreeNode {
	newMarks := append(copyMarks(marks), mark)
	var nodes []*TreeNode
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		nodes = append(nodes, c.convertInlineNode(child, newMarks)...)
	}
	return nodes
}

func interactionTreeNode(in *Interaction) *TreeNode {
	attrs := map[string]any{
		"variant":      in.Variant.String(),
		"variableName": in.VariableName,
		"buttonTexts":  in.ButtonTexts,
	}
	if len(in.ButtonValues) > 0 {
		attrs["buttonValues"] = in.ButtonValues
	}
	if in.Placeholder != "" {
		attrs["placeholder"] = in.Placeholder
	}
	return &TreeNode{Type: "interaction", Attrs: attrs}
}

// copyMarks creates a copy of the marks slice.
func copyMarks(marks []*TreeMark) []*TreeMark {
	if marks == nil {
		return nil
	}
	result := make([]*TreeMark, len(marks))
	copy(result, marks)
	return result
}
