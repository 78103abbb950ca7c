// goldmark_tree.go adapts a goldmark AST to the TextTree interface.
package md

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// GoldmarkTree exposes the text leaves of a parsed goldmark document.
type GoldmarkTree struct {
	root   ast.Node
	source []byte
}

// NewGoldmarkTree wraps root, whose text segments index into source.
func NewGoldmarkTree(root ast.Node, source []byte) *GoldmarkTree {
	return &GoldmarkTree{root: root, source: source}
}

// TextLeaves returns the *ast.Text and *ast.String leaves in document order.
// Code spans, raw HTML and autolinks are skipped. Adjacent text nodes that
// cover contiguous source are merged first: goldmark leaves "[" and "]" as
// separate nodes when they do not form a link, which would hide "?[...]" tags.
// Text nodes joined by a soft line break form a single leaf whose value holds
// a "\n" at each break, so a tag may wrap across lines.
func (t *GoldmarkTree) TextLeaves() []TextLeaf {
	var leaves []TextLeaf
	_ = ast.Walk(t.root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.CodeSpan, *ast.RawHTML, *ast.AutoLink, *ast.CodeBlock, *ast.FencedCodeBlock, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			if prev, ok := node.PreviousSibling().(*ast.Text); ok && joinsLine(prev, node) {
				return ast.WalkContinue, nil
			}
			if !node.IsRaw() {
				leaves = append(leaves, &goldmarkText{source: t.source, nodes: lineRun(node)})
			}
			return ast.WalkContinue, nil
		case *ast.String:
			if !node.IsRaw() && !node.IsCode() {
				leaves = append(leaves, &goldmarkString{node: node})
			}
			return ast.WalkContinue, nil
		}
		if n.HasChildren() {
			mergeTextRuns(n)
		}
		return ast.WalkContinue, nil
	})
	return leaves
}

// mergeTextRuns joins adjacent *ast.Text children whose segments touch.
func mergeTextRuns(parent ast.Node) {
	for c := parent.FirstChild(); c != nil; {
		cur, ok := c.(*ast.Text)
		if !ok {
			c = c.NextSibling()
			continue
		}
		next, ok := cur.NextSibling().(*ast.Text)
		if !ok || !canMerge(cur, next) {
			c = c.NextSibling()
			continue
		}
		cur.Segment = cur.Segment.WithStop(next.Segment.Stop)
		cur.SetSoftLineBreak(next.SoftLineBreak())
		cur.SetHardLineBreak(next.HardLineBreak())
		parent.RemoveChild(parent, next)
	}
}

func canMerge(a, b *ast.Text) bool {
	return a.Segment.Stop == b.Segment.Start &&
		a.Segment.Padding == 0 && b.Segment.Padding == 0 &&
		!a.SoftLineBreak() && !a.HardLineBreak() &&
		!a.IsRaw() && !b.IsRaw()
}

// joinsLine reports whether b continues a on the next source line.
func joinsLine(a, b *ast.Text) bool {
	return a.SoftLineBreak() && !a.HardLineBreak() &&
		a.Segment.Padding == 0 && b.Segment.Padding == 0 &&
		!a.IsRaw() && !b.IsRaw()
}

// lineRun returns head and the siblings that continue it across soft breaks.
func lineRun(head *ast.Text) []*ast.Text {
	run := []*ast.Text{head}
	for cur := head; ; {
		next, ok := cur.NextSibling().(*ast.Text)
		if !ok || !joinsLine(cur, next) {
			return run
		}
		run = append(run, next)
		cur = next
	}
}

// goldmarkText is a source-backed text leaf spanning one or more lines.
type goldmarkText struct {
	source []byte
	nodes  []*ast.Text
}

func (l *goldmarkText) Value() string {
	var b strings.Builder
	for i, n := range l.nodes {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.Write(n.Segment.Value(l.source))
	}
	return b.String()
}

// locate maps an offset in Value to a node index and an offset in that
// node's source segment.
func (l *goldmarkText) locate(off int) (int, int) {
	base := 0
	for i, n := range l.nodes {
		length := n.Segment.Len()
		if off <= base+length || i == len(l.nodes)-1 {
			return i, n.Segment.Start + off - base - n.Segment.Padding
		}
		base += length + 1
	}
	return 0, 0
}

func (l *goldmarkText) Split(start, end int, in *Interaction) TextLeaf {
	first, from := l.locate(start)
	last, to := l.locate(end - 1)
	to++
	head, tail := l.nodes[first], l.nodes[last]
	parent := head.Parent()

	inode := NewInteractionNode(decodeInteraction(in))
	parent.InsertBefore(parent, head, inode)
	if from > head.Segment.Start {
		before := ast.NewTextSegment(text.NewSegment(head.Segment.Start, from))
		parent.InsertBefore(parent, inode, before)
	}

	var rest []*ast.Text
	if to < tail.Segment.Stop || tail.SoftLineBreak() || tail.HardLineBreak() {
		after := ast.NewTextSegment(text.NewSegment(to, tail.Segment.Stop))
		after.SetSoftLineBreak(tail.SoftLineBreak())
		after.SetHardLineBreak(tail.HardLineBreak())
		parent.InsertAfter(parent, inode, after)
		if to < tail.Segment.Stop {
			rest = append(rest, after)
		}
	}
	for _, n := range l.nodes[first : last+1] {
		parent.RemoveChild(parent, n)
	}

	rest = append(rest, l.nodes[last+1:]...)
	if len(rest) == 0 {
		return nil
	}
	return &goldmarkText{source: l.source, nodes: rest}
}

// decodeInteraction resolves backslash escapes and character references in
// labels that were matched against raw source text.
func decodeInteraction(in *Interaction) *Interaction {
	out := *in
	out.ButtonTexts = decodeAll(in.ButtonTexts)
	out.ButtonValues = decodeAll(in.ButtonValues)
	out.Placeholder = decodeText(in.Placeholder)
	return &out
}

func decodeAll(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = decodeText(v)
	}
	return out
}

func decodeText(s string) string {
	if !strings.ContainsAny(s, `\&`) {
		return s
	}
	b := util.UnescapePunctuations([]byte(s))
	b = util.ResolveNumericReferences(b)
	b = util.ResolveEntityNames(b)
	return string(b)
}

// goldmarkString is a leaf whose value is held in the node itself.
type goldmarkString struct {
	node *ast.String
}

func (l *goldmarkString) Value() string {
	return string(l.node.Value)
}

func (l *goldmarkString) Split(start, end int, in *Interaction) TextLeaf {
	node := l.node
	parent := node.Parent()
	value := node.Value

	inode := NewInteractionNode(in)
	parent.InsertBefore(parent, node, inode)
	if start > 0 {
		parent.InsertBefore(parent, inode, ast.NewString(append([]byte(nil), value[:start]...)))
	}

	var next TextLeaf
	if end < len(value) {
		after := ast.NewString(append([]byte(nil), value[end:]...))
		parent.InsertAfter(parent, inode, after)
		next = &goldmarkString{node: after}
	}
	parent.RemoveChild(parent, node)
	return next
}
