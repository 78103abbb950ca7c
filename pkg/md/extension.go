// extension.go registers interaction support with goldmark: an AST transformer
// that converts tags into InteractionNodes and an HTML renderer for them.
package md

import (
	"encoding/json"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindInteraction is the NodeKind of InteractionNode.
var KindInteraction = ast.NewNodeKind("Interaction")

// InteractionNode is an inline node carrying a parsed interactive tag.
type InteractionNode struct {
	ast.BaseInline
	Interaction *Interaction
}

// NewInteractionNode returns a node for in.
func NewInteractionNode(in *Interaction) *InteractionNode {
	return &InteractionNode{Interaction: in}
}

// Kind implements ast.Node.
func (n *InteractionNode) Kind() ast.NodeKind {
	return KindInteraction
}

// Dump implements ast.Node.
func (n *InteractionNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Variant":      n.Interaction.Variant.String(),
		"VariableName": n.Interaction.VariableName,
		"ButtonTexts":  strings.Join(n.Interaction.ButtonTexts, "|"),
		"Placeholder":  n.Interaction.Placeholder,
	}, nil)
}

// ElementName returns the element the renderer emits for the node.
func (n *InteractionNode) ElementName() string {
	if n.Interaction.Variant == VariantBareButton {
		return "custom-button"
	}
	return "custom-variable"
}

// Extension adds interactive tag support to a goldmark.Markdown.
type Extension struct {
	matcher *Matcher
}

// NewExtension returns an extension matching tags with a Matcher built from opts.
func NewExtension(opts ...MatcherOption) *Extension {
	return &Extension{matcher: NewMatcher(opts...)}
}

// Extend implements goldmark.Extender.
func (e *Extension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&interactionTransformer{matcher: e.matcher}, 999),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&InteractionHTMLRenderer{}, 500),
	))
}

type interactionTransformer struct {
	matcher *Matcher
}

func (t *interactionTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	Transform(NewGoldmarkTree(doc, reader.Source()), t.matcher)
}

// InteractionHTMLRenderer renders InteractionNodes as custom elements whose
// data attributes carry the parsed fields.
type InteractionHTMLRenderer struct{}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *InteractionHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindInteraction, r.renderInteraction)
}

func (r *InteractionHTMLRenderer) renderInteraction(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	node := n.(*InteractionNode)
	in := node.Interaction

	_, _ = w.WriteString("<" + node.ElementName())
	if in.VariableName != "" {
		writeAttr(w, "data-variable-name", in.VariableName)
	}
	if len(in.ButtonTexts) > 0 {
		texts, _ := json.Marshal(in.ButtonTexts)
		writeAttr(w, "data-button-texts", string(texts))
	}
	if len(in.ButtonValues) > 0 {
		values, _ := json.Marshal(in.ButtonValues)
		writeAttr(w, "data-button-values", string(values))
	}
	if in.Placeholder != "" {
		writeAttr(w, "data-placeholder", in.Placeholder)
	}
	_, _ = w.WriteString("></" + node.ElementName() + ">")
	return ast.WalkSkipChildren, nil
}

func writeAttr(w util.BufWriter, name, value string) {
	_, _ = w.WriteString(" " + name + `="`)
	_, _ = w.Write(util.EscapeHTML([]byte(value)))
	_ = w.WriteByte('"')
}
