package view

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/term"

	"github.com/open-cli-collective/mdflow/pkg/md"
)

// DefaultWidth is used when the terminal width cannot be detected.
const DefaultWidth = 80

// DocumentFormat selects how a whole markdown document is rendered.
type DocumentFormat string

const (
	DocumentHTML     DocumentFormat = "html"
	DocumentJSON     DocumentFormat = "json"
	DocumentTerminal DocumentFormat = "terminal"
	DocumentPlain    DocumentFormat = "plain"
)

// ValidDocumentFormats returns the accepted values of render --format.
func ValidDocumentFormats() []string {
	return []string{
		string(DocumentHTML),
		string(DocumentJSON),
		string(DocumentTerminal),
		string(DocumentPlain),
	}
}

// ValidateDocumentFormat checks a render --format value.
func ValidateDocumentFormat(format string) error {
	for _, f := range ValidDocumentFormats() {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid document format %q: must be one of %s", format, strings.Join(ValidDocumentFormats(), ", "))
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// TerminalWidth returns the column count of f, or DefaultWidth.
func TerminalWidth(f *os.File) int {
	if f == nil || !IsTerminal(f) {
		return DefaultWidth
	}
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		return w
	}
	return DefaultWidth
}

// MarkdownRenderer styles markdown for the terminal.
type MarkdownRenderer struct {
	tr *glamour.TermRenderer
}

// NewMarkdownRenderer builds a renderer for theme ("auto" detects the
// background) wrapping at width columns.
func NewMarkdownRenderer(theme string, width int) (*MarkdownRenderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if theme == "" || theme == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(theme))
	}

	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create terminal renderer: %w", err)
	}
	return &MarkdownRenderer{tr: tr}, nil
}

// Render styles markdown. Interactive tags are first replaced with a
// readable button row so the styling engine does not mangle them.
func (r *MarkdownRenderer) Render(markdown string, m *md.Matcher) (string, error) {
	text := md.RenderSegments(m.Parse(markdown), InteractionMarkdown)
	out, err := r.tr.Render(text)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

// InteractionMarkdown shows an interaction as inline markdown: one code span
// per button and an italic input hint.
func InteractionMarkdown(in *md.Interaction) string {
	var parts []string
	for _, text := range in.ButtonTexts {
		parts = append(parts, "`[ "+text+" ]`")
	}
	if in.HasInput() {
		parts = append(parts, "_"+inputHint(in)+"_")
	}
	return strings.Join(parts, " ")
}

// InteractionText shows an interaction as plain, optionally colored text.
func InteractionText(in *md.Interaction) string {
	button := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)

	var parts []string
	for _, text := range in.ButtonTexts {
		parts = append(parts, button.Sprint("[ "+text+" ]"))
	}
	if in.HasInput() {
		parts = append(parts, dim.Sprint(inputHint(in)))
	}
	return strings.Join(parts, " ")
}

func inputHint(in *md.Interaction) string {
	hint := in.Placeholder
	if hint == "" {
		hint = in.VariableName
	}
	return "✎ " + hint
}

// Wrap breaks text at word boundaries to fit width columns.
// A width of zero or less leaves text unchanged.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return wordwrap.String(text, width)
}
