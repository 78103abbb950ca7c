// Package md parses and renders chat markdown that embeds interactive controls,
// and splits streaming markdown into typewriter reveal tokens.
package md

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// ConvertOptions configures markdown conversion.
type ConvertOptions struct {
	// BareButtons also converts ?[label] into buttons without a variable.
	BareButtons bool
	// Normalize unescapes and tidies the text first (see Normalize).
	Normalize bool
}

func (o ConvertOptions) matcherOptions() []MatcherOption {
	if o.BareButtons {
		return []MatcherOption{WithBareButtons()}
	}
	return nil
}

// Matcher returns a tag matcher configured like the converter.
func (o ConvertOptions) Matcher() *Matcher {
	if !o.BareButtons {
		return defaultMatcher
	}
	return NewMatcher(o.matcherOptions()...)
}

// mdParser is a pre-configured goldmark instance with GFM tables,
// strikethrough and interactive tags.
var mdParser = newMarkdown(ConvertOptions{})

func newMarkdown(opts ConvertOptions) goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Strikethrough,
			NewExtension(opts.matcherOptions()...),
		),
	)
}

func markdownFor(opts ConvertOptions) goldmark.Markdown {
	if opts.BareButtons {
		return newMarkdown(opts)
	}
	return mdParser
}

// ToHTML converts markdown to HTML, rendering interactive tags as
// <custom-variable> elements.
func ToHTML(markdown []byte) (string, error) {
	return ToHTMLWithOptions(markdown, ConvertOptions{})
}

// ToHTMLWithOptions converts markdown to HTML with configurable options.
func ToHTMLWithOptions(markdown []byte, opts ConvertOptions) (string, error) {
	if len(markdown) == 0 {
		return "", nil
	}
	if opts.Normalize {
		markdown = []byte(Normalize(string(markdown)))
	}

	var buf bytes.Buffer
	if err := markdownFor(opts).Convert(markdown, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
