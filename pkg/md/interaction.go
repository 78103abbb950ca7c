// interaction.go defines the interactive control syntax and its parsed form.
package md

import (
	"fmt"
	"regexp"
	"strings"
)

// SyntaxVariant identifies one of the interactive tag grammars.
type SyntaxVariant int

const (
	VariantButtonsWithPlaceholder SyntaxVariant = iota // ?[%{{name}} a | b | ...placeholder]
	VariantPlaceholderOnly                             // ?[%{{name}} ...placeholder]
	VariantButtonsOnly                                 // ?[%{{name}} a | b]
	VariantSingleButton                                // ?[%{{name}} a]
	VariantBareButton                                  // ?[a]
)

var variantNames = map[SyntaxVariant]string{
	VariantButtonsWithPlaceholder: "buttons-with-placeholder",
	VariantPlaceholderOnly:        "placeholder-only",
	VariantButtonsOnly:            "buttons-only",
	VariantSingleButton:           "single-button",
	VariantBareButton:             "bare-button",
}

// String returns the name of the variant.
func (v SyntaxVariant) String() string {
	if name, ok := variantNames[v]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the variant by name.
func (v SyntaxVariant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText decodes a variant name.
func (v *SyntaxVariant) UnmarshalText(text []byte) error {
	for variant, name := range variantNames {
		if name == string(text) {
			*v = variant
			return nil
		}
	}
	return fmt.Errorf("unknown syntax variant %q", text)
}

// Interaction is a parsed interactive tag: a set of buttons and/or a text
// input bound to a variable.
type Interaction struct {
	Variant      SyntaxVariant `json:"variant"`
	VariableName string        `json:"variableName"`
	ButtonTexts  []string      `json:"buttonTexts"`
	ButtonValues []string      `json:"buttonValues,omitempty"` // parallel to ButtonTexts when set
	Placeholder  string        `json:"placeholder,omitempty"`
}

// ValueAt returns the value sent when button i is pressed. It falls back to
// the button text when no explicit value was given.
func (in *Interaction) ValueAt(i int) string {
	if i < 0 || i >= len(in.ButtonTexts) {
		return ""
	}
	if i < len(in.ButtonValues) {
		return in.ButtonValues[i]
	}
	return in.ButtonTexts[i]
}

// HasInput reports whether the interaction offers a free-text input.
func (in *Interaction) HasInput() bool {
	return in.Variant == VariantButtonsWithPlaceholder || in.Variant == VariantPlaceholderOnly
}

// Answer is the user's response to an interaction.
type Answer struct {
	VariableName string `json:"variableName,omitempty"`
	ButtonText   string `json:"buttonText,omitempty"`
	InputText    string `json:"inputText,omitempty"`
}

// Press returns the answer for pressing button i.
func (in *Interaction) Press(i int) Answer {
	return Answer{VariableName: in.VariableName, ButtonText: in.ValueAt(i)}
}

// Submit returns the answer for submitting text in the input.
func (in *Interaction) Submit(text string) Answer {
	return Answer{VariableName: in.VariableName, InputText: text}
}

// Separator between button labels: ASCII "|" or fullwidth "｜".
const separatorClass = `[|｜]`

// buttonValueSep splits a label into display text and value: "Yes//yes".
const buttonValueSep = "//"

var separatorPattern = regexp.MustCompile(separatorClass)

// syntaxRule pairs a pattern with the builder for its submatches.
type syntaxRule struct {
	Variant SyntaxVariant
	Pattern *regexp.Regexp
	build   func(groups []string) (*Interaction, bool)
}

const (
	tagOpen   = `\?\[%\{\{\s*(\w+)\s*\}\}\s*`
	labelPart = `[^\]|｜]+`
)

// syntaxRules lists the variable-bound grammars in priority order.
// Adding a grammar = adding one entry here.
var syntaxRules = []syntaxRule{
	{
		Variant: VariantButtonsWithPlaceholder,
		Pattern: regexp.MustCompile(tagOpen + `(` + labelPart + `(?:\s*` + separatorClass + `\s*` + labelPart + `)*)\s*` + separatorClass + `\s*\.\.\.\s*([^\]]+)\]`),
		build: func(g []string) (*Interaction, bool) {
			in := newInteraction(VariantButtonsWithPlaceholder, g[1])
			in.setButtons(separatorPattern.Split(g[2], -1))
			in.Placeholder = strings.TrimSpace(g[3])
			return in, in.VariableName != ""
		},
	},
	{
		Variant: VariantPlaceholderOnly,
		Pattern: regexp.MustCompile(tagOpen + `\.\.\.\s*([^\]]+)\]`),
		build: func(g []string) (*Interaction, bool) {
			in := newInteraction(VariantPlaceholderOnly, g[1])
			in.Placeholder = strings.TrimSpace(g[2])
			return in, in.VariableName != ""
		},
	},
	{
		Variant: VariantButtonsOnly,
		Pattern: regexp.MustCompile(tagOpen + `(` + labelPart + `(?:\s*` + separatorClass + `\s*` + labelPart + `)+)\s*\]`),
		build: func(g []string) (*Interaction, bool) {
			in := newInteraction(VariantButtonsOnly, g[1])
			in.setButtons(separatorPattern.Split(g[2], -1))
			return in, in.VariableName != ""
		},
	},
	{
		Variant: VariantSingleButton,
		Pattern: regexp.MustCompile(tagOpen + `([^|\]｜]+)\s*\]`),
		build: func(g []string) (*Interaction, bool) {
			in := newInteraction(VariantSingleButton, g[1])
			in.setButtons([]string{g[2]})
			return in, in.VariableName != ""
		},
	},
}

// bareButtonRule matches ?[label] with no variable binding.
var bareButtonRule = syntaxRule{
	Variant: VariantBareButton,
	Pattern: regexp.MustCompile(`\?\[([^\]]+)\]`),
	build: func(g []string) (*Interaction, bool) {
		label := strings.TrimSpace(g[1])
		// A broken variable tag is not a button labelled "%{{...".
		if label == "" || strings.HasPrefix(label, "%{{") {
			return nil, false
		}
		in := &Interaction{Variant: VariantBareButton}
		in.setButtons([]string{label})
		return in, len(in.ButtonTexts) > 0
	},
}

func newInteraction(variant SyntaxVariant, name string) *Interaction {
	return &Interaction{
		Variant:      variant,
		VariableName: strings.TrimSpace(name),
		ButtonTexts:  []string{},
	}
}

// setButtons trims labels, drops empty ones and splits "text//value" pairs.
func (in *Interaction) setButtons(labels []string) {
	texts := make([]string, 0, len(labels))
	values := make([]string, 0, len(labels))
	hasValue := false
	for _, label := range labels {
		text, value, found := strings.Cut(label, buttonValueSep)
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		value = strings.TrimSpace(value)
		if found && value != "" {
			hasValue = true
		} else {
			value = text
		}
		texts = append(texts, text)
		values = append(values, value)
	}
	in.ButtonTexts = texts
	if hasValue {
		in.ButtonValues = values
	}
}
