// tokens.go defines the reveal token types produced by the streaming tokenizer.
package md

import "fmt"

// TokenKind distinguishes indivisible constructs from single characters.
type TokenKind int

const (
	TokenChar   TokenKind = iota // one plain character (rune)
	TokenAtomic                  // a whole Markdown construct revealed at once
)

// String returns the lowercase name of the kind.
func (k TokenKind) String() string {
	if k == TokenAtomic {
		return "atomic"
	}
	return "char"
}

// MarshalText encodes the kind by name.
func (k TokenKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *TokenKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "char":
		*k = TokenChar
	case "atomic":
		*k = TokenAtomic
	default:
		return fmt.Errorf("unknown token kind %q", text)
	}
	return nil
}

// Subtype labels the construct carried by an atomic token.
type Subtype string

const (
	SubtypeNone           Subtype = ""
	SubtypeCodeBlock      Subtype = "code-block"
	SubtypeInlineCode     Subtype = "inline-code"
	SubtypeBold           Subtype = "bold"
	SubtypeItalic         Subtype = "italic"
	SubtypeLink           Subtype = "link"
	SubtypeInteractiveTag Subtype = "interactive-tag"
)

// RevealToken is one unit of the typewriter reveal.
// Concatenating the Content of every token in order reproduces the input.
type RevealToken struct {
	Content string    `json:"content"`
	Kind    TokenKind `json:"kind"`
	Subtype Subtype   `json:"subtype,omitempty"`
}

// IsAtomic reports whether the token is a whole construct.
func (t RevealToken) IsAtomic() bool {
	return t.Kind == TokenAtomic
}

// Mode is the state of the streaming tokenizer.
type Mode int

const (
	ModeNormal Mode = iota
	ModeCodeBlockFence
	ModeInlineCode
	ModeBold
	ModeItalic
	ModeLinkText
	ModeLinkURL
	ModeInteractiveTag
)

var modeNames = map[Mode]string{
	ModeNormal:         "normal",
	ModeCodeBlockFence: "code-block-fence",
	ModeInlineCode:     "inline-code",
	ModeBold:           "bold",
	ModeItalic:         "italic",
	ModeLinkText:       "link-text",
	ModeLinkURL:        "link-url",
	ModeInteractiveTag: "interactive-tag",
}

// String returns the name of the mode.
func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// Subtype returns the token subtype emitted when a construct in this mode closes
// or is flushed unterminated.
func (m Mode) Subtype() Subtype {
	switch m {
	case ModeCodeBlockFence:
		return SubtypeCodeBlock
	case ModeInlineCode:
		return SubtypeInlineCode
	case ModeBold:
		return SubtypeBold
	case ModeItalic:
		return SubtypeItalic
	case ModeLinkText, ModeLinkURL:
		return SubtypeLink
	case ModeInteractiveTag:
		return SubtypeInteractiveTag
	default:
		return SubtypeNone
	}
}

// JoinTokens concatenates token contents.
func JoinTokens(tokens []RevealToken) string {
	n := 0
	for _, t := range tokens {
		n += len(t.Content)
	}
	buf := make([]byte, 0, n)
	for _, t := range tokens {
		buf = append(buf, t.Content...)
	}
	return string(buf)
}
