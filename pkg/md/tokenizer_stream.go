// tokenizer_stream.go implements the incremental reveal tokenizer for streaming markdown.
package md

import (
	"strings"
	"unicode/utf8"
)

// Delimiters recognized by the streaming tokenizer.
const (
	delimInteractive = "?["
	delimFence       = "```"
	delimInlineCode  = "`"
	delimBold        = "**"
	delimItalic      = "*"
	delimLinkOpen    = "["
	delimLinkMiddle  = "]("
	delimLinkClose   = ")"
	delimTagClose    = "]"
)

// TokenizerState is the persisted state of a StreamTokenizer between calls.
type TokenizerState struct {
	Mode      Mode
	Pending   string // raw text of the construct being accumulated, delimiters included
	Plain     string // plain characters not yet emitted
	Lookahead string // raw input that cannot be classified until more text arrives
}

// Buffered returns all text held by the state that has not been emitted as tokens.
func (s TokenizerState) Buffered() string {
	return s.Pending + s.Plain + s.Lookahead
}

// StreamTokenizer splits growing markdown into reveal tokens.
//
// Plain characters become one TokenChar each. Code blocks, inline code, bold,
// italic, links and interactive tags are held back until their closing
// delimiter arrives and are then emitted as a single TokenAtomic, so a partial
// construct is never revealed. A decision that depends on characters that have
// not arrived yet (a trailing "*" could open bold or italic) is deferred, which
// makes the token list independent of how the input was chunked.
type StreamTokenizer struct {
	state TokenizerState
	out   []RevealToken
}

// NewStreamTokenizer returns a tokenizer in ModeNormal with empty buffers.
func NewStreamTokenizer() *StreamTokenizer {
	return &StreamTokenizer{}
}

// State returns a copy of the current state.
func (t *StreamTokenizer) State() TokenizerState {
	return t.state
}

// Reset returns the tokenizer to ModeNormal with empty buffers.
func (t *StreamTokenizer) Reset() {
	t.state = TokenizerState{}
	t.out = nil
}

// Feed consumes the next chunk of input and returns the tokens it completes.
func (t *StreamTokenizer) Feed(chunk string) []RevealToken {
	return t.run(chunk, false)
}

// Flush finalizes the stream. Deferred lookahead is decided as if the input
// ended, plain characters are emitted, and an unterminated construct is
// emitted as one atomic token tagged with its in-progress subtype.
func (t *StreamTokenizer) Flush() []RevealToken {
	out := t.run("", true)
	if t.state.Pending != "" {
		out = append(out, RevealToken{
			Content: t.state.Pending,
			Kind:    TokenAtomic,
			Subtype: t.state.Mode.Subtype(),
		})
	}
	t.state = TokenizerState{}
	return out
}

// Tokenize tokenizes a complete document in one shot, flushing at the end.
func Tokenize(input string) []RevealToken {
	t := NewStreamTokenizer()
	tokens := t.Feed(input)
	return append(tokens, t.Flush()...)
}

func (t *StreamTokenizer) run(chunk string, final bool) []RevealToken {
	input := t.state.Lookahead + chunk
	t.state.Lookahead = ""
	t.out = nil

	pos := 0
	for pos < len(input) {
		n := t.step(input[pos:], final)
		if n == 0 {
			t.state.Lookahead = input[pos:]
			break
		}
		pos += n
	}
	t.flushPlain()

	out := t.out
	t.out = nil
	return out
}

// step consumes a prefix of rest and returns its length in bytes.
// It returns 0 when the next decision needs input that has not arrived.
func (t *StreamTokenizer) step(rest string, final bool) int {
	switch t.state.Mode {
	case ModeNormal:
		return t.stepNormal(rest, final)
	case ModeCodeBlockFence:
		if rest[0] != '`' {
			return t.accumulateUntil(rest, "`")
		}
		ok, partial := lookingAt(rest, delimFence, final)
		if partial {
			return 0
		}
		if ok {
			t.state.Pending += delimFence
			t.close()
			return len(delimFence)
		}
		t.state.Pending += rest[:1]
		return 1
	case ModeInlineCode:
		if rest[0] != '`' {
			return t.accumulateUntil(rest, "`")
		}
		t.state.Pending += delimInlineCode
		t.close()
		return 1
	case ModeBold:
		if rest[0] != '*' {
			return t.accumulateUntil(rest, "*")
		}
		ok, partial := lookingAt(rest, delimBold, final)
		if partial {
			return 0
		}
		if ok {
			t.state.Pending += delimBold
			t.close()
			return len(delimBold)
		}
		t.state.Pending += delimItalic
		return 1
	case ModeItalic:
		if rest[0] != '*' {
			return t.accumulateUntil(rest, "*")
		}
		// A "*" followed by another "*" stays inside the italic run.
		ok, partial := lookingAt(rest, delimBold, final)
		if partial {
			return 0
		}
		t.state.Pending += delimItalic
		if !ok {
			t.close()
		}
		return 1
	case ModeLinkText:
		if rest[0] != ']' {
			return t.accumulateUntil(rest, "]")
		}
		ok, partial := lookingAt(rest, delimLinkMiddle, final)
		if partial {
			return 0
		}
		if ok {
			t.state.Pending += delimLinkMiddle
			t.state.Mode = ModeLinkURL
			return len(delimLinkMiddle)
		}
		t.state.Pending += delimTagClose
		return 1
	case ModeLinkURL:
		if rest[0] != ')' {
			return t.accumulateUntil(rest, ")")
		}
		t.state.Pending += delimLinkClose
		t.close()
		return 1
	case ModeInteractiveTag:
		if rest[0] != ']' {
			return t.accumulateUntil(rest, "]")
		}
		t.state.Pending += delimTagClose
		t.close()
		return 1
	}
	return 0
}

func (t *StreamTokenizer) stepNormal(rest string, final bool) int {
	switch rest[0] {
	case '?':
		ok, partial := lookingAt(rest, delimInteractive, final)
		if partial {
			return 0
		}
		if ok {
			t.open(ModeInteractiveTag, delimInteractive)
			return len(delimInteractive)
		}
	case '`':
		ok, partial := lookingAt(rest, delimFence, final)
		if partial {
			return 0
		}
		if ok {
			t.open(ModeCodeBlockFence, delimFence)
			return len(delimFence)
		}
		t.open(ModeInlineCode, delimInlineCode)
		return 1
	case '*':
		ok, partial := lookingAt(rest, delimBold, final)
		if partial {
			return 0
		}
		if ok {
			t.open(ModeBold, delimBold)
			return len(delimBold)
		}
		t.open(ModeItalic, delimItalic)
		return 1
	case '[':
		t.open(ModeLinkText, delimLinkOpen)
		return 1
	}

	r, size := utf8.DecodeRuneInString(rest)
	if r == utf8.RuneError && size <= 1 && !final && !utf8.FullRuneInString(rest) {
		// Multi-byte character split across chunks.
		return 0
	}
	t.state.Plain += rest[:size]
	return size
}

// accumulateUntil appends rest up to the next byte in stops to the pending buffer.
// Delimiters are ASCII, so multi-byte characters never need to be decoded here.
func (t *StreamTokenizer) accumulateUntil(rest, stops string) int {
	n := strings.IndexAny(rest, stops)
	if n < 0 {
		n = len(rest)
	}
	t.state.Pending += rest[:n]
	return n
}

func (t *StreamTokenizer) open(mode Mode, delim string) {
	t.flushPlain()
	t.state.Mode = mode
	t.state.Pending = delim
}

func (t *StreamTokenizer) close() {
	t.out = append(t.out, RevealToken{
		Content: t.state.Pending,
		Kind:    TokenAtomic,
		Subtype: t.state.Mode.Subtype(),
	})
	t.state.Pending = ""
	t.state.Mode = ModeNormal
}

// flushPlain emits every buffered plain rune as its own char token.
func (t *StreamTokenizer) flushPlain() {
	plain := t.state.Plain
	for len(plain) > 0 {
		_, size := utf8.DecodeRuneInString(plain)
		t.out = append(t.out, RevealToken{Content: plain[:size], Kind: TokenChar})
		plain = plain[size:]
	}
	t.state.Plain = ""
}

// lookingAt reports whether rest starts with delim. partial is true when rest
// is a strict prefix of delim and more input could still complete it; once the
// stream is final a partial match counts as no match.
func lookingAt(rest, delim string, final bool) (ok, partial bool) {
	if strings.HasPrefix(rest, delim) {
		return true, false
	}
	if !final && len(rest) < len(delim) && strings.HasPrefix(delim, rest) {
		return false, true
	}
	return false, false
}
