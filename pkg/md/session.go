// session.go holds the per-stream state shared by the tokenizer and the reveal scheduler.
package md

import "strings"

// UpdateResult describes what a Session.Update call did.
type UpdateResult struct {
	Appended int  // number of tokens appended by this update
	Reset    bool // true when the text was not an extension and the session restarted
}

// Session is one streaming document: the last text seen, the tokenizer state,
// the append-only token list and the reveal cursor.
//
// A Session is not safe for concurrent use; the owner (typically a
// typewriter.Scheduler) serializes access.
type Session struct {
	lastSeen  string
	tokenizer *StreamTokenizer
	tokens    []RevealToken
	cursor    int
	finalized bool
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{tokenizer: NewStreamTokenizer()}
}

// Update accepts the full current text of the stream. When text extends the
// previously seen text only the new suffix is tokenized; otherwise the
// session resets and retokenizes text from scratch.
func (s *Session) Update(text string) UpdateResult {
	if text == s.lastSeen {
		return UpdateResult{}
	}

	if strings.HasPrefix(text, s.lastSeen) {
		suffix := text[len(s.lastSeen):]
		s.lastSeen = text
		s.finalized = false
		n := s.append(s.tokenizer.Feed(suffix))
		return UpdateResult{Appended: n}
	}

	s.Reset()
	s.lastSeen = text
	n := s.append(s.tokenizer.Feed(text))
	return UpdateResult{Appended: n, Reset: true}
}

// Finalize marks the stream as ended and flushes everything the tokenizer is
// still holding. It returns the number of tokens appended.
func (s *Session) Finalize() int {
	if s.finalized {
		return 0
	}
	s.finalized = true
	return s.append(s.tokenizer.Flush())
}

// Reset clears the text, tokens, cursor and tokenizer state.
func (s *Session) Reset() {
	s.lastSeen = ""
	s.tokenizer.Reset()
	s.tokens = nil
	s.cursor = 0
	s.finalized = false
}

// Rewind moves the reveal cursor back to the first token.
func (s *Session) Rewind() {
	s.cursor = 0
}

// Next returns the token at the cursor and advances it.
func (s *Session) Next() (RevealToken, bool) {
	if s.cursor >= len(s.tokens) {
		return RevealToken{}, false
	}
	tok := s.tokens[s.cursor]
	s.cursor++
	return tok, true
}

// SkipToEnd moves the cursor past every token and returns the skipped text.
func (s *Session) SkipToEnd() string {
	skipped := JoinTokens(s.tokens[s.cursor:])
	s.cursor = len(s.tokens)
	return skipped
}

// Text returns the last text passed to Update.
func (s *Session) Text() string {
	return s.lastSeen
}

// Tokens returns the token list. Callers must not modify it.
func (s *Session) Tokens() []RevealToken {
	return s.tokens
}

// Cursor returns the index of the next token to reveal.
func (s *Session) Cursor() int {
	return s.cursor
}

// Remaining returns the number of tokens not yet revealed.
func (s *Session) Remaining() int {
	return len(s.tokens) - s.cursor
}

// Buffered returns text received but not yet turned into tokens.
func (s *Session) Buffered() string {
	return s.tokenizer.State().Buffered()
}

// State returns the tokenizer state.
func (s *Session) State() TokenizerState {
	return s.tokenizer.State()
}

// Finalized reports whether Finalize has run since the last growth.
func (s *Session) Finalized() bool {
	return s.finalized
}

// Completed reports whether every token has been revealed and the tokenizer
// holds nothing that could still become a token.
func (s *Session) Completed() bool {
	return s.cursor == len(s.tokens) && s.Buffered() == ""
}

func (s *Session) append(tokens []RevealToken) int {
	s.tokens = append(s.tokens, tokens...)
	return len(tokens)
}
