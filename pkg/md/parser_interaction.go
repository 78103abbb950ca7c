// parser_interaction.go finds interactive tags in text.
package md

import (
	"sort"
	"strings"
)

// Match is one interactive tag found in a string.
type Match struct {
	Start       int // byte offset of "?["
	End         int // byte offset just past "]"
	Interaction *Interaction
}

// Matcher finds interactive tags using an ordered rule list.
type Matcher struct {
	rules []syntaxRule
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithBareButtons also recognizes ?[label] as a button with no variable name.
// It has the lowest priority of all rules.
func WithBareButtons() MatcherOption {
	return func(m *Matcher) {
		m.rules = append(m.rules, bareButtonRule)
	}
}

// NewMatcher returns a matcher for the variable-bound grammars plus any
// rules added by opts.
func NewMatcher(opts ...MatcherOption) *Matcher {
	m := &Matcher{rules: append([]syntaxRule(nil), syntaxRules...)}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

var defaultMatcher = NewMatcher()

// FindInteraction returns the leftmost interactive tag in text.
func FindInteraction(text string) (Match, bool) {
	return defaultMatcher.Find(text)
}

// ParseInteractions splits text into literal and interaction segments.
func ParseInteractions(text string) *ParseResult {
	return defaultMatcher.Parse(text)
}

// ParseBareButton returns the leftmost ?[label] button in text.
func ParseBareButton(text string) (Match, bool) {
	m := &Matcher{rules: []syntaxRule{bareButtonRule}}
	return m.Find(text)
}

type candidate struct {
	start, end int
	priority   int
	groups     []string
}

// Find returns the leftmost match across all rules. When two rules match at
// the same offset the one earlier in priority order wins. A candidate that
// fails structural validation is skipped silently and the next one is tried.
func (m *Matcher) Find(text string) (Match, bool) {
	if !strings.Contains(text, "?[") {
		return Match{}, false
	}

	var cands []candidate
	for i, rule := range m.rules {
		for _, loc := range rule.Pattern.FindAllStringSubmatchIndex(text, -1) {
			groups := make([]string, len(loc)/2)
			for g := range groups {
				if loc[2*g] >= 0 {
					groups[g] = text[loc[2*g]:loc[2*g+1]]
				}
			}
			cands = append(cands, candidate{start: loc[0], end: loc[1], priority: i, groups: groups})
		}
	}
	sort.SliceStable(cands, func(a, b int) bool {
		if cands[a].start != cands[b].start {
			return cands[a].start < cands[b].start
		}
		return cands[a].priority < cands[b].priority
	})

	for _, c := range cands {
		in, ok := m.rules[c.priority].build(c.groups)
		if !ok {
			continue
		}
		return Match{Start: c.start, End: c.end, Interaction: in}, true
	}
	return Match{}, false
}

// Parse resolves every tag in text by re-running Find on the residual text
// after each match.
func (m *Matcher) Parse(text string) *ParseResult {
	result := &ParseResult{}
	rest := text
	for rest != "" {
		match, ok := m.Find(rest)
		if !ok {
			break
		}
		result.AddTextSegment(rest[:match.Start])
		result.AddInteractionSegment(rest[match.Start:match.End], match.Interaction)
		rest = rest[match.End:]
	}
	result.AddTextSegment(rest)

	for _, seg := range result.Segments {
		if seg.Type != SegmentText {
			continue
		}
		if idx := strings.Index(seg.Text, "?[%{{"); idx >= 0 {
			result.AddWarning("malformed interactive tag: %q", excerpt(seg.Text[idx:], 40))
		}
	}
	return result
}

func excerpt(s string, limit int) string {
	if end := strings.IndexByte(s, ']'); end >= 0 && end < limit {
		return s[:end+1]
	}
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
