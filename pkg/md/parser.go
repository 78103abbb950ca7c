// parser.go defines the segmented result of interaction parsing.
package md

import (
	"fmt"
	"log/slog"
)

// SegmentType indicates whether a segment is text or an interaction.
type SegmentType int

const (
	SegmentText        SegmentType = iota // literal markdown text
	SegmentInteraction                    // parsed interactive tag
)

// Segment represents either literal text or a parsed interaction.
type Segment struct {
	Type        SegmentType
	Text        string       // set when Type == SegmentText; the raw tag text for SegmentInteraction
	Interaction *Interaction // set when Type == SegmentInteraction
}

// ParseResult contains the parsed output: a sequence of segments
// that alternate between literal text and interactions.
type ParseResult struct {
	Segments []Segment
	Warnings []string // malformed tags left as text
}

// AddTextSegment appends a text segment, merging with previous text if possible.
func (pr *ParseResult) AddTextSegment(text string) {
	if text == "" {
		return
	}
	if len(pr.Segments) > 0 && pr.Segments[len(pr.Segments)-1].Type == SegmentText {
		pr.Segments[len(pr.Segments)-1].Text += text
		return
	}
	pr.Segments = append(pr.Segments, Segment{
		Type: SegmentText,
		Text: text,
	})
}

// AddInteractionSegment appends an interaction segment.
func (pr *ParseResult) AddInteractionSegment(raw string, in *Interaction) {
	pr.Segments = append(pr.Segments, Segment{
		Type:        SegmentInteraction,
		Text:        raw,
		Interaction: in,
	})
}

// AddWarning records a warning and logs it at debug level.
func (pr *ParseResult) AddWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	pr.Warnings = append(pr.Warnings, msg)
	slog.Debug("interaction parse warning", "warning", msg)
}

// Interactions returns all interactions from the parse result in order.
func (pr *ParseResult) Interactions() []*Interaction {
	var out []*Interaction
	for _, seg := range pr.Segments {
		if seg.Type == SegmentInteraction && seg.Interaction != nil {
			out = append(out, seg.Interaction)
		}
	}
	return out
}

// String reassembles the original text from the segments.
func (pr *ParseResult) String() string {
	var n int
	for _, seg := range pr.Segments {
		n += len(seg.Text)
	}
	buf := make([]byte, 0, n)
	for _, seg := range pr.Segments {
		buf = append(buf, seg.Text...)
	}
	return string(buf)
}
