// render.go renders Interactions back to their markdown tag syntax.
package md

import "strings"

// RenderInteractionMarkup returns the canonical tag text for in.
func RenderInteractionMarkup(in *Interaction) string {
	var sb strings.Builder
	sb.WriteString("?[")
	if in.Variant != VariantBareButton {
		sb.WriteString("%{{")
		sb.WriteString(in.VariableName)
		sb.WriteString("}}")
	}

	labels := make([]string, len(in.ButtonTexts))
	for i, text := range in.ButtonTexts {
		labels[i] = text
		if i < len(in.ButtonValues) && in.ButtonValues[i] != text {
			labels[i] = text + buttonValueSep + in.ButtonValues[i]
		}
	}

	switch in.Variant {
	case VariantBareButton:
		sb.WriteString(strings.Join(labels, ""))
	case VariantPlaceholderOnly:
		sb.WriteString(" ...")
		sb.WriteString(in.Placeholder)
	case VariantButtonsWithPlaceholder:
		sb.WriteString(" ")
		sb.WriteString(strings.Join(labels, " | "))
		sb.WriteString(" | ...")
		sb.WriteString(in.Placeholder)
	default:
		sb.WriteString(" ")
		sb.WriteString(strings.Join(labels, " | "))
	}
	sb.WriteString("]")
	return sb.String()
}

// RenderSegments reassembles a ParseResult, writing each interaction with
// render and each text segment verbatim.
func RenderSegments(result *ParseResult, render func(*Interaction) string) string {
	var sb strings.Builder
	for _, seg := range result.Segments {
		if seg.Type == SegmentInteraction {
			sb.WriteString(render(seg.Interaction))
			continue
		}
		sb.WriteString(seg.Text)
	}
	return sb.String()
}
