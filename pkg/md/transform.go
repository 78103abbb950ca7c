// transform.go applies interaction parsing to the text leaves of a document tree.
package md

// TextLeaf is a text-bearing leaf of a document tree.
type TextLeaf interface {
	// Value returns the literal text of the leaf.
	Value() string

	// Split replaces the leaf with the text before start, a node carrying in,
	// and the text after end. Offsets are byte offsets into Value. It returns
	// the leaf holding the trailing text, or nil when no text follows.
	Split(start, end int, in *Interaction) TextLeaf
}

// TextTree is a document tree whose text leaves can be listed and split.
// Implementations must return a snapshot so that splitting a leaf does not
// disturb the iteration.
type TextTree interface {
	TextLeaves() []TextLeaf
}

// Transform converts every interactive tag in tree into an interaction node
// and returns the number converted. Each leaf is rescanned after a split until
// no tag remains, so several tags in one leaf are all converted without
// depending on the tree walker revisiting inserted siblings.
func Transform(tree TextTree, m *Matcher) int {
	if m == nil {
		m = defaultMatcher
	}
	converted := 0
	for _, leaf := range tree.TextLeaves() {
		for leaf != nil {
			match, ok := m.Find(leaf.Value())
			if !ok {
				break
			}
			leaf = leaf.Split(match.Start, match.End, match.Interaction)
			converted++
		}
	}
	return converted
}
