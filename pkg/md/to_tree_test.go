package md

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDocument_Interaction(t *testing.T) {
	doc := ToDocument([]byte("Hi ?[%{{c}} A | B] there"), ConvertOptions{})

	require.Len(t, doc.Content, 1)
	para := doc.Content[0]
	assert.Equal(t, "paragraph", para.Type)
	require.Len(t, para.Content, 3)

	assert.Equal(t, "Hi ", para.Content[0].Text)
	assert.Equal(t, "interaction", para.Content[1].Type)
	assert.Equal(t, "buttons-only", para.Content[1].Attrs["variant"])
	assert.Equal(t, "c", para.Content[1].Attrs["variableName"])
	assert.Equal(t, []string{"A", "B"}, para.Content[1].Attrs["buttonTexts"])
	assert.Equal(t, " there", para.Content[2].Text)
}

func TestToDocument_Blocks(t *testing.T) {
	input := "# Title\n\n- one\n- two\n\n```go\nx := 1\n```\n\n> quoted ?[%{{q}} ...why]"
	doc := ToDocument([]byte(input), ConvertOptions{})

	require.Len(t, doc.Content, 4)
	assert.Equal(t, "heading", doc.Content[0].Type)
	assert.Equal(t, 1, doc.Content[0].Attrs["level"])

	assert.Equal(t, "bulletList", doc.Content[1].Type)
	assert.Len(t, doc.Content[1].Content, 2)

	code := doc.Content[2]
	assert.Equal(t, "codeBlock", code.Type)
	assert.Equal(t, "go", code.Attrs["language"])
	assert.Equal(t, "x := 1", code.Content[0].Text)

	quote := doc.Content[3]
	assert.Equal(t, "blockquote", quote.Type)
	inline := quote.Content[0].Content
	require.Len(t, inline, 2)
	assert.Equal(t, "interaction", inline[1].Type)
	assert.Equal(t, "why", inline[1].Attrs["placeholder"])
}

func TestToDocument_Marks(t *testing.T) {
	doc := ToDocument([]byte("**bold** and [link](https://example.com)"), ConvertOptions{})

	require.Len(t, doc.Content, 1)
	inline := doc.Content[0].Content
	require.Len(t, inline, 3)
	assert.Equal(t, "bold", inline[0].Text)
	assert.Equal(t, "strong", inline[0].Marks[0].Type)
	assert.Equal(t, "link", inline[2].Marks[0].Type)
	assert.Equal(t, "https://example.com", inline[2].Marks[0].Attrs["href"])
}

func TestToDocument_BareButtons(t *testing.T) {
	doc := ToDocument([]byte("?[Next]"), ConvertOptions{BareButtons: true})
	inline := doc.Content[0].Content
	require.Len(t, inline, 1)
	assert.Equal(t, "bare-button", inline[0].Attrs["variant"])
}

func TestToJSON(t *testing.T) {
	out, err := ToJSON(nil, ConvertOptions{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"doc","content":[]}`, out)

	out, err = ToJSON([]byte("?[%{{go}} Continue]"), ConvertOptions{})
	require.NoError(t, err)

	var doc TreeDocument
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Content, 1)
	node := doc.Content[0].Content[0]
	assert.Equal(t, "interaction", node.Type)
	assert.Equal(t, "single-button", node.Attrs["variant"])
	assert.Equal(t, []any{"Continue"}, node.Attrs["buttonTexts"])
}

func TestToDocument_DecodesLabels(t *testing.T) {
	doc := ToDocument([]byte(`Pick ?[%{{a}} x &amp; y | \*b\*//&#35;1 | ...&lt;other&gt;]`), ConvertOptions{})

	require.Len(t, doc.Content, 1)
	inline := doc.Content[0].Content
	require.Len(t, inline, 2)
	attrs := inline[1].Attrs
	assert.Equal(t, []string{"x & y", "*b*"}, attrs["buttonTexts"])
	assert.Equal(t, []string{"x & y", "#1"}, attrs["buttonValues"])
	assert.Equal(t, "<other>", attrs["placeholder"])
}

func TestToDocument_TagAcrossLines(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		inline  int
		index   int
		buttons []string
	}{
		{
			name:    "paragraph",
			input:   "Pick ?[%{{a}} one\ntwo | three] now",
			inline:  3,
			index:   1,
			buttons: []string{"one\ntwo", "three"},
		},
		{
			name:    "blockquote markers dropped",
			input:   "> ?[%{{q}} first\n> second]",
			inline:  1,
			index:   0,
			buttons: []string{"first\nsecond"},
		},
		{
			name:    "second tag on the next line",
			input:   "?[%{{a}} X] and\n?[%{{b}} Y]",
			inline:  4,
			index:   3,
			buttons: []string{"Y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := ToDocument([]byte(tt.input), ConvertOptions{})
			require.Len(t, doc.Content, 1)

			block := doc.Content[0]
			if block.Type == "blockquote" {
				require.Len(t, block.Content, 1)
				block = block.Content[0]
			}
			require.Len(t, block.Content, tt.inline)
			node := block.Content[tt.index]
			assert.Equal(t, "interaction", node.Type)
			assert.Equal(t, tt.buttons, node.Attrs["buttonTexts"])
		})
	}
}
