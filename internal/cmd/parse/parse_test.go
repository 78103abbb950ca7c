package parse

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/mdflow/pkg/md"
)

const doc = `Which level? ?[%{{level}} Basic | Advanced | ...or describe it]

Your name: ?[%{{name}} ...type here]

?[Continue]`

func run(t *testing.T, opts *parseOptions) string {
	t.Helper()
	var out bytes.Buffer
	opts.stdin = strings.NewReader(doc)
	opts.stdout = &out
	opts.noColor = true
	require.NoError(t, runParse(nil, opts, nil))
	return out.String()
}

func TestRunParse_Table(t *testing.T) {
	out := run(t, &parseOptions{output: "table"})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "VARIANT")
	assert.Contains(t, lines[1], "buttons-with-placeholder")
	assert.Contains(t, lines[1], "Basic | Advanced")
	assert.Contains(t, lines[1], "or describe it")
	assert.Contains(t, lines[2], "placeholder-only")
}

func TestRunParse_BareButtons(t *testing.T) {
	out := run(t, &parseOptions{output: "plain", bareButtons: true})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "bare-button\t-\tContinue\t-\t-", lines[2])
}

func TestRunParse_JSON(t *testing.T) {
	out := run(t, &parseOptions{output: "json"})

	var got struct {
		Interactions []md.Interaction `json:"interactions"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Interactions, 2)
	assert.Equal(t, "level", got.Interactions[0].VariableName)
	assert.Equal(t, []string{"Basic", "Advanced"}, got.Interactions[0].ButtonTexts)
	assert.Equal(t, "type here", got.Interactions[1].Placeholder)
}

func TestRunParse_Canonical(t *testing.T) {
	out := run(t, &parseOptions{output: "table", canonical: true})
	assert.Equal(t, "?[%{{level}} Basic | Advanced | ...or describe it]\n?[%{{name}} ...type here]\n", out)
}

func TestRunParse_WarnsOnMalformedTag(t *testing.T) {
	var out bytes.Buffer
	opts := &parseOptions{output: "table", noColor: true, stdin: strings.NewReader("oops ?[%{{x}}"), stdout: &out}
	require.NoError(t, runParse(nil, opts, nil))

	assert.Contains(t, out.String(), "! malformed interactive tag")
	assert.Contains(t, out.String(), "No interactive tags found")
}

func TestRunParse_InvalidOutput(t *testing.T) {
	err := runParse(nil, &parseOptions{output: "xml"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}
