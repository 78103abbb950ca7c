package root

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/mdflow/internal/config"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	for _, v := range config.EnvVars() {
		t.Setenv(v, "")
	}

	cmd := NewCmdRoot()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "config.yml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestNewCmdRoot_Subcommands(t *testing.T) {
	cmd := NewCmdRoot()

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"init", "render", "parse", "tokens", "play", "config", "completion"} {
		assert.Contains(t, names, want)
	}
}

func TestRoot_Render(t *testing.T) {
	out, err := execute(t, "Hi ?[%{{x}} A | B]", "render", "--format", "html")
	require.NoError(t, err)
	assert.Contains(t, out, `<custom-variable data-variable-name="x"`)
}

func TestRoot_Tokens(t *testing.T) {
	out, err := execute(t, "a*b*", "tokens", "-o", "json", "--chunk", "1")
	require.NoError(t, err)

	var got struct {
		Tokens []struct {
			Content string `json:"content"`
			Kind    string `json:"kind"`
		} `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Tokens, 2)
	assert.Equal(t, "*b*", got.Tokens[1].Content)
	assert.Equal(t, "atomic", got.Tokens[1].Kind)
}

func TestRoot_InvalidLogLevel(t *testing.T) {
	_, err := execute(t, "", "tokens", "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestRoot_InvalidOutput(t *testing.T) {
	_, err := execute(t, "x", "parse", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}
