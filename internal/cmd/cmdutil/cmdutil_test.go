package cmdutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/mdflow/internal/config"
)

func TestReadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("from file"), 0644))

	tests := []struct {
		name  string
		args  []string
		stdin string
		want  string
	}{
		{"file argument", []string{path}, "ignored", "from file"},
		{"no argument reads stdin", nil, "from stdin", "from stdin"},
		{"dash reads stdin", []string{"-"}, "dash stdin", "dash stdin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadInput(tt.args, strings.NewReader(tt.stdin))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadInput_MissingFile(t *testing.T) {
	_, err := ReadInput([]string{filepath.Join(t.TempDir(), "nope.md")}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("config", "", "")
	cmd.Flags().StringP("output", "o", "table", "")
	cmd.Flags().Bool("no-color", false, "")
	return cmd
}

func TestLoadConfig_FromFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, (&config.Config{TypingSpeedMS: 12, Theme: "dark"}).Save(path))
	t.Setenv("MDFLOW_TYPING_SPEED_MS", "")

	cmd := newTestCmd()
	require.NoError(t, cmd.Flags().Set("config", path))

	cfg, err := LoadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.TypingSpeedMS)
	assert.Equal(t, "dark", cfg.Theme)
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("theme: neon\n"), 0644))
	t.Setenv("MDFLOW_THEME", "")

	cmd := newTestCmd()
	require.NoError(t, cmd.Flags().Set("config", path))

	_, err := LoadConfig(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestReadGlobalFlags(t *testing.T) {
	cmd := newTestCmd()
	require.NoError(t, cmd.Flags().Set("output", "json"))
	require.NoError(t, cmd.Flags().Set("no-color", "true"))

	g := ReadGlobalFlags(cmd)
	assert.Equal(t, "json", g.Output)
	assert.True(t, g.NoColor)
}
