package configcmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/mdflow/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range config.EnvVars() {
		t.Setenv(v, "")
	}
}

func TestRunShow_WithConfigFile(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yml")

	cfg := &config.Config{
		TypingSpeedMS: 25,
		BareButtons:   true,
		Theme:         "dark",
	}
	require.NoError(t, cfg.Save(configPath))

	var buf bytes.Buffer
	require.NoError(t, runShow(configPath, &buf, true))

	out := buf.String()
	assert.Contains(t, out, "Typing speed: 25ms  (source: config)")
	assert.Contains(t, out, "Bare buttons: on  (source: config)")
	assert.Contains(t, out, "Theme:        dark  (source: config)")
	assert.Contains(t, out, "Chunk size:   8  (source: default)")
	assert.NotContains(t, out, "file not found")
}

func TestRunShow_EnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("MDFLOW_THEME", "light")

	var buf bytes.Buffer
	require.NoError(t, runShow(filepath.Join(t.TempDir(), "config.yml"), &buf, true))

	out := buf.String()
	assert.Contains(t, out, "Theme:        light  (source: MDFLOW_THEME)")
	assert.Contains(t, out, "(file not found)")
}
