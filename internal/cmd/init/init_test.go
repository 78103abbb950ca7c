package init

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/mdflow/internal/config"
)

func TestRunInit_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mdflow", "config.yml")
	var out bytes.Buffer

	err := runInit(&initOptions{configPath: path, defaults: true, noColor: true, stdout: &out})
	require.NoError(t, err)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultTypingSpeedMS, cfg.TypingSpeedMS)
	assert.Equal(t, config.DefaultTheme, cfg.Theme)
	assert.Contains(t, out.String(), "✓ Configuration saved to "+path)
}

func TestRunInit_Form(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	form := func(cfg *config.Config) error {
		cfg.TypingSpeedMS = 15
		cfg.BareButtons = true
		cfg.Theme = "dark"
		return nil
	}
	require.NoError(t, runInit(&initOptions{configPath: path, stdout: &bytes.Buffer{}, form: form}))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.TypingSpeedMS)
	assert.True(t, cfg.BareButtons)
	assert.Equal(t, "dark", cfg.Theme)
}

func TestRunInit_FormError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	form := func(*config.Config) error { return errors.New("user aborted") }

	err := runInit(&initOptions{configPath: path, stdout: &bytes.Buffer{}, form: form})
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunInit_InvalidForm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	form := func(cfg *config.Config) error {
		cfg.Theme = "neon"
		return nil
	}

	err := runInit(&initOptions{configPath: path, stdout: &bytes.Buffer{}, form: form})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestRunInit_ExistingConfig(t *testing.T) {
	tests := []struct {
		name      string
		force     bool
		overwrite bool
		wantSpeed int
		wantAsked bool
	}{
		{"declined", false, false, 99, true},
		{"accepted", false, true, config.DefaultTypingSpeedMS, true},
		{"forced", true, false, config.DefaultTypingSpeedMS, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yml")
			require.NoError(t, (&config.Config{TypingSpeedMS: 99}).Save(path))

			asked := false
			opts := &initOptions{
				configPath: path,
				defaults:   true,
				force:      tt.force,
				stdout:     &bytes.Buffer{},
				confirm: func(string) (bool, error) {
					asked = true
					return tt.overwrite, nil
				},
			}
			require.NoError(t, runInit(opts))

			cfg, err := config.Load(path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSpeed, cfg.TypingSpeedMS)
			assert.Equal(t, tt.wantAsked, asked)
		})
	}
}

func TestValidateSpeed(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"80", false},
		{"1", false},
		{"0", true},
		{"-5", true},
		{"fast", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := validateSpeed(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
