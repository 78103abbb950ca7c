// Package cmdutil holds helpers shared by mdflow subcommands.
package cmdutil

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdflow/internal/config"
)

// ErrNoInput is returned when no file is named and stdin is a terminal.
var ErrNoInput = errors.New("no input: pass a file or pipe markdown on stdin")

// ReadInput reads the document named by args, or stdin when args is empty
// or "-".
func ReadInput(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), nil
	}

	if stdin == nil {
		stdin = os.Stdin
	}
	if f, ok := stdin.(*os.File); ok {
		// Refuse to block on an interactive terminal.
		if stat, err := f.Stat(); err == nil && stat.Mode()&os.ModeCharDevice != 0 {
			return "", ErrNoInput
		}
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

// ConfigPath returns the --config flag value or the default path.
func ConfigPath(cmd *cobra.Command) string {
	if cmd != nil {
		if path, _ := cmd.Flags().GetString("config"); path != "" {
			return path
		}
	}
	return config.DefaultConfigPath()
}

// LoadConfig loads and validates the configuration for cmd.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadWithEnv(ConfigPath(cmd))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w (run 'mdflow init' to recreate it)", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// GlobalFlags holds the persistent flags read by most subcommands.
type GlobalFlags struct {
	Output  string
	NoColor bool
}

// ReadGlobalFlags reads the persistent --output and --no-color flags.
func ReadGlobalFlags(cmd *cobra.Command) GlobalFlags {
	var g GlobalFlags
	g.Output, _ = cmd.Flags().GetString("output")
	g.NoColor, _ = cmd.Flags().GetBool("no-color")
	return g
}
