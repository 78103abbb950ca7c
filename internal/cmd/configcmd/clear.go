package configcmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdflow/internal/cmd/cmdutil"
	"github.com/open-cli-collective/mdflow/internal/config"
	"github.com/open-cli-collective/mdflow/internal/view"
)

// NewCmdClear creates the config clear command.
func NewCmdClear() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove stored configuration",
		Long:  `Delete the mdflow configuration file. Environment variables will still be used if set.`,
		Example: `  # Clear config
  mdflow config clear`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runClear(cmdutil.ConfigPath(cmd), cmd.OutOrStdout(), noColor)
		},
	}

	return cmd
}

func runClear(configPath string, w io.Writer, noColor bool) error {
	renderer := view.NewRenderer(view.FormatTable, noColor)
	renderer.SetWriter(w)

	err := os.Remove(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove config file: %w", err)
	}

	if os.IsNotExist(err) {
		renderer.Success("No config file to remove")
	} else {
		renderer.Success("Configuration cleared from " + configPath)
	}

	dim := color.New(color.Faint)

	// Check if env vars are set
	var activeVars []string
	for _, v := range config.EnvVars() {
		if os.Getenv(v) != "" {
			activeVars = append(activeVars, v)
		}
	}

	if len(activeVars) > 0 {
		_, _ = dim.Fprintf(w, "\nNote: Environment variables will still be used: %v\n", activeVars)
	}

	return nil
}
