// Package root provides the root command for the mdflow CLI.
package root

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdflow/internal/cmd/completion"
	"github.com/open-cli-collective/mdflow/internal/cmd/configcmd"
	initcmd "github.com/open-cli-collective/mdflow/internal/cmd/init"
	"github.com/open-cli-collective/mdflow/internal/cmd/parse"
	"github.com/open-cli-collective/mdflow/internal/cmd/play"
	"github.com/open-cli-collective/mdflow/internal/cmd/render"
	"github.com/open-cli-collective/mdflow/internal/cmd/tokens"
	"github.com/open-cli-collective/mdflow/internal/logging"
	"github.com/open-cli-collective/mdflow/internal/version"
)

// NewCmdRoot creates the root command for mdflow.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mdflow",
		Short: "Render and play back chat markdown with interactive controls",
		Long: `mdflow renders the markdown of chat replies that embed interactive
controls, such as ?[%{{level}} Basic | Advanced | ...other], and plays
streamed replies back with a typewriter effect that never shows a
half-typed construct.

Get started by running: mdflow render --help`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			levelFlag, _ := cmd.Flags().GetString("log-level")
			level, err := logging.ParseLevel(levelFlag)
			if err != nil {
				return err
			}
			slog.SetDefault(logging.New(level))
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/mdflow/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "table", "output format: table, json, plain")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	cmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")

	// Set version template
	cmd.SetVersionTemplate("mdflow version {{.Version}} (commit: " + version.Commit + ", built: " + version.Date + ")\n")

	// Subcommands
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(render.NewCmdRender())
	cmd.AddCommand(parse.NewCmdParse())
	cmd.AddCommand(tokens.NewCmdTokens())
	cmd.AddCommand(play.NewCmdPlay())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(completion.NewCmdCompletion())

	return cmd
}
