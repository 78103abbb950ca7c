package completion

import (
	"github.com/spf13/cobra"
)

// NewCmdFish creates the fish completion command.
func NewCmdFish() *cobra.Command {
	return &cobra.Command{
		Use:   "fish",
		Short: "Generate fish completion script",
		Long: `Generate fish completion script for mdflow.

To load completions in your current shell session:

  mdflow completion fish | source

To load completions for every new session:

  mdflow completion fish > ~/.config/fish/completions/mdflow.fish`,
		Example: `  # Load in current session
  mdflow completion fish | source

  # Install permanently
  mdflow completion fish > ~/.config/fish/completions/mdflow.fish`,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
		},
	}
}
