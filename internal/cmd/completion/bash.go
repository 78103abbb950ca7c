package completion

import (
	"github.com/spf13/cobra"
)

// NewCmdBash creates the bash completion command.
func NewCmdBash() *cobra.Command {
	return &cobra.Command{
		Use:   "bash",
		Short: "Generate bash completion script",
		Long: `Generate bash completion script for mdflow.

To load completions in your current shell session:

  source <(mdflow completion bash)

To load completions for every new session:

  # Linux
  mdflow completion bash > /etc/bash_completion.d/mdflow

  # macOS (requires bash-completion)
  mdflow completion bash > $(brew --prefix)/etc/bash_completion.d/mdflow`,
		Example: `  # Load in current session
  source <(mdflow completion bash)

  # Install permanently (Linux)
  mdflow completion bash | sudo tee /etc/bash_completion.d/mdflow > /dev/null

  # Install permanently (macOS with Homebrew)
  mdflow completion bash > $(brew --prefix)/etc/bash_completion.d/mdflow`,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
		},
	}
}
