// Package parse provides the parse command.
package parse

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdflow/internal/cmd/cmdutil"
	"github.com/open-cli-collective/mdflow/internal/config"
	"github.com/open-cli-collective/mdflow/internal/view"
	"github.com/open-cli-collective/mdflow/pkg/md"
)

type parseOptions struct {
	bareButtons bool
	normalize   bool
	canonical   bool
	output      string
	noColor     bool

	stdin  io.Reader
	stdout io.Writer
}

// parseOutput is the JSON shape of the parse command.
type parseOutput struct {
	Interactions []*md.Interaction `json:"interactions"`
	Warnings     []string          `json:"warnings,omitempty"`
}

// NewCmdParse creates the parse command.
func NewCmdParse() *cobra.Command {
	opts := &parseOptions{}

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "List the interactive tags in a document",
		Long: `Parse a markdown document and list every interactive tag it contains,
with its variant, variable name, buttons and placeholder.

Malformed tags are left as text and reported as warnings.`,
		Example: `  # List interactions
  mdflow parse answer.md

  # As JSON
  mdflow parse answer.md -o json

  # Print each tag in canonical form
  mdflow parse answer.md --canonical`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g := cmdutil.ReadGlobalFlags(cmd)
			opts.output = g.Output
			opts.noColor = g.NoColor
			cfg, err := cmdutil.LoadConfig(cmd)
			if err != nil {
				return err
			}
			opts.stdin = cmd.InOrStdin()
			opts.stdout = cmd.OutOrStdout()
			return runParse(args, opts, cfg)
		},
	}

	cmd.Flags().BoolVar(&opts.bareButtons, "bare-buttons", false, "Also recognize ?[label] buttons")
	cmd.Flags().BoolVar(&opts.normalize, "normalize", false, "Unescape and tidy the text before parsing")
	cmd.Flags().BoolVar(&opts.canonical, "canonical", false, "Print each tag rebuilt in canonical form")

	return cmd
}

func runParse(args []string, opts *parseOptions, cfg *config.Config) error {
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	input, err := cmdutil.ReadInput(args, opts.stdin)
	if err != nil {
		return err
	}

	convertOpts := md.ConvertOptions{
		BareButtons: opts.bareButtons || cfg.BareButtons,
		Normalize:   opts.normalize || cfg.Normalize,
	}
	if convertOpts.Normalize {
		input = md.Normalize(input)
	}
	result := convertOpts.Matcher().Parse(input)
	interactions := result.Interactions()

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	if opts.stdout != nil {
		renderer.SetWriter(opts.stdout)
	} else {
		renderer.SetWriter(os.Stdout)
	}

	if opts.output == "json" {
		if interactions == nil {
			interactions = []*md.Interaction{}
		}
		return renderer.RenderJSON(parseOutput{Interactions: interactions, Warnings: result.Warnings})
	}

	if opts.canonical {
		for _, in := range interactions {
			renderer.RenderText(md.RenderInteractionMarkup(in))
		}
	} else {
		headers := []string{"VARIANT", "VARIABLE", "BUTTONS", "VALUES", "PLACEHOLDER"}
		var rows [][]string
		for _, in := range interactions {
			rows = append(rows, []string{
				in.Variant.String(),
				orDash(in.VariableName),
				orDash(strings.Join(in.ButtonTexts, " | ")),
				orDash(strings.Join(in.ButtonValues, " | ")),
				orDash(in.Placeholder),
			})
		}
		renderer.RenderTable(headers, rows)
	}

	for _, w := range result.Warnings {
		renderer.Warning(w)
	}
	if len(interactions) == 0 && opts.output != "plain" {
		renderer.RenderText(fmt.Sprintf("No interactive tags found (%d bytes scanned)", len(input)))
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
