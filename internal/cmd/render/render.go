// Package render provides the render command.
package render

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdflow/internal/cmd/cmdutil"
	"github.com/open-cli-collective/mdflow/internal/config"
	"github.com/open-cli-collective/mdflow/internal/view"
	"github.com/open-cli-collective/mdflow/pkg/md"
)

type renderOptions struct {
	format      string
	normalize   bool
	fromHTML    bool
	bareButtons bool
	width       int

	stdin  io.Reader
	stdout io.Writer
	isTTY  bool
}

// NewCmdRender creates the render command.
func NewCmdRender() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render markdown with interactive tags",
		Long: `Render a markdown document, converting interactive tags such as
?[%{{name}} Yes | No | ...other] into controls.

Formats:
  html      HTML with <custom-variable> elements
  json      a JSON document tree with "interaction" nodes
  terminal  styled output for the terminal
  plain     plain text with inline button rows

Without --format, terminal is used when stdout is a terminal and html otherwise.`,
		Example: `  # Render to the terminal
  mdflow render answer.md

  # Produce HTML from stdin
  cat answer.md | mdflow render --format html

  # Convert an HTML page and render it as a JSON tree
  mdflow render page.html --from-html --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmdutil.ReadGlobalFlags(cmd).NoColor {
				color.NoColor = true
			}
			cfg, err := cmdutil.LoadConfig(cmd)
			if err != nil {
				return err
			}
			opts.stdin = cmd.InOrStdin()
			opts.stdout = cmd.OutOrStdout()
			opts.isTTY = view.IsTerminal(os.Stdout)
			return runRender(args, opts, cfg)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format: "+strings.Join(view.ValidDocumentFormats(), ", "))
	cmd.Flags().BoolVar(&opts.normalize, "normalize", false, "Unescape and tidy the text before rendering")
	cmd.Flags().BoolVar(&opts.fromHTML, "from-html", false, "Treat the input as HTML and convert it to markdown first")
	cmd.Flags().BoolVar(&opts.bareButtons, "bare-buttons", false, "Also render ?[label] as a button")
	cmd.Flags().IntVarP(&opts.width, "width", "w", 0, "Wrap width for terminal and plain output (default: terminal width)")

	return cmd
}

func runRender(args []string, opts *renderOptions, cfg *config.Config) error {
	if cfg == nil {
		cfg = &config.Config{}
		cfg.ApplyDefaults()
	}

	format := opts.format
	if format == "" {
		format = string(view.DocumentHTML)
		if opts.isTTY {
			format = string(view.DocumentTerminal)
		}
	}
	if err := view.ValidateDocumentFormat(format); err != nil {
		return err
	}

	input, err := cmdutil.ReadInput(args, opts.stdin)
	if err != nil {
		return err
	}
	if opts.fromHTML {
		input, err = md.FromHTML(input)
		if err != nil {
			return fmt.Errorf("failed to convert HTML: %w", err)
		}
	}

	convertOpts := md.ConvertOptions{
		BareButtons: opts.bareButtons || cfg.BareButtons,
		Normalize:   opts.normalize || cfg.Normalize,
	}

	out, err := renderDocument(input, view.DocumentFormat(format), convertOpts, opts, cfg)
	if err != nil {
		return err
	}

	w := opts.stdout
	if w == nil {
		w = os.Stdout
	}
	_, err = io.WriteString(w, out)
	return err
}

func renderDocument(input string, format view.DocumentFormat, convertOpts md.ConvertOptions, opts *renderOptions, cfg *config.Config) (string, error) {
	width := opts.width
	if width <= 0 {
		width = view.TerminalWidth(os.Stdout)
	}

	text := input
	if convertOpts.Normalize {
		text = md.Normalize(input)
	}
	result := convertOpts.Matcher().Parse(text)
	for _, w := range result.Warnings {
		slog.Warn(w)
	}

	switch format {
	case view.DocumentJSON:
		data, err := md.ToJSON([]byte(input), convertOpts)
		if err != nil {
			return "", fmt.Errorf("failed to encode document: %w", err)
		}
		return data + "\n", nil

	case view.DocumentTerminal:
		r, err := view.NewMarkdownRenderer(cfg.Theme, width)
		if err != nil {
			return "", err
		}
		return r.Render(text, convertOpts.Matcher())

	case view.DocumentPlain:
		return view.Wrap(md.RenderSegments(result, view.InteractionText), width) + "\n", nil

	default:
		html, err := md.ToHTMLWithOptions([]byte(input), convertOpts)
		if err != nil {
			return "", fmt.Errorf("failed to render HTML: %w", err)
		}
		return html, nil
	}
}
