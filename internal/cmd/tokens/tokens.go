// Package tokens provides the tokens command.
package tokens

import (
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdflow/internal/cmd/cmdutil"
	"github.com/open-cli-collective/mdflow/internal/view"
	"github.com/open-cli-collective/mdflow/pkg/md"
)

type tokensOptions struct {
	chunk   int
	noFlush bool
	output  string
	noColor bool

	stdin  io.Reader
	stdout io.Writer
}

// tokensOutput is the JSON shape of the tokens command.
type tokensOutput struct {
	Tokens   []md.RevealToken `json:"tokens"`
	Mode     string           `json:"mode"`
	Buffered string           `json:"buffered,omitempty"`
}

// NewCmdTokens creates the tokens command.
func NewCmdTokens() *cobra.Command {
	opts := &tokensOptions{}

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Show the typewriter reveal tokens of a document",
		Long: `Split a document into reveal tokens the way a streaming session does.

Plain characters become one token each. Code blocks, inline code, bold,
italic, links and interactive tags become a single atomic token.

With --chunk the input is fed in pieces of that many bytes, as if it arrived
from a stream. The token list is the same for every chunk size.`,
		Example: `  # Tokenize a file
  mdflow tokens answer.md

  # Feed 3 bytes at a time and keep the stream open
  mdflow tokens answer.md --chunk 3 --no-flush -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g := cmdutil.ReadGlobalFlags(cmd)
			opts.output = g.Output
			opts.noColor = g.NoColor
			opts.stdin = cmd.InOrStdin()
			opts.stdout = cmd.OutOrStdout()
			return runTokens(args, opts)
		},
	}

	cmd.Flags().IntVar(&opts.chunk, "chunk", 0, "Feed the input in chunks of N bytes (0 feeds it at once)")
	cmd.Flags().BoolVar(&opts.noFlush, "no-flush", false, "Do not finalize the stream; show what is still buffered")

	return cmd
}

func runTokens(args []string, opts *tokensOptions) error {
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}

	input, err := cmdutil.ReadInput(args, opts.stdin)
	if err != nil {
		return err
	}

	session := feed(input, opts.chunk)
	if !opts.noFlush {
		session.Finalize()
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	if opts.stdout != nil {
		renderer.SetWriter(opts.stdout)
	} else {
		renderer.SetWriter(os.Stdout)
	}

	tokens := session.Tokens()
	state := session.State()

	if opts.output == "json" {
		if tokens == nil {
			tokens = []md.RevealToken{}
		}
		return renderer.RenderJSON(tokensOutput{
			Tokens:   tokens,
			Mode:     state.Mode.String(),
			Buffered: state.Buffered(),
		})
	}

	headers := []string{"#", "KIND", "SUBTYPE", "CONTENT"}
	rows := make([][]string, 0, len(tokens))
	for i, tok := range tokens {
		subtype := string(tok.Subtype)
		if subtype == "" {
			subtype = "-"
		}
		rows = append(rows, []string{
			strconv.Itoa(i),
			tok.Kind.String(),
			subtype,
			strconv.Quote(tok.Content),
		})
	}
	renderer.RenderTable(headers, rows)

	if buffered := state.Buffered(); buffered != "" && opts.output != "plain" {
		renderer.Warning("buffered (" + state.Mode.String() + "): " + strconv.Quote(buffered))
	}
	return nil
}

// feed grows a session the way a streaming source would: every update passes
// the full text received so far.
func feed(input string, chunk int) *md.Session {
	session := md.NewSession()
	if chunk <= 0 {
		session.Update(input)
		return session
	}

	for end := chunk; ; end += chunk {
		if end > len(input) {
			end = len(input)
		}
		res := session.Update(input[:end])
		slog.Debug("chunk fed", "end", end, "appended", res.Appended)
		if end == len(input) {
			break
		}
	}
	return session
}
