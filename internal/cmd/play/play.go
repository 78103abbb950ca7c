// Package play provides the play command.
package play

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdflow/internal/cmd/cmdutil"
	"github.com/open-cli-collective/mdflow/internal/config"
	"github.com/open-cli-collective/mdflow/internal/view"
	"github.com/open-cli-collective/mdflow/pkg/md"
	"github.com/open-cli-collective/mdflow/pkg/typewriter"
)

// promptFunc asks the user to answer one interaction.
type promptFunc func(in *md.Interaction) (md.Answer, error)

type playOptions struct {
	chunkSize    int
	chunkDelay   time.Duration
	speed        time.Duration
	noTypewriter bool
	render       bool
	interactive  bool
	bareButtons  bool
	isTTY        bool

	stdin    io.Reader
	stdout   io.Writer
	schedule typewriter.ScheduleFunc
	prompt   promptFunc
}

// NewCmdPlay creates the play command.
func NewCmdPlay() *cobra.Command {
	opts := &playOptions{}

	cmd := &cobra.Command{
		Use:   "play [file]",
		Short: "Play a document back with the typewriter effect",
		Long: `Simulate a streaming reply: the document is fed in chunks, as a chat
backend would deliver it, and revealed one token per tick.

Formatted constructs (bold, code, links, interactive tags) appear all at once,
never half-typed. The typewriter is turned off when stdout is not a terminal.

With --interactive, every interactive tag is presented as a prompt once the
reveal has finished and the answers are printed as JSON.`,
		Example: `  # Play a document
  mdflow play answer.md

  # Slow stream, fast typing
  mdflow play answer.md --chunk-size 4 --chunk-delay 200ms --speed 10ms

  # Answer the buttons afterwards
  mdflow play answer.md --interactive`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmdutil.ReadGlobalFlags(cmd).NoColor {
				color.NoColor = true
			}
			cfg, err := cmdutil.LoadConfig(cmd)
			if err != nil {
				return err
			}
			applyConfig(cmd, opts, cfg)
			opts.stdin = cmd.InOrStdin()
			opts.stdout = cmd.OutOrStdout()
			opts.isTTY = view.IsTerminal(os.Stdout)
			return runPlay(cmd.Context(), args, opts, cfg)
		},
	}

	cmd.Flags().IntVar(&opts.chunkSize, "chunk-size", config.DefaultChunkSize, "Bytes delivered per simulated stream chunk")
	cmd.Flags().DurationVar(&opts.chunkDelay, "chunk-delay", time.Duration(config.DefaultChunkDelayMS)*time.Millisecond, "Delay between stream chunks")
	cmd.Flags().DurationVar(&opts.speed, "speed", typewriter.DefaultDelay, "Delay between revealed tokens")
	cmd.Flags().BoolVar(&opts.noTypewriter, "no-typewriter", false, "Show each chunk at once")
	cmd.Flags().BoolVar(&opts.render, "render", false, "Render the finished document for the terminal")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "Prompt for every interactive tag after playback")
	cmd.Flags().BoolVar(&opts.bareButtons, "bare-buttons", false, "Also treat ?[label] as a button")

	return cmd
}

// applyConfig fills flags the user did not set from the config file.
func applyConfig(cmd *cobra.Command, opts *playOptions, cfg *config.Config) {
	if !cmd.Flags().Changed("chunk-size") {
		opts.chunkSize = cfg.ChunkSize
	}
	if !cmd.Flags().Changed("chunk-delay") {
		opts.chunkDelay = cfg.ChunkDelay()
	}
	if !cmd.Flags().Changed("speed") {
		opts.speed = cfg.TypingSpeed()
	}
	if !cmd.Flags().Changed("no-typewriter") {
		opts.noTypewriter = cfg.DisableTypewriter
	}
	if !cmd.Flags().Changed("bare-buttons") {
		opts.bareButtons = cfg.BareButtons
	}
}

func runPlay(ctx context.Context, args []string, opts *playOptions, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg == nil {
		cfg = &config.Config{}
		cfg.ApplyDefaults()
	}
	if opts.interactive && len(args) == 0 && opts.prompt == nil {
		return errors.New("--interactive reads answers from the terminal: pass the document as a file")
	}

	input, err := cmdutil.ReadInput(args, opts.stdin)
	if err != nil {
		return err
	}
	if cfg.Normalize {
		input = md.Normalize(input)
	}

	w := opts.stdout
	if w == nil {
		w = os.Stdout
	}

	printer := &framePrinter{w: w}
	sched := typewriter.New(md.NewSession(),
		typewriter.WithDelay(opts.speed),
		typewriter.WithDisabled(opts.noTypewriter || !opts.isTTY),
		typewriter.WithSchedule(opts.schedule),
		typewriter.WithLogger(slog.Default()),
		typewriter.OnFrame(printer.print),
	)
	defer sched.Stop()

	if err := stream(ctx, sched, input, opts.chunkSize, opts.chunkDelay); err != nil {
		return err
	}
	sched.Finish()
	if err := sched.Wait(ctx); err != nil {
		return fmt.Errorf("playback interrupted: %w", err)
	}
	// Stop takes the scheduler lock, so no frame is written after it returns.
	sched.Stop()
	printer.finish()

	if opts.render {
		r, err := view.NewMarkdownRenderer(cfg.Theme, view.TerminalWidth(os.Stdout))
		if err != nil {
			return err
		}
		out, err := r.Render(input, md.ConvertOptions{BareButtons: opts.bareButtons}.Matcher())
		if err != nil {
			return err
		}
		fmt.Fprint(w, out)
	}

	if opts.interactive {
		return answer(w, input, opts)
	}
	return nil
}

// stream feeds input to sched in chunks of size bytes, pausing delay
// between chunks.
func stream(ctx context.Context, sched *typewriter.Scheduler, input string, size int, delay time.Duration) error {
	if size <= 0 || size >= len(input) {
		sched.Update(input)
		return nil
	}

	for end := size; ; end += size {
		end = min(end, len(input))
		sched.Update(input[:end])
		if end == len(input) {
			return nil
		}
		if delay <= 0 {
			continue
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// framePrinter writes the growth of the display text. A frame that is not an
// extension of what was printed starts over on a new line.
type framePrinter struct {
	w       io.Writer
	printed string
}

func (p *framePrinter) print(f typewriter.Frame) {
	if strings.HasPrefix(f.DisplayText, p.printed) {
		_, _ = io.WriteString(p.w, f.DisplayText[len(p.printed):])
	} else {
		_, _ = io.WriteString(p.w, "\n"+f.DisplayText)
	}
	p.printed = f.DisplayText
}

func (p *framePrinter) finish() {
	if p.printed != "" && !strings.HasSuffix(p.printed, "\n") {
		_, _ = io.WriteString(p.w, "\n")
	}
}

func answer(w io.Writer, input string, opts *playOptions) error {
	prompt := opts.prompt
	if prompt == nil {
		prompt = huhPrompt
	}

	renderer := view.NewRenderer(view.FormatJSON, color.NoColor)
	renderer.SetWriter(w)

	m := md.ConvertOptions{BareButtons: opts.bareButtons}.Matcher()
	answers := []md.Answer{}
	for _, in := range m.Parse(input).Interactions() {
		a, err := prompt(in)
		if errors.Is(err, huh.ErrUserAborted) {
			renderer.Error(fmt.Sprintf("Answering cancelled (%d answered)", len(answers)))
			return nil
		}
		if err != nil {
			return fmt.Errorf("prompt failed: %w", err)
		}
		answers = append(answers, a)
	}

	return renderer.RenderJSON(answers)
}

// otherChoice selects the free-text input in a button prompt.
const otherChoice = -1

func huhPrompt(in *md.Interaction) (md.Answer, error) {
	title := in.VariableName
	if title == "" {
		title = "Continue?"
	}

	if len(in.ButtonTexts) > 0 {
		options := make([]huh.Option[int], 0, len(in.ButtonTexts)+1)
		for i, text := range in.ButtonTexts {
			options = append(options, huh.NewOption(text, i))
		}
		if in.HasInput() {
			options = append(options, huh.NewOption(in.Placeholder+"...", otherChoice))
		}

		choice := 0
		err := huh.NewSelect[int]().
			Title(title).
			Options(options...).
			Value(&choice).
			Run()
		if err != nil {
			return md.Answer{}, err
		}
		if choice != otherChoice {
			return in.Press(choice), nil
		}
	}

	var text string
	err := huh.NewInput().
		Title(title).
		Placeholder(in.Placeholder).
		Value(&text).
		Run()
	if err != nil {
		return md.Answer{}, err
	}
	return in.Submit(text), nil
}
