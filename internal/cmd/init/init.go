// Package init provides the init command for mdflow.
package init

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdflow/internal/cmd/cmdutil"
	"github.com/open-cli-collective/mdflow/internal/config"
	"github.com/open-cli-collective/mdflow/internal/view"
)

type initOptions struct {
	configPath string
	defaults   bool
	force      bool
	noColor    bool

	stdout  io.Writer
	form    func(cfg *config.Config) error
	confirm func(path string) (bool, error)
}

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize mdflow configuration",
		Long: `Initialize mdflow with your preferred playback and rendering settings.

This command will guide you through choosing the typing speed, the terminal
theme and how interactive tags are handled. The configuration will be saved
to ~/.config/mdflow/config.yml.`,
		Example: `  # Interactive setup
  mdflow init

  # Write the defaults without prompting
  mdflow init --defaults --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.configPath = cmdutil.ConfigPath(cmd)
			opts.stdout = cmd.OutOrStdout()
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			return runInit(opts)
		},
	}

	cmd.Flags().BoolVar(&opts.defaults, "defaults", false, "Save the default settings without prompting")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing configuration without asking")

	return cmd
}

func runInit(opts *initOptions) error {
	configPath := opts.configPath
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}
	out := opts.stdout
	if out == nil {
		out = os.Stdout
	}
	confirm := opts.confirm
	if confirm == nil {
		confirm = confirmOverwrite
	}
	form := opts.form
	if form == nil {
		form = runForm
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil && !opts.force {
		overwrite, err := confirm(configPath)
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(out, "Initialization cancelled.")
			return nil
		}
	}

	cfg := &config.Config{}
	cfg.ApplyDefaults()

	if !opts.defaults {
		if err := form(cfg); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Save(configPath); err != nil {
		return err
	}

	renderer := view.NewRenderer(view.FormatTable, opts.noColor)
	renderer.SetWriter(out)

	fmt.Fprintln(out)
	renderer.Success("Configuration saved to " + configPath)
	fmt.Fprintln(out, "\nYou're all set! Try running:")
	fmt.Fprintln(out, "  mdflow render answer.md")
	fmt.Fprintln(out, "  mdflow play answer.md")

	return nil
}

func confirmOverwrite(path string) (bool, error) {
	var overwrite bool
	err := huh.NewConfirm().
		Title("Configuration already exists").
		Description(fmt.Sprintf("Overwrite %s?", path)).
		Value(&overwrite).
		Run()
	return overwrite, err
}

func runForm(cfg *config.Config) error {
	speed := strconv.Itoa(cfg.TypingSpeedMS)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Typing speed (ms per token)").
				Description("Delay between revealed characters during playback").
				Value(&speed).
				Validate(validateSpeed),

			huh.NewConfirm().
				Title("Disable the typewriter effect?").
				Description("Show streamed text as soon as it arrives").
				Value(&cfg.DisableTypewriter),

			huh.NewConfirm().
				Title("Recognize bare buttons?").
				Description("Treat ?[label] as a button with no variable").
				Value(&cfg.BareButtons),

			huh.NewConfirm().
				Title("Normalize escaped text?").
				Description(`Turn literal \n and \t sequences into real line breaks and tabs`).
				Value(&cfg.Normalize),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Terminal theme").
				Options(huh.NewOptions("auto", "dark", "light", "notty", "ascii")...).
				Value(&cfg.Theme),

			huh.NewSelect[string]().
				Title("Default output format").
				Options(huh.NewOptions("table", "json", "plain")...).
				Value(&cfg.OutputFormat),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	n, err := strconv.Atoi(speed)
	if err != nil {
		return fmt.Errorf("typing speed must be a number: %w", err)
	}
	cfg.TypingSpeedMS = n
	return nil
}

func validateSpeed(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("typing speed must be a whole number of milliseconds")
	}
	if n <= 0 {
		return fmt.Errorf("typing speed must be positive")
	}
	return nil
}
