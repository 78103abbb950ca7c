package configcmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdflow/internal/cmd/cmdutil"
	"github.com/open-cli-collective/mdflow/internal/config"
)

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the effective mdflow configuration with the source of each value.`,
		Example: `  # Show current config
  mdflow config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runShow(cmdutil.ConfigPath(cmd), cmd.OutOrStdout(), noColor)
		},
	}

	return cmd
}

type field struct {
	label  string
	value  string
	file   string
	envVar string
}

func runShow(configPath string, w io.Writer, noColor bool) error {
	if noColor {
		color.NoColor = true
	}

	// Load file config (may not exist)
	fileCfg, fileErr := config.Load(configPath)
	if fileErr != nil {
		fileCfg = &config.Config{}
	}

	// Load full config with env overrides and defaults
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	fields := []field{
		{"Typing speed", strconv.Itoa(cfg.TypingSpeedMS) + "ms", msOrEmpty(fileCfg.TypingSpeedMS), "MDFLOW_TYPING_SPEED_MS"},
		{"Typewriter", onOff(!cfg.DisableTypewriter), onOffIf(fileCfg.DisableTypewriter, !fileCfg.DisableTypewriter), "MDFLOW_DISABLE_TYPEWRITER"},
		{"Bare buttons", onOff(cfg.BareButtons), onOffIf(fileCfg.BareButtons, fileCfg.BareButtons), "MDFLOW_BARE_BUTTONS"},
		{"Normalize", onOff(cfg.Normalize), onOffIf(fileCfg.Normalize, fileCfg.Normalize), "MDFLOW_NORMALIZE"},
		{"Output", cfg.OutputFormat, fileCfg.OutputFormat, "MDFLOW_OUTPUT_FORMAT"},
		{"Theme", cfg.Theme, fileCfg.Theme, "MDFLOW_THEME"},
		{"Chunk size", strconv.Itoa(cfg.ChunkSize), intOrEmpty(fileCfg.ChunkSize), "MDFLOW_CHUNK_SIZE"},
		{"Chunk delay", strconv.Itoa(cfg.ChunkDelayMS) + "ms", msOrEmpty(fileCfg.ChunkDelayMS), "MDFLOW_CHUNK_DELAY_MS"},
	}

	for _, f := range fields {
		_, _ = bold.Fprintf(w, "%-14s", f.label+":")
		fmt.Fprint(w, f.value)

		source := "default"
		switch {
		case os.Getenv(f.envVar) != "":
			source = f.envVar
		case f.file != "":
			source = "config"
		}
		_, _ = dim.Fprintf(w, "  (source: %s)\n", source)
	}

	fmt.Fprintln(w)
	_, _ = dim.Fprintf(w, "Config file: %s\n", configPath)
	if fileErr != nil {
		_, _ = dim.Fprintln(w, "(file not found)")
	}

	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// onOffIf returns the on/off text when set is true, else "".
// Booleans are omitted from the file when false, so only true is a file value.
func onOffIf(set, value bool) string {
	if !set {
		return ""
	}
	return onOff(value)
}

func intOrEmpty(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func msOrEmpty(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n) + "ms"
}
