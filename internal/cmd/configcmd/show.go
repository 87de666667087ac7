package configcmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/vial-keymap-cli/internal/config"
)

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the current vkc configuration with value source indicators.`,
		Example: `  # Show current config
  vkc config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			configPath, _ := cmd.Flags().GetString("config")
			return runShow(cmd.OutOrStdout(), configPath, noColor)
		},
	}

	return cmd
}

func runShow(w io.Writer, configPath string, noColor bool) error {
	if noColor {
		color.NoColor = true
	}
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}

	// Load file config (may not exist)
	fileCfg, fileErr := config.Load(configPath)
	if fileErr != nil {
		fileCfg = &config.Config{}
	}

	// Load full config with env overrides
	cfg, _ := config.LoadWithEnv(configPath)

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	printField := func(label, value, fileValue string, envVar string) {
		_, _ = bold.Fprintf(w, "%-14s", label+":")
		if value == "" {
			_, _ = dim.Fprintln(w, "-")
			return
		}
		fmt.Fprint(w, value)

		source := "config"
		if fileErr != nil || fileValue != value {
			source = "-"
		}
		if envVar != "" {
			if v := os.Getenv(envVar); v != "" && v == value {
				source = envVar
			}
		}
		_, _ = dim.Fprintf(w, "  (source: %s)\n", source)
	}

	autoConfirm := ""
	if cfg.AutoConfirm {
		autoConfirm = strconv.FormatBool(cfg.AutoConfirm)
	}
	fileAutoConfirm := ""
	if fileCfg.AutoConfirm {
		fileAutoConfirm = strconv.FormatBool(fileCfg.AutoConfirm)
	}

	printField("Keyboard dir", cfg.KeyboardDir, fileCfg.KeyboardDir, "VKC_KEYBOARD_DIR")
	printField("Keymap", cfg.Keymap, fileCfg.Keymap, "VKC_KEYMAP")
	printField("Layout", cfg.Layout, fileCfg.Layout, "VKC_LAYOUT")
	printField("Output", cfg.OutputFormat, fileCfg.OutputFormat, "")
	printField("Auto confirm", autoConfirm, fileAutoConfirm, "")

	fmt.Fprintln(w)
	_, _ = dim.Fprintf(w, "Config file: %s\n", configPath)
	if fileErr != nil {
		_, _ = dim.Fprintln(w, "(file not found)")
	}

	return nil
}
