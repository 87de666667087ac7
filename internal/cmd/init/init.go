// Package init provides the init command for vkc.
package init

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/vial-keymap-cli/internal/config"
	"github.com/open-cli-collective/vial-keymap-cli/internal/view"
	"github.com/open-cli-collective/vial-keymap-cli/internal/workspace"
	"github.com/open-cli-collective/vial-keymap-cli/pkg/keymap"
)

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	var noVerify bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize vkc configuration",
		Long: `Initialize vkc with the keyboard you want to edit.

This command will guide you through choosing a QMK keyboard directory
(the one containing keyboard.json), the keymap to edit and an optional
layout. The configuration will be saved to ~/.config/vkc/config.yml.

The keymap itself lives in <keyboard dir>/keymaps/<keymap>/keymap.c.`,
		Example: `  # Interactive setup
  vkc init

  # Pre-populate the keyboard directory
  vkc init --dir ~/qmk_firmware/keyboards/crkbd/rev1`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := &config.Config{}
			cfg.KeyboardDir, _ = cmd.Flags().GetString("dir")
			cfg.Keymap, _ = cmd.Flags().GetString("keymap")
			cfg.Layout, _ = cmd.Flags().GetString("layout")
			return runInit(cmd.Context(), cmd.OutOrStdout(), cfg, noVerify)
		},
	}

	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip loading the keymap before saving")

	return cmd
}

func runInit(ctx context.Context, w io.Writer, cfg *config.Config, noVerify bool) error {
	configPath := config.DefaultConfigPath()

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", configPath)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(w, "Initialization cancelled.")
			return nil
		}
	}

	if cfg.Keymap == "" {
		cfg.Keymap = config.DefaultKeymap
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = string(view.FormatTable)
	}

	formats := make([]huh.Option[string], 0, len(view.ValidFormats()))
	for _, f := range view.ValidFormats() {
		formats = append(formats, huh.NewOption(f, f))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Keyboard directory").
				Description("QMK keyboard directory containing keyboard.json").
				Placeholder("~/qmk_firmware/keyboards/crkbd/rev1").
				Value(&cfg.KeyboardDir).
				Validate(validateKeyboardDir),

			huh.NewInput().
				Title("Keymap").
				Description("Keymap directory name under keymaps/").
				Placeholder(config.DefaultKeymap).
				Value(&cfg.Keymap),

			huh.NewInput().
				Title("Layout (optional)").
				Description("keyboard.json layout to use; empty picks the one keymap.c uses").
				Placeholder("LAYOUT_split_3x6_3").
				Value(&cfg.Layout),

			huh.NewSelect[string]().
				Title("Output format").
				Options(formats...).
				Value(&cfg.OutputFormat),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	cfg.KeyboardDir = expandHome(cfg.KeyboardDir)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if !noVerify {
		fmt.Fprint(w, "Loading keymap... ")
		summary, err := verifyKeyboard(ctx, cfg)
		if err != nil {
			fmt.Fprintln(w, "failed!")
			return fmt.Errorf("keymap verification failed: %w", err)
		}
		fmt.Fprintln(w, summary)
	}

	if err := cfg.Save(configPath); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nConfiguration saved to %s\n", configPath)
	fmt.Fprintln(w, "\nYou're all set! Try running:")
	fmt.Fprintln(w, "  vkc keymap view")
	fmt.Fprintln(w, "  vkc tapdance list")

	return nil
}

func validateKeyboardDir(s string) error {
	if s == "" {
		return fmt.Errorf("keyboard directory is required")
	}
	info, err := os.Stat(filepath.Join(expandHome(s), "keyboard.json"))
	if err != nil {
		return fmt.Errorf("no keyboard.json in %s", s)
	}
	if info.IsDir() {
		return fmt.Errorf("keyboard.json in %s is a directory", s)
	}
	return nil
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// verifyKeyboard loads the configured keymap and describes what it found.
func verifyKeyboard(ctx context.Context, cfg *config.Config) (string, error) {
	paths := workspace.Paths{Dir: cfg.KeyboardDir, Keymap: cfg.KeymapName()}
	sess := workspace.NewSession(paths, keymap.ParseOptions{Layout: cfg.Layout}, nil)
	doc, err := sess.Load(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s with %d layers", doc.Layout.Name, len(doc.Layers)), nil
}
