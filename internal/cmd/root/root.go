// Package root provides the root command for the vkc CLI.
package root

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/vial-keymap-cli/internal/cmd/combo"
	"github.com/open-cli-collective/vial-keymap-cli/internal/cmd/completion"
	"github.com/open-cli-collective/vial-keymap-cli/internal/cmd/configcmd"
	"github.com/open-cli-collective/vial-keymap-cli/internal/cmd/encoder"
	"github.com/open-cli-collective/vial-keymap-cli/internal/cmd/export"
	initcmd "github.com/open-cli-collective/vial-keymap-cli/internal/cmd/init"
	"github.com/open-cli-collective/vial-keymap-cli/internal/cmd/keymapcmd"
	"github.com/open-cli-collective/vial-keymap-cli/internal/cmd/macro"
	"github.com/open-cli-collective/vial-keymap-cli/internal/cmd/override"
	"github.com/open-cli-collective/vial-keymap-cli/internal/cmd/resize"
	"github.com/open-cli-collective/vial-keymap-cli/internal/cmd/settings"
	"github.com/open-cli-collective/vial-keymap-cli/internal/cmd/tapdance"
	"github.com/open-cli-collective/vial-keymap-cli/internal/version"
)

// NewCmdRoot creates the root command for vkc.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vkc",
		Short: "A command-line editor for Vial keymaps",
		Long: `vkc edits the keymap.c of a Vial-enabled QMK keyboard.

It parses layers, encoders, tap dances, combos, key overrides, macros
and QMK settings, lets you change them from the command line and
regenerates keymap.c, config.h, rules.mk and keyboard.json.

Get started by running: vkc init`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			slog.SetDefault(newLogger(verbose))
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/vkc/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "", "output format: table, json, plain (default: table)")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	cmd.PersistentFlags().StringP("dir", "d", "", "QMK keyboard directory (overrides config)")
	cmd.PersistentFlags().StringP("keymap", "k", "", "keymap name under keymaps/ (default: vial)")
	cmd.PersistentFlags().String("layout", "", "keyboard.json layout to edit against")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "log parser details to stderr")

	// Set version template
	cmd.SetVersionTemplate("vkc version {{.Version}} (" + version.String() + ")\n")

	// Subcommands
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(keymapcmd.NewCmdKeymap())
	cmd.AddCommand(resize.NewCmdResize())
	cmd.AddCommand(tapdance.NewCmdTapDance())
	cmd.AddCommand(combo.NewCmdCombo())
	cmd.AddCommand(override.NewCmdOverride())
	cmd.AddCommand(encoder.NewCmdEncoder())
	cmd.AddCommand(macro.NewCmdMacro())
	cmd.AddCommand(settings.NewCmdSettings())
	cmd.AddCommand(export.NewCmdExport())
	cmd.AddCommand(completion.NewCmdCompletion())

	return cmd
}

// newLogger logs warnings to stderr, or everything with verbose set.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
