// Package settings provides the quantum settings commands.
package settings

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/vial-keymap-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/vial-keymap-cli/pkg/keymap"
)

// NewCmdSettings creates the settings command.
func NewCmdSettings() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "settings",
		Aliases: []string{"qmk-settings", "qs"},
		Short:   "Manage quantum settings",
		Long: `Commands for the firmware settings Vial exposes as QMK settings.

Upper-case settings are stored as #define lines in config.h, dotted ones as
nested fields of keyboard.json. A setting without a value uses the firmware
default.`,
	}

	cmd.AddCommand(NewCmdList())
	cmd.AddCommand(NewCmdSet())
	cmd.AddCommand(NewCmdUnset())
	cmd.AddCommand(NewCmdReset())

	return cmd
}

// NewCmdList creates the settings list command.
func NewCmdList() *cobra.Command {
	var explicit bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List quantum settings and their values",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd.Context(), cmdutil.NewOptions(cmd), explicit)
		},
	}

	cmd.Flags().BoolVar(&explicit, "set", false, "Only list settings with an explicit value")

	return cmd
}

func runList(ctx context.Context, opts *cmdutil.Options, explicit bool) error {
	sess, err := opts.Open(ctx)
	if err != nil {
		return err
	}
	ed := cmdutil.Editor(sess.Document())

	ids := make([]string, len(keymap.QuantumSettings))
	for i, s := range keymap.QuantumSettings {
		ids[i] = s.ID
	}
	values := ed.GetQuantumSettings(ids)

	headers := []string{"ID", "GROUP", "LABEL", "VALUE", "DEFAULT"}
	var rows [][]string
	for _, s := range keymap.QuantumSettings {
		v, ok := values[s.ID]
		if explicit && !ok {
			continue
		}
		value := "-"
		if ok {
			value = strconv.Itoa(v)
		}
		rows = append(rows, []string{s.ID, s.Group, s.Label, value, strconv.Itoa(s.Default)})
	}

	r := opts.Renderer()
	if len(rows) == 0 && !opts.JSON() {
		r.RenderText("No quantum settings are set.")
		return nil
	}
	r.RenderTable(headers, rows)
	return nil
}

// NewCmdSet creates the settings set command.
func NewCmdSet() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <id> <value>",
		Short: "Set a quantum setting",
		Long: `Set a quantum setting. Range settings must lie within their bounds;
checkbox settings take a bit mask of the enabled options.`,
		Example: `  # Use a 180ms tapping term
  vkc settings set tapping.term 180

  # Enable Auto Shift and Auto Shift for modifiers
  vkc settings set VIAL_DEFAULT_AUTO_SHIFT 0x03`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(cmd.Context(), cmdutil.NewOptions(cmd), args[0], args[1])
		},
	}

	cmdutil.AddCommitFlags(cmd)

	return cmd
}

func checkValue(s keymap.QuantumSetting, v int) error {
	if s.Kind == keymap.SettingRange {
		if v < s.Min || v > s.Max {
			return fmt.Errorf("invalid value %d for %s: must be between %d and %d", v, s.ID, s.Min, s.Max)
		}
		return nil
	}
	if v < 0 || v != s.Mask(v) {
		return fmt.Errorf("invalid value %d for %s: must fit in %d byte(s)", v, s.ID, s.Width)
	}
	return nil
}

func runSet(ctx context.Context, opts *cmdutil.Options, id, valueArg string) error {
	s, ok := keymap.LookupQuantumSetting(id)
	if !ok {
		return fmt.Errorf("unknown setting %q (run 'vkc settings list')", id)
	}
	v, err := cmdutil.ParseInt("value", valueArg)
	if err != nil {
		return err
	}
	if err := checkValue(s, v); err != nil {
		return err
	}

	sess, err := opts.Open(ctx)
	if err != nil {
		return err
	}
	err = sess.Apply(func(doc *keymap.Document) error {
		return cmdutil.Editor(doc).SetQuantumSettings(map[string]*int{id: &v})
	})
	if err != nil {
		return err
	}

	return opts.Commit(ctx, sess, fmt.Sprintf("Set %s to %d", id, v))
}

// NewCmdUnset creates the settings unset command.
func NewCmdUnset() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "unset <id>...",
		Aliases: []string{"rm"},
		Short:   "Restore quantum settings to the firmware default",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnset(cmd.Context(), cmdutil.NewOptions(cmd), args)
		},
	}

	cmdutil.AddCommitFlags(cmd)

	return cmd
}

func runUnset(ctx context.Context, opts *cmdutil.Options, ids []string) error {
	values := make(map[string]*int, len(ids))
	for _, id := range ids {
		values[id] = nil
	}

	sess, err := opts.Open(ctx)
	if err != nil {
		return err
	}
	err = sess.Apply(func(doc *keymap.Document) error {
		return cmdutil.Editor(doc).SetQuantumSettings(values)
	})
	if err != nil {
		return err
	}

	return opts.Commit(ctx, sess, fmt.Sprintf("Restored %d setting(s) to default", len(ids)))
}

// NewCmdReset creates the settings reset command.
func NewCmdReset() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore every quantum setting to the firmware default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReset(cmd.Context(), cmdutil.NewOptions(cmd))
		},
	}

	cmdutil.AddCommitFlags(cmd)

	return cmd
}

func runReset(ctx context.Context, opts *cmdutil.Options) error {
	sess, err := opts.Open(ctx)
	if err != nil {
		return err
	}
	err = sess.Apply(func(doc *keymap.Document) error {
		cmdutil.Editor(doc).EraseQuantumSettings()
		return nil
	})
	if err != nil {
		return err
	}

	return opts.Commit(ctx, sess, "Restored all settings to default")
}
