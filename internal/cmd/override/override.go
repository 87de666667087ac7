// Package override provides the key override commands.
package override

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/vial-keymap-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/vial-keymap-cli/pkg/keymap"
)

// NewCmdOverride creates the override command.
func NewCmdOverride() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "override",
		Aliases: []string{"ko", "key-override"},
		Short:   "Manage key override entries",
		Long:    `Commands for listing and editing the default key override entries.`,
	}

	cmd.AddCommand(NewCmdList())
	cmd.AddCommand(NewCmdSet())

	return cmd
}

// NewCmdList creates the override list command.
func NewCmdList() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List key override entries",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd.Context(), cmdutil.NewOptions(cmd))
		},
	}
}

func runList(ctx context.Context, opts *cmdutil.Options) error {
	sess, err := opts.Open(ctx)
	if err != nil {
		return err
	}
	doc := sess.Document()

	r := opts.Renderer()
	if len(doc.KeyOverrides) == 0 && !opts.JSON() {
		r.RenderText("No key override entries.")
		return nil
	}

	headers := []string{"ID", "TRIGGER", "REPLACEMENT", "LAYERS", "TRIGGER_MODS", "NEGATIVE_MODS", "SUPPRESSED_MODS", "OPTIONS"}
	rows := make([][]string, 0, len(doc.KeyOverrides))
	for i, ko := range doc.KeyOverrides {
		rows = append(rows, []string{
			strconv.Itoa(i),
			ko.Trigger,
			ko.Replacement,
			fmt.Sprintf("0x%04x", ko.Layers),
			keymap.ModBits.Format(ko.TriggerMods),
			keymap.ModBits.Format(ko.NegativeModMask),
			keymap.ModBits.Format(ko.SuppressedMods),
			keymap.OverrideOptions.Format(ko.Options),
		})
	}
	r.RenderTable(headers, rows)
	return nil
}

type setOptions struct {
	*cmdutil.Options

	// Unset masks keep the entry's current value.
	layers         *string
	triggerMods    *string
	negativeMods   *string
	suppressedMods *string
	options        *string
}

// NewCmdSet creates the override set command.
func NewCmdSet() *cobra.Command {
	var layers, triggerMods, negativeMods, suppressedMods, options string

	cmd := &cobra.Command{
		Use:   "set <id> <trigger> <replacement>",
		Short: "Replace a key override entry",
		Long: `Replace the trigger and replacement of one key override entry. Masks not
given on the command line keep their current value.

Modifier masks are OR expressions of modifier keycodes, for example
"KC_LSFT | KC_RSFT" or "MOD_BIT(KC_LCTL)". Options are OR expressions of
vial_ko_* flags or an integer.`,
		Example: `  # Shift+Backspace sends Delete on every layer
  vkc override set 0 KC_BSPC KC_DEL --layers 0xffff \
    --trigger-mods "KC_LSFT | KC_RSFT" --suppressed-mods "KC_LSFT | KC_RSFT" \
    --options vial_ko_enabled`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &setOptions{Options: cmdutil.NewOptions(cmd)}
			bind := func(name string, v *string) *string {
				if cmd.Flags().Changed(name) {
					return v
				}
				return nil
			}
			opts.layers = bind("layers", &layers)
			opts.triggerMods = bind("trigger-mods", &triggerMods)
			opts.negativeMods = bind("negative-mods", &negativeMods)
			opts.suppressedMods = bind("suppressed-mods", &suppressedMods)
			opts.options = bind("options", &options)
			return runSet(cmd.Context(), opts, args)
		},
	}

	cmd.Flags().StringVar(&layers, "layers", "", "Layer mask (bit n enables layer n)")
	cmd.Flags().StringVar(&triggerMods, "trigger-mods", "", "Modifiers that must be held")
	cmd.Flags().StringVar(&negativeMods, "negative-mods", "", "Modifiers that must not be held")
	cmd.Flags().StringVar(&suppressedMods, "suppressed-mods", "", "Modifiers removed while the replacement is sent")
	cmd.Flags().StringVar(&options, "options", "", "Option flags")
	cmdutil.AddCommitFlags(cmd)

	return cmd
}

func parseMask(name string, expr *string, table *keymap.FlagTable, current int) (int, error) {
	if expr == nil {
		return current, nil
	}
	if table == nil {
		return cmdutil.ParseInt(name, *expr)
	}
	v, unknown := table.Parse(*expr)
	if len(unknown) > 0 {
		return 0, fmt.Errorf("invalid %s %q: unknown %s", name, *expr, strings.Join(unknown, ", "))
	}
	return v, nil
}

func runSet(ctx context.Context, opts *setOptions, args []string) error {
	id, err := cmdutil.ParseInt("id", args[0])
	if err != nil {
		return err
	}
	codes, err := cmdutil.ParseKeycodes(args[1:])
	if err != nil {
		return err
	}

	sess, err := opts.Open(ctx)
	if err != nil {
		return err
	}

	err = sess.Apply(func(doc *keymap.Document) error {
		ed := cmdutil.Editor(doc)
		current, err := ed.GetKeyOverrides([]int{id})
		if err != nil {
			return err
		}
		ko := current[0]
		ko.Trigger, ko.Replacement = codes[0], codes[1]

		if ko.Layers, err = parseMask("layers", opts.layers, nil, ko.Layers); err != nil {
			return err
		}
		if ko.TriggerMods, err = parseMask("trigger mods", opts.triggerMods, keymap.ModBits, ko.TriggerMods); err != nil {
			return err
		}
		if ko.NegativeModMask, err = parseMask("negative mods", opts.negativeMods, keymap.ModBits, ko.NegativeModMask); err != nil {
			return err
		}
		if ko.SuppressedMods, err = parseMask("suppressed mods", opts.suppressedMods, keymap.ModBits, ko.SuppressedMods); err != nil {
			return err
		}
		if ko.Options, err = parseMask("options", opts.options, keymap.OverrideOptions, ko.Options); err != nil {
			return err
		}
		return ed.SetKeyOverrides([]keymap.KeyOverride{ko})
	})
	if err != nil {
		return err
	}

	return opts.Commit(ctx, sess, fmt.Sprintf("Updated key override %d", id))
}
