package keymapcmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/vial-keymap-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/vial-keymap-cli/pkg/keymap"
)

type setOptions struct {
	*cmdutil.Options
	raw bool
}

// NewCmdSet creates the keymap set command.
func NewCmdSet() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "set <layer> <row> <col> <keycode>",
		Short: "Set the keycode at a matrix position",
		Long: `Set the keycode of one key. The keycode is a name from the basic keycode
table (KC_A, KC_ESC, ...) or an integer. Use --raw to store any QMK
expression, such as LT(1, KC_SPC), verbatim.`,
		Example: `  # Map the top-left key of layer 0 to Escape
  vkc keymap set 0 0 0 KC_ESC

  # Store a layer-tap expression
  vkc keymap set 0 3 5 'LT(1, KC_SPC)' --raw`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &setOptions{Options: cmdutil.NewOptions(cmd), raw: raw}
			return runSet(cmd.Context(), opts, args)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Store the keycode expression verbatim")
	cmdutil.AddCommitFlags(cmd)

	return cmd
}

func runSet(ctx context.Context, opts *setOptions, args []string) error {
	var pos [3]int
	for i, name := range []string{"layer", "row", "col"} {
		n, err := cmdutil.ParseInt(name, args[i])
		if err != nil {
			return err
		}
		pos[i] = n
	}
	layer, row, col := pos[0], pos[1], pos[2]

	var code uint16
	if !opts.raw {
		var err error
		if code, err = cmdutil.ParseKeycode(args[3]); err != nil {
			return fmt.Errorf("%w (use --raw for QMK expressions)", err)
		}
	}

	sess, err := opts.Open(ctx)
	if err != nil {
		return err
	}

	err = sess.Apply(func(doc *keymap.Document) error {
		ed := cmdutil.Editor(doc)
		if opts.raw {
			return ed.SetKeycodeName(layer, row, col, args[3])
		}
		return ed.SetKeycode(layer, row, col, code)
	})
	if err != nil {
		return err
	}

	return opts.Commit(ctx, sess, fmt.Sprintf("Set layer %d (%d,%d) to %s", layer, row, col, args[3]))
}
