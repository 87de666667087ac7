// Package combo provides the combo commands.
package combo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/vial-keymap-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/vial-keymap-cli/pkg/keymap"
)

// NewCmdCombo creates the combo command.
func NewCmdCombo() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "combo",
		Aliases: []string{"combos"},
		Short:   "Manage combo entries",
		Long:    `Commands for listing and editing the default combo entries.`,
	}

	cmd.AddCommand(NewCmdList())
	cmd.AddCommand(NewCmdSet())

	return cmd
}

// NewCmdList creates the combo list command.
func NewCmdList() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List combo entries",
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
	if len(doc.Combos) == 0 && !opts.JSON() {
		r.RenderText("No combo entries.")
		return nil
	}

	headers := []string{"ID", "INPUT", "OUTPUT"}
	rows := make([][]string, 0, len(doc.Combos))
	for i, c := range doc.Combos {
		var keys []string
		for _, k := range c.Input {
			if k != keymap.KeycodeNo {
				keys = append(keys, k)
			}
		}
		rows = append(rows, []string{strconv.Itoa(i), strings.Join(keys, "+"), c.Output})
	}
	r.RenderTable(headers, rows)
	return nil
}

// NewCmdSet creates the combo set command.
func NewCmdSet() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <id> <key1> <key2> <key3> <key4> <output>",
		Short: "Replace a combo entry",
		Long: `Replace one combo entry. A combo fires its output when all of its input
keys are pressed together; use KC_NO for unused inputs.`,
		Example: `  # J+K sends Escape
  vkc combo set 0 KC_J KC_K KC_NO KC_NO KC_ESC`,
		Args: cobra.ExactArgs(6),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(cmd.Context(), cmdutil.NewOptions(cmd), args)
		},
	}

	cmdutil.AddCommitFlags(cmd)

	return cmd
}

func runSet(ctx context.Context, opts *cmdutil.Options, args []string) error {
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
		c := keymap.Combo{ID: id, Output: codes[4]}
		copy(c.Input[:], codes[:4])
		return cmdutil.Editor(doc).SetCombos([]keymap.Combo{c})
	})
	if err != nil {
		return err
	}

	return opts.Commit(ctx, sess, fmt.Sprintf("Updated combo %d", id))
}
