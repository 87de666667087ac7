// Package tapdance provides the tap dance commands.
package tapdance

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/vial-keymap-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/vial-keymap-cli/pkg/keymap"
)

// NewCmdTapDance creates the tapdance command.
func NewCmdTapDance() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tapdance",
		Aliases: []string{"td", "tap-dance"},
		Short:   "Manage tap dance entries",
		Long:    `Commands for listing and editing the default tap dance entries.`,
	}

	cmd.AddCommand(NewCmdList())
	cmd.AddCommand(NewCmdSet())

	return cmd
}

// NewCmdList creates the tapdance list command.
func NewCmdList() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tap dance entries",
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
	if len(doc.TapDances) == 0 && !opts.JSON() {
		r.RenderText("No tap dance entries.")
		return nil
	}

	headers := []string{"ID", "TAP", "HOLD", "DOUBLE_TAP", "TAP_HOLD", "TERM"}
	rows := make([][]string, 0, len(doc.TapDances))
	for i, td := range doc.TapDances {
		rows = append(rows, []string{
			strconv.Itoa(i), td.OnTap, td.OnHold, td.OnDoubleTap, td.OnTapHold, strconv.Itoa(td.TappingTerm),
		})
	}
	r.RenderTable(headers, rows)
	return nil
}

// NewCmdSet creates the tapdance set command.
func NewCmdSet() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <id> <tap> <hold> <double-tap> <tap-hold> <term>",
		Short: "Replace a tap dance entry",
		Long: `Replace one tap dance entry. Keycodes are names from the basic keycode
table or integers; use KC_NO for an unused action. The tapping term is in
milliseconds.`,
		Example: `  # Tap for Escape, hold for Left Control
  vkc tapdance set 0 KC_ESC KC_LCTL KC_NO KC_NO 200`,
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
	codes, err := cmdutil.ParseKeycodes(args[1:5])
	if err != nil {
		return err
	}
	term, err := cmdutil.ParseInt("term", args[5])
	if err != nil {
		return err
	}
	if term < 0 || term > 0xffff {
		return fmt.Errorf("invalid term %d: must be between 0 and 65535", term)
	}

	sess, err := opts.Open(ctx)
	if err != nil {
		return err
	}

	err = sess.Apply(func(doc *keymap.Document) error {
		return cmdutil.Editor(doc).SetTapDances([]keymap.TapDance{{
			ID:          id,
			OnTap:       codes[0],
			OnHold:      codes[1],
			OnDoubleTap: codes[2],
			OnTapHold:   codes[3],
			TappingTerm: term,
		}})
	})
	if err != nil {
		return err
	}

	return opts.Commit(ctx, sess, fmt.Sprintf("Updated tap dance %d", id))
}
