// Package encoder provides the encoder map commands.
package encoder

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/vial-keymap-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/vial-keymap-cli/pkg/keymap"
)

// NewCmdEncoder creates the encoder command.
func NewCmdEncoder() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "encoder",
		Aliases: []string{"encoders"},
		Short:   "Manage rotary encoder keycodes",
		Long:    `Commands for listing and editing the per-layer encoder map.`,
	}

	cmd.AddCommand(NewCmdList())
	cmd.AddCommand(NewCmdSet())

	return cmd
}

// NewCmdList creates the encoder list command.
func NewCmdList() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List encoder keycodes for every layer",
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
	if doc.EncoderCount() == 0 && !opts.JSON() {
		r.RenderText("This keyboard has no encoders.")
		return nil
	}

	headers := []string{"LAYER", "ENCODER", "CCW", "CW"}
	var rows [][]string
	for layer, entries := range doc.Encoders {
		for i, e := range entries {
			rows = append(rows, []string{strconv.Itoa(layer), strconv.Itoa(i), e.CCW, e.CW})
		}
	}
	r.RenderTable(headers, rows)
	return nil
}

// NewCmdSet creates the encoder set command.
func NewCmdSet() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <layer> <index> <ccw|cw> <keycode>",
		Short: "Set the keycode for one encoder direction",
		Example: `  # Turning encoder 0 clockwise on layer 0 sends Page Down
  vkc encoder set 0 0 cw KC_PGDN`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(cmd.Context(), cmdutil.NewOptions(cmd), args)
		},
	}

	cmdutil.AddCommitFlags(cmd)

	return cmd
}

func parseDirection(s string) (keymap.Direction, error) {
	switch strings.ToLower(s) {
	case "ccw", "left", "0":
		return keymap.CCW, nil
	case "cw", "right", "1":
		return keymap.CW, nil
	}
	return 0, fmt.Errorf("invalid direction %q: must be ccw or cw", s)
}

func runSet(ctx context.Context, opts *cmdutil.Options, args []string) error {
	layer, err := cmdutil.ParseInt("layer", args[0])
	if err != nil {
		return err
	}
	index, err := cmdutil.ParseInt("index", args[1])
	if err != nil {
		return err
	}
	dir, err := parseDirection(args[2])
	if err != nil {
		return err
	}
	code, err := cmdutil.ParseKeycode(args[3])
	if err != nil {
		return err
	}

	sess, err := opts.Open(ctx)
	if err != nil {
		return err
	}

	err = sess.Apply(func(doc *keymap.Document) error {
		return cmdutil.Editor(doc).SetEncoder(layer, index, dir, code)
	})
	if err != nil {
		return err
	}

	return opts.Commit(ctx, sess, fmt.Sprintf("Set encoder %d %s on layer %d", index, strings.ToLower(args[2]), layer))
}
