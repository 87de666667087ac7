// Package macro provides the macro commands.
package macro

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/vial-keymap-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/vial-keymap-cli/internal/report"
	"github.com/open-cli-collective/vial-keymap-cli/internal/view"
	"github.com/open-cli-collective/vial-keymap-cli/pkg/keymap"
)

// NewCmdMacro creates the macro command.
func NewCmdMacro() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "macro",
		Aliases: []string{"macros"},
		Short:   "Inspect the default macro buffer",
		Long:    `Commands for inspecting the macros stored in the default macro buffer.`,
	}

	cmd.AddCommand(NewCmdList())

	return cmd
}

const maxActionsWidth = 60

// NewCmdList creates the macro list command.
func NewCmdList() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List macros with their decoded actions",
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
	ed := cmdutil.Editor(sess.Document())
	macros := ed.GetMacros(keymap.MaxEntries)

	r := opts.Renderer()
	if len(macros) == 0 && !opts.JSON() {
		r.RenderText("The macro buffer is empty.")
		return nil
	}

	headers := []string{"ID", "BYTES", "ACTIONS"}
	rows := make([][]string, 0, len(macros))
	table := opts.Output == "" || opts.Output == string(view.FormatTable)
	for i, m := range macros {
		actions := report.DescribeMacro(m)
		if table {
			actions = view.Truncate(actions, maxActionsWidth)
		}
		rows = append(rows, []string{strconv.Itoa(i), strconv.Itoa(len(m)), actions})
	}
	r.RenderTable(headers, rows)

	if table {
		fmt.Fprintf(opts.Stdout, "\n%d macros, %d bytes\n", ed.MacroCount(), ed.MacroBufferLen())
	}
	return nil
}
