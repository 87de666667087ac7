// Package keymapcmd provides the keymap view, set and regen commands.
package keymapcmd

import (
	"github.com/spf13/cobra"
)

// NewCmdKeymap creates the keymap command.
func NewCmdKeymap() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "keymap",
		Aliases: []string{"km"},
		Short:   "View and edit layer keycodes",
		Long:    `Commands for viewing layers, setting keycodes, and regenerating keymap.c.`,
	}

	cmd.AddCommand(NewCmdView())
	cmd.AddCommand(NewCmdSet())
	cmd.AddCommand(NewCmdRegen())

	return cmd
}
