package keymapcmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/vial-keymap-cli/internal/cmd/cmdutil"
)

// NewCmdRegen creates the keymap regen command.
func NewCmdRegen() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regen",
		Short: "Regenerate keymap.c, config.h and rules.mk",
		Long: `Parse the keymap and write it back without edits. This normalizes
formatting, brings the Vial entry counts in config.h in line with the
keymap, and adds the dynamic_keymap_reset wrap rule to rules.mk.`,
		Example: `  # Preview the regenerated keymap.c
  vkc keymap regen --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRegen(cmd.Context(), cmdutil.NewOptions(cmd))
		},
	}

	cmdutil.AddCommitFlags(cmd)

	return cmd
}

func runRegen(ctx context.Context, opts *cmdutil.Options) error {
	sess, err := opts.Open(ctx)
	if err != nil {
		return err
	}
	return opts.Commit(ctx, sess, "Regenerated keymap")
}
