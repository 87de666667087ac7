// Package resize provides the resize command.
package resize

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/vial-keymap-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/vial-keymap-cli/pkg/keymap"
)

// NewCmdResize creates the resize command.
func NewCmdResize() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resize <layer|tapdance|combo|override> <n>",
		Short: "Change the number of layers or dynamic entries",
		Long: fmt.Sprintf(`Grow or shrink one entity list. New entries take default values and
shrinking drops entries from the end. Layers accept 1-%[1]d, the other
kinds 0-%[1]d; a request outside that range leaves the keymap unchanged.

Encoder rows follow the layer count. The number of encoders comes from
keyboard.json encoder.rotary and cannot be resized here.`, keymap.MaxEntries),
		Example: `  # Use six layers
  vkc resize layer 6

  # Make room for eight combos
  vkc resize combo 8`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return []string{"layer", "tapdance", "combo", "override"}, cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResize(cmd.Context(), cmdutil.NewOptions(cmd), args[0], args[1])
		},
	}

	cmdutil.AddCommitFlags(cmd)

	return cmd
}

func runResize(ctx context.Context, opts *cmdutil.Options, kindArg, countArg string) error {
	kind, err := keymap.ParseEntityKind(kindArg)
	if err != nil {
		return err
	}
	n, err := cmdutil.ParseInt("count", countArg)
	if err != nil {
		return err
	}

	sess, err := opts.Open(ctx)
	if err != nil {
		return err
	}

	var before, after int
	err = sess.Apply(func(doc *keymap.Document) error {
		before = doc.Count(kind)
		after = doc.Resize(kind, n)
		return nil
	})
	if err != nil {
		return err
	}

	r := opts.Renderer()
	if after != n {
		return fmt.Errorf("cannot resize %s to %d: count stays %d", kind, n, after)
	}
	if before == after {
		if opts.JSON() {
			return r.RenderJSON(map[string]interface{}{"status": "unchanged", "kind": kind.String(), "count": after})
		}
		r.Warning(fmt.Sprintf("%s count is already %d", kind, after))
		return nil
	}

	return opts.Commit(ctx, sess, fmt.Sprintf("Resized %s from %d to %d", kind, before, after))
}
