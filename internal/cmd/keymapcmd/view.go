package keymapcmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/vial-keymap-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/vial-keymap-cli/internal/report"
	"github.com/open-cli-collective/vial-keymap-cli/pkg/keymap"
)

type viewOptions struct {
	*cmdutil.Options
	layer int
}

// NewCmdView creates the keymap view command.
func NewCmdView() *cobra.Command {
	var layer int

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show layer keycodes as a matrix",
		Long:  `Show the keycodes of every layer, or of one layer, arranged by matrix position.`,
		Example: `  # Show all layers
  vkc keymap view

  # Show layer 1 as JSON
  vkc keymap view --layer 1 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := &viewOptions{Options: cmdutil.NewOptions(cmd), layer: layer}
			return runView(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVarP(&layer, "layer", "l", -1, "Only show this layer")

	return cmd
}

type layerView struct {
	Layer int        `json:"layer"`
	Grid  [][]string `json:"grid"`
}

func runView(ctx context.Context, opts *viewOptions) error {
	sess, err := opts.Open(ctx)
	if err != nil {
		return err
	}
	doc := sess.Document()

	indexes := make([]int, 0, len(doc.Layers))
	if opts.layer >= 0 {
		if opts.layer >= len(doc.Layers) {
			return &keymap.TargetError{Entity: "layer", Target: fmt.Sprint(opts.layer)}
		}
		indexes = append(indexes, opts.layer)
	} else {
		for i := range doc.Layers {
			indexes = append(indexes, i)
		}
	}

	r := opts.Renderer()
	if opts.JSON() {
		views := make([]layerView, 0, len(indexes))
		for _, i := range indexes {
			views = append(views, layerView{Layer: i, Grid: report.LayerGrid(doc.Layers[i])})
		}
		return r.RenderJSON(views)
	}

	for n, i := range indexes {
		if n > 0 {
			fmt.Fprintln(opts.Stdout)
		}
		if opts.Output != "plain" {
			r.RenderText(fmt.Sprintf("Layer %d (%s)", i, doc.Layers[i].Layout))
		}
		r.RenderGrid(report.LayerGrid(doc.Layers[i]))
	}
	return nil
}
