package configcmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/vial-keymap-cli/internal/cmd/cmdutil"
)

// NewCmdTest creates the config test command.
func NewCmdTest() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test that the configured keymap loads",
		Long:  `Load the configured keyboard directory and keymap and report what was found.`,
		Example: `  # Test the configuration
  vkc config test`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTest(cmd.Context(), cmdutil.NewOptions(cmd))
		},
	}

	return cmd
}

func runTest(ctx context.Context, opts *cmdutil.Options) error {
	if opts.NoColor {
		color.NoColor = true
	}
	r := opts.Renderer()

	cfg, err := opts.Config()
	if err != nil {
		r.Error("Configuration invalid: " + err.Error())
		fmt.Fprintln(opts.Stdout, "\nReconfigure with: vkc init")
		return err
	}

	fmt.Fprintf(opts.Stdout, "Loading %s (keymap %s)...\n", cfg.KeyboardDir, cfg.KeymapName())

	sess, err := opts.Open(ctx)
	if err != nil {
		r.Error("Load failed: " + err.Error())
		fmt.Fprintln(opts.Stdout, "\nCheck your settings with: vkc config show")
		return err
	}
	doc := sess.Document()

	r.Success("keyboard.json parsed")
	r.Success("keymap.c parsed")
	fmt.Fprintln(opts.Stdout)
	r.RenderKeyValue("Layout", fmt.Sprintf("%s (%d keys)", doc.Layout.Name, len(doc.Layout.Keys)))
	r.RenderKeyValue("Layers", strconv.Itoa(len(doc.Layers)))
	r.RenderKeyValue("Encoders", strconv.Itoa(doc.EncoderCount()))
	r.RenderKeyValue("Tap dances", strconv.Itoa(len(doc.TapDances)))
	r.RenderKeyValue("Combos", strconv.Itoa(len(doc.Combos)))
	r.RenderKeyValue("Key overrides", strconv.Itoa(len(doc.KeyOverrides)))

	for _, warning := range doc.Warnings {
		r.Warning(warning)
	}

	return nil
}
