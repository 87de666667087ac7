// Package export provides the export command.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/vial-keymap-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/vial-keymap-cli/internal/report"
)

type exportOptions struct {
	*cmdutil.Options
	out      string
	markdown bool
	title    string
}

// NewCmdExport creates the export command.
func NewCmdExport() *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a keymap report as HTML or Markdown",
		Long: `Render every layer, encoder, tap dance, combo, key override, macro and
quantum setting of the keymap as a report. The report is HTML unless
--markdown is given.`,
		Example: `  # Write an HTML report
  vkc export --out keymap.html

  # Print the Markdown source
  vkc export --markdown`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Options = cmdutil.NewOptions(cmd)
			return runExport(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.out, "out", "", "Write the report to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.markdown, "markdown", false, "Export Markdown instead of HTML")
	cmd.Flags().StringVar(&opts.title, "title", "", "Report title (default: keyboard name and keymap)")

	return cmd
}

func runExport(ctx context.Context, opts *exportOptions) error {
	sess, err := opts.Open(ctx)
	if err != nil {
		return err
	}
	doc := sess.Document()

	title := opts.title
	if title == "" {
		name, _ := doc.Sources().Keyboard["keyboard_name"].(string)
		if name == "" {
			name = filepath.Base(sess.Paths().Dir)
		}
		title = fmt.Sprintf("%s: %s keymap", name, sess.Paths().Keymap)
	}

	var content string
	if opts.markdown {
		content = string(report.Markdown(doc, title))
	} else if content, err = report.HTML(doc, title); err != nil {
		return err
	}

	if opts.out == "" {
		fmt.Fprint(opts.Stdout, content)
		return nil
	}

	if err := os.WriteFile(opts.out, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	r := opts.Renderer()
	if opts.JSON() {
		return r.RenderJSON(map[string]string{"status": "exported", "file": opts.out})
	}
	r.Success(fmt.Sprintf("Exported %s", opts.out))
	return nil
}
