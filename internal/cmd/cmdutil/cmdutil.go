// Package cmdutil holds the option plumbing shared by vkc commands: flag
// resolution, keymap loading and the confirm-then-write step.
package cmdutil

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/vial-keymap-cli/internal/config"
	"github.com/open-cli-collective/vial-keymap-cli/internal/view"
	"github.com/open-cli-collective/vial-keymap-cli/internal/workspace"
	"github.com/open-cli-collective/vial-keymap-cli/pkg/keycode"
	"github.com/open-cli-collective/vial-keymap-cli/pkg/keymap"
)

// Options are the global and commit flags of a command invocation.
type Options struct {
	ConfigPath string
	Output     string
	NoColor    bool
	Dir        string
	Keymap     string
	Layout     string
	Yes        bool
	DryRun     bool

	Stdin  io.Reader // nil prompts with huh
	Stdout io.Writer
	Logger *slog.Logger

	cfg *config.Config
}

// NewOptions reads the global flags and, when present, the commit flags.
func NewOptions(cmd *cobra.Command) *Options {
	o := &Options{Stdout: cmd.OutOrStdout()}
	flags := cmd.Flags()
	o.ConfigPath, _ = flags.GetString("config")
	o.Output, _ = flags.GetString("output")
	o.NoColor, _ = flags.GetBool("no-color")
	o.Dir, _ = flags.GetString("dir")
	o.Keymap, _ = flags.GetString("keymap")
	o.Layout, _ = flags.GetString("layout")
	o.Yes, _ = flags.GetBool("yes")
	o.DryRun, _ = flags.GetBool("dry-run")
	return o
}

// AddCommitFlags registers --yes and --dry-run on a mutating command.
func AddCommitFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("yes", "y", false, "Write changes without confirmation")
	cmd.Flags().Bool("dry-run", false, "Print the generated keymap.c instead of writing files")
}

// Config loads the configuration file and environment, applies flag
// overrides and validates the result.
func (o *Options) Config() (*config.Config, error) {
	if o.cfg != nil {
		return o.cfg, nil
	}
	path := o.ConfigPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.LoadWithEnv(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if o.Dir != "" {
		cfg.KeyboardDir = o.Dir
	}
	if o.Keymap != "" {
		cfg.Keymap = o.Keymap
	}
	if o.Layout != "" {
		cfg.Layout = o.Layout
	}
	if o.Output == "" {
		o.Output = cfg.OutputFormat
	}
	if err := view.ValidateFormat(o.Output); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w (run 'vkc init' or pass --dir)", err)
	}
	o.cfg = cfg
	return cfg, nil
}

// Open resolves the configuration and loads the keymap.
func (o *Options) Open(ctx context.Context) (*workspace.Session, error) {
	cfg, err := o.Config()
	if err != nil {
		return nil, err
	}
	paths := workspace.Paths{Dir: cfg.KeyboardDir, Keymap: cfg.KeymapName()}
	sess := workspace.NewSession(paths, keymap.ParseOptions{Layout: cfg.Layout}, o.Logger)
	if _, err := sess.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load keymap: %w", err)
	}
	return sess, nil
}

// Renderer returns a renderer writing to Stdout.
func (o *Options) Renderer() *view.Renderer {
	r := view.NewRenderer(view.Format(o.Output), o.NoColor)
	r.SetWriter(o.Stdout)
	return r
}

// JSON reports whether JSON output was requested.
func (o *Options) JSON() bool {
	return o.Output == string(view.FormatJSON)
}

// Editor wraps doc in an editor using the basic keycode table.
func Editor(doc *keymap.Document) *keymap.Editor {
	return keymap.NewEditor(doc, keycode.Basic)
}

// Confirm asks a yes/no question. Without an injected Stdin it shows a huh
// confirm prompt.
func (o *Options) Confirm(prompt string) (bool, error) {
	if o.Stdin == nil {
		var ok bool
		err := huh.NewConfirm().
			Title(prompt).
			Value(&ok).
			Run()
		return ok, err
	}

	fmt.Fprintf(o.Stdout, "%s [y/N]: ", prompt)
	scanner := bufio.NewScanner(o.Stdin)
	var answer string
	if scanner.Scan() {
		answer = strings.TrimSpace(scanner.Text())
	}
	return answer == "y" || answer == "Y", nil
}

// Commit writes the session's document after confirmation. With --dry-run
// the generated keymap.c is printed instead.
func (o *Options) Commit(ctx context.Context, sess *workspace.Session, action string) error {
	if o.DryRun {
		art, err := sess.Generate()
		if err != nil {
			return fmt.Errorf("failed to generate keymap: %w", err)
		}
		fmt.Fprint(o.Stdout, art.KeymapC)
		return nil
	}

	autoConfirm := o.cfg != nil && o.cfg.AutoConfirm
	if !o.Yes && !autoConfirm {
		ok, err := o.Confirm(fmt.Sprintf("%s: write %s?", action, sess.Paths().KeymapDir()))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(o.Stdout, "No changes written.")
			return nil
		}
	}

	written, err := sess.Commit(ctx)
	if err != nil {
		return fmt.Errorf("failed to write keymap: %w", err)
	}

	r := o.Renderer()
	if o.JSON() {
		return r.RenderJSON(map[string]interface{}{
			"status": "written",
			"action": action,
			"files":  written,
		})
	}
	r.Success(action)
	for _, f := range written {
		fmt.Fprintf(o.Stdout, "  %s\n", f)
	}
	return nil
}

// ParseInt parses a command argument, naming it in the error.
func ParseInt(name, s string) (int, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be an integer", name, s)
	}
	return int(n), nil
}

// ParseKeycode parses a keycode argument with the basic keycode table.
func ParseKeycode(s string) (uint16, error) {
	return keycode.Basic.Parse(s)
}

// ParseKeycodes parses several keycode arguments in order.
func ParseKeycodes(args []string) ([]uint16, error) {
	codes := make([]uint16, len(args))
	for i, a := range args {
		c, err := ParseKeycode(a)
		if err != nil {
			return nil, err
		}
		codes[i] = c
	}
	return codes, nil
}
