// Package workspace reads and writes the files of one Vial keymap.
package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/hjson/hjson-go/v4"
	"golang.org/x/sync/errgroup"

	"github.com/open-cli-collective/vial-keymap-cli/pkg/keymap"
)

// ErrNotLoaded is returned by Apply, Generate and Commit before Load.
var ErrNotLoaded = errors.New("workspace not loaded")

// Paths locates the files of a keymap inside a QMK keyboard directory.
type Paths struct {
	Dir    string
	Keymap string
}

// KeyboardJSON returns the path of keyboard.json.
func (p Paths) KeyboardJSON() string { return filepath.Join(p.Dir, "keyboard.json") }

// KeymapDir returns the directory holding the keymap sources.
func (p Paths) KeymapDir() string { return filepath.Join(p.Dir, "keymaps", p.Keymap) }

// KeymapC returns the path of keymap.c.
func (p Paths) KeymapC() string { return filepath.Join(p.KeymapDir(), "keymap.c") }

// ConfigH returns the path of config.h.
func (p Paths) ConfigH() string { return filepath.Join(p.KeymapDir(), "config.h") }

// RulesMk returns the path of rules.mk.
func (p Paths) RulesMk() string { return filepath.Join(p.KeymapDir(), "rules.mk") }

// ReadSources reads the four keymap files concurrently. keymap.c and
// keyboard.json are required; a missing config.h or rules.mk reads as empty.
func ReadSources(ctx context.Context, p Paths) (keymap.Sources, error) {
	var src keymap.Sources
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		text, err := readFile(ctx, p.KeymapC(), false)
		src.KeymapC = text
		return err
	})
	g.Go(func() error {
		text, err := readFile(ctx, p.ConfigH(), true)
		src.ConfigH = text
		return err
	})
	g.Go(func() error {
		text, err := readFile(ctx, p.RulesMk(), true)
		src.RulesMk = text
		return err
	})
	g.Go(func() error {
		text, err := readFile(ctx, p.KeyboardJSON(), false)
		if err != nil {
			return err
		}
		kb, err := DecodeKeyboard([]byte(text))
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", p.KeyboardJSON(), err)
		}
		src.Keyboard = kb
		return nil
	})

	if err := g.Wait(); err != nil {
		return keymap.Sources{}, err
	}
	return src, nil
}

func readFile(ctx context.Context, path string, optional bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// DecodeKeyboard parses keyboard.json. Hjson syntax (comments, trailing
// commas, unquoted keys) is accepted; numbers decode as float64.
func DecodeKeyboard(data []byte) (map[string]interface{}, error) {
	var kb map[string]interface{}
	if err := hjson.Unmarshal(data, &kb); err != nil {
		return nil, err
	}
	if kb == nil {
		kb = map[string]interface{}{}
	}
	return kb, nil
}

// EncodeKeyboard renders keyboard.json with two-space indentation.
func EncodeKeyboard(kb map[string]interface{}) ([]byte, error) {
	data, err := json.MarshalIndent(kb, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Session holds one loaded document. Load, Apply, Generate and Commit are
// serialized so only one of them is in flight at a time.
type Session struct {
	mu     sync.Mutex
	paths  Paths
	opts   keymap.ParseOptions
	logger *slog.Logger
	doc    *keymap.Document
}

// NewSession creates a session for the keymap at p. A nil logger uses
// slog.Default().
func NewSession(p Paths, opts keymap.ParseOptions, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{paths: p, opts: opts, logger: logger}
}

// Paths returns the file locations of the session.
func (s *Session) Paths() Paths {
	return s.paths
}

// Load reads and parses the keymap, replacing any previously loaded
// document. Parse warnings are logged.
func (s *Session) Load(ctx context.Context) (*keymap.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, err := ReadSources(ctx, s.paths)
	if err != nil {
		return nil, err
	}
	doc, err := keymap.Parse(src, s.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.paths.KeymapC(), err)
	}
	for _, w := range doc.Warnings {
		s.logger.Warn(w, "keymap", s.paths.Keymap)
	}
	s.logger.Debug("keymap loaded",
		"dir", s.paths.Dir,
		"layout", doc.Layout.Name,
		"layers", len(doc.Layers),
		"tapdances", len(doc.TapDances),
		"combos", len(doc.Combos),
		"overrides", len(doc.KeyOverrides),
	)
	s.doc = doc
	return doc, nil
}

// Document returns the loaded document, or nil before Load.
func (s *Session) Document() *keymap.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Apply runs fn against the loaded document. Warnings fn adds to the
// document are logged.
func (s *Session) Apply(fn func(doc *keymap.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return ErrNotLoaded
	}
	before := len(s.doc.Warnings)
	err := fn(s.doc)
	for _, w := range s.doc.Warnings[before:] {
		s.logger.Warn(w, "keymap", s.paths.Keymap)
	}
	return err
}

// Generate renders the loaded document.
func (s *Session) Generate() (*keymap.Artifacts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return nil, ErrNotLoaded
	}
	return s.doc.Generate()
}

// Commit generates the document and writes keymap.c, config.h and rules.mk.
// keyboard.json is rewritten only when its content changed. It returns the
// paths written.
func (s *Session) Commit(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return nil, ErrNotLoaded
	}
	art, err := s.doc.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate keymap: %w", err)
	}
	return Write(ctx, s.paths, art, s.logger)
}

// Write stores generated artifacts at p.
func Write(ctx context.Context, p Paths, art *keymap.Artifacts, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(p.KeymapDir(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create keymap directory: %w", err)
	}

	files := []struct {
		path string
		data []byte
	}{
		{p.KeymapC(), []byte(art.KeymapC)},
		{p.ConfigH(), []byte(art.ConfigH)},
		{p.RulesMk(), []byte(art.RulesMk)},
	}
	if art.KeyboardChanged {
		data, err := EncodeKeyboard(art.Keyboard)
		if err != nil {
			return nil, fmt.Errorf("failed to encode keyboard.json: %w", err)
		}
		files = append(files, struct {
			path string
			data []byte
		}{p.KeyboardJSON(), data})
	}

	var written []string
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		if err := os.WriteFile(f.path, f.data, 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", f.path, err)
		}
		logger.Debug("wrote file", "path", f.path, "bytes", len(f.data))
		written = append(written, f.path)
	}
	return written, nil
}
