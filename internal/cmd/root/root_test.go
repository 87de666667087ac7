package root

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/vial-keymap-cli/internal/cmd/cmdtest"
)

func TestNewCmdRoot_Subcommands(t *testing.T) {
	cmd := NewCmdRoot()
	assert.Equal(t, "vkc", cmd.Use)

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{
		"init", "config", "keymap", "resize", "tapdance", "combo",
		"override", "encoder", "macro", "settings", "export", "completion",
	} {
		assert.Contains(t, names, want)
	}
}

func TestNewCmdRoot_GlobalFlags(t *testing.T) {
	cmd := NewCmdRoot()

	tests := []struct {
		name      string
		shorthand string
	}{
		{"config", "c"},
		{"output", "o"},
		{"no-color", ""},
		{"dir", "d"},
		{"keymap", "k"},
		{"layout", ""},
		{"verbose", "v"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := cmd.PersistentFlags().Lookup(tt.name)
			require.NotNil(t, f)
			assert.Equal(t, tt.shorthand, f.Shorthand)
		})
	}
}

func TestNewCmdRoot_ExecuteKeymapView(t *testing.T) {
	p := cmdtest.Keyboard(t)
	for _, v := range []string{"VKC_KEYBOARD_DIR", "VKC_KEYMAP", "VKC_LAYOUT"} {
		t.Setenv(v, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	defer slog.SetDefault(slog.Default())

	cmd := NewCmdRoot()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"keymap", "view", "--dir", p.Dir, "--layer", "1", "-o", "plain"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Equal(t, "KC_TRNS\tKC_1\nKC_2\tKC_3\n", buf.String())
}

func TestNewCmdRoot_InvalidOutput(t *testing.T) {
	p := cmdtest.Keyboard(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	defer slog.SetDefault(slog.Default())

	cmd := NewCmdRoot()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"keymap", "view", "--dir", p.Dir, "-o", "yaml"})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}
