package export

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/vial-keymap-cli/internal/cmd/cmdtest"
)

func TestRunExport_MarkdownStdout(t *testing.T) {
	p := cmdtest.Keyboard(t)
	base, buf := cmdtest.Options(t, p)

	err := runExport(context.Background(), &exportOptions{Options: base, markdown: true})
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# testpad: vial keymap\n"))
	assert.Contains(t, out, "## Layer 1")
	assert.Contains(t, out, "## Combos")
	assert.Contains(t, out, "| `AUTO_SHIFT_TIMEOUT` |")
}

func TestRunExport_HTMLFile(t *testing.T) {
	p := cmdtest.Keyboard(t)
	base, buf := cmdtest.Options(t, p)
	out := filepath.Join(t.TempDir(), "report.html")

	err := runExport(context.Background(), &exportOptions{Options: base, out: out, title: "My pad"})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Exported "+out)
	html := cmdtest.ReadFile(t, out)
	assert.Contains(t, html, "<title>My pad</title>")
	assert.Contains(t, html, "<td>KC_TRNS</td>")
	// Exporting never touches the keymap.
	assert.Equal(t, cmdtest.KeymapC, cmdtest.ReadFile(t, p.KeymapC()))
}

func TestRunExport_BadOutputPath(t *testing.T) {
	p := cmdtest.Keyboard(t)
	base, _ := cmdtest.Options(t, p)
	out := filepath.Join(t.TempDir(), "missing", "report.html")

	err := runExport(context.Background(), &exportOptions{Options: base, out: out})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write report")
}
