package macro

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/vial-keymap-cli/internal/cmd/cmdtest"
)

func TestNewCmdMacro(t *testing.T) {
	cmd := NewCmdMacro()
	assert.Equal(t, "macro", cmd.Use)
	assert.Len(t, cmd.Commands(), 1)
}

func TestRunList(t *testing.T) {
	p := cmdtest.Keyboard(t)
	opts, buf := cmdtest.Options(t, p)

	require.NoError(t, runList(context.Background(), opts))
	assert.Contains(t, buf.String(), `0  2  "hi"`)
	assert.Contains(t, buf.String(), "1 macros, 3 bytes")
}

func TestRunList_JSON(t *testing.T) {
	p := cmdtest.Keyboard(t)
	opts, buf := cmdtest.Options(t, p)
	opts.Output = "json"

	require.NoError(t, runList(context.Background(), opts))

	var got []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, `"hi"`, got[0]["actions"])
	assert.Equal(t, "2", got[0]["bytes"])
}
