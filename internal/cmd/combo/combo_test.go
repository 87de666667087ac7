package combo

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/vial-keymap-cli/internal/cmd/cmdtest"
	"github.com/open-cli-collective/vial-keymap-cli/pkg/keymap"
)

func TestRunList(t *testing.T) {
	p := cmdtest.Keyboard(t)
	opts, buf := cmdtest.Options(t, p)

	require.NoError(t, runList(context.Background(), opts))
	assert.Contains(t, buf.String(), "0  KC_A+KC_B  KC_ESC")
}

func TestRunList_Plain(t *testing.T) {
	p := cmdtest.Keyboard(t)
	opts, buf := cmdtest.Options(t, p)
	opts.Output = "plain"

	require.NoError(t, runList(context.Background(), opts))
	assert.Equal(t, "0\tKC_A+KC_B\tKC_ESC\n", buf.String())
}

func TestRunSet(t *testing.T) {
	p := cmdtest.Keyboard(t)
	opts, _ := cmdtest.Options(t, p)
	opts.Output = "json"

	err := runSet(context.Background(), opts, []string{"0", "j", "k", "KC_NO", "KC_NO", "KC_TAB"})
	require.NoError(t, err)
	assert.Contains(t, cmdtest.ReadFile(t, p.KeymapC()), "COMBO_ENTRY(KC_J, KC_K, KC_NO, KC_NO, KC_TAB)")

	listOpts, buf := cmdtest.Options(t, p)
	listOpts.Output = "json"
	require.NoError(t, runList(context.Background(), listOpts))
	var got []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "KC_J+KC_K", got[0]["input"])
}

func TestRunSet_UnknownID(t *testing.T) {
	p := cmdtest.Keyboard(t)
	opts, _ := cmdtest.Options(t, p)

	err := runSet(context.Background(), opts, []string{"1", "KC_A", "KC_B", "KC_NO", "KC_NO", "KC_C"})
	assert.ErrorIs(t, err, keymap.ErrEntityNotFound)
	assert.Equal(t, cmdtest.KeymapC, cmdtest.ReadFile(t, p.KeymapC()))
}
