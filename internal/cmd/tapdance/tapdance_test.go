package tapdance

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
	assert.Contains(t, buf.String(), "DOUBLE_TAP")
	assert.Contains(t, buf.String(), "0  KC_A  KC_B  KC_C  KC_D  180")
}

func TestRunList_JSON(t *testing.T) {
	p := cmdtest.Keyboard(t)
	opts, buf := cmdtest.Options(t, p)
	opts.Output = "json"

	require.NoError(t, runList(context.Background(), opts))

	var got []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "KC_A", got[0]["tap"])
	assert.Equal(t, "180", got[0]["term"])
}

func TestRunSet(t *testing.T) {
	p := cmdtest.Keyboard(t)
	opts, buf := cmdtest.Options(t, p)

	err := runSet(context.Background(), opts, []string{"0", "KC_ESC", "KC_LCTL", "KC_NO", "KC_NO", "250"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Updated tap dance 0")
	assert.Contains(t, cmdtest.ReadFile(t, p.KeymapC()), "TAP_DANCE_ENTRY(KC_ESCAPE, KC_LEFT_CTRL, KC_NO, KC_NO, 250)")
}

func TestRunSet_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
		is      error
	}{
		{"unknown id", []string{"3", "KC_A", "KC_B", "KC_NO", "KC_NO", "200"}, "tap dance 3", keymap.ErrEntityNotFound},
		{"bad keycode", []string{"0", "KC_NOPE", "KC_B", "KC_NO", "KC_NO", "200"}, "unknown keycode", nil},
		{"bad term", []string{"0", "KC_A", "KC_B", "KC_NO", "KC_NO", "soon"}, "invalid term", nil},
		{"term too large", []string{"0", "KC_A", "KC_B", "KC_NO", "KC_NO", "70000"}, "between 0 and 65535", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := cmdtest.Keyboard(t)
			opts, _ := cmdtest.Options(t, p)

			err := runSet(context.Background(), opts, tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}
