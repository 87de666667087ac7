package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/vial-keymap-cli/pkg/keymap"
)

func testDocument() *keymap.Document {
	return &keymap.Document{
		Layout: keymap.LayoutDescriptor{Name: "LAYOUT", EncoderCount: 1, LayerCount: 1},
		Layers: []keymap.Layer{{
			Layout: "LAYOUT",
			Keys: []keymap.Key{
				{Keycode: "KC_A", Row: 0, Col: 0},
				{Keycode: "KC_B", Row: 0, Col: 1},
				{Keycode: "LT(1, KC_C)", Row: 1, Col: 1},
			},
		}},
		Encoders:  [][]keymap.EncoderEntry{{{CCW: "KC_VOLD", CW: "KC_VOLU"}}},
		TapDances: []keymap.TapDanceEntry{{OnTap: "KC_A", OnHold: "KC_B", OnDoubleTap: "KC_NO", OnTapHold: "KC_NO", TappingTerm: 180}},
		Combos:    []keymap.ComboEntry{{Input: [4]string{"KC_A", "KC_B", "KC_NO", "KC_NO"}, Output: "KC_ESC"}},
		KeyOverrides: []keymap.KeyOverrideEntry{{
			Trigger: "KC_BSPC", Replacement: "KC_DEL", Layers: 1,
			TriggerMods: 1 << 1, SuppressedMods: 1 << 1, Options: 1 << 7,
		}},
		Macros:          []byte{'h', 'i', 0x00, 0x01, 0x04, 0xe8, 0x03, 0x00},
		QuantumSettings: map[string]int{"AUTO_SHIFT_TIMEOUT": 150},
	}
}

func TestLayerGrid(t *testing.T) {
	grid := LayerGrid(testDocument().Layers[0])
	assert.Equal(t, [][]string{
		{"KC_A", "KC_B"},
		{"", "LT(1, KC_C)"},
	}, grid)
}

func TestLayerGrid_Empty(t *testing.T) {
	assert.Empty(t, LayerGrid(keymap.Layer{}))
}

func TestDescribeMacro(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{"empty", nil, "(empty)"},
		{"text", []byte("hi"), `"hi"`},
		{"tap", []byte{0x01, 0x01, 0x04}, "{tap 0x04}"},
		{"delay", []byte{0x01, 0x04, 0xe8, 0x03}, "{delay 741ms}"},
		{"mixed", []byte{'a', 0x01, 0x02, 0xe1, 'b'}, `"a" {down 0xe1} "b"`},
		{"ext tap", []byte{0x01, 0x05, 0x04, 0x02}, "{tap 0x0204}"},
		{"unknown action", []byte{0x01, 0x09}, "{0x09}"},
		{"truncated", []byte{0x01}, "{?}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DescribeMacro(tt.input))
		})
	}
}

func TestMarkdown(t *testing.T) {
	out := string(Markdown(testDocument(), "Pad"))

	assert.True(t, strings.HasPrefix(out, "# Pad\n\n"))
	assert.Contains(t, out, "Layout `LAYOUT`, 1 layers, 1 encoders.")
	assert.Contains(t, out, "## Layer 0\n\n|  | 0 | 1 |\n| --- | --- | --- |\n| 0 | KC_A | KC_B |\n| 1 |  | LT(1, KC_C) |\n")
	assert.Contains(t, out, "| 0 | 0 | KC_VOLD | KC_VOLU |")
	assert.Contains(t, out, "| 0 | KC_A | KC_B | KC_NO | KC_NO | 180 |")
	assert.Contains(t, out, "| 0 | KC_A + KC_B + KC_NO + KC_NO | KC_ESC |")
	assert.Contains(t, out, "| 0 | KC_BSPC | KC_DEL | 0x0001 | MOD_BIT(KC_LSFT) | 0 | MOD_BIT(KC_LSFT) | vial_ko_enabled |")
	assert.Contains(t, out, "| 0 | \"hi\" |")
	assert.Contains(t, out, "| 1 | {delay 741ms} |")
	assert.Contains(t, out, "| `AUTO_SHIFT_TIMEOUT` | Auto Shift timeout | 150 |")
}

func TestMarkdown_OmitsEmptySections(t *testing.T) {
	doc := &keymap.Document{
		Layout: keymap.LayoutDescriptor{Name: "LAYOUT"},
		Layers: []keymap.Layer{{Keys: []keymap.Key{{Keycode: "KC_A"}}}},
	}
	out := string(Markdown(doc, "Bare"))
	assert.Contains(t, out, "## Layer 0")
	for _, section := range []string{"Encoders", "Tap dance", "Combos", "Key overrides", "Macros", "Settings"} {
		assert.NotContains(t, out, "## "+section)
	}
}

func TestMarkdown_EscapesPipes(t *testing.T) {
	doc := &keymap.Document{
		Layers: []keymap.Layer{{Keys: []keymap.Key{{Keycode: "A|B"}}}},
	}
	assert.Contains(t, string(Markdown(doc, "x")), `| 0 | A\|B |`)
}

func TestHTML(t *testing.T) {
	out, err := HTML(testDocument(), "Pad <test>")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>Pad &lt;test&gt;</title>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>KC_A</td>")
	assert.Contains(t, out, "<h2>Layer 0</h2>")
	assert.True(t, strings.HasSuffix(out, "</html>\n"))
}
