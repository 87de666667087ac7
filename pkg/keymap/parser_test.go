package keymap

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var twoByTwo = LayoutDescriptor{
	Name: "LAYOUT",
	Keys: []Position{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
}

func TestParseLayers(t *testing.T) {
	var w Warnings
	layers, err := ParseLayers(sampleKeymapC, 2, twoByTwo, &w)
	require.NoError(t, err)
	assert.Empty(t, w)

	want := []Layer{
		{Layout: "LAYOUT", Keys: []Key{{"KC_A", 0, 0}, {"KC_B", 0, 1}, {"LT(1,KC_C)", 1, 0}, {"KC_D", 1, 1}}},
		{Layout: "LAYOUT", Keys: []Key{{"_______", 0, 0}, {"KC_1", 0, 1}, {"KC_2", 1, 0}, {"MO(2)", 1, 1}}},
	}
	if diff := cmp.Diff(want, layers); diff != "" {
		t.Errorf("layers mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLayers_CountMismatch(t *testing.T) {
	t.Run("padding", func(t *testing.T) {
		var w Warnings
		layers, err := ParseLayers(sampleKeymapC, 4, twoByTwo, &w)
		require.NoError(t, err)
		require.Len(t, layers, 4)
		for _, k := range layers[3].Keys {
			assert.Equal(t, KeycodeTransparent, k.Keycode)
		}
		assert.Len(t, w, 1)
	})

	t.Run("truncation", func(t *testing.T) {
		var w Warnings
		layers, err := ParseLayers(sampleKeymapC, 1, twoByTwo, &w)
		require.NoError(t, err)
		require.Len(t, layers, 1)
		assert.Equal(t, "KC_A", layers[0].Keys[0].Keycode)
		assert.Len(t, w, 1)
	})

	t.Run("short layout call", func(t *testing.T) {
		var w Warnings
		text := "const uint16_t PROGMEM keymaps[][MATRIX_ROWS][MATRIX_COLS] = { [0] = LAYOUT(KC_A, KC_B) };"
		layers, err := ParseLayers(text, 1, twoByTwo, &w)
		require.NoError(t, err)
		assert.Equal(t, "KC_B", layers[0].Keys[1].Keycode)
		assert.Equal(t, KeycodeTransparent, layers[0].Keys[3].Keycode)
		assert.Len(t, w, 1)
	})

	t.Run("missing block", func(t *testing.T) {
		var w Warnings
		layers, err := ParseLayers("", 2, twoByTwo, &w)
		require.NoError(t, err)
		require.Len(t, layers, 2)
		assert.Equal(t, "LAYOUT", layers[1].Layout)
		assert.Empty(t, w)
	})

	t.Run("unbalanced", func(t *testing.T) {
		text := "const uint16_t PROGMEM keymaps[][MATRIX_ROWS][MATRIX_COLS] = { [0] = LAYOUT(KC_A, KC_B };"
		_, err := ParseLayers(text, 1, twoByTwo, nil)
		assert.ErrorIs(t, err, ErrUnbalanced)
	})
}

func TestGenerateLayers(t *testing.T) {
	out := GenerateLayers([]Layer{
		{Layout: "LAYOUT", Keys: []Key{{"KC_A", 0, 0}, {"KC_B", 0, 1}, {"KC_C", 1, 0}, {"KC_D", 1, 1}, {"KC_E", 2, 0}}},
	})
	want := "const uint16_t PROGMEM keymaps[][MATRIX_ROWS][MATRIX_COLS] = {\n" +
		"    [0] = LAYOUT(\n" +
		"                   KC_A,            KC_B,            KC_C,            KC_D,\n" +
		"                   KC_E\n" +
		"    )\n" +
		"};\n"
	assert.Equal(t, want, out)
}

func TestParseTapDances(t *testing.T) {
	var w Warnings
	entries, err := ParseTapDances(sampleKeymapC, 1, &w)
	require.NoError(t, err)
	assert.Equal(t, []TapDanceEntry{{"KC_A", "KC_B", "KC_C", "KC_D", 180}}, entries)
	assert.Empty(t, w)

	t.Run("bad term", func(t *testing.T) {
		var w Warnings
		text := "const vial_tap_dance_entry_t PROGMEM default_tap_dance_entries[] = { TAP_DANCE_ENTRY(KC_A, KC_B, KC_C, KC_D, TAPPING_TERM) };"
		entries, err := ParseTapDances(text, 1, &w)
		require.NoError(t, err)
		assert.Equal(t, 200, entries[0].TappingTerm)
		assert.Equal(t, "KC_A", entries[0].OnTap)
		assert.Len(t, w, 1)
	})

	t.Run("wrong arity is skipped", func(t *testing.T) {
		var w Warnings
		text := "const vial_tap_dance_entry_t PROGMEM default_tap_dance_entries[] = { TAP_DANCE_ENTRY(KC_A, KC_B), TAP_DANCE_ENTRY(KC_E, KC_F, KC_G, KC_H, 150) };"
		entries, err := ParseTapDances(text, 2, &w)
		require.NoError(t, err)
		assert.Equal(t, "KC_E", entries[0].OnTap)
		assert.Equal(t, DefaultTapDance, entries[1])
		assert.Len(t, w, 2)
	})
}

func TestCountInvariants(t *testing.T) {
	for _, n := range []int{0, 1, 2, 5, 32} {
		td, err := ParseTapDances(sampleKeymapC, n, nil)
		require.NoError(t, err)
		assert.Len(t, td, n)

		combos, err := ParseCombos(sampleKeymapC, n, nil)
		require.NoError(t, err)
		assert.Len(t, combos, n)

		overrides, err := ParseKeyOverrides(sampleKeymapC, n, nil)
		require.NoError(t, err)
		assert.Len(t, overrides, n)

		layers, err := ParseLayers(sampleKeymapC, n, twoByTwo, nil)
		require.NoError(t, err)
		assert.Len(t, layers, n)

		encoders, err := ParseEncoders(sampleKeymapC, 1, n, nil)
		require.NoError(t, err)
		assert.Len(t, encoders, n)
	}
}

func TestMissingTapDanceBlockYieldsDefaults(t *testing.T) {
	src := sampleSources(t)
	src.KeymapC = strings.Replace(src.KeymapC,
		"    TAP_DANCE_ENTRY(KC_A, KC_B, KC_C, KC_D, 180),\n", "", 1)
	src.ConfigH = strings.Replace(src.ConfigH, "VIAL_TAP_DANCE_ENTRIES 1", "VIAL_TAP_DANCE_ENTRIES 4", 1)

	doc, err := Parse(src, ParseOptions{})
	require.NoError(t, err)
	require.Len(t, doc.TapDances, 4)
	for _, td := range doc.TapDances {
		assert.Equal(t, TapDanceEntry{
			OnTap:       "KC_NO",
			OnHold:      "KC_NO",
			OnDoubleTap: "KC_NO",
			OnTapHold:   "KC_NO",
			TappingTerm: 200,
		}, td)
	}
}

func TestParseCombos(t *testing.T) {
	var w Warnings
	entries, err := ParseCombos(sampleKeymapC, 3, &w)
	require.NoError(t, err)
	want := []ComboEntry{
		{Input: [4]string{"KC_A", "KC_B", "KC_NO", "KC_NO"}, Output: "KC_ESC"},
		{Input: [4]string{"KC_C", "KC_D", "KC_NO", "KC_NO"}, Output: "KC_TAB"},
		DefaultCombo,
	}
	assert.Equal(t, want, entries)
	assert.Len(t, w, 1)
}

func TestGenerateCombos(t *testing.T) {
	out := GenerateCombos([]ComboEntry{{Input: [4]string{"KC_A", "KC_B", "KC_NO", "KC_NO"}, Output: "KC_ESC"}})
	assert.Contains(t, out, "#if VIAL_COMBO_ENTRIES > 0\n")
	assert.Contains(t, out, "    COMBO_ENTRY(KC_A, KC_B, KC_NO, KC_NO, KC_ESC)\n};\n#endif\n")

	empty := GenerateCombos(nil)
	assert.Contains(t, empty, "const vial_combo_entry_t PROGMEM default_combo_entries[] = {\n};\n#endif\n")
}

func TestParseKeyOverrides(t *testing.T) {
	tests := []struct {
		name string
		body string
		want KeyOverrideEntry
	}{
		{
			name: "designated",
			body: "{ .trigger = KC_BSPC, .replacement = KC_DEL, .layers = 0x0001, .trigger_mods = MOD_BIT(KC_LSFT), .negative_mod_mask = 0, .suppressed_mods = MOD_BIT(KC_LSFT), .options = vial_ko_enabled }",
			want: KeyOverrideEntry{"KC_BSPC", "KC_DEL", 1, 0x02, 0, 0x02, 0x80},
		},
		{
			name: "positional struct",
			body: "{ KC_A, KC_B, 0xffff, MOD_BIT(KC_LCTL) | MOD_BIT(KC_LSFT), 0, 0, vial_ko_option_one_mod | vial_ko_enabled }",
			want: KeyOverrideEntry{"KC_A", "KC_B", 0xffff, 0x03, 0, 0, 0x88},
		},
		{
			name: "macro call",
			body: "KO_ENTRY(KC_C, LCTL(KC_V), 3, MOD_BIT(KC_RALT), MOD_BIT(KC_LGUI), 0, 0)",
			want: KeyOverrideEntry{"KC_C", "LCTL(KC_V)", 3, 0x40, 0x08, 0, 0},
		},
		{
			name: "six fields",
			body: "{ KC_A, KC_B, 0x0002, MOD_BIT(KC_LSFT), 0, MOD_BIT(KC_LSFT) }",
			want: KeyOverrideEntry{"KC_A", "KC_B", 2, 0x02, 0, 0x02, 0},
		},
		{
			name: "layer mask truncated",
			body: "{ KC_A, KC_B, 0x1ffff, 0, 0, 0, 0 }",
			want: KeyOverrideEntry{"KC_A", "KC_B", 0xffff, 0, 0, 0, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := "const vial_key_override_entry_t PROGMEM default_key_override_entries[] = {\n" + tt.body + "\n};"
			var w Warnings
			entries, err := ParseKeyOverrides(text, 1, &w)
			require.NoError(t, err)
			assert.Equal(t, tt.want, entries[0])
			assert.Empty(t, w)
		})
	}
}

func TestKeyOverride_NestedModsSurviveRegeneration(t *testing.T) {
	text := "const vial_key_override_entry_t PROGMEM default_key_override_entries[] = {\n" +
		"{ KC_A, KC_B, 0xffff, MOD_BIT(KC_LCTL) | MOD_BIT(KC_LSFT), 0, 0, 0 }\n};"
	first, err := ParseKeyOverrides(text, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 0x03, first[0].TriggerMods)

	second, err := ParseKeyOverrides(GenerateKeyOverrides(first), 1, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseKeyOverrides_Malformed(t *testing.T) {
	var w Warnings
	text := "const vial_key_override_entry_t PROGMEM default_key_override_entries[] = { { KC_A, KC_B }, 42 };"
	entries, err := ParseKeyOverrides(text, 1, &w)
	require.NoError(t, err)
	assert.Equal(t, DefaultKeyOverride, entries[0])
	assert.Len(t, w, 3)

	_, err = ParseKeyOverrides("const vial_key_override_entry_t PROGMEM default_key_override_entries[] = { { KC_A, KC_B, 0, 0, 0, 0 };", 1, nil)
	assert.ErrorIs(t, err, ErrUnbalanced)
}

func TestParseEncoders(t *testing.T) {
	var w Warnings
	encoders, err := ParseEncoders(sampleKeymapC, 1, 3, &w)
	require.NoError(t, err)
	want := [][]EncoderEntry{
		{{CCW: "KC_VOLD", CW: "KC_VOLU"}},
		{{CCW: "KC_PGDN", CW: "KC_PGUP"}},
		{DefaultEncoder},
	}
	assert.Equal(t, want, encoders)
	assert.Empty(t, w)
}

func TestParseEncoders_Positional(t *testing.T) {
	text := "const uint16_t PROGMEM encoder_map[][NUM_ENCODERS][NUM_DIRECTIONS] = {\n" +
		"  { {KC_A, KC_B}, {KC_C, KC_D} },\n" +
		"  [3] = { {KC_E, KC_F} },\n" +
		"};"
	var w Warnings
	encoders, err := ParseEncoders(text, 2, 2, &w)
	require.NoError(t, err)
	assert.Equal(t, EncoderEntry{"KC_C", "KC_D"}, encoders[0][1])
	assert.Equal(t, []EncoderEntry{DefaultEncoder, DefaultEncoder}, encoders[1])
	assert.Len(t, w, 1)
}

func TestParseEncoders_DesignatorOutOfRange(t *testing.T) {
	tests := []struct {
		name       string
		designator string
	}{
		{"overflows int", "99999999999999999999"},
		{"beyond max layers", "40"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := "const uint16_t PROGMEM encoder_map[][NUM_ENCODERS][NUM_DIRECTIONS] = {\n" +
				"  [" + tt.designator + "] = { { KC_A, KC_B } },\n" +
				"  { { KC_C, KC_D } }\n" +
				"};"
			var w Warnings
			var encoders [][]EncoderEntry
			require.NotPanics(t, func() {
				var err error
				encoders, err = ParseEncoders(text, 1, 2, &w)
				require.NoError(t, err)
			})
			assert.Equal(t, EncoderEntry{"KC_C", "KC_D"}, encoders[0][0])
			assert.Equal(t, []EncoderEntry{DefaultEncoder}, encoders[1])
			require.Len(t, w, 1)
			assert.Contains(t, w[0], "out of range")
		})
	}
}

func TestGenerateEncoders(t *testing.T) {
	assert.Empty(t, GenerateEncoders([][]EncoderEntry{{}}, 0))

	out := GenerateEncoders([][]EncoderEntry{{{"KC_VOLD", "KC_VOLU"}}}, 1)
	assert.True(t, strings.HasPrefix(out, "\n#if defined(ENCODER_MAP_ENABLE)\n"))
	assert.Contains(t, out, "        { KC_VOLD        , KC_VOLU         }\n")

	back, err := ParseEncoders(out, 1, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, EncoderEntry{"KC_VOLD", "KC_VOLU"}, back[0][0])
}

func TestMacroBuffer(t *testing.T) {
	buf, err := ParseMacroBuffer(sampleKeymapC, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x68, 0x69, 0x00, 0x01, 0x04, 0xe8, 0x03, 0x00}, buf)

	assert.Equal(t, [][]byte{{0x68, 0x69}, {0x01, 0x04, 0xe8, 0x03}}, SplitMacros(buf, MaxEntries))
	assert.Equal(t, 2, CountMacros(buf, MaxEntries))
	assert.Equal(t, 1, CountMacros(buf, 1))

	back, err := ParseMacroBuffer(GenerateMacroBuffer(buf), nil)
	require.NoError(t, err)
	assert.Equal(t, buf, back)

	missing, err := ParseMacroBuffer("", nil)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestSplitMacros(t *testing.T) {
	tests := []struct {
		name  string
		buf   []byte
		limit int
		want  [][]byte
	}{
		{"empty", nil, 32, [][]byte{}},
		{"empty macros count", []byte{0, 0, 'a', 0}, 32, [][]byte{{}, {}, {'a'}}},
		{"tap action hides terminator", []byte{1, 1, 0, 'x', 0}, 32, [][]byte{{1, 1, 0, 'x'}}},
		{"extended action", []byte{1, 5, 0, 0, 0}, 32, [][]byte{{1, 5, 0, 0}}},
		{"unknown action type", []byte{1, 9, 'a', 0}, 32, [][]byte{{1, 9, 'a'}}},
		{"unterminated tail", []byte{'a', 0, 'b'}, 32, [][]byte{{'a'}, {'b'}}},
		{"limit", []byte{'a', 0, 'b', 0, 'c', 0}, 2, [][]byte{{'a'}, {'b'}}},
		{"truncated action", []byte{1, 4, 0}, 32, [][]byte{{1, 4, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitMacros(tt.buf, tt.limit))
		})
	}
}

func TestActionLength(t *testing.T) {
	for typ, want := range map[byte]int{0: 2, 1: 3, 2: 3, 3: 3, 4: 4, 5: 4, 6: 4, 7: 4, 8: 2} {
		assert.Equal(t, want, ActionLength(typ), "type %d", typ)
	}
}
