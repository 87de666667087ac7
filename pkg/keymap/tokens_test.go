package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModBits_Parse(t *testing.T) {
	tests := []struct {
		name        string
		expr        string
		want        int
		wantUnknown []string
	}{
		{"zero", "0", 0, nil},
		{"single", "MOD_BIT(KC_LSFT)", 0x02, nil},
		{"or of two", "MOD_BIT(KC_LCTL) | MOD_BIT(KC_LSFT)", 0x03, nil},
		{"compacted", "MOD_BIT(KC_LCTL)|MOD_BIT(KC_LSFT)", 0x03, nil},
		{"wrapped in parens", "(MOD_BIT(KC_LSFT) | MOD_BIT(KC_RSFT))", 0x22, nil},
		{"mask alias", "MOD_MASK_SHIFT", 0x22, nil},
		{"long name", "MOD_BIT(KC_LEFT_GUI)", 0x08, nil},
		{"hex literal", "0x81", 0x81, nil},
		{"unknown", "MOD_BIT(KC_FOO) | MOD_BIT(KC_RALT)", 0x40, []string{"MOD_BIT(KC_FOO)"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, unknown := ModBits.Parse(tt.expr)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantUnknown, unknown)
		})
	}
}

func TestModBits_FormatRoundTrip(t *testing.T) {
	assert.Equal(t, "0", ModBits.Format(0))
	assert.Equal(t, "MOD_BIT(KC_LCTL) | MOD_BIT(KC_LSFT)", ModBits.Format(0x03))

	for v := 0; v < 256; v++ {
		got, unknown := ModBits.Parse(ModBits.Format(v))
		assert.Empty(t, unknown)
		assert.Equal(t, v, got, "value 0x%02x", v)
	}
}

func TestOverrideOptions(t *testing.T) {
	assert.Equal(t, "vial_ko_option_activation_trigger_down | vial_ko_enabled", OverrideOptions.Format(0x81))
	assert.Equal(t, "0x40", OverrideOptions.Format(0x40))

	v, unknown := OverrideOptions.Parse("vial_ko_option_one_mod | vial_ko_enabled")
	assert.Empty(t, unknown)
	assert.Equal(t, 0x88, v)

	bit, ok := OverrideOptions.Lookup("vial_ko_option_no_reregister_trigger")
	assert.True(t, ok)
	assert.Equal(t, 0x10, bit)
	assert.Len(t, OverrideOptions.Flags(), 7)
}
