package keymap

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleKeymapC = `#include QMK_KEYBOARD_H

/* USER INCLUDE BEGIN */
#include "custom.h"
/* USER INCLUDE END */

const uint16_t PROGMEM keymaps[][MATRIX_ROWS][MATRIX_COLS] = {
    [0] = LAYOUT(
        KC_A, KC_B,
        LT(1, KC_C), KC_D
    ),
    // second layer
    [1] = LAYOUT(
        _______, KC_1,
        KC_2, MO(2)
    )
};

#if defined(ENCODER_MAP_ENABLE)
const uint16_t PROGMEM encoder_map[][NUM_ENCODERS][NUM_DIRECTIONS] = {
    [0] = { ENCODER_CCW_CW(KC_VOLD, KC_VOLU) },
    [1] = { { KC_PGDN, KC_PGUP } }
};
#endif

const vial_tap_dance_entry_t PROGMEM default_tap_dance_entries[] = {
    TAP_DANCE_ENTRY(KC_A, KC_B, KC_C, KC_D, 180),
};

const vial_combo_entry_t PROGMEM default_combo_entries[] = {
    COMBO_ENTRY(KC_A, KC_B, KC_NO, KC_NO, KC_ESC),
    COMBO_ENTRY(KC_C, KC_D, KC_NO, KC_NO, KC_TAB)
};

const uint8_t PROGMEM default_macro_buffer[] = {
    0x68, 0x69, 0x00, 0x01, 0x04, 0xe8, 0x03, 0x00
};

const vial_key_override_entry_t PROGMEM default_key_override_entries[] = {
    {
        .trigger = KC_BSPC,
        .replacement = KC_DEL,
        .layers = 0x0001,
        .trigger_mods = MOD_BIT(KC_LSFT),
        .negative_mod_mask = 0,
        .suppressed_mods = MOD_BIT(KC_LSFT),
        .options = vial_ko_enabled
    }
};

/* USER CODE BEGIN */
void keyboard_post_init_user(void) {}
/* USER CODE END */
`

const sampleConfigH = `#pragma once

#define VIAL_KEYBOARD_UID {0x01}
#define VIAL_TAP_DANCE_ENTRIES 1
#define VIAL_COMBO_ENTRIES 2
#define VIAL_KEY_OVERRIDE_ENTRIES 1
#define AUTO_SHIFT_TIMEOUT 150
`

const sampleRulesMk = `VIA_ENABLE = yes
VIAL_ENABLE = yes`

const sampleKeyboardJSON = `{
  "keyboard_name": "test",
  "layouts": {
    "LAYOUT": {
      "layout": [
        {"matrix": [0, 0], "x": 0, "y": 0},
        {"matrix": [0, 1], "x": 1, "y": 0},
        {"matrix": [1, 0], "x": 0, "y": 1},
        {"matrix": [1, 1], "x": 1, "y": 1}
      ]
    }
  },
  "dynamic_keymap": {"layer_count": 2},
  "encoder": {"rotary": [{"pin_a": "B1", "pin_b": "B2"}]},
  "tapping": {"term": 220}
}`

// decodeKeyboard decodes keyboard.json the way the workspace loader does,
// numbers as float64.
func decodeKeyboard(t *testing.T, text string) map[string]interface{} {
	t.Helper()
	var kb map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text), &kb))
	return kb
}

func sampleSources(t *testing.T) Sources {
	t.Helper()
	return Sources{
		KeymapC:  sampleKeymapC,
		ConfigH:  sampleConfigH,
		RulesMk:  sampleRulesMk,
		Keyboard: decodeKeyboard(t, sampleKeyboardJSON),
	}
}

func parseSample(t *testing.T) *Document {
	t.Helper()
	doc, err := Parse(sampleSources(t), ParseOptions{})
	require.NoError(t, err)
	return doc
}

// gridKeyboard builds keyboard.json for a rows x cols matrix with every
// position populated.
func gridKeyboard(rows, cols int) map[string]interface{} {
	keys := make([]interface{}, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			keys = append(keys, map[string]interface{}{
				"matrix": []interface{}{float64(r), float64(c)},
			})
		}
	}
	return map[string]interface{}{
		"layouts": map[string]interface{}{
			"LAYOUT_grid": map[string]interface{}{"layout": keys},
		},
	}
}

// fakeConverter resolves KC_A..KC_Z, KC_NO and KC_TRANSPARENT.
type fakeConverter struct{}

func (fakeConverter) KeycodeName(code uint16) (string, bool) {
	switch {
	case code == 0:
		return KeycodeNo, true
	case code == 1:
		return KeycodeTransparent, true
	case code >= 4 && code <= 0x1d:
		return "KC_" + string(rune('A'+code-4)), true
	}
	return "", false
}

func (fakeConverter) KeycodeValue(name string) (uint16, bool) {
	switch name {
	case KeycodeNo, "XXXXXXX":
		return 0, true
	case KeycodeTransparent, "KC_TRNS", "_______":
		return 1, true
	}
	if len(name) == 4 && name[:3] == "KC_" && name[3] >= 'A' && name[3] <= 'Z' {
		return uint16(name[3]-'A') + 4, true
	}
	return 0, false
}
