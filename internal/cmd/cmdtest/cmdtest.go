// Package cmdtest provides a keyboard directory fixture for command tests.
package cmdtest

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/vial-keymap-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/vial-keymap-cli/internal/workspace"
)

// KeymapC is the fixture keymap.c: a 2x2 board with two layers, one
// encoder and one entry of each dynamic entity.
const KeymapC = `#include QMK_KEYBOARD_H

const uint16_t PROGMEM keymaps[][MATRIX_ROWS][MATRIX_COLS] = {
    [0] = LAYOUT(
        KC_A, KC_B,
        KC_C, KC_D
    ),
    [1] = LAYOUT(
        KC_TRNS, KC_1,
        KC_2, KC_3
    )
};

#if defined(ENCODER_MAP_ENABLE)
const uint16_t PROGMEM encoder_map[][NUM_ENCODERS][NUM_DIRECTIONS] = {
    [0] = { ENCODER_CCW_CW(KC_LEFT, KC_RIGHT) },
    [1] = { ENCODER_CCW_CW(KC_DOWN, KC_UP) }
};
#endif

const vial_tap_dance_entry_t PROGMEM default_tap_dance_entries[] = {
    TAP_DANCE_ENTRY(KC_A, KC_B, KC_C, KC_D, 180)
};

const vial_combo_entry_t PROGMEM default_combo_entries[] = {
    COMBO_ENTRY(KC_A, KC_B, KC_NO, KC_NO, KC_ESC)
};

const uint8_t PROGMEM default_macro_buffer[] = {
    0x68, 0x69, 0x00
};

const vial_key_override_entry_t PROGMEM default_key_override_entries[] = {
    {
        .trigger = KC_BSPC,
        .replacement = KC_DEL,
        .layers = 0xffff,
        .trigger_mods = MOD_BIT(KC_LSFT),
        .negative_mod_mask = 0,
        .suppressed_mods = MOD_BIT(KC_LSFT),
        .options = vial_ko_enabled
    }
};

/* USER CODE BEGIN */
/* USER CODE END */
`

// ConfigH is the fixture config.h.
const ConfigH = `#pragma once

#define VIAL_KEYBOARD_UID {0x01}
#define VIAL_TAP_DANCE_ENTRIES 1
#define VIAL_COMBO_ENTRIES 1
#define VIAL_KEY_OVERRIDE_ENTRIES 1
#define AUTO_SHIFT_TIMEOUT 150
`

// KeyboardJSON is the fixture keyboard.json.
const KeyboardJSON = `{
  "keyboard_name": "testpad",
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
  "encoder": {"rotary": [{"pin_a": "B1", "pin_b": "B2"}]}
}
`

// Keyboard writes the fixture into a temporary directory and returns its
// paths. The keymap is named "vial".
func Keyboard(t *testing.T) workspace.Paths {
	t.Helper()
	p := workspace.Paths{Dir: t.TempDir(), Keymap: "vial"}
	require.NoError(t, os.MkdirAll(p.KeymapDir(), 0755))
	require.NoError(t, os.WriteFile(p.KeyboardJSON(), []byte(KeyboardJSON), 0644))
	require.NoError(t, os.WriteFile(p.KeymapC(), []byte(KeymapC), 0644))
	require.NoError(t, os.WriteFile(p.ConfigH(), []byte(ConfigH), 0644))
	require.NoError(t, os.WriteFile(p.RulesMk(), []byte("VIAL_ENABLE = yes\n"), 0644))
	return p
}

// Options returns command options pointing at p that write without
// confirmation and capture output in the returned buffer. No config file
// is read.
func Options(t *testing.T, p workspace.Paths) (*cmdutil.Options, *bytes.Buffer) {
	t.Helper()
	for _, v := range []string{"VKC_KEYBOARD_DIR", "VKC_KEYMAP", "VKC_LAYOUT"} {
		t.Setenv(v, "")
	}
	var buf bytes.Buffer
	return &cmdutil.Options{
		ConfigPath: filepath.Join(t.TempDir(), "missing.yml"),
		Dir:        p.Dir,
		Keymap:     p.Keymap,
		NoColor:    true,
		Yes:        true,
		Stdout:     &buf,
	}, &buf
}

// ReadFile returns the content of path.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
