// generator.go serializes a Document back into keymap.c, config.h, rules.mk and keyboard.json.
package keymap

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Artifacts are the texts produced by Generate.
type Artifacts struct {
	KeymapC  string
	ConfigH  string
	RulesMk  string
	Keyboard map[string]interface{}

	// KeyboardChanged is false when Keyboard encodes to the same JSON as
	// the keyboard.json the document was parsed from.
	KeyboardChanged bool
}

const keymapHeader = `// Generated by vkc (Vial keymap editor)

#include QMK_KEYBOARD_H

#ifdef QMK_SETTINGS
#include "qmk_settings.h"
#endif

`

// resetShim replaces dynamic_keymap_reset so the generated defaults are
// written to dynamic storage whenever EEPROM is reset.
const resetShim = `
// Initialize Vial dynamic items
void __real_dynamic_keymap_reset(void);
void __wrap_dynamic_keymap_reset(void) {
    __real_dynamic_keymap_reset();

#if VIAL_TAP_DANCE_ENTRIES > 0
    for (size_t i = 0; i < sizeof(default_tap_dance_entries) / sizeof(default_tap_dance_entries[0]); ++i) {
        dynamic_keymap_set_tap_dance(i, &default_tap_dance_entries[i]);
    }
#endif
#if VIAL_COMBO_ENTRIES > 0
    for (size_t i = 0; i < sizeof(default_combo_entries) / sizeof(default_combo_entries[0]); ++i) {
        dynamic_keymap_set_combo(i, &default_combo_entries[i]);
    }
#endif
#if VIAL_KEY_OVERRIDE_ENTRIES > 0
    for (size_t i = 0; i < sizeof(default_key_override_entries) / sizeof(default_key_override_entries[0]); ++i) {
        dynamic_keymap_set_key_override(i, &default_key_override_entries[i]);
    }
#endif
#ifdef QMK_SETTINGS
    qmk_settings_t qs;
    uint8_t* p_qs = (uint8_t*)&qs;
    for (size_t i = 0; i < sizeof(qs); ++i) {
        p_qs[i] = dynamic_keymap_get_qmk_settings(i);
    }
    #ifdef VIAL_DEFAULT_TAPPING
        qs.tapping = VIAL_DEFAULT_TAPPING;
    #endif
    #ifdef VIAL_DEFAULT_AUTO_SHIFT
        qs.auto_shift = VIAL_DEFAULT_AUTO_SHIFT;
    #endif
    #ifdef DEFAULT_GRAVE_ESC_OVERRIDE
        qs.grave_esc_override = DEFAULT_GRAVE_ESC_OVERRIDE;
    #endif

    for (size_t i = 0; i < sizeof(qs); ++i) {
        dynamic_keymap_set_qmk_settings(i, p_qs[i]);
    }

    #ifdef DEFAULT_KEYMAP_EECONFIG
        keymap_config.raw = DEFAULT_KEYMAP_EECONFIG;
        eeconfig_update_keymap(keymap_config.raw);
    #endif

    qmk_settings_init();
#endif

    uint16_t const macro_buffer_size = MIN(sizeof(default_macro_buffer), dynamic_keymap_macro_get_buffer_size());
    dynamic_keymap_macro_set_buffer(0, macro_buffer_size, (uint8_t *)default_macro_buffer);
}
`

// Sources returns the texts the document was parsed from.
func (d *Document) Sources() Sources {
	return d.src
}

// Generate renders the document. config.h gets the quantum settings first
// and then the Vial count defines; keyboard.json mirrors the layer count.
func (d *Document) Generate() (*Artifacts, error) {
	configH, keyboard := applyQuantumSettings(d.src.ConfigH, d.src.Keyboard, d.QuantumSettings, d.opaque)
	configH = UpdateVialConfig(configH, VialCounts{
		TapDance:    len(d.TapDances),
		Combo:       len(d.Combos),
		KeyOverride: len(d.KeyOverrides),
	})
	setPath(keyboard, "dynamic_keymap.layer_count", len(d.Layers))

	changed, err := jsonDiffers(d.src.Keyboard, keyboard)
	if err != nil {
		return nil, err
	}

	return &Artifacts{
		KeymapC:         d.GenerateKeymapC(),
		ConfigH:         configH,
		RulesMk:         GenerateRulesMk(d.src.RulesMk),
		Keyboard:        keyboard,
		KeyboardChanged: changed,
	}, nil
}

// GenerateKeymapC renders keymap.c alone.
func (d *Document) GenerateKeymapC() string {
	var sb strings.Builder
	sb.WriteString(keymapHeader)
	writeUserSection(&sb, userIncludeBegin, d.UserIncludes, userIncludeEnd)
	sb.WriteString("\n\n/* GENERATED CODE BEGIN */\n\n")

	sb.WriteString(GenerateLayers(d.Layers))
	sb.WriteString(GenerateEncoders(d.Encoders, d.Layout.EncoderCount))
	sb.WriteString(GenerateTapDances(d.TapDances))
	sb.WriteString(GenerateCombos(d.Combos))
	sb.WriteString(GenerateMacroBuffer(d.Macros))
	sb.WriteString(GenerateKeyOverrides(d.KeyOverrides))
	sb.WriteString(resetShim)

	sb.WriteString("\n/* GENERATED CODE END */\n\n")
	writeUserSection(&sb, userCodeBegin, d.UserCode, userCodeEnd)
	sb.WriteString("\n")
	return sb.String()
}

func writeUserSection(sb *strings.Builder, begin, body, end string) {
	sb.WriteString(begin)
	sb.WriteString("\n")
	if body != "" {
		sb.WriteString(body)
		sb.WriteString("\n")
	}
	sb.WriteString(end)
}

func jsonDiffers(a, b map[string]interface{}) (bool, error) {
	ja, err := json.Marshal(a)
	if err != nil {
		return false, err
	}
	jb, err := json.Marshal(b)
	if err != nil {
		return false, err
	}
	return !bytes.Equal(ja, jb), nil
}
