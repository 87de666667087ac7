// quantum.go holds the quantum setting registry and maps setting values onto config.h and keyboard.json.
package keymap

import (
	"sort"
	"strings"
)

// SettingKind tells how an editor presents a quantum setting.
type SettingKind string

const (
	SettingRange    SettingKind = "range"
	SettingCheckbox SettingKind = "multiple-checkbox"
)

// QuantumSetting describes one configurable firmware setting. IDs in upper
// case live in config.h as defines; dotted lower-case IDs are nested
// keyboard.json fields.
type QuantumSetting struct {
	ID      string
	Group   string
	Label   string
	Kind    SettingKind
	QSID    int // Vial qmk_settings id
	Width   int // size in bytes
	Default int
	Min     int
	Max     int
	Options []string
}

// QuantumSettings is the registry of settings the editor understands.
var QuantumSettings = []QuantumSetting{
	{ID: "DEFAULT_KEYMAP_EECONFIG", Group: "Magic", Label: "Magic", Kind: SettingCheckbox, QSID: 21, Width: 2, Options: []string{
		"Swap Control CapsLock", "CapsLock to Control", "Swap LAlt LGUI", "Swap RAlt RGUI", "No GUI",
		"Swap Grave Esc", "Swap Backslash Backspace", "", "Swap LCTL LGUI", "Swap RCtl RGUI",
	}},
	{ID: "DEFAULT_GRAV_ESC_EECONFIG", Group: "Grave Escape", Label: "Grave Escape Override", Kind: SettingCheckbox, QSID: 1, Width: 1, Options: []string{
		"Send Esc if Alt is pressed", "Send Esc if Ctrl is pressed", "Send Esc if GUI is pressed", "Send Esc if Shift is pressed",
	}},
	{ID: "tapping.term", Group: "Tap-Hold", Label: "Tapping term [ms]", Kind: SettingRange, QSID: 7, Width: 2, Default: 200, Max: 65535},
	{ID: "VIAL_DEFAULT_TAPPING", Group: "Tap-Hold", Label: "Tapping options", Kind: SettingCheckbox, QSID: 8, Width: 1, Options: []string{
		"Permissive hold", "Ignore Mod Tap interrupt", "Tapping force hold", "Retro tapping",
	}},
	{ID: "qmk.tap_keycode_delay", Group: "Tap-Hold", Label: "Tap code delay [ms]", Kind: SettingRange, QSID: 18, Width: 2, Max: 500},
	{ID: "qmk.tap_capslock_delay", Group: "Tap-Hold", Label: "Tap hold Caps delay [ms]", Kind: SettingRange, QSID: 19, Width: 2, Default: 80, Max: 500},
	{ID: "tapping.toggle", Group: "Tap-Hold", Label: "Tapping toggle", Kind: SettingRange, QSID: 20, Width: 1, Default: 5, Max: 99},
	{ID: "VIAL_DEFAULT_AUTO_SHIFT", Group: "Auto Shift", Label: "Auto Shift option", Kind: SettingCheckbox, QSID: 3, Width: 1, Options: []string{
		"Enable", "Enable for modifiers", "No Auto Shift Special", "No Auto Shift Numeric", "No Auto Shift Alpha",
		"Enable keyrepeat", "Disable keyrepeat when timeout is exceeded",
	}},
	{ID: "AUTO_SHIFT_TIMEOUT", Group: "Auto Shift", Label: "Auto Shift timeout", Kind: SettingRange, QSID: 4, Width: 1, Default: 175, Max: 255},
	{ID: "combo.term", Group: "Combo", Label: "Combo term [ms]", Kind: SettingRange, QSID: 2, Width: 2, Default: 50, Max: 500},
	{ID: "oneshot.tap_toggle", Group: "One Shot Keys", Label: "Tap toggle count", Kind: SettingRange, QSID: 5, Width: 1, Default: 5, Max: 50},
	{ID: "oneshot.timeout", Group: "One Shot Keys", Label: "One shot key timeout [ms]", Kind: SettingRange, QSID: 6, Width: 2, Default: 5000, Max: 65535},
	{ID: "mousekey.delay", Group: "Mouse Keys", Label: "Mouse key delay [ms]", Kind: SettingRange, QSID: 9, Width: 2, Default: 10, Max: 500},
	{ID: "mousekey.interval", Group: "Mouse Keys", Label: "Mouse key interval [ms]", Kind: SettingRange, QSID: 10, Width: 2, Max: 500},
	{ID: "MOUSEKEY_MOVE_DELTA", Group: "Mouse Keys", Label: "Mouse key move delta", Kind: SettingRange, QSID: 11, Width: 2, Max: 500},
	{ID: "mousekey.max_speed", Group: "Mouse Keys", Label: "Mouse key max speed", Kind: SettingRange, QSID: 12, Width: 2, Max: 500},
	{ID: "mousekey.time_to_max", Group: "Mouse Keys", Label: "Mouse key time to max [ms]", Kind: SettingRange, QSID: 13, Width: 2, Max: 500},
	{ID: "mousekey.wheel_delay", Group: "Mouse Keys", Label: "Mouse key wheel delay [ms]", Kind: SettingRange, QSID: 14, Width: 2, Max: 500},
	{ID: "MOUSEKEY_WHEEL_INTERVAL", Group: "Mouse Keys", Label: "Mouse key wheel interval [ms]", Kind: SettingRange, QSID: 15, Width: 2, Max: 500},
	{ID: "MOUSEKEY_WHEEL_MAX_SPEED", Group: "Mouse Keys", Label: "Mouse key wheel max speed", Kind: SettingRange, QSID: 16, Width: 2, Max: 500},
	{ID: "MOUSEKEY_WHEEL_TIME_TO_MAX", Group: "Mouse Keys", Label: "Mouse key wheel time to max [ms]", Kind: SettingRange, QSID: 17, Width: 2, Max: 500},
}

// LookupQuantumSetting returns the registry entry for id.
func LookupQuantumSetting(id string) (QuantumSetting, bool) {
	for _, s := range QuantumSettings {
		if s.ID == id {
			return s, true
		}
	}
	return QuantumSetting{}, false
}

// Mask truncates v to the setting's byte width.
func (s QuantumSetting) Mask(v int) int {
	if s.Width <= 0 || s.Width >= 8 {
		return v
	}
	return v & (1<<(s.Width*8) - 1)
}

// IsDefine reports whether a setting id is stored as a config.h define.
func IsDefine(id string) bool {
	return id == strings.ToUpper(id)
}

// loadQuantumSettings reads current values for every registered setting.
// Defines whose value is not an integer literal are reported as opaque.
func loadQuantumSettings(configH string, keyboard map[string]interface{}) (map[string]int, map[string]bool) {
	values := make(map[string]int)
	opaque := make(map[string]bool)
	stripped := StripComments(configH)
	for _, s := range QuantumSettings {
		if IsDefine(s.ID) {
			raw, ok := rawDefine(stripped, s.ID)
			if !ok {
				continue
			}
			if n, err := parseCInt(raw); err == nil {
				values[s.ID] = n
			} else {
				opaque[s.ID] = true
			}
			continue
		}
		if v, ok := lookupPath(keyboard, s.ID); ok {
			if n, ok := toInt(v); ok {
				values[s.ID] = n
			} else {
				opaque[s.ID] = true
			}
		}
	}
	return values, opaque
}

// applyQuantumSettings writes values into copies of config.h and the
// keyboard object. Registered settings missing from values are removed;
// opaque ones are left as they are.
func applyQuantumSettings(configH string, keyboard map[string]interface{}, values map[string]int, opaque map[string]bool) (string, map[string]interface{}) {
	out := deepCopy(keyboard).(map[string]interface{})

	ids := make(map[string]bool, len(QuantumSettings)+len(values))
	for _, s := range QuantumSettings {
		ids[s.ID] = true
	}
	for id := range values {
		ids[id] = true
	}
	sorted := make([]string, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	for _, id := range sorted {
		v, set := values[id]
		switch {
		case set && IsDefine(id):
			configH = setDefine(configH, id, v)
		case set:
			setPath(out, id, v)
		case opaque[id]:
			// not understood, keep as written
		case IsDefine(id):
			configH = deleteDefine(configH, id)
		default:
			deletePath(out, id)
		}
	}
	return configH, out
}

// lookupPath resolves a dotted path in a decoded JSON object.
func lookupPath(obj map[string]interface{}, path string) (interface{}, bool) {
	var cur interface{} = obj
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// setPath assigns a dotted path, creating intermediate objects.
func setPath(obj map[string]interface{}, path string, value interface{}) {
	parts := strings.Split(path, ".")
	cur := obj
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			cur[part] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = value
}

// deletePath removes a dotted path and prunes parents left empty.
func deletePath(obj map[string]interface{}, path string) {
	parts := strings.Split(path, ".")
	chain := []map[string]interface{}{obj}
	cur := obj
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part].(map[string]interface{})
		if !ok {
			return
		}
		chain = append(chain, next)
		cur = next
	}
	if _, ok := cur[parts[len(parts)-1]]; !ok {
		return
	}
	delete(cur, parts[len(parts)-1])
	for i := len(chain) - 1; i > 0; i-- {
		if len(chain[i]) != 0 {
			break
		}
		delete(chain[i-1], parts[i-1])
	}
}

func deepCopy(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}
		return out
	default:
		return v
	}
}
