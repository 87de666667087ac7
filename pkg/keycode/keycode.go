// Package keycode maps QMK basic keycode names to their 16-bit values.
//
// Basic covers the HID keyboard page plus the QMK no-op and transparent
// codes. It is enough for the command line to accept and print symbolic
// keycodes; a configurator with a full catalog supplies its own
// keymap.KeycodeConverter instead.
package keycode

import (
	"fmt"
	"strconv"
	"strings"
)

// Well-known values.
const (
	No          uint16 = 0x0000
	Transparent uint16 = 0x0001
)

// Table is a bidirectional keycode table. The first name registered for a
// value is its canonical name; later names are aliases.
type Table struct {
	names  map[uint16]string
	values map[string]uint16
}

// New builds a table from entries whose first element is the canonical
// name and the rest are aliases.
func New(entries []Entry) *Table {
	t := &Table{
		names:  make(map[uint16]string, len(entries)),
		values: make(map[string]uint16, len(entries)*2),
	}
	for _, e := range entries {
		if _, ok := t.names[e.Value]; !ok {
			t.names[e.Value] = e.Names[0]
		}
		for _, n := range e.Names {
			t.values[n] = e.Value
		}
	}
	return t
}

// Entry is one keycode with its names.
type Entry struct {
	Value uint16
	Names []string
}

// KeycodeName returns the canonical name of code.
func (t *Table) KeycodeName(code uint16) (string, bool) {
	n, ok := t.names[code]
	return n, ok
}

// KeycodeValue returns the value of a canonical name or alias.
func (t *Table) KeycodeValue(name string) (uint16, bool) {
	v, ok := t.values[name]
	return v, ok
}

// Parse accepts a keycode name or an integer literal (decimal or 0x hex).
func (t *Table) Parse(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	if v, ok := t.values[s]; ok {
		return v, nil
	}
	if v, ok := t.values[strings.ToUpper(s)]; ok {
		return v, nil
	}
	if v, ok := t.values["KC_"+strings.ToUpper(s)]; ok {
		return v, nil
	}
	n, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("unknown keycode %q", s)
	}
	return uint16(n), nil
}

// Basic is the built-in table.
var Basic = New(basicEntries())

func basicEntries() []Entry {
	entries := []Entry{
		{No, []string{"KC_NO", "XXXXXXX"}},
		{Transparent, []string{"KC_TRANSPARENT", "KC_TRNS", "_______"}},
	}
	for i := 0; i < 26; i++ {
		entries = append(entries, Entry{uint16(0x04 + i), []string{"KC_" + string(rune('A'+i))}})
	}
	for i := 1; i <= 9; i++ {
		entries = append(entries, Entry{uint16(0x1E + i - 1), []string{"KC_" + strconv.Itoa(i)}})
	}
	entries = append(entries, Entry{0x27, []string{"KC_0"}})

	entries = append(entries, []Entry{
		{0x28, []string{"KC_ENTER", "KC_ENT"}},
		{0x29, []string{"KC_ESCAPE", "KC_ESC"}},
		{0x2A, []string{"KC_BACKSPACE", "KC_BSPC"}},
		{0x2B, []string{"KC_TAB"}},
		{0x2C, []string{"KC_SPACE", "KC_SPC"}},
		{0x2D, []string{"KC_MINUS", "KC_MINS"}},
		{0x2E, []string{"KC_EQUAL", "KC_EQL"}},
		{0x2F, []string{"KC_LEFT_BRACKET", "KC_LBRC"}},
		{0x30, []string{"KC_RIGHT_BRACKET", "KC_RBRC"}},
		{0x31, []string{"KC_BACKSLASH", "KC_BSLS"}},
		{0x32, []string{"KC_NONUS_HASH", "KC_NUHS"}},
		{0x33, []string{"KC_SEMICOLON", "KC_SCLN"}},
		{0x34, []string{"KC_QUOTE", "KC_QUOT"}},
		{0x35, []string{"KC_GRAVE", "KC_GRV"}},
		{0x36, []string{"KC_COMMA", "KC_COMM"}},
		{0x37, []string{"KC_DOT"}},
		{0x38, []string{"KC_SLASH", "KC_SLSH"}},
		{0x39, []string{"KC_CAPS_LOCK", "KC_CAPS"}},
	}...)
	for i := 1; i <= 12; i++ {
		entries = append(entries, Entry{uint16(0x3A + i - 1), []string{"KC_F" + strconv.Itoa(i)}})
	}
	entries = append(entries, []Entry{
		{0x46, []string{"KC_PRINT_SCREEN", "KC_PSCR"}},
		{0x47, []string{"KC_SCROLL_LOCK", "KC_SCRL"}},
		{0x48, []string{"KC_PAUSE", "KC_PAUS"}},
		{0x49, []string{"KC_INSERT", "KC_INS"}},
		{0x4A, []string{"KC_HOME"}},
		{0x4B, []string{"KC_PAGE_UP", "KC_PGUP"}},
		{0x4C, []string{"KC_DELETE", "KC_DEL"}},
		{0x4D, []string{"KC_END"}},
		{0x4E, []string{"KC_PAGE_DOWN", "KC_PGDN"}},
		{0x4F, []string{"KC_RIGHT", "KC_RGHT"}},
		{0x50, []string{"KC_LEFT"}},
		{0x51, []string{"KC_DOWN"}},
		{0x52, []string{"KC_UP"}},
		{0x53, []string{"KC_NUM_LOCK", "KC_NUM"}},
		{0x54, []string{"KC_KP_SLASH", "KC_PSLS"}},
		{0x55, []string{"KC_KP_ASTERISK", "KC_PAST"}},
		{0x56, []string{"KC_KP_MINUS", "KC_PMNS"}},
		{0x57, []string{"KC_KP_PLUS", "KC_PPLS"}},
		{0x58, []string{"KC_KP_ENTER", "KC_PENT"}},
	}...)
	for i := 1; i <= 9; i++ {
		entries = append(entries, Entry{uint16(0x59 + i - 1), []string{"KC_KP_" + strconv.Itoa(i), "KC_P" + strconv.Itoa(i)}})
	}
	entries = append(entries, []Entry{
		{0x62, []string{"KC_KP_0", "KC_P0"}},
		{0x63, []string{"KC_KP_DOT", "KC_PDOT"}},
		{0x64, []string{"KC_NONUS_BACKSLASH", "KC_NUBS"}},
		{0x65, []string{"KC_APPLICATION", "KC_APP"}},
		{0x66, []string{"KC_KB_POWER"}},
		{0x67, []string{"KC_KP_EQUAL", "KC_PEQL"}},
	}...)
	for i := 13; i <= 24; i++ {
		entries = append(entries, Entry{uint16(0x68 + i - 13), []string{"KC_F" + strconv.Itoa(i)}})
	}
	entries = append(entries, []Entry{
		{0xE0, []string{"KC_LEFT_CTRL", "KC_LCTL"}},
		{0xE1, []string{"KC_LEFT_SHIFT", "KC_LSFT"}},
		{0xE2, []string{"KC_LEFT_ALT", "KC_LALT"}},
		{0xE3, []string{"KC_LEFT_GUI", "KC_LGUI"}},
		{0xE4, []string{"KC_RIGHT_CTRL", "KC_RCTL"}},
		{0xE5, []string{"KC_RIGHT_SHIFT", "KC_RSFT"}},
		{0xE6, []string{"KC_RIGHT_ALT", "KC_RALT"}},
		{0xE7, []string{"KC_RIGHT_GUI", "KC_RGUI"}},
	}...)
	return entries
}
