// tokens.go defines the bidirectional tables between flag macros and their integer encodings.
package keymap

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Flag is one named bit (or group of bits) in a FlagTable.
type Flag struct {
	Name  string
	Value int
}

// FlagTable maps symbolic flag names to integer bits and back. Flags are
// kept in declaration order so formatting is deterministic.
type FlagTable struct {
	flags   []Flag
	aliases map[string]int // additional accepted spellings, parse only
	wrap    func(name string) string
	unwrap  *regexp.Regexp
}

// Parse decodes an expression of OR'd flag names into an integer.
// Integer literals (decimal or 0x) are accepted as terms. Unknown names are
// returned in unknown so callers can warn about them; they contribute no bits.
func (t *FlagTable) Parse(expr string) (value int, unknown []string) {
	expr = strings.TrimSpace(expr)
	for strings.HasPrefix(expr, "(") && FindMatching(expr, 0) == len(expr)-1 {
		expr = strings.TrimSpace(expr[1 : len(expr)-1])
	}
	for _, term := range splitOr(expr) {
		if term == "" {
			continue
		}
		if n, err := strconv.ParseInt(term, 0, 64); err == nil {
			value |= int(n)
			continue
		}
		name := term
		if t.unwrap != nil {
			if m := t.unwrap.FindStringSubmatch(term); m != nil {
				name = strings.TrimSpace(m[1])
			}
		}
		if v, ok := t.Lookup(name); ok {
			value |= v
			continue
		}
		unknown = append(unknown, term)
	}
	return value, unknown
}

// Format encodes value as an OR expression of flag names, "0" when empty.
// Bits without a name are appended as a hex literal.
func (t *FlagTable) Format(value int) string {
	var terms []string
	rest := value
	for _, f := range t.flags {
		if value&f.Value == f.Value && f.Value != 0 {
			name := f.Name
			if t.wrap != nil {
				name = t.wrap(name)
			}
			terms = append(terms, name)
			rest &^= f.Value
		}
	}
	if rest != 0 {
		terms = append(terms, fmt.Sprintf("0x%02x", rest))
	}
	if len(terms) == 0 {
		return "0"
	}
	return strings.Join(terms, " | ")
}

// Lookup returns the bits for a single flag name or alias.
func (t *FlagTable) Lookup(name string) (int, bool) {
	for _, f := range t.flags {
		if f.Name == name {
			return f.Value, true
		}
	}
	v, ok := t.aliases[name]
	return v, ok
}

// Flags returns the table's canonical flags in order.
func (t *FlagTable) Flags() []Flag {
	out := make([]Flag, len(t.flags))
	copy(out, t.flags)
	return out
}

// splitOr splits on top-level '|'.
func splitOr(expr string) []string {
	var terms []string
	depth := 0
	start := 0
	for i := 0; i < len(expr); i++ {
		switch expr[i] {
		case '(':
			depth++
		case ')':
			depth--
		case '|':
			if depth == 0 {
				terms = append(terms, strings.TrimSpace(expr[start:i]))
				start = i + 1
			}
		}
	}
	terms = append(terms, strings.TrimSpace(expr[start:]))
	return terms
}

// ModBits decodes MOD_BIT(KC_x) expressions used by key override mod masks.
var ModBits = &FlagTable{
	flags: []Flag{
		{"KC_LCTL", 1 << 0},
		{"KC_LSFT", 1 << 1},
		{"KC_LALT", 1 << 2},
		{"KC_LGUI", 1 << 3},
		{"KC_RCTL", 1 << 4},
		{"KC_RSFT", 1 << 5},
		{"KC_RALT", 1 << 6},
		{"KC_RGUI", 1 << 7},
	},
	aliases: map[string]int{
		"KC_LEFT_CTRL":   1 << 0,
		"KC_LEFT_SHIFT":  1 << 1,
		"KC_LEFT_ALT":    1 << 2,
		"KC_LEFT_GUI":    1 << 3,
		"KC_RIGHT_CTRL":  1 << 4,
		"KC_RIGHT_SHIFT": 1 << 5,
		"KC_RIGHT_ALT":   1 << 6,
		"KC_RIGHT_GUI":   1 << 7,
		"KC_LOPT":        1 << 2,
		"KC_LCMD":        1 << 3,
		"KC_ROPT":        1 << 6,
		"KC_RCMD":        1 << 7,
		"MOD_MASK_CTRL":  1<<0 | 1<<4,
		"MOD_MASK_SHIFT": 1<<1 | 1<<5,
		"MOD_MASK_ALT":   1<<2 | 1<<6,
		"MOD_MASK_GUI":   1<<3 | 1<<7,
		"MOD_MASK_CS":    1<<0 | 1<<4 | 1<<1 | 1<<5,
		"MOD_MASK_CA":    1<<0 | 1<<4 | 1<<2 | 1<<6,
		"MOD_MASK_CG":    1<<0 | 1<<4 | 1<<3 | 1<<7,
		"MOD_MASK_SA":    1<<1 | 1<<5 | 1<<2 | 1<<6,
		"MOD_MASK_SG":    1<<1 | 1<<5 | 1<<3 | 1<<7,
		"MOD_MASK_AG":    1<<2 | 1<<6 | 1<<3 | 1<<7,
	},
	wrap:   func(name string) string { return "MOD_BIT(" + name + ")" },
	unwrap: regexp.MustCompile(`^MOD_BIT\s*\(([^)]*)\)$`),
}

// OverrideOptions decodes key override option flags.
var OverrideOptions = &FlagTable{
	flags: []Flag{
		{"vial_ko_option_activation_trigger_down", 1 << 0},
		{"vial_ko_option_activation_required_mod_down", 1 << 1},
		{"vial_ko_option_activation_negative_mod_up", 1 << 2},
		{"vial_ko_option_one_mod", 1 << 3},
		{"vial_ko_option_no_reregister_trigger", 1 << 4},
		{"vial_ko_option_no_unregister_on_other_key_down", 1 << 5},
		{"vial_ko_enabled", 1 << 7},
	},
}
