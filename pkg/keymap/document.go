// document.go defines the in-memory keymap document and the top-level Parse entry point.
package keymap

import (
	"fmt"
	"regexp"
	"strings"
)

// Default keycodes used to pad entities.
const (
	KeycodeTransparent = "KC_TRANSPARENT"
	KeycodeNo          = "KC_NO"
)

// Key is one physical key of a layer.
type Key struct {
	Keycode string `json:"keycode"`
	Row     int    `json:"row"`
	Col     int    `json:"col"`
}

// Layer is one keymap layer: the LAYOUT macro name and its keys in
// declaration order.
type Layer struct {
	Layout string `json:"layout"`
	Keys   []Key  `json:"keys"`
}

// EncoderEntry holds the keycodes for one encoder on one layer.
type EncoderEntry struct {
	CCW string `json:"ccw"`
	CW  string `json:"cw"`
}

// TapDanceEntry is one Vial tap dance record.
type TapDanceEntry struct {
	OnTap       string `json:"on_tap"`
	OnHold      string `json:"on_hold"`
	OnDoubleTap string `json:"on_double_tap"`
	OnTapHold   string `json:"on_tap_hold"`
	TappingTerm int    `json:"tapping_term"`
}

// ComboEntry is one Vial combo record: up to four input keys and an output.
type ComboEntry struct {
	Input  [4]string `json:"input"`
	Output string    `json:"output"`
}

// KeyOverrideEntry is one Vial key override record.
type KeyOverrideEntry struct {
	Trigger         string `json:"trigger"`
	Replacement     string `json:"replacement"`
	Layers          int    `json:"layers"`
	TriggerMods     int    `json:"trigger_mods"`
	NegativeModMask int    `json:"negative_mod_mask"`
	SuppressedMods  int    `json:"suppressed_mods"`
	Options         int    `json:"options"`
}

// Default records.
var (
	DefaultTapDance    = TapDanceEntry{KeycodeNo, KeycodeNo, KeycodeNo, KeycodeNo, 200}
	DefaultCombo       = ComboEntry{Input: [4]string{KeycodeNo, KeycodeNo, KeycodeNo, KeycodeNo}, Output: KeycodeNo}
	DefaultKeyOverride = KeyOverrideEntry{Trigger: KeycodeNo, Replacement: KeycodeNo, Layers: 0xffff}
	DefaultEncoder     = EncoderEntry{CCW: KeycodeTransparent, CW: KeycodeTransparent}
)

// Sources are the texts one document is loaded from. Keyboard is the
// decoded keyboard.json object.
type Sources struct {
	KeymapC  string
	ConfigH  string
	RulesMk  string
	Keyboard map[string]interface{}
}

// ParseOptions tune Parse.
type ParseOptions struct {
	// Layout names the keyboard.json layout to zip keys against. When empty
	// the layout used by the first LAYOUT call in keymap.c is preferred.
	Layout string
}

// Document is the editable model of one Vial keymap.
type Document struct {
	Layers       []Layer
	Encoders     [][]EncoderEntry
	TapDances    []TapDanceEntry
	Combos       []ComboEntry
	KeyOverrides []KeyOverrideEntry
	Macros       []byte

	UserIncludes string
	UserCode     string

	// QuantumSettings holds explicit setting values; a missing id means
	// the firmware default.
	QuantumSettings map[string]int

	Layout   LayoutDescriptor
	Warnings Warnings

	src Sources
	// opaque records quantum defines present in config.h whose value is not
	// an integer literal; they are left untouched unless edited.
	opaque map[string]bool
}

// EncoderCount returns the number of encoders per layer.
func (d *Document) EncoderCount() int {
	return d.Layout.EncoderCount
}

// Warnings collects recoverable problems found while parsing or editing.
type Warnings []string

// Add records a warning.
func (w *Warnings) Add(format string, args ...interface{}) {
	if w == nil {
		return
	}
	*w = append(*w, fmt.Sprintf(format, args...))
}

var firstLayoutCall = regexp.MustCompile(`\b(LAYOUT\w*)\s*\(`)

// Parse builds a Document from the keymap sources. Only structural failures
// (an unmatched delimiter) and an unusable keyboard.json are errors; missing
// entities and count mismatches are recovered with defaults and warnings.
func Parse(src Sources, opts ParseOptions) (*Document, error) {
	includes, code := ExtractUserSections(src.KeymapC)
	text := StripComments(blankUserSections(src.KeymapC))

	layoutName := opts.Layout
	if layoutName == "" {
		if m := firstLayoutCall.FindStringSubmatch(text); m != nil {
			for _, name := range Layouts(src.Keyboard) {
				if name == m[1] {
					layoutName = name
					break
				}
			}
		}
	}
	layout, err := ReadLayout(src.Keyboard, layoutName)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		UserIncludes: includes,
		UserCode:     code,
		Layout:       layout,
		src:          src,
	}
	w := &doc.Warnings

	if _, ok := lookupPath(src.Keyboard, "dynamic_keymap.layer_count"); !ok {
		if n, ok := ReadDefine(src.ConfigH, "DYNAMIC_KEYMAP_LAYER_COUNT"); ok {
			doc.Layout.LayerCount = n
		}
	}
	doc.Layout.LayerCount = clampCount(doc.Layout.LayerCount, 1, "layer", w)
	counts := ParseVialCounts(src.ConfigH, w)

	if doc.Layers, err = ParseLayers(text, doc.Layout.LayerCount, doc.Layout, w); err != nil {
		return nil, err
	}
	if doc.Encoders, err = ParseEncoders(text, doc.Layout.EncoderCount, doc.Layout.LayerCount, w); err != nil {
		return nil, err
	}
	if doc.TapDances, err = ParseTapDances(text, counts.TapDance, w); err != nil {
		return nil, err
	}
	if doc.Combos, err = ParseCombos(text, counts.Combo, w); err != nil {
		return nil, err
	}
	if doc.KeyOverrides, err = ParseKeyOverrides(text, counts.KeyOverride, w); err != nil {
		return nil, err
	}
	if doc.Macros, err = ParseMacroBuffer(text, w); err != nil {
		return nil, err
	}
	doc.QuantumSettings, doc.opaque = loadQuantumSettings(src.ConfigH, src.Keyboard)

	return doc, nil
}

// blankUserSections empties user blocks so their contents are never
// mistaken for generated entities.
func blankUserSections(text string) string {
	for _, m := range [][2]string{{userIncludeBegin, userIncludeEnd}, {userCodeBegin, userCodeEnd}} {
		start := strings.Index(text, m[0])
		if start < 0 {
			continue
		}
		start += len(m[0])
		stop := strings.Index(text[start:], m[1])
		if stop < 0 {
			continue
		}
		text = text[:start] + text[start+stop:]
	}
	return text
}

func clampCount(n, lower int, entity string, w *Warnings) int {
	if n < lower {
		w.Add("%s count %d is below %d, using %d", entity, n, lower, lower)
		return lower
	}
	if n > MaxEntries {
		w.Add("%s count %d exceeds %d, truncating", entity, n, MaxEntries)
		return MaxEntries
	}
	return n
}
