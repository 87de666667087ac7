// parser_tapdance.go parses and generates default_tap_dance_entries.
package keymap

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	tapDanceDecl = regexp.MustCompile(`(?:const\s+)?vial_tap_dance_entry_t\s+(?:PROGMEM\s+)?default_tap_dance_entries\s*\[\s*\]\s*(?:PROGMEM\s*)?=\s*\{`)
	tapDanceCall = regexp.MustCompile(`\bTAP_DANCE_ENTRY\s*\(`)
)

// ParseTapDances returns exactly count tap dance records.
func ParseTapDances(text string, count int, w *Warnings) ([]TapDanceEntry, error) {
	entries := make([]TapDanceEntry, count)
	for i := range entries {
		entries[i] = DefaultTapDance
	}

	_, _, err := collectCalls(StripComments(text), tapDanceDecl, tapDanceCall, count, "tap dance", w, func(i int, args []string) bool {
		if len(args) != 5 {
			w.Add("tap dance %d: expected 5 arguments, got %d", i, len(args))
			return false
		}
		term, err := strconv.Atoi(args[4])
		if err != nil {
			w.Add("tap dance %d: tapping term %q is not a number, using %d", i, args[4], DefaultTapDance.TappingTerm)
			term = DefaultTapDance.TappingTerm
		}
		entries[i] = TapDanceEntry{
			OnTap:       CompactWhitespace(args[0]),
			OnHold:      CompactWhitespace(args[1]),
			OnDoubleTap: CompactWhitespace(args[2]),
			OnTapHold:   CompactWhitespace(args[3]),
			TappingTerm: term,
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// GenerateTapDances renders the tap dance section. The array is always
// emitted so the reset shim's guard has a matching definition.
func GenerateTapDances(entries []TapDanceEntry) string {
	var sb strings.Builder
	sb.WriteString("\n// Tap Dance definitions\n")
	sb.WriteString("#define TAP_DANCE_ENTRY(onTap, onHold, onDoubleTap, onTapHold, tappingTerm) ((vial_tap_dance_entry_t){.on_tap = onTap, .on_hold = onHold, .on_double_tap = onDoubleTap, .on_tap_hold = onTapHold, .custom_tapping_term = tappingTerm})\n")
	sb.WriteString("#if VIAL_TAP_DANCE_ENTRIES > 0\n")
	sb.WriteString("const vial_tap_dance_entry_t PROGMEM default_tap_dance_entries[] = {\n")
	for i, e := range entries {
		fmt.Fprintf(&sb, "    TAP_DANCE_ENTRY(%s, %s, %s, %s, %d)", e.OnTap, e.OnHold, e.OnDoubleTap, e.OnTapHold, e.TappingTerm)
		if i < len(entries)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("};\n")
	sb.WriteString("#endif\n")
	return sb.String()
}
