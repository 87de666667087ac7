// parser_combo.go parses and generates default_combo_entries.
package keymap

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	comboDecl = regexp.MustCompile(`(?:const\s+)?vial_combo_entry_t\s+(?:PROGMEM\s+)?default_combo_entries\s*\[\s*\]\s*(?:PROGMEM\s*)?=\s*\{`)
	comboCall = regexp.MustCompile(`\bCOMBO_ENTRY\s*\(`)
)

// ParseCombos returns exactly count combo records.
func ParseCombos(text string, count int, w *Warnings) ([]ComboEntry, error) {
	entries := make([]ComboEntry, count)
	for i := range entries {
		entries[i] = DefaultCombo
	}

	_, _, err := collectCalls(StripComments(text), comboDecl, comboCall, count, "combo", w, func(i int, args []string) bool {
		if len(args) != 5 {
			w.Add("combo %d: expected 5 arguments, got %d", i, len(args))
			return false
		}
		var e ComboEntry
		for k := 0; k < 4; k++ {
			e.Input[k] = CompactWhitespace(args[k])
		}
		e.Output = CompactWhitespace(args[4])
		entries[i] = e
		return true
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// GenerateCombos renders the combo section.
func GenerateCombos(entries []ComboEntry) string {
	var sb strings.Builder
	sb.WriteString("\n// Combo definitions\n")
	sb.WriteString("#define COMBO_ENTRY(k1, k2, k3, k4, result) ((vial_combo_entry_t){.input = {k1, k2, k3, k4}, .output = result})\n")
	sb.WriteString("#if VIAL_COMBO_ENTRIES > 0\n")
	sb.WriteString("const vial_combo_entry_t PROGMEM default_combo_entries[] = {\n")
	for i, e := range entries {
		fmt.Fprintf(&sb, "    COMBO_ENTRY(%s, %s, %s, %s, %s)", e.Input[0], e.Input[1], e.Input[2], e.Input[3], e.Output)
		if i < len(entries)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("};\n")
	sb.WriteString("#endif\n")
	return sb.String()
}
