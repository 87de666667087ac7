// parser_override.go parses and generates default_key_override_entries.
package keymap

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	keyOverrideDecl = regexp.MustCompile(`(?:const\s+)?vial_key_override_entry_t\s+(?:PROGMEM\s+)?default_key_override_entries\s*\[\s*\]\s*(?:PROGMEM\s*)?=\s*\{`)
	macroCallHead   = regexp.MustCompile(`^\w+\s*\(`)
	designator      = regexp.MustCompile(`^\.(\w+)\s*=\s*`)
)

// keyOverrideFields lists struct members in declaration order.
var keyOverrideFields = []string{
	"trigger",
	"replacement",
	"layers",
	"trigger_mods",
	"negative_mod_mask",
	"suppressed_mods",
	"options",
}

// ParseKeyOverrides returns exactly count key override records. Entries may
// be brace struct literals (positional or designated) or macro calls.
func ParseKeyOverrides(text string, count int, w *Warnings) ([]KeyOverrideEntry, error) {
	entries := make([]KeyOverrideEntry, count)
	for i := range entries {
		entries[i] = DefaultKeyOverride
	}

	text = StripComments(text)
	body, found, err := findBlock(text, keyOverrideDecl, "key override")
	if err != nil || !found {
		return entries, err
	}

	n := 0
	elements := SplitArgs(body)
	for idx, elem := range elements {
		if n == count {
			w.Add("more key override entries than %d declared, extras ignored", count)
			break
		}
		inner, err := overrideElement(elem, idx)
		if err != nil {
			return nil, err
		}
		if inner == "" {
			w.Add("key override %d: unrecognized entry %q", idx, elem)
			continue
		}
		fields, ok := overrideFields(SplitArgs(inner))
		if !ok {
			w.Add("key override %d: expected 6 or 7 fields", idx)
			continue
		}
		entries[n] = decodeOverride(fields, n, w)
		n++
	}
	if n < count {
		w.Add("found %d of %d key override entries, padding with defaults", n, count)
	}
	return entries, nil
}

// overrideElement returns the field list of a {...} or NAME(...) element.
func overrideElement(elem string, idx int) (string, error) {
	var open int
	switch {
	case strings.HasPrefix(elem, "{"):
		open = 0
	case macroCallHead.MatchString(elem):
		open = strings.IndexByte(elem, '(')
	default:
		return "", nil
	}
	end := FindMatching(elem, open)
	if end == NotFound {
		return "", unbalanced("key override", open)
	}
	if end != len(elem)-1 {
		return "", nil
	}
	return elem[open+1 : end], nil
}

// overrideFields orders raw fields by member name. Designated initializers
// are matched by name; positional ones by index.
func overrideFields(raw []string) (map[string]string, bool) {
	if len(raw) < 6 || len(raw) > 7 {
		return nil, false
	}
	fields := make(map[string]string, len(raw))
	for i, f := range raw {
		if m := designator.FindStringSubmatch(f); m != nil {
			fields[m[1]] = strings.TrimSpace(f[len(m[0]):])
			continue
		}
		fields[keyOverrideFields[i]] = f
	}
	return fields, true
}

func decodeOverride(fields map[string]string, i int, w *Warnings) KeyOverrideEntry {
	e := DefaultKeyOverride
	if v, ok := fields["trigger"]; ok {
		e.Trigger = CompactWhitespace(v)
	}
	if v, ok := fields["replacement"]; ok {
		e.Replacement = CompactWhitespace(v)
	}
	if v, ok := fields["layers"]; ok {
		layers, err := strconv.ParseUint(v, 0, 32)
		if err != nil {
			w.Add("key override %d: layer mask %q is not a number, using 0x%04x", i, v, DefaultKeyOverride.Layers)
		} else {
			e.Layers = int(layers & 0xffff)
		}
	}

	mods := []struct {
		name string
		dst  *int
	}{
		{"trigger_mods", &e.TriggerMods},
		{"negative_mod_mask", &e.NegativeModMask},
		{"suppressed_mods", &e.SuppressedMods},
	}
	for _, m := range mods {
		v, ok := fields[m.name]
		if !ok {
			continue
		}
		value, unknown := ModBits.Parse(v)
		for _, u := range unknown {
			w.Add("key override %d: unknown modifier %q in %s", i, u, m.name)
		}
		*m.dst = value & 0xff
	}

	if v, ok := fields["options"]; ok {
		value, unknown := OverrideOptions.Parse(v)
		for _, u := range unknown {
			w.Add("key override %d: unknown option %q", i, u)
		}
		e.Options = value & 0xff
	}
	return e
}

// GenerateKeyOverrides renders the key override section as struct literals.
func GenerateKeyOverrides(entries []KeyOverrideEntry) string {
	var sb strings.Builder
	sb.WriteString("\n// Key Override definitions\n")
	sb.WriteString("#if VIAL_KEY_OVERRIDE_ENTRIES > 0\n")
	sb.WriteString("const vial_key_override_entry_t PROGMEM default_key_override_entries[] = {\n")
	for i, e := range entries {
		sb.WriteString("    {\n")
		fmt.Fprintf(&sb, "        %s, // trigger key\n", e.Trigger)
		fmt.Fprintf(&sb, "        %s, // replacement key\n", e.Replacement)
		fmt.Fprintf(&sb, "        0x%04x, // layer mask\n", e.Layers)
		fmt.Fprintf(&sb, "        %s, // trigger mods\n", ModBits.Format(e.TriggerMods))
		fmt.Fprintf(&sb, "        %s, // negative mod mask\n", ModBits.Format(e.NegativeModMask))
		fmt.Fprintf(&sb, "        %s, // suppressed mods\n", ModBits.Format(e.SuppressedMods))
		fmt.Fprintf(&sb, "        %s // options\n", OverrideOptions.Format(e.Options))
		sb.WriteString("    }")
		if i < len(entries)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("};\n")
	sb.WriteString("#endif\n")
	return sb.String()
}
