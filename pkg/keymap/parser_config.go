// parser_config.go reads and rewrites the integer defines Vial keeps in config.h.
package keymap

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Managed config.h define names.
const (
	DefineLayerCount       = "DYNAMIC_KEYMAP_LAYER_COUNT"
	DefineTapDanceEntries  = "VIAL_TAP_DANCE_ENTRIES"
	DefineComboEntries     = "VIAL_COMBO_ENTRIES"
	DefineKeyOverrideEntry = "VIAL_KEY_OVERRIDE_ENTRIES"
)

// DefaultEntryCount is used for each Vial entity whose define is absent.
const DefaultEntryCount = 4

var managedDefines = regexp.MustCompile(`(?m)^[ \t]*#[ \t]*define[ \t]+(?:` +
	DefineLayerCount + `|` + DefineTapDanceEntries + `|` + DefineComboEntries + `|` + DefineKeyOverrideEntry +
	`)\b[^\n]*(?:\n|$)`)

// VialCounts are the dynamic entity counts declared in config.h.
type VialCounts struct {
	TapDance    int
	Combo       int
	KeyOverride int
}

// defineLine matches one define by name and captures its raw value.
func defineLine(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^[ \t]*#[ \t]*define[ \t]+` + regexp.QuoteMeta(name) + `(?:[ \t]+([^\n]*))?[ \t]*$`)
}

// ReadDefine returns the integer value of #define name, ignoring commented
// out definitions. ok is false when the define is absent or not an integer.
func ReadDefine(configH, name string) (int, bool) {
	raw, ok := rawDefine(StripComments(configH), name)
	if !ok {
		return 0, false
	}
	n, err := parseCInt(raw)
	return n, err == nil
}

func rawDefine(text, name string) (string, bool) {
	m := defineLine(name).FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// parseCInt parses a C integer literal, tolerating surrounding parentheses
// and unsigned/long suffixes.
func parseCInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	for strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	s = strings.TrimRight(s, "uUlL")
	n, err := strconv.ParseInt(s, 0, 64)
	return int(n), err
}

// ParseVialCounts reads the three Vial entity counts, defaulting each to
// DefaultEntryCount and clamping to [0, MaxEntries].
func ParseVialCounts(configH string, w *Warnings) VialCounts {
	read := func(name, entity string) int {
		n, ok := ReadDefine(configH, name)
		if !ok {
			return DefaultEntryCount
		}
		return clampCount(n, 0, entity, w)
	}
	return VialCounts{
		TapDance:    read(DefineTapDanceEntries, "tap dance"),
		Combo:       read(DefineComboEntries, "combo"),
		KeyOverride: read(DefineKeyOverrideEntry, "key override"),
	}
}

// UpdateVialConfig deletes every managed define line and appends fresh
// Vial count defines at the end of the file. Comments next to the old
// defines stay where they were.
func UpdateVialConfig(configH string, counts VialCounts) string {
	content := strings.TrimSpace(managedDefines.ReplaceAllString(configH, ""))
	var sb strings.Builder
	if content != "" {
		sb.WriteString(content)
		sb.WriteString("\n\n")
	}
	fmt.Fprintf(&sb, "#define %s %d\n", DefineTapDanceEntries, counts.TapDance)
	fmt.Fprintf(&sb, "#define %s %d\n", DefineComboEntries, counts.Combo)
	fmt.Fprintf(&sb, "#define %s %d\n", DefineKeyOverrideEntry, counts.KeyOverride)
	return sb.String()
}

// setDefine replaces every #define name line with one carrying value, or
// appends it when absent.
func setDefine(configH, name string, value int) string {
	line := fmt.Sprintf("#define %s %d", name, value)
	re := defineLine(name)
	if re.MatchString(configH) {
		replaced := false
		return re.ReplaceAllStringFunc(configH, func(string) string {
			if replaced {
				return ""
			}
			replaced = true
			return line
		})
	}
	if configH != "" && !strings.HasSuffix(configH, "\n") {
		configH += "\n"
	}
	return configH + line + "\n"
}

// deleteDefine removes every #define name line, newline included.
func deleteDefine(configH, name string) string {
	re := regexp.MustCompile(`(?m)^[ \t]*#[ \t]*define[ \t]+` + regexp.QuoteMeta(name) + `\b[^\n]*(?:\n|$)`)
	return re.ReplaceAllString(configH, "")
}
