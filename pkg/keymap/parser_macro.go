// parser_macro.go parses and generates default_macro_buffer and splits it into macros.
package keymap

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var macroDecl = regexp.MustCompile(`(?:const\s+)?uint8_t\s+(?:PROGMEM\s+)?default_macro_buffer\s*\[\s*\]\s*(?:PROGMEM\s*)?=\s*\{`)

// Macro byte codes.
const (
	MacroTerminator = 0x00
	MacroActionTag  = 0x01

	MacroActionTap     = 0x01
	MacroActionDown    = 0x02
	MacroActionUp      = 0x03
	MacroActionDelay   = 0x04
	MacroActionExtTap  = 0x05
	MacroActionExtDown = 0x06
	MacroActionExtUp   = 0x07
)

// ParseMacroBuffer extracts the raw macro bytes. A missing buffer is empty.
func ParseMacroBuffer(text string, w *Warnings) ([]byte, error) {
	body, found, err := findBlock(StripComments(text), macroDecl, "macro")
	if err != nil || !found {
		return []byte{}, err
	}

	parts := SplitArgs(body)
	buf := make([]byte, 0, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 0, 8)
		if err != nil {
			w.Add("macro buffer byte %d: %q is not a byte value, skipped", i, p)
			continue
		}
		buf = append(buf, byte(v))
	}
	return buf, nil
}

// ActionLength returns the total length of the action record whose type
// byte follows the action tag, tag included.
func ActionLength(actionType byte) int {
	switch {
	case actionType >= MacroActionTap && actionType <= MacroActionUp:
		return 3
	case actionType >= MacroActionDelay && actionType <= MacroActionExtUp:
		return 4
	default:
		return 2
	}
}

// SplitMacros scans buf into at most limit macros. Each terminator closes the
// current macro, empty or not; trailing bytes without a terminator form a
// final macro. Action records are copied whole and never split.
func SplitMacros(buf []byte, limit int) [][]byte {
	macros := [][]byte{}
	current := []byte{}
	for i := 0; i < len(buf) && len(macros) < limit; {
		switch buf[i] {
		case MacroTerminator:
			macros = append(macros, current)
			current = []byte{}
			i++
		case MacroActionTag:
			n := 2
			if i+1 < len(buf) {
				n = ActionLength(buf[i+1])
			}
			end := min(i+n, len(buf))
			current = append(current, buf[i:end]...)
			i = end
		default:
			current = append(current, buf[i])
			i++
		}
	}
	if len(current) > 0 && len(macros) < limit {
		macros = append(macros, current)
	}
	return macros
}

// CountMacros returns the number of terminated macros, capped at limit.
func CountMacros(buf []byte, limit int) int {
	count := 0
	for i := 0; i < len(buf); {
		switch buf[i] {
		case MacroTerminator:
			count++
			i++
		case MacroActionTag:
			n := 2
			if i+1 < len(buf) {
				n = ActionLength(buf[i+1])
			}
			i += n
		default:
			i++
		}
	}
	return min(count, limit)
}

// GenerateMacroBuffer renders the macro buffer, eight bytes per line.
func GenerateMacroBuffer(buf []byte) string {
	var sb strings.Builder
	sb.WriteString("\n// Macro buffer\n")
	sb.WriteString("const uint8_t PROGMEM default_macro_buffer[] = {\n    ")
	for i, b := range buf {
		fmt.Fprintf(&sb, "0x%02x", b)
		if i < len(buf)-1 {
			sb.WriteString(", ")
			if (i+1)%8 == 0 {
				sb.WriteString("\n    ")
			}
		}
	}
	sb.WriteString("\n};\n")
	return sb.String()
}
