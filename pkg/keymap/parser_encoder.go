// parser_encoder.go parses and generates the encoder_map[layer][encoder][direction] array.
package keymap

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	encoderDecl      = regexp.MustCompile(`(?:const\s+)?uint16_t\s+(?:PROGMEM\s+)?encoder_map\s*\[[^\]]*\]\s*\[[^\]]*\]\s*\[[^\]]*\]\s*(?:PROGMEM\s*)?=\s*\{`)
	layerDesignator  = regexp.MustCompile(`^\[\s*(\d+)\s*\]\s*=\s*`)
	encoderPairMacro = regexp.MustCompile(`^ENCODER_CCW_CW\s*\(`)
)

// ParseEncoders returns layerCount rows of encoderCount cells. Layers may
// be designated ([n] = {...}) or positional; absent layers and cells are
// transparent.
func ParseEncoders(text string, encoderCount, layerCount int, w *Warnings) ([][]EncoderEntry, error) {
	encoders := make([][]EncoderEntry, layerCount)
	for i := range encoders {
		encoders[i] = defaultEncoderRow(encoderCount)
	}

	text = StripComments(text)
	body, found, err := findBlock(text, encoderDecl, "encoder")
	if err != nil || !found {
		return encoders, err
	}

	next := 0
	for _, elem := range SplitArgs(body) {
		layer := next
		if m := layerDesignator.FindStringSubmatch(elem); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil || n >= MaxEntries {
				w.Add("encoder layer designator [%s] is out of range, block ignored", m[1])
				continue
			}
			layer = n
			elem = elem[len(m[0]):]
		}
		next = layer + 1

		if !strings.HasPrefix(elem, "{") {
			w.Add("encoder layer %d: expected a brace block", layer)
			continue
		}
		end := FindMatching(elem, 0)
		if end == NotFound {
			return nil, unbalanced("encoder", 0)
		}
		if layer < 0 || layer >= layerCount {
			w.Add("encoder layer %d is beyond the %d declared layers, ignored", layer, layerCount)
			continue
		}

		cells := SplitArgs(elem[1:end])
		if len(cells) > encoderCount {
			w.Add("encoder layer %d: %d encoders declared, keyboard has %d", layer, len(cells), encoderCount)
		}
		for idx, cell := range cells {
			if idx >= encoderCount {
				break
			}
			pair, err := encoderPair(cell)
			if err != nil {
				return nil, err
			}
			if len(pair) != 2 {
				w.Add("encoder layer %d index %d: expected {ccw, cw}", layer, idx)
				continue
			}
			encoders[layer][idx] = EncoderEntry{CCW: CompactWhitespace(pair[0]), CW: CompactWhitespace(pair[1])}
		}
	}
	return encoders, nil
}

// encoderPair splits a {ccw, cw} or ENCODER_CCW_CW(ccw, cw) cell.
func encoderPair(cell string) ([]string, error) {
	var open int
	switch {
	case strings.HasPrefix(cell, "{"):
		open = 0
	case encoderPairMacro.MatchString(cell):
		open = strings.IndexByte(cell, '(')
	default:
		return nil, nil
	}
	end := FindMatching(cell, open)
	if end == NotFound {
		return nil, unbalanced("encoder", open)
	}
	return SplitArgs(cell[open+1 : end]), nil
}

func defaultEncoderRow(n int) []EncoderEntry {
	row := make([]EncoderEntry, n)
	for i := range row {
		row[i] = DefaultEncoder
	}
	return row
}

// GenerateEncoders renders the encoder map, or nothing when the keyboard
// has no encoders.
func GenerateEncoders(encoders [][]EncoderEntry, encoderCount int) string {
	if encoderCount == 0 || len(encoders) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n#if defined(ENCODER_MAP_ENABLE)\n")
	sb.WriteString("const uint16_t PROGMEM encoder_map[][NUM_ENCODERS][NUM_DIRECTIONS] = {\n")
	for i, row := range encoders {
		fmt.Fprintf(&sb, "    [%d] = {\n", i)
		for j, e := range row {
			fmt.Fprintf(&sb, "        { %-15s, %-15s }", e.CCW, e.CW)
			if j < len(row)-1 {
				sb.WriteString(",")
			}
			sb.WriteString("\n")
		}
		sb.WriteString("    }")
		if i < len(encoders)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("};\n#endif\n")
	return sb.String()
}
