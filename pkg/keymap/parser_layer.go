// parser_layer.go parses and generates the keymaps[] layer array.
package keymap

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	keymapsDecl = regexp.MustCompile(`(?:const\s+)?uint16_t\s+(?:PROGMEM\s+)?keymaps\s*(?:\[[^\]]*\]\s*)+(?:PROGMEM\s*)?=\s*\{`)
	layoutCall  = regexp.MustCompile(`\bLAYOUT\w*\s*\(`)
)

// ParseLayers extracts count layers from the keymaps array. Each LAYOUT
// call's arguments are zipped positionally with the layout's keys.
func ParseLayers(text string, count int, layout LayoutDescriptor, w *Warnings) ([]Layer, error) {
	text = StripComments(text)
	layers := make([]Layer, 0, count)

	body, found, err := findBlock(text, keymapsDecl, "keymap")
	if err != nil {
		return nil, err
	}
	if found {
		pos := 0
		for len(layers) < count {
			c, ok, err := nextCall(body, layoutCall, pos, "layer")
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			layers = append(layers, zipLayer(c, layout, len(layers), w))
			pos = c.End
		}
		if _, more, _ := nextCall(body, layoutCall, pos, "layer"); more && len(layers) == count {
			w.Add("keymap declares more than %d layers, extra layers ignored", count)
		}
	}

	if len(layers) < count && found {
		w.Add("keymap declares %d of %d layers, padding with transparent layers", len(layers), count)
	}
	for len(layers) < count {
		layers = append(layers, transparentLayer(layout.Name, layout.Keys))
	}
	return layers, nil
}

func zipLayer(c call, layout LayoutDescriptor, index int, w *Warnings) Layer {
	args := SplitArgs(c.Args)
	if len(args) != len(layout.Keys) {
		w.Add("layer %d: %s has %d keycodes, layout %s has %d keys", index, c.Name, len(args), layout.Name, len(layout.Keys))
	}
	keys := make([]Key, len(layout.Keys))
	for i, pos := range layout.Keys {
		keycode := KeycodeTransparent
		if i < len(args) {
			if kc := CompactWhitespace(args[i]); kc != "" {
				keycode = kc
			}
		}
		keys[i] = Key{Keycode: keycode, Row: pos.Row, Col: pos.Col}
	}
	return Layer{Layout: c.Name, Keys: keys}
}

func transparentLayer(name string, positions []Position) Layer {
	keys := make([]Key, len(positions))
	for i, pos := range positions {
		keys[i] = Key{Keycode: KeycodeTransparent, Row: pos.Row, Col: pos.Col}
	}
	return Layer{Layout: name, Keys: keys}
}

// GenerateLayers renders the keymaps array, four keycodes per line.
func GenerateLayers(layers []Layer) string {
	var sb strings.Builder
	sb.WriteString("const uint16_t PROGMEM keymaps[][MATRIX_ROWS][MATRIX_COLS] = {\n")
	for i, layer := range layers {
		fmt.Fprintf(&sb, "    [%d] = %s(\n", i, layer.Layout)
		for k := 0; k < len(layer.Keys); k += 4 {
			end := min(k+4, len(layer.Keys))
			cells := make([]string, 0, 4)
			for _, key := range layer.Keys[k:end] {
				cells = append(cells, fmt.Sprintf("%15s", key.Keycode))
			}
			sb.WriteString("        " + strings.Join(cells, ", "))
			if end < len(layer.Keys) {
				sb.WriteString(",")
			}
			sb.WriteString("\n")
		}
		sb.WriteString("    )")
		if i < len(layers)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("};\n")
	return sb.String()
}
