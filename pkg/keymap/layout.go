// layout.go reads the physical layout descriptor out of a decoded keyboard.json.
package keymap

import (
	"encoding/json"
	"fmt"
	"sort"
)

// DefaultLayerCount is used when keyboard.json does not declare dynamic_keymap.layer_count.
const DefaultLayerCount = 4

// MaxEntries bounds every dynamic entity list, layers included.
const MaxEntries = 32

// Position is a (row, col) matrix coordinate.
type Position struct {
	Row int
	Col int
}

// LayoutDescriptor describes one physical layout: key matrix positions in
// declaration order plus the number of rotary encoders.
type LayoutDescriptor struct {
	Name         string
	Keys         []Position
	EncoderCount int
	LayerCount   int
}

// Layouts lists the layout names declared in keyboard.json, sorted.
func Layouts(keyboard map[string]interface{}) []string {
	layouts, _ := keyboard["layouts"].(map[string]interface{})
	names := make([]string, 0, len(layouts))
	for name := range layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReadLayout extracts the descriptor for the named layout. An empty name
// selects the first layout in sorted order.
func ReadLayout(keyboard map[string]interface{}, name string) (LayoutDescriptor, error) {
	names := Layouts(keyboard)
	if len(names) == 0 {
		return LayoutDescriptor{}, ErrNoLayout
	}
	if name == "" {
		name = names[0]
	}

	layouts := keyboard["layouts"].(map[string]interface{})
	entry, ok := layouts[name].(map[string]interface{})
	if !ok {
		return LayoutDescriptor{}, fmt.Errorf("layout %q: %w", name, ErrNoLayout)
	}
	rawKeys, _ := entry["layout"].([]interface{})

	desc := LayoutDescriptor{
		Name:       name,
		Keys:       make([]Position, 0, len(rawKeys)),
		LayerCount: DefaultLayerCount,
	}
	for i, raw := range rawKeys {
		key, _ := raw.(map[string]interface{})
		matrix, _ := key["matrix"].([]interface{})
		if len(matrix) != 2 {
			return LayoutDescriptor{}, fmt.Errorf("layout %q key %d: matrix must have 2 elements", name, i)
		}
		row, rok := toInt(matrix[0])
		col, cok := toInt(matrix[1])
		if !rok || !cok {
			return LayoutDescriptor{}, fmt.Errorf("layout %q key %d: matrix must be numeric", name, i)
		}
		desc.Keys = append(desc.Keys, Position{Row: row, Col: col})
	}

	if v, ok := lookupPath(keyboard, "dynamic_keymap.layer_count"); ok {
		if n, ok := toInt(v); ok {
			desc.LayerCount = n
		}
	}
	if v, ok := lookupPath(keyboard, "encoder.rotary"); ok {
		if rotary, ok := v.([]interface{}); ok {
			desc.EncoderCount = len(rotary)
		}
	}
	return desc, nil
}

// toInt converts a decoded JSON number to int.
func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	}
	return 0, false
}
