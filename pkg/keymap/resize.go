// resize.go grows and shrinks the dynamic entity lists of a Document.
package keymap

import (
	"fmt"
	"strings"
)

// EntityKind names a resizable entity list.
type EntityKind int

const (
	KindLayer EntityKind = iota
	KindTapDance
	KindCombo
	KindKeyOverride
)

var kindNames = map[EntityKind]string{
	KindLayer:       "layer",
	KindTapDance:    "tapdance",
	KindCombo:       "combo",
	KindKeyOverride: "override",
}

func (k EntityKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("EntityKind(%d)", int(k))
}

// ParseEntityKind accepts the names printed by String plus a few common
// spellings ("tap-dance", "key-override", "layers").
func ParseEntityKind(s string) (EntityKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "layer", "layers":
		return KindLayer, nil
	case "tapdance", "tap-dance", "tap_dance", "td":
		return KindTapDance, nil
	case "combo", "combos":
		return KindCombo, nil
	case "override", "key-override", "key_override", "keyoverride", "ko":
		return KindKeyOverride, nil
	case "encoder", "encoders":
		return 0, fmt.Errorf("the encoder count is fixed by keyboard.json encoder.rotary; encoder rows follow the layer count")
	}
	return 0, fmt.Errorf("unknown entity kind %q (expected layer, tapdance, combo or override)", s)
}

// Count returns the current length of the entity list.
func (d *Document) Count(kind EntityKind) int {
	switch kind {
	case KindLayer:
		return len(d.Layers)
	case KindTapDance:
		return len(d.TapDances)
	case KindCombo:
		return len(d.Combos)
	case KindKeyOverride:
		return len(d.KeyOverrides)
	}
	return 0
}

// Resize sets the length of one entity list and returns the resulting
// count. Layers accept [1, MaxEntries], every other kind [0, MaxEntries].
// A request equal to the current count or out of range changes nothing.
// New records take default values; shrinking drops records from the tail.
// Encoder rows are not a kind of their own: they follow the layer count.
func (d *Document) Resize(kind EntityKind, n int) int {
	current := d.Count(kind)
	lower := 0
	if kind == KindLayer {
		lower = 1
	}
	if n == current || n < lower || n > MaxEntries {
		return current
	}

	switch kind {
	case KindLayer:
		d.resizeLayers(n)
	case KindTapDance:
		d.TapDances = resizeSlice(d.TapDances, n, DefaultTapDance)
	case KindCombo:
		d.Combos = resizeSlice(d.Combos, n, DefaultCombo)
	case KindKeyOverride:
		d.KeyOverrides = resizeSlice(d.KeyOverrides, n, DefaultKeyOverride)
	default:
		return current
	}
	return d.Count(kind)
}

func (d *Document) resizeLayers(n int) {
	if n < len(d.Layers) {
		d.Layers = d.Layers[:n]
	}
	for len(d.Layers) < n {
		d.Layers = append(d.Layers, d.blankLayer())
	}

	if n < len(d.Encoders) {
		d.Encoders = d.Encoders[:n]
	}
	for len(d.Encoders) < n {
		d.Encoders = append(d.Encoders, defaultEncoderRow(d.Layout.EncoderCount))
	}
	d.Layout.LayerCount = n
}

// blankLayer returns a transparent layer shaped like layer 0, or like the
// layout descriptor when there is no layer 0.
func (d *Document) blankLayer() Layer {
	if len(d.Layers) == 0 {
		return transparentLayer(d.Layout.Name, d.Layout.Keys)
	}
	first := d.Layers[0]
	positions := make([]Position, len(first.Keys))
	for i, k := range first.Keys {
		positions[i] = Position{Row: k.Row, Col: k.Col}
	}
	return transparentLayer(first.Layout, positions)
}

func resizeSlice[T any](s []T, n int, def T) []T {
	if n <= len(s) {
		return s[:n]
	}
	for len(s) < n {
		s = append(s, def)
	}
	return s
}
