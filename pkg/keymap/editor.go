// editor.go exposes the numeric edit surface a keyboard configurator drives against a Document.
package keymap

import (
	"fmt"
	"sort"
	"strings"
)

// KeycodeConverter translates between symbolic keycode names and their
// 16-bit values. It is supplied by the caller.
type KeycodeConverter interface {
	KeycodeName(code uint16) (string, bool)
	KeycodeValue(name string) (uint16, bool)
}

// Direction selects one side of an encoder cell.
type Direction int

const (
	CCW Direction = iota
	CW
)

// EntryCounts summarizes the dynamic entity lengths.
type EntryCounts struct {
	Layer       int `json:"layer"`
	Macro       int `json:"macro"`
	TapDance    int `json:"tapdance"`
	Combo       int `json:"combo"`
	KeyOverride int `json:"override"`
}

// TapDance is the numeric view of a tap dance record.
type TapDance struct {
	ID          int    `json:"id"`
	OnTap       uint16 `json:"on_tap"`
	OnHold      uint16 `json:"on_hold"`
	OnDoubleTap uint16 `json:"on_double_tap"`
	OnTapHold   uint16 `json:"on_tap_hold"`
	TappingTerm int    `json:"tapping_term"`
}

// Combo is the numeric view of a combo record.
type Combo struct {
	ID     int       `json:"id"`
	Input  [4]uint16 `json:"input"`
	Output uint16    `json:"output"`
}

// KeyOverride is the numeric view of a key override record.
type KeyOverride struct {
	ID              int    `json:"id"`
	Trigger         uint16 `json:"trigger"`
	Replacement     uint16 `json:"replacement"`
	Layers          int    `json:"layers"`
	TriggerMods     int    `json:"trigger_mods"`
	NegativeModMask int    `json:"negative_mod_mask"`
	SuppressedMods  int    `json:"suppressed_mods"`
	Options         int    `json:"options"`
}

// Editor applies numeric edits to a Document. The model always stores
// symbolic names; every write goes through the converter. Editor does no
// locking.
type Editor struct {
	doc  *Document
	conv KeycodeConverter
}

// NewEditor returns an Editor over doc.
func NewEditor(doc *Document, conv KeycodeConverter) *Editor {
	return &Editor{doc: doc, conv: conv}
}

// Document returns the edited document.
func (e *Editor) Document() *Document {
	return e.doc
}

func (e *Editor) name(code uint16) string {
	if name, ok := e.conv.KeycodeName(code); ok {
		return name
	}
	e.doc.Warnings.Add("keycode 0x%04x is unknown, storing %s", code, KeycodeNo)
	return KeycodeNo
}

func (e *Editor) value(name string) uint16 {
	v, _ := e.conv.KeycodeValue(name)
	return v
}

// LayerCount returns the number of layers.
func (e *Editor) LayerCount() int {
	return len(e.doc.Layers)
}

func (e *Editor) checkLayer(layer int) error {
	if layer < 0 || layer >= len(e.doc.Layers) {
		return notFound("layer", "%d", layer)
	}
	return nil
}

func (e *Editor) findKey(layer, row, col int) (*Key, error) {
	if err := e.checkLayer(layer); err != nil {
		return nil, err
	}
	keys := e.doc.Layers[layer].Keys
	for i := range keys {
		if keys[i].Row == row && keys[i].Col == col {
			return &keys[i], nil
		}
	}
	return nil, notFound("key", "layer %d (%d,%d)", layer, row, col)
}

// GetKeycode returns the keycode at a matrix position.
func (e *Editor) GetKeycode(layer, row, col int) (uint16, error) {
	key, err := e.findKey(layer, row, col)
	if err != nil {
		return 0, err
	}
	return e.value(key.Keycode), nil
}

// SetKeycode stores code at a matrix position.
func (e *Editor) SetKeycode(layer, row, col int, code uint16) error {
	key, err := e.findKey(layer, row, col)
	if err != nil {
		return err
	}
	key.Keycode = e.name(code)
	return nil
}

// SetKeycodeName stores a keycode expression such as "LT(1, KC_A)"
// verbatim, bypassing the converter.
func (e *Editor) SetKeycodeName(layer, row, col int, expr string) error {
	key, err := e.findKey(layer, row, col)
	if err != nil {
		return err
	}
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return fmt.Errorf("empty keycode expression")
	}
	key.Keycode = expr
	return nil
}

// GetLayer returns a layer as a row-major rows*cols matrix. Positions
// without a key read as 0.
func (e *Editor) GetLayer(layer, rows, cols int) ([]uint16, error) {
	if err := e.checkLayer(layer); err != nil {
		return nil, err
	}
	out := make([]uint16, rows*cols)
	for _, key := range e.doc.Layers[layer].Keys {
		if key.Row < 0 || key.Col < 0 || key.Row >= rows || key.Col >= cols {
			continue
		}
		out[key.Row*cols+key.Col] = e.value(key.Keycode)
	}
	return out, nil
}

// SetLayer writes a row-major matrix onto a layer. Only positions that
// exist in the layout are stored, so the layer keeps its shape.
func (e *Editor) SetLayer(layer int, codes []uint16, rows, cols int) error {
	if err := e.checkLayer(layer); err != nil {
		return err
	}
	if len(codes) != rows*cols {
		return fmt.Errorf("layer %d: got %d keycodes for a %dx%d matrix", layer, len(codes), rows, cols)
	}
	keys := e.doc.Layers[layer].Keys
	for _, key := range keys {
		if key.Row < 0 || key.Col < 0 || key.Row >= rows || key.Col >= cols {
			return notFound("key", "layer %d (%d,%d) outside %dx%d matrix", layer, key.Row, key.Col, rows, cols)
		}
	}
	for i := range keys {
		keys[i].Keycode = e.name(codes[keys[i].Row*cols+keys[i].Col])
	}
	return nil
}

func (e *Editor) encoderCell(layer, index int, dir Direction) (*string, error) {
	if layer < 0 || layer >= len(e.doc.Encoders) {
		return nil, notFound("encoder", "layer %d", layer)
	}
	row := e.doc.Encoders[layer]
	if index < 0 || index >= len(row) {
		return nil, notFound("encoder", "layer %d index %d", layer, index)
	}
	switch dir {
	case CCW:
		return &row[index].CCW, nil
	case CW:
		return &row[index].CW, nil
	}
	return nil, notFound("encoder", "layer %d index %d direction %d", layer, index, dir)
}

// GetEncoder returns one encoder direction's keycode.
func (e *Editor) GetEncoder(layer, index int, dir Direction) (uint16, error) {
	cell, err := e.encoderCell(layer, index, dir)
	if err != nil {
		return 0, err
	}
	return e.value(*cell), nil
}

// SetEncoder stores code for one encoder direction.
func (e *Editor) SetEncoder(layer, index int, dir Direction, code uint16) error {
	cell, err := e.encoderCell(layer, index, dir)
	if err != nil {
		return err
	}
	*cell = e.name(code)
	return nil
}

// DynamicEntryCounts returns the current entity lengths.
func (e *Editor) DynamicEntryCounts() EntryCounts {
	return EntryCounts{
		Layer:       len(e.doc.Layers),
		Macro:       e.MacroCount(),
		TapDance:    len(e.doc.TapDances),
		Combo:       len(e.doc.Combos),
		KeyOverride: len(e.doc.KeyOverrides),
	}
}

func checkIDs(entity string, n int, ids []int) error {
	for _, id := range ids {
		if id < 0 || id >= n {
			return notFound(entity, "%d", id)
		}
	}
	return nil
}

// GetTapDances returns the records with the given ids.
func (e *Editor) GetTapDances(ids []int) ([]TapDance, error) {
	if err := checkIDs("tap dance", len(e.doc.TapDances), ids); err != nil {
		return nil, err
	}
	out := make([]TapDance, 0, len(ids))
	for _, id := range ids {
		td := e.doc.TapDances[id]
		out = append(out, TapDance{
			ID:          id,
			OnTap:       e.value(td.OnTap),
			OnHold:      e.value(td.OnHold),
			OnDoubleTap: e.value(td.OnDoubleTap),
			OnTapHold:   e.value(td.OnTapHold),
			TappingTerm: td.TappingTerm,
		})
	}
	return out, nil
}

// SetTapDances replaces records by id. No record changes unless every id
// is valid.
func (e *Editor) SetTapDances(values []TapDance) error {
	ids := make([]int, len(values))
	for i, v := range values {
		ids[i] = v.ID
	}
	if err := checkIDs("tap dance", len(e.doc.TapDances), ids); err != nil {
		return err
	}
	for _, v := range values {
		e.doc.TapDances[v.ID] = TapDanceEntry{
			OnTap:       e.name(v.OnTap),
			OnHold:      e.name(v.OnHold),
			OnDoubleTap: e.name(v.OnDoubleTap),
			OnTapHold:   e.name(v.OnTapHold),
			TappingTerm: v.TappingTerm,
		}
	}
	return nil
}

// GetCombos returns the records with the given ids.
func (e *Editor) GetCombos(ids []int) ([]Combo, error) {
	if err := checkIDs("combo", len(e.doc.Combos), ids); err != nil {
		return nil, err
	}
	out := make([]Combo, 0, len(ids))
	for _, id := range ids {
		c := e.doc.Combos[id]
		v := Combo{ID: id, Output: e.value(c.Output)}
		for k, in := range c.Input {
			v.Input[k] = e.value(in)
		}
		out = append(out, v)
	}
	return out, nil
}

// SetCombos replaces records by id, all or nothing.
func (e *Editor) SetCombos(values []Combo) error {
	ids := make([]int, len(values))
	for i, v := range values {
		ids[i] = v.ID
	}
	if err := checkIDs("combo", len(e.doc.Combos), ids); err != nil {
		return err
	}
	for _, v := range values {
		var c ComboEntry
		for k, in := range v.Input {
			c.Input[k] = e.name(in)
		}
		c.Output = e.name(v.Output)
		e.doc.Combos[v.ID] = c
	}
	return nil
}

// GetKeyOverrides returns the records with the given ids.
func (e *Editor) GetKeyOverrides(ids []int) ([]KeyOverride, error) {
	if err := checkIDs("key override", len(e.doc.KeyOverrides), ids); err != nil {
		return nil, err
	}
	out := make([]KeyOverride, 0, len(ids))
	for _, id := range ids {
		ko := e.doc.KeyOverrides[id]
		out = append(out, KeyOverride{
			ID:              id,
			Trigger:         e.value(ko.Trigger),
			Replacement:     e.value(ko.Replacement),
			Layers:          ko.Layers,
			TriggerMods:     ko.TriggerMods,
			NegativeModMask: ko.NegativeModMask,
			SuppressedMods:  ko.SuppressedMods,
			Options:         ko.Options,
		})
	}
	return out, nil
}

// SetKeyOverrides replaces records by id, all or nothing. Layer masks are
// truncated to 16 bits and modifier and option masks to 8.
func (e *Editor) SetKeyOverrides(values []KeyOverride) error {
	ids := make([]int, len(values))
	for i, v := range values {
		ids[i] = v.ID
	}
	if err := checkIDs("key override", len(e.doc.KeyOverrides), ids); err != nil {
		return err
	}
	for _, v := range values {
		e.doc.KeyOverrides[v.ID] = KeyOverrideEntry{
			Trigger:         e.name(v.Trigger),
			Replacement:     e.name(v.Replacement),
			Layers:          v.Layers & 0xffff,
			TriggerMods:     v.TriggerMods & 0xff,
			NegativeModMask: v.NegativeModMask & 0xff,
			SuppressedMods:  v.SuppressedMods & 0xff,
			Options:         v.Options & 0xff,
		}
	}
	return nil
}

// MacroCount returns the number of terminated macros in the buffer.
func (e *Editor) MacroCount() int {
	return CountMacros(e.doc.Macros, MaxEntries)
}

// MacroBufferLen returns the buffer length in bytes.
func (e *Editor) MacroBufferLen() int {
	return len(e.doc.Macros)
}

// GetMacroBuffer returns n bytes starting at offset, zero padded past the
// end of the buffer.
func (e *Editor) GetMacroBuffer(offset, n int) ([]byte, error) {
	if offset < 0 || n < 0 {
		return nil, notFound("macro buffer", "offset %d length %d", offset, n)
	}
	out := make([]byte, n)
	if offset < len(e.doc.Macros) {
		copy(out, e.doc.Macros[offset:])
	}
	return out, nil
}

// SetMacroBuffer overwrites bytes starting at offset, extending the buffer
// when data runs past its end. offset may equal the length to append.
func (e *Editor) SetMacroBuffer(offset int, data []byte) error {
	if offset < 0 || offset > len(e.doc.Macros) {
		return notFound("macro buffer", "offset %d", offset)
	}
	if end := offset + len(data); end > len(e.doc.Macros) {
		grown := make([]byte, end)
		copy(grown, e.doc.Macros)
		e.doc.Macros = grown
	}
	copy(e.doc.Macros[offset:], data)
	return nil
}

// GetMacros splits the buffer into at most count macros.
func (e *Editor) GetMacros(count int) [][]byte {
	return SplitMacros(e.doc.Macros, count)
}

// GetQuantumSettings returns the explicit values of the given settings,
// masked to each setting's byte width. Settings left at their firmware
// default are absent from the result.
func (e *Editor) GetQuantumSettings(ids []string) map[string]int {
	out := make(map[string]int, len(ids))
	for _, id := range ids {
		v, ok := e.doc.QuantumSettings[id]
		if !ok {
			continue
		}
		if s, ok := LookupQuantumSetting(id); ok {
			v = s.Mask(v)
		}
		out[id] = v
	}
	return out
}

// SetQuantumSettings applies values by id; a nil value restores the
// firmware default. Unknown ids are rejected before anything changes.
func (e *Editor) SetQuantumSettings(values map[string]*int) error {
	ids := make([]string, 0, len(values))
	for id := range values {
		if _, ok := LookupQuantumSetting(id); !ok {
			return notFound("quantum setting", "%q", id)
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if e.doc.QuantumSettings == nil {
		e.doc.QuantumSettings = make(map[string]int)
	}
	for _, id := range ids {
		delete(e.doc.opaque, id)
		v := values[id]
		if v == nil {
			delete(e.doc.QuantumSettings, id)
			continue
		}
		s, _ := LookupQuantumSetting(id)
		e.doc.QuantumSettings[id] = s.Mask(*v)
	}
	return nil
}

// EraseQuantumSettings restores every setting to its firmware default,
// including settings whose current value could not be read.
func (e *Editor) EraseQuantumSettings() {
	e.doc.QuantumSettings = make(map[string]int)
	e.doc.opaque = nil
}
