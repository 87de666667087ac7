// Package report renders a keymap document as a Markdown or HTML summary.
package report

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/open-cli-collective/vial-keymap-cli/pkg/keymap"
)

// mdRenderer converts the report to HTML with GFM tables.
var mdRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// macroLimit bounds how many macros the report lists.
const macroLimit = 256

// Markdown renders doc as a Markdown report.
func Markdown(doc *keymap.Document, title string) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Layout `%s`, %d layers, %d encoders.\n\n", doc.Layout.Name, len(doc.Layers), doc.EncoderCount())

	for i, layer := range doc.Layers {
		fmt.Fprintf(&b, "## Layer %d\n\n", i)
		writeTable(&b, gridHeader(LayerGrid(layer)), gridRows(LayerGrid(layer)))
	}

	if doc.EncoderCount() > 0 {
		b.WriteString("## Encoders\n\n")
		var rows [][]string
		for layer, entries := range doc.Encoders {
			for i, e := range entries {
				rows = append(rows, []string{strconv.Itoa(layer), strconv.Itoa(i), e.CCW, e.CW})
			}
		}
		writeTable(&b, []string{"Layer", "Encoder", "CCW", "CW"}, rows)
	}

	if len(doc.TapDances) > 0 {
		b.WriteString("## Tap dance\n\n")
		var rows [][]string
		for i, td := range doc.TapDances {
			rows = append(rows, []string{strconv.Itoa(i), td.OnTap, td.OnHold, td.OnDoubleTap, td.OnTapHold, strconv.Itoa(td.TappingTerm)})
		}
		writeTable(&b, []string{"ID", "Tap", "Hold", "Double tap", "Tap hold", "Term"}, rows)
	}

	if len(doc.Combos) > 0 {
		b.WriteString("## Combos\n\n")
		var rows [][]string
		for i, c := range doc.Combos {
			rows = append(rows, []string{strconv.Itoa(i), strings.Join(c.Input[:], " + "), c.Output})
		}
		writeTable(&b, []string{"ID", "Input", "Output"}, rows)
	}

	if len(doc.KeyOverrides) > 0 {
		b.WriteString("## Key overrides\n\n")
		var rows [][]string
		for i, ko := range doc.KeyOverrides {
			rows = append(rows, []string{
				strconv.Itoa(i),
				ko.Trigger,
				ko.Replacement,
				fmt.Sprintf("0x%04x", ko.Layers),
				keymap.ModBits.Format(ko.TriggerMods),
				keymap.ModBits.Format(ko.NegativeModMask),
				keymap.ModBits.Format(ko.SuppressedMods),
				keymap.OverrideOptions.Format(ko.Options),
			})
		}
		writeTable(&b, []string{"ID", "Trigger", "Replacement", "Layers", "Trigger mods", "Negative mods", "Suppressed mods", "Options"}, rows)
	}

	if macros := keymap.SplitMacros(doc.Macros, macroLimit); len(macros) > 0 {
		b.WriteString("## Macros\n\n")
		var rows [][]string
		for i, m := range macros {
			rows = append(rows, []string{strconv.Itoa(i), DescribeMacro(m)})
		}
		writeTable(&b, []string{"ID", "Actions"}, rows)
	}

	if len(doc.QuantumSettings) > 0 {
		b.WriteString("## Settings\n\n")
		ids := make([]string, 0, len(doc.QuantumSettings))
		for id := range doc.QuantumSettings {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		var rows [][]string
		for _, id := range ids {
			label := ""
			if s, ok := keymap.LookupQuantumSetting(id); ok {
				label = s.Label
			}
			rows = append(rows, []string{"`" + id + "`", label, strconv.Itoa(doc.QuantumSettings[id])})
		}
		writeTable(&b, []string{"Setting", "Label", "Value"}, rows)
	}

	return b.Bytes()
}

// HTML renders doc as a standalone HTML page.
func HTML(doc *keymap.Document, title string) (string, error) {
	var body bytes.Buffer
	if err := mdRenderer.Convert(Markdown(doc, title), &body); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", htmlEscaper.Replace(title))
	b.WriteString("<style>table{border-collapse:collapse}td,th{border:1px solid #999;padding:2px 6px;font-family:monospace}</style>\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString(body.String())
	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

// LayerGrid arranges a layer's keycodes by matrix position. Positions the
// layout does not use are empty strings.
func LayerGrid(layer keymap.Layer) [][]string {
	rows, cols := 0, 0
	for _, k := range layer.Keys {
		rows = max(rows, k.Row+1)
		cols = max(cols, k.Col+1)
	}
	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = make([]string, cols)
	}
	for _, k := range layer.Keys {
		if k.Row >= 0 && k.Col >= 0 {
			grid[k.Row][k.Col] = k.Keycode
		}
	}
	return grid
}

func gridHeader(grid [][]string) []string {
	cols := 0
	if len(grid) > 0 {
		cols = len(grid[0])
	}
	header := []string{""}
	for c := 0; c < cols; c++ {
		header = append(header, strconv.Itoa(c))
	}
	return header
}

func gridRows(grid [][]string) [][]string {
	rows := make([][]string, len(grid))
	for r, row := range grid {
		rows[r] = append([]string{strconv.Itoa(r)}, row...)
	}
	return rows
}

func writeTable(b *bytes.Buffer, header []string, rows [][]string) {
	writeRow(b, header)
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(b, sep)
	for _, row := range rows {
		writeRow(b, row)
	}
	b.WriteString("\n")
}

func writeRow(b *bytes.Buffer, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(strings.ReplaceAll(c, "|", `\|`))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

var actionNames = map[byte]string{
	keymap.MacroActionTap:     "tap",
	keymap.MacroActionDown:    "down",
	keymap.MacroActionUp:      "up",
	keymap.MacroActionDelay:   "delay",
	keymap.MacroActionExtTap:  "tap",
	keymap.MacroActionExtDown: "down",
	keymap.MacroActionExtUp:   "up",
}

// DescribeMacro renders one macro's bytes as quoted text runs and
// {action arg} records.
func DescribeMacro(m []byte) string {
	var parts []string
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			parts = append(parts, strconv.Quote(text.String()))
			text.Reset()
		}
	}

	for i := 0; i < len(m); {
		if m[i] != keymap.MacroActionTag {
			text.WriteByte(m[i])
			i++
			continue
		}
		flush()
		n := 2
		if i+1 < len(m) {
			n = keymap.ActionLength(m[i+1])
		}
		end := min(i+n, len(m))
		parts = append(parts, describeAction(m[i+1:end]))
		i = end
	}
	flush()

	if len(parts) == 0 {
		return "(empty)"
	}
	return strings.Join(parts, " ")
}

func describeAction(rec []byte) string {
	if len(rec) == 0 {
		return "{?}"
	}
	name, ok := actionNames[rec[0]]
	if !ok {
		return fmt.Sprintf("{0x%02x}", rec[0])
	}
	args := rec[1:]
	switch {
	case rec[0] == keymap.MacroActionDelay && len(args) == 2:
		// Delays are stored as (ms % 255 + 1, ms / 255 + 1).
		ms := (int(args[0]) - 1) + (int(args[1])-1)*255
		return fmt.Sprintf("{delay %dms}", ms)
	case len(args) == 1:
		return fmt.Sprintf("{%s 0x%02x}", name, args[0])
	case len(args) == 2:
		return fmt.Sprintf("{%s 0x%04x}", name, int(args[0])|int(args[1])<<8)
	}
	return "{" + name + "}"
}
