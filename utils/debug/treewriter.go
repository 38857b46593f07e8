// Package debug has helpers producing human readable dumps.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

// hexRow is the number of bytes shown per HexBlock line.
const hexRow = 16

// TreeWriter accumulates indented lines, two spaces per level.
type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// TextBlock writes "label: value" with value quoted, empty values stay empty.
func (tw TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// HexBlock writes label followed by classic offset/hex/ascii rows one level
// deeper.
func (tw TreeWriter) HexBlock(depth int, label string, data []byte) {
	tw.Line(depth, "%s: (%d bytes)", label, len(data))
	for off := 0; off < len(data); off += hexRow {
		row := data[off:min(off+hexRow, len(data))]

		tw.indent(depth + 1)
		fmt.Fprintf(tw.w, "%04X:", off)
		for i := range hexRow {
			if i < len(row) {
				fmt.Fprintf(tw.w, " %02X", row[i])
			} else {
				tw.w.WriteString("   ")
			}
		}
		tw.w.WriteString("  |")
		for _, b := range row {
			if b < 0x20 || b >= 0x7F {
				b = '.'
			}
			tw.w.WriteByte(b)
		}
		tw.w.WriteString("|\n")
	}
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
