// Package dumputil provides output helpers for the udddump debug tool. It
// operates on *udd.Document and produces dump text, JSON and SQLite renditions
// of the chunk stream.
package dumputil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"

	"uddtool/udd"
	"uddtool/utils/debug"
)

// ChunkInfo is a flattened view of one chunk.
type ChunkInfo struct {
	Index    int    `json:"index"`
	Offset   int64  `json:"offset"`
	Tag      string `json:"tag"`
	Kind     string `json:"kind,omitempty"`
	Format   string `json:"format,omitempty"`
	Size     int    `json:"size"`
	Rendered string `json:"rendered"`
	Error    string `json:"error,omitempty"`
	Value    any    `json:"value,omitempty"`
	Payload  []byte `json:"payload"`
}

// Describe decodes every chunk of doc, decode failures are recorded rather
// than returned.
func Describe(doc *udd.Document) []ChunkInfo {
	chunks := doc.Chunks()
	out := make([]ChunkInfo, 0, len(chunks))
	var offset int64
	for i, c := range chunks {
		ci := ChunkInfo{
			Index:   i,
			Offset:  offset,
			Tag:     c.Tag.Label(),
			Size:    len(c.Payload),
			Payload: c.Payload,
		}
		offset += c.Size()

		kind, format, known := udd.FormatOf(doc.Version(), c.Tag)
		if known {
			ci.Kind, ci.Format = string(kind), format.String()
			if v, err := udd.Decode(format, c.Payload); err != nil {
				ci.Error = err.Error()
			} else if _, opaque := v.(udd.Opaque); !opaque {
				ci.Value = v
			}
		}
		if r, err := udd.Render(c, doc.Version()); err == nil {
			ci.Rendered = r
		}
		out = append(out, ci)
	}
	return out
}

// DumpText returns listing of doc with decoded values and raw payloads.
func DumpText(doc *udd.Document, name string) string {
	tw := debug.NewTreeWriter()
	tw.Line(0, "%s: %s, %d chunk(s)", name, doc.Version(), doc.Len())
	for _, w := range doc.Warnings() {
		tw.Line(1, "%s", w.Error())
	}
	for _, ci := range Describe(doc) {
		kind := ci.Kind
		if kind == "" {
			kind = "UNK"
		}
		tw.Line(1, "#%d @%08X [%s] %s", ci.Index, ci.Offset, ci.Tag, kind)
		if ci.Format != "" {
			tw.TextBlock(2, "format", ci.Format)
		}
		if ci.Error != "" {
			tw.TextBlock(2, "error", ci.Error)
		} else {
			tw.TextBlock(2, "rendered", ci.Rendered)
		}
		if rec, ok := ci.Value.(udd.NameRecord); ok {
			dumpName(tw, 2, rec)
		}
		tw.HexBlock(2, "payload", ci.Payload)
	}
	return tw.String()
}

func dumpName(tw *debug.TreeWriter, depth int, rec udd.NameRecord) {
	tw.Line(depth, "rva: %08X", rec.RVA)
	if rec.HasCategory {
		tw.Line(depth, "category: %s (%q)", rec.Category, byte(rec.Category))
	}
	tw.TextBlock(depth, "name", rec.Name)
	if rec.Type != nil {
		tw.Line(depth, "type: depth %s", rec.Type.Depth)
		tw.TextBlock(depth+1, "text", rec.Type.Text)
	}
}

// WriteOutput writes data to <stem><suffix> in either the input file's directory or outDir.
func WriteOutput(inPath, outDir, suffix string, data []byte, overwrite bool) error {
	outPath := OutputPath(inPath, outDir, suffix)

	if _, err := os.Stat(outPath); err == nil {
		if !overwrite {
			return fmt.Errorf("output file already exists: %s (use -overwrite)", outPath)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", outPath)
	return nil
}

// OutputPath builds <stem><suffix> next to inPath or in outDir.
func OutputPath(inPath, outDir, suffix string) string {
	base := filepath.Base(inPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	dir := filepath.Dir(inPath)
	if outDir != "" {
		dir = outDir
	}
	return filepath.Join(dir, stem+suffix)
}

// ExtFromFiletype detects the file extension from magic bytes, binary chunks
// sometimes carry whole embedded files.
func ExtFromFiletype(b []byte) string {
	kind, err := filetype.Match(b)
	if err == nil && kind != filetype.Unknown && kind.Extension != "" {
		return "." + kind.Extension
	}
	return ".bin"
}
