package labels

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Header of label exchange files.
var Header = []string{"RVA", "label", "comment"}

// Options control CSV layout.
type Options struct {
	Comma  rune
	Header bool
}

func (o Options) comma() rune {
	if o.Comma == 0 {
		return ','
	}
	return o.Comma
}

// WriteCSV writes entries one row per address, RVA as 8 lower case hex digits.
func WriteCSV(w io.Writer, entries []Entry, opts Options) error {
	cw := csv.NewWriter(w)
	cw.Comma = opts.comma()

	if opts.Header {
		if err := cw.Write(Header); err != nil {
			return err
		}
	}
	for _, e := range entries {
		if e.empty() {
			continue
		}
		if err := cw.Write([]string{fmt.Sprintf("%08x", e.RVA), e.Label, e.Comment}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses rows produced by WriteCSV. The header row is optional, rows
// may omit the comment column.
func ReadCSV(r io.Reader, opts Options) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.Comma = opts.comma()
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = !unicode.IsSpace(cr.Comma)

	var entries []Entry
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if line == 1 && isHeader(rec) {
			continue
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) < 2 || len(rec) > 3 {
			return nil, fmt.Errorf("line %d: expected 2 or 3 fields, got %d", line, len(rec))
		}

		rva, err := ParseRVA(rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		e := Entry{RVA: rva, Label: rec[1]}
		if len(rec) == 3 {
			e.Comment = rec[2]
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func isHeader(rec []string) bool {
	return len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), Header[0])
}

// ParseRVA accepts hex addresses with or without 0x prefix.
func ParseRVA(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("bad RVA %q: %w", s, err)
	}
	return uint32(v), nil
}
