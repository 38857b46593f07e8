// Package labels moves user labels and comments between UDD documents and
// CSV files.
package labels

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"golang.org/x/text/encoding"

	"uddtool/udd"
)

// Entry is a label and/or comment attached to an address.
type Entry struct {
	RVA     uint32
	Label   string
	Comment string
}

func (e Entry) empty() bool {
	return e.Label == "" && e.Comment == ""
}

// Collect returns labels and comments found in doc ordered by RVA, one entry
// per address. Texts are converted from code page cp. When an address carries
// several labels (or comments) the last one wins.
func Collect(doc *udd.Document, cp encoding.Encoding) ([]Entry, error) {
	byRVA := make(map[uint32]*Entry)
	get := func(rva uint32) *Entry {
		e, ok := byRVA[rva]
		if !ok {
			e = &Entry{RVA: rva}
			byRVA[rva] = e
		}
		return e
	}

	var err error
	switch doc.Version() {
	case udd.Version11:
		err = collect11(doc, get)
	case udd.Version20:
		err = collect20(doc, get)
	default:
		return nil, fmt.Errorf("%w: %s", udd.ErrUnsupportedVersion, doc.Version())
	}
	if err != nil {
		return nil, err
	}

	dec := decoder(cp)
	out := make([]Entry, 0, len(byRVA))
	for _, rva := range slices.Sorted(maps.Keys(byRVA)) {
		e := *byRVA[rva]
		if e.Label, err = dec(e.Label); err != nil {
			return nil, fmt.Errorf("label at %08x: %w", rva, err)
		}
		if e.Comment, err = dec(e.Comment); err != nil {
			return nil, fmt.Errorf("comment at %08x: %w", rva, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func collect11(doc *udd.Document, get func(uint32) *Entry) error {
	labelTag, _ := udd.TagOf(udd.Version11, udd.KindUserLabel)
	for _, i := range doc.FindByKinds(udd.KindUserLabel, udd.KindUserComment) {
		c, err := doc.GetChunk(i)
		if err != nil {
			return err
		}
		v, err := udd.Decode(udd.FormatDDString, c.Payload)
		if err != nil {
			return fmt.Errorf("chunk %d: %w", i, err)
		}
		cs := v.(udd.CountedString)
		if c.Tag == labelTag {
			get(cs.Index).Label = cs.Text
		} else {
			get(cs.Index).Comment = cs.Text
		}
	}
	return nil
}

func collect20(doc *udd.Document, get func(uint32) *Entry) error {
	for _, i := range doc.FindByKinds(udd.KindName) {
		c, err := doc.GetChunk(i)
		if err != nil {
			return err
		}
		v, err := udd.Decode(udd.FormatName, c.Payload)
		if err != nil {
			return fmt.Errorf("chunk %d: %w", i, err)
		}
		rec := v.(udd.NameRecord)
		if !rec.HasCategory || rec.Name == "" {
			continue
		}
		switch rec.Category {
		case udd.CategoryUserLabel:
			get(rec.RVA).Label = rec.Name
		case udd.CategoryUserComment:
			get(rec.RVA).Comment = rec.Name
		}
	}
	return nil
}

// Apply adds label and comment chunks for entries to doc. Chunks already
// present are not duplicated. It returns the number of chunks added.
func Apply(doc *udd.Document, entries []Entry, cp encoding.Encoding) (int, error) {
	if doc.Version() != udd.Version11 {
		return 0, fmt.Errorf("%w: importing labels into %s files", udd.ErrUnsupportedVersion, doc.Version())
	}

	enc := encoder(cp)
	before := doc.Len()
	for _, e := range entries {
		if e.empty() {
			continue
		}
		if e.Label != "" {
			if err := addText(doc, udd.MakeLabelChunk, e.RVA, e.Label, enc); err != nil {
				return doc.Len() - before, fmt.Errorf("label at %08x: %w", e.RVA, err)
			}
		}
		if e.Comment != "" {
			if err := addText(doc, udd.MakeCommentChunk, e.RVA, e.Comment, enc); err != nil {
				return doc.Len() - before, fmt.Errorf("comment at %08x: %w", e.RVA, err)
			}
		}
	}
	return doc.Len() - before, nil
}

type chunkMaker func(rva uint32, text string, v udd.SchemaVersion) (udd.Chunk, error)

func addText(doc *udd.Document, mk chunkMaker, rva uint32, text string, enc func(string) (string, error)) error {
	raw, err := enc(text)
	if err != nil {
		return err
	}
	c, err := mk(rva, raw, doc.Version())
	if err != nil {
		return err
	}
	doc.AddChunk(c)
	return nil
}

var errNotRepresentable = errors.New("text is not representable in code page")

func decoder(cp encoding.Encoding) func(string) (string, error) {
	if cp == nil {
		return func(s string) (string, error) { return s, nil }
	}
	d := cp.NewDecoder()
	return func(s string) (string, error) {
		if s == "" {
			return s, nil
		}
		return d.String(s)
	}
}

func encoder(cp encoding.Encoding) func(string) (string, error) {
	if cp == nil {
		return func(s string) (string, error) { return s, nil }
	}
	e := cp.NewEncoder()
	return func(s string) (string, error) {
		out, err := e.String(s)
		if err != nil {
			return "", fmt.Errorf("%w: %q: %w", errNotRepresentable, s, err)
		}
		return out, nil
	}
}
