package labels

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"

	"uddtool/udd"
)

// UserEntry is a piece of text typed in by the user: an MRU list item, a
// watch expression, a trace or breakpoint condition.
type UserEntry struct {
	Type string
	Text string
}

const mruPrefix = "MRU_"

// Extract returns user typed entries in document order.
func Extract(doc *udd.Document, cp encoding.Encoding) ([]UserEntry, error) {
	var (
		out []UserEntry
		err error
	)
	switch doc.Version() {
	case udd.Version11:
		out, err = extract11(doc)
	case udd.Version20:
		out, err = extract20(doc)
	default:
		return nil, fmt.Errorf("%w: %s", udd.ErrUnsupportedVersion, doc.Version())
	}
	if err != nil {
		return nil, err
	}

	dec := decoder(cp)
	for i := range out {
		if out[i].Text, err = dec(out[i].Text); err != nil {
			return nil, fmt.Errorf("%s entry: %w", out[i].Type, err)
		}
	}
	return out, nil
}

func mruKinds() []udd.Kind {
	var kinds []udd.Kind
	for _, k := range udd.KnownKinds(udd.Version11) {
		if strings.HasPrefix(string(k), mruPrefix) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func extract11(doc *udd.Document) ([]UserEntry, error) {
	var out []UserEntry
	for _, i := range doc.FindByKinds(mruKinds()...) {
		c, err := doc.GetChunk(i)
		if err != nil {
			return nil, err
		}
		kind, format, _ := udd.FormatOf(udd.Version11, c.Tag)
		v, err := udd.Decode(format, c.Payload)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
		switch x := v.(type) {
		case udd.CountedString:
			out = append(out, UserEntry{Type: string(kind), Text: x.Text})
		case udd.Text:
			// command line history is a plain string
			out = append(out, UserEntry{Type: string(kind), Text: string(x)})
		}
	}
	return out, nil
}

func extract20(doc *udd.Document) ([]UserEntry, error) {
	var out []UserEntry
	for _, i := range doc.FindByKinds(udd.KindName, udd.KindLSA) {
		c, err := doc.GetChunk(i)
		if err != nil {
			return nil, err
		}
		v, err := udd.Decode(udd.FormatName, c.Payload)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
		rec := v.(udd.NameRecord)
		if !rec.HasCategory || !rec.Category.IsUserEntry() {
			continue
		}
		out = append(out, UserEntry{Type: rec.Category.String(), Text: rec.Name})
	}
	return out, nil
}

// WriteUserCSV writes entries as "type,text" rows.
func WriteUserCSV(w io.Writer, entries []UserEntry, opts Options) error {
	cw := csv.NewWriter(w)
	cw.Comma = opts.comma()

	if opts.Header {
		if err := cw.Write([]string{"type", "text"}); err != nil {
			return err
		}
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.Type, e.Text}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
