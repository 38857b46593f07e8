package udd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// Document is an ordered sequence of chunks together with the schema version
// taken from its header. Payloads are stored as read and never re-derived, so
// an unmodified document is written back byte for byte.
type Document struct {
	version  SchemaVersion
	chunks   []Chunk
	warnings []Warning
}

// New returns an empty document of version v. The caller is expected to
// append header, body and footer with AppendChunk.
func New(v SchemaVersion) *Document {
	return &Document{version: v}
}

// Read parses a document from r. Reading stops right after the footer chunk,
// anything past it is left unread.
func Read(r io.Reader) (*Document, error) {
	var offset int64

	hdr, err := ReadChunk(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	if hdr.Tag != HeaderTag {
		return nil, fmt.Errorf("%w: unexpected tag '%s'", ErrInvalidHeader, hdr.Tag.Label())
	}
	v, ok := VersionFromSignature(hdr.Payload)
	if !ok {
		return nil, fmt.Errorf("%w: unknown signature %s", ErrInvalidHeader, ElidedHex(hdr.Payload))
	}
	offset += hdr.Size()

	doc := &Document{version: v, chunks: []Chunk{hdr}}
	for {
		c, err := ReadChunk(r)
		if err != nil {
			return nil, fmt.Errorf("offset %08X: %w", offset, err)
		}
		if _, known := ResolveTag(v, c.Tag); !known {
			doc.warnings = append(doc.warnings, Warning{Offset: offset, Tag: c.Tag, Payload: bytes.Clone(c.Payload)})
		}
		doc.chunks = append(doc.chunks, c)
		offset += c.Size()
		if isFooter(c) {
			return doc, nil
		}
	}
}

// Load reads the document stored in file path.
func Load(path string) (doc *Document, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	doc, err = Read(f)
	if err != nil {
		return nil, fmt.Errorf("unable to load '%s': %w", path, err)
	}
	return doc, nil
}

// WriteTo writes every chunk in stored order.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for _, c := range d.chunks {
		if err := WriteChunk(w, c); err != nil {
			return n, err
		}
		n += c.Size()
	}
	return n, nil
}

// Save writes the document to path, replacing an existing file.
func (d *Document) Save(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if _, err = d.WriteTo(f); err != nil {
		return fmt.Errorf("unable to save '%s': %w", path, err)
	}
	return nil
}

func (d *Document) Version() SchemaVersion {
	return d.version
}

func (d *Document) Len() int {
	return len(d.chunks)
}

// Chunks returns a copy of the chunk sequence.
func (d *Document) Chunks() []Chunk {
	out := make([]Chunk, len(d.chunks))
	for i, c := range d.chunks {
		out[i] = c.clone()
	}
	return out
}

// Warnings returns chunks with unknown tags met while reading.
func (d *Document) Warnings() []Warning {
	return slices.Clone(d.warnings)
}

// AddChunk inserts c in front of the last chunk (the footer) unless an
// identical chunk is already present.
func (d *Document) AddChunk(c Chunk) {
	if d.FindExact(c) != nil {
		return
	}
	c = c.clone()
	if len(d.chunks) == 0 {
		d.chunks = append(d.chunks, c)
		return
	}
	d.chunks = slices.Insert(d.chunks, len(d.chunks)-1, c)
}

// AppendChunk adds c at the end unconditionally.
func (d *Document) AppendChunk(c Chunk) {
	d.chunks = append(d.chunks, c.clone())
}

func (d *Document) GetChunk(i int) (Chunk, error) {
	if err := d.checkIndex(i); err != nil {
		return Chunk{}, err
	}
	return d.chunks[i].clone(), nil
}

func (d *Document) SetChunk(i int, c Chunk) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	d.chunks[i] = c.clone()
	return nil
}

func (d *Document) checkIndex(i int) error {
	if i < 0 || i >= len(d.chunks) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(d.chunks))
	}
	return nil
}

// FindByType returns positions of chunks with the given tag.
func (d *Document) FindByType(tag Tag) []int {
	return d.FindByTypes(tag)
}

// FindByTypes returns positions of chunks whose tag is any of tags.
func (d *Document) FindByTypes(tags ...Tag) []int {
	var found []int
	for i, c := range d.chunks {
		if slices.Contains(tags, c.Tag) {
			found = append(found, i)
		}
	}
	return found
}

// FindByKinds is FindByTypes with tags resolved for the document version.
// Kinds unknown to the version are ignored.
func (d *Document) FindByKinds(kinds ...Kind) []int {
	tags := make([]Tag, 0, len(kinds))
	for _, k := range kinds {
		if t, ok := TagOf(d.version, k); ok {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return d.FindByTypes(tags...)
}

// FindExact returns positions of chunks equal to c, nil when there are none.
func (d *Document) FindExact(c Chunk) []int {
	var found []int
	for i, x := range d.chunks {
		if x.Equal(c) {
			found = append(found, i)
		}
	}
	return found
}

// String renders the document one chunk per line.
func (d *Document) String() string {
	lines := make([]string, len(d.chunks))
	for i, c := range d.chunks {
		lines[i] = Line(c, d.version)
	}
	return strings.Join(lines, "\n")
}

func isFooter(c Chunk) bool {
	return c.Tag == FooterTag && len(c.Payload) == 0
}

// IsHeaderTruncated reports whether err comes from a stream too short to hold
// even the header chunk, which is how empty files fail to load.
func IsHeaderTruncated(err error) bool {
	return errors.Is(err, ErrInvalidHeader) && errors.Is(err, ErrTruncatedStream)
}
