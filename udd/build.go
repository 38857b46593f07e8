package udd

import "fmt"

// MakeLabelChunk packs a user label for rva. Only version 1.1 stores labels
// as counted strings.
func MakeLabelChunk(rva uint32, text string, v SchemaVersion) (Chunk, error) {
	return makeCounted(KindUserLabel, rva, text, v)
}

// MakeCommentChunk packs a user comment for rva, see MakeLabelChunk.
func MakeCommentChunk(rva uint32, text string, v SchemaVersion) (Chunk, error) {
	return makeCounted(KindUserComment, rva, text, v)
}

func makeCounted(kind Kind, rva uint32, text string, v SchemaVersion) (Chunk, error) {
	if v != Version11 {
		return Chunk{}, fmt.Errorf("%w: %s chunks for %s", ErrUnsupportedVersion, kind, v)
	}
	return MakeKindChunk(v, kind, CountedString{Index: rva, Text: text})
}

// MakeKindChunk encodes val with the format registered for kind and wraps it
// with the tag kind has in version v.
func MakeKindChunk(v SchemaVersion, kind Kind, val Value) (Chunk, error) {
	tag, ok := TagOf(v, kind)
	if !ok {
		return Chunk{}, fmt.Errorf("%w: no %s chunk in %s", ErrUnsupportedVersion, kind, v)
	}
	format, ok := ResolveFieldFormat(kind)
	if !ok {
		return Chunk{}, fmt.Errorf("%w: no field format for %s", ErrUnsupportedFormat, kind)
	}
	payload, err := Encode(format, val)
	if err != nil {
		return Chunk{}, err
	}
	return MakeChunk(tag.String(), payload)
}

// HeaderChunk returns the first chunk of every version v document.
func HeaderChunk(v SchemaVersion) (Chunk, error) {
	if !v.Valid() {
		return Chunk{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, int(v))
	}
	return Chunk{Tag: HeaderTag, Payload: v.Signature()}, nil
}

// FooterChunk returns the terminating chunk.
func FooterChunk() Chunk {
	return Chunk{Tag: FooterTag, Payload: []byte{}}
}

// Skeleton describes a new document: an optional module file name and, for
// version 1.1, its size.
type Skeleton struct {
	Version  SchemaVersion
	Filename string
	Size     *uint32
}

// Build assembles header, optional module information and footer.
func (s Skeleton) Build() (*Document, error) {
	hdr, err := HeaderChunk(s.Version)
	if err != nil {
		return nil, err
	}
	doc := New(s.Version)
	doc.AppendChunk(hdr)

	if s.Filename != "" {
		c, err := MakeKindChunk(s.Version, KindFilename, Text(s.Filename))
		if err != nil {
			return nil, fmt.Errorf("filename: %w", err)
		}
		doc.AppendChunk(c)
	}
	if s.Size != nil && s.Version == Version11 {
		c, err := MakeKindChunk(s.Version, KindSize, Dword(*s.Size))
		if err != nil {
			return nil, fmt.Errorf("size: %w", err)
		}
		doc.AppendChunk(c)
	}

	doc.AppendChunk(FooterChunk())
	return doc, nil
}
