package udd

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	TagLen        = 4
	lengthLen     = 4
	chunkHdrLen   = TagLen + lengthLen
	MaxPayloadLen = 255 // limit for chunks built by the application, not for the wire
)

// Tag is the 4-byte chunk identifier. It is usually, but not always, printable.
type Tag [TagLen]byte

func (t Tag) String() string {
	return string(t[:])
}

// Label is a display form of the tag: the leading newline most tags start
// with is dropped and non-printable bytes are hex escaped.
func (t Tag) Label() string {
	return escapeText(strings.TrimLeft(string(t[:]), "\n"))
}

func tagOf(s string) Tag {
	if len(s) != TagLen {
		panic(fmt.Sprintf("udd: tag %q is not %d bytes long", s, TagLen))
	}
	var t Tag
	copy(t[:], s)
	return t
}

// Chunk is one tag/length/payload record.
type Chunk struct {
	Tag     Tag
	Payload []byte
}

// Equal reports whether both tag and payload are identical.
func (c Chunk) Equal(o Chunk) bool {
	return c.Tag == o.Tag && bytes.Equal(c.Payload, o.Payload)
}

// Size is the number of bytes the chunk occupies on the wire.
func (c Chunk) Size() int64 {
	return int64(chunkHdrLen + len(c.Payload))
}

func (c Chunk) clone() Chunk {
	return Chunk{Tag: c.Tag, Payload: bytes.Clone(c.Payload)}
}

// MakeChunk assembles a chunk for insertion into a document, enforcing the
// tag length and the application payload limit.
func MakeChunk(tag string, payload []byte) (Chunk, error) {
	if len(tag) != TagLen {
		return Chunk{}, fmt.Errorf("%w: tag length %d, want %d", ErrInvalidChunkConstruction, len(tag), TagLen)
	}
	if len(payload) > MaxPayloadLen {
		return Chunk{}, fmt.Errorf("%w: payload length %d exceeds %d", ErrInvalidChunkConstruction, len(payload), MaxPayloadLen)
	}
	return Chunk{Tag: tagOf(tag), Payload: bytes.Clone(payload)}, nil
}

// ReadChunk reads the next chunk from r.
func ReadChunk(r io.Reader) (Chunk, error) {
	var hdr [chunkHdrLen]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Chunk{}, truncated(err, "chunk header")
	}

	var c Chunk
	copy(c.Tag[:], hdr[:TagLen])
	n := binary.LittleEndian.Uint32(hdr[TagLen:])

	// do not trust the declared length for allocation
	var buf bytes.Buffer
	got, err := io.Copy(&buf, io.LimitReader(r, int64(n)))
	if err != nil {
		return Chunk{}, truncated(err, "chunk payload")
	}
	if got != int64(n) {
		return Chunk{}, fmt.Errorf("%w: chunk '%s' declares %d payload bytes, only %d available", ErrTruncatedStream, c.Tag.Label(), n, got)
	}
	c.Payload = buf.Bytes()
	if c.Payload == nil {
		c.Payload = []byte{}
	}
	return c, nil
}

// WriteChunk writes c to w: tag, little-endian payload length, payload.
func WriteChunk(w io.Writer, c Chunk) error {
	if uint64(len(c.Payload)) > uint64(^uint32(0)) {
		return fmt.Errorf("%w: payload length %d does not fit the wire", ErrInvalidChunkConstruction, len(c.Payload))
	}
	var hdr [chunkHdrLen]byte
	copy(hdr[:TagLen], c.Tag[:])
	binary.LittleEndian.PutUint32(hdr[TagLen:], uint32(len(c.Payload)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	if len(c.Payload) == 0 {
		return nil
	}
	_, err := w.Write(c.Payload)
	return err
}

func truncated(err error, what string) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: short %s", ErrTruncatedStream, what)
	}
	return err
}
