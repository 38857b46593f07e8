package udd

import (
	"errors"
	"fmt"
)

var (
	ErrTruncatedStream          = errors.New("udd: truncated stream")
	ErrInvalidHeader            = errors.New("udd: invalid header chunk")
	ErrMalformedPayload         = errors.New("udd: malformed payload")
	ErrInvalidChunkConstruction = errors.New("udd: invalid chunk construction")
	ErrIndexOutOfRange          = errors.New("udd: chunk index out of range")
	ErrUnsupportedVersion       = errors.New("udd: operation not supported for schema version")
	ErrUnsupportedFormat        = errors.New("udd: field format not supported for encoding")
)

// Warning records a chunk whose tag is not known for the document schema
// version. Loading continues and the chunk is kept as is.
type Warning struct {
	Offset  int64
	Tag     Tag
	Payload []byte
}

func (w Warning) Error() string {
	return fmt.Sprintf("warning (offset %08X) unknown chunk type: '%s' %s", w.Offset, w.Tag.Label(), ElidedHex(w.Payload))
}

func malformed(format FieldFormat, want string, got int) error {
	return fmt.Errorf("%w: %s needs %s bytes, got %d", ErrMalformedPayload, format, want, got)
}
