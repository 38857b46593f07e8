package udd

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

const dwordLen = 4

// Value is a decoded chunk payload. The concrete type depends on the field
// format, see Decode.
type Value interface {
	isValue()
}

type (
	// Empty is the value of FormatEmpty payloads.
	Empty struct{}

	// Text is the value of FormatString payloads, trailing NULs removed.
	Text string

	// CountedString is the value of FormatDDString and FormatMRUString
	// payloads. Index is an address or an ordinal depending on the kind.
	CountedString struct {
		Index uint32
		Text  string
	}

	Dword uint32

	DwordPair [2]uint32

	DwordPairString struct {
		First  uint32
		Second uint32
		Text   string
	}

	VersionQuad [4]uint32

	// Opaque is the value of FormatBinary payloads.
	Opaque []byte

	CRCRecord struct {
		Size          uint32
		TimestampHigh uint32
		TimestampLow  uint32
		Unknown       uint32
	}
)

func (Empty) isValue()           {}
func (Text) isValue()            {}
func (CountedString) isValue()   {}
func (Dword) isValue()           {}
func (DwordPair) isValue()       {}
func (DwordPairString) isValue() {}
func (VersionQuad) isValue()     {}
func (Opaque) isValue()          {}
func (CRCRecord) isValue()       {}
func (NameRecord) isValue()      {}

func (v VersionQuad) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v[0], v[1], v[2], v[3])
}

// Decode interprets payload according to format. It never modifies payload;
// byte slices in the result are copies.
func Decode(format FieldFormat, payload []byte) (Value, error) {
	switch format {
	case FormatEmpty:
		if len(payload) != 0 {
			return nil, malformed(format, "0", len(payload))
		}
		return Empty{}, nil

	case FormatString:
		return Text(trimNUL(payload)), nil

	case FormatDDString, FormatMRUString:
		if len(payload) < dwordLen {
			return nil, malformed(format, "at least 4", len(payload))
		}
		return CountedString{
			Index: binary.LittleEndian.Uint32(payload),
			Text:  trimNUL(payload[dwordLen:]),
		}, nil

	case FormatDword:
		d, err := dwords(format, payload, 1)
		if err != nil {
			return nil, err
		}
		return Dword(d[0]), nil

	case FormatDD2:
		d, err := dwords(format, payload, 2)
		if err != nil {
			return nil, err
		}
		return DwordPair{d[0], d[1]}, nil

	case FormatDD2String:
		if len(payload) < 2*dwordLen {
			return nil, malformed(format, "at least 8", len(payload))
		}
		return DwordPairString{
			First:  binary.LittleEndian.Uint32(payload[0:]),
			Second: binary.LittleEndian.Uint32(payload[dwordLen:]),
			Text:   trimNUL(payload[2*dwordLen:]),
		}, nil

	case FormatVersion:
		d, err := dwords(format, payload, 4)
		if err != nil {
			return nil, err
		}
		return VersionQuad{d[0], d[1], d[2], d[3]}, nil

	case FormatCRC2:
		d, err := dwords(format, payload, 4)
		if err != nil {
			return nil, err
		}
		return CRCRecord{Size: d[0], TimestampHigh: d[1], TimestampLow: d[2], Unknown: d[3]}, nil

	case FormatBinary:
		return Opaque(bytes.Clone(payload)), nil

	case FormatName:
		return decodeName(payload)

	default:
		return nil, fmt.Errorf("%w: unknown field format %s", ErrMalformedPayload, format)
	}
}

// Encode builds a payload from v. Only the formats used to synthesize new
// chunks are supported: FormatEmpty, FormatString, FormatDword and the two
// counted string formats.
func Encode(format FieldFormat, v Value) ([]byte, error) {
	switch format {
	case FormatEmpty:
		if _, ok := v.(Empty); !ok && v != nil {
			return nil, mismatch(format, v)
		}
		return []byte{}, nil

	case FormatString:
		t, ok := v.(Text)
		if !ok {
			return nil, mismatch(format, v)
		}
		if err := checkText(string(t)); err != nil {
			return nil, err
		}
		return append([]byte(t), 0), nil

	case FormatDword:
		d, ok := v.(Dword)
		if !ok {
			return nil, mismatch(format, v)
		}
		return binary.LittleEndian.AppendUint32(nil, uint32(d)), nil

	case FormatDDString, FormatMRUString:
		cs, ok := v.(CountedString)
		if !ok {
			return nil, mismatch(format, v)
		}
		if err := checkText(cs.Text); err != nil {
			return nil, err
		}
		buf := make([]byte, 0, dwordLen+len(cs.Text)+1)
		buf = binary.LittleEndian.AppendUint32(buf, cs.Index)
		buf = append(buf, cs.Text...)
		return append(buf, 0), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func dwords(format FieldFormat, payload []byte, n int) ([]uint32, error) {
	if len(payload) != n*dwordLen {
		return nil, malformed(format, fmt.Sprintf("%d", n*dwordLen), len(payload))
	}
	out := make([]uint32, n)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(payload[i*dwordLen:])
	}
	return out, nil
}

func trimNUL(b []byte) string {
	return string(bytes.TrimRight(b, "\x00"))
}

func checkText(s string) error {
	if strings.IndexByte(s, 0) >= 0 {
		return fmt.Errorf("%w: text contains NUL byte", ErrInvalidChunkConstruction)
	}
	return nil
}

func mismatch(format FieldFormat, v Value) error {
	return fmt.Errorf("%w: cannot encode %T as %s", ErrInvalidChunkConstruction, v, format)
}
