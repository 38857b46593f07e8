package udd

import (
	"bytes"
	"encoding/binary"
	"strconv"
)

const (
	sentinelMin      = 0x80
	sentinelIndirect = 0xA0
)

// PointerDepth is the byte separating a symbol name from its type text.
type PointerDepth struct {
	Indirect bool
	Level    uint8
}

func (d PointerDepth) String() string {
	if d.Indirect {
		return "*"
	}
	return strconv.Itoa(int(d.Level))
}

type TypeDescriptor struct {
	Depth PointerDepth
	Text  string
}

// NameRecord is the value of FormatName payloads (NAME, DATA and LSA chunks).
// HasCategory is false only for records without any bytes after the RVA.
type NameRecord struct {
	RVA         uint32
	Category    Category
	HasCategory bool
	Name        string
	Type        *TypeDescriptor
}

func decodeName(payload []byte) (NameRecord, error) {
	if len(payload) < dwordLen {
		return NameRecord{}, malformed(FormatName, "at least 4", len(payload))
	}
	rec := NameRecord{RVA: binary.LittleEndian.Uint32(payload)}

	buf := bytes.TrimRight(payload[dwordLen:], "\x00")
	if len(buf) == 0 {
		return rec, nil
	}
	rec.Category, rec.HasCategory = Category(buf[0]), true
	rest := buf[1:]

	k, found := findSentinel(rest)
	if !found {
		rec.Name = string(rest)
		return rec, nil
	}

	rec.Name = trimNUL(rest[:k])
	depth := PointerDepth{Level: rest[k]}
	if rest[k] == sentinelIndirect {
		depth = PointerDepth{Indirect: true}
	}
	rec.Type = &TypeDescriptor{Depth: depth, Text: string(rest[k+1:])}
	return rec, nil
}

// findSentinel returns the position of the first byte with the high bit set.
func findSentinel(b []byte) (int, bool) {
	for i, c := range b {
		if c >= sentinelMin {
			return i, true
		}
	}
	return 0, false
}
