package udd

import "fmt"

// FieldFormat describes how a chunk payload is laid out.
type FieldFormat int

const (
	FormatEmpty FieldFormat = iota
	// NUL padded text.
	FormatString
	// Dword followed by text, the dword is shown as hex.
	FormatDDString
	// Dword followed by text, the dword is shown as decimal.
	FormatMRUString
	FormatDword
	// Two dwords.
	FormatDD2
	// Two dwords followed by text.
	FormatDD2String
	// Four dwords shown dotted.
	FormatVersion
	// Opaque bytes.
	FormatBinary
	// RVA, category, name and optional type descriptor.
	FormatName
	// Size, two-dword timestamp and an unknown dword.
	FormatCRC2
)

var formatNames = [...]string{
	FormatEmpty:     "EMPTY",
	FormatString:    "STRING",
	FormatDDString:  "DDSTRING",
	FormatMRUString: "MRUSTRING",
	FormatDword:     "DWORD",
	FormatDD2:       "DD2",
	FormatDD2String: "DD2STRING",
	FormatVersion:   "VERSION",
	FormatBinary:    "BIN",
	FormatName:      "NAME",
	FormatCRC2:      "CRC2",
}

func (f FieldFormat) String() string {
	if f >= 0 && int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("FieldFormat(%d)", int(f))
}

// IsCountedString reports whether the payload starts with a dword followed by
// text. Both kinds decode identically and differ only in rendering.
func (f FieldFormat) IsCountedString() bool {
	return f == FormatDDString || f == FormatMRUString
}
