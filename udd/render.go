package udd

import (
	"fmt"
	"strings"
)

// number of bytes shown at each end of an elided dump
const elideEdge = 10

// HexDump renders b as space separated upper case hex bytes.
func HexDump(b []byte) string {
	var sb strings.Builder
	for i, c := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", c)
	}
	return sb.String()
}

// ElidedHex renders short payloads in full and long ones as byte count, head
// and tail.
func ElidedHex(b []byte) string {
	if len(b) < elideEdge {
		return HexDump(b)
	}
	return fmt.Sprintf("(%d) %s ... %s", len(b), HexDump(b[:elideEdge]), HexDump(b[len(b)-elideEdge:]))
}

func escapeText(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\':
			sb.WriteString(`\\`)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c < 0x20 || c == 0x7F:
			fmt.Fprintf(&sb, `\x%02x`, c)
		default:
			// bytes above 0x7F belong to the file code page and are kept
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// Render formats the payload of c according to its field format for version v.
// Chunks with tags unknown to v are shown as raw hex prefixed by the tag.
func Render(c Chunk, v SchemaVersion) (string, error) {
	_, format, known := FormatOf(v, c.Tag)
	if !known {
		return fmt.Sprintf("UNK[%s]:%s", c.Tag.Label(), ElidedHex(c.Payload)), nil
	}
	val, err := Decode(format, c.Payload)
	if err != nil {
		return "", fmt.Errorf("chunk '%s': %w", c.Tag.Label(), err)
	}
	return RenderValue(format, val), nil
}

// RenderValue formats an already decoded value.
func RenderValue(format FieldFormat, val Value) string {
	switch x := val.(type) {
	case Empty:
		return ""
	case Text:
		return escapeText(string(x))
	case CountedString:
		if format == FormatMRUString {
			return fmt.Sprintf("%d %s", x.Index, escapeText(x.Text))
		}
		return fmt.Sprintf("%08X %s", x.Index, escapeText(x.Text))
	case Dword:
		return fmt.Sprintf("%08X", uint32(x))
	case DwordPair:
		return fmt.Sprintf("%08X %08X", x[0], x[1])
	case DwordPairString:
		return fmt.Sprintf("%08X %08X %s", x.First, x.Second, escapeText(x.Text))
	case VersionQuad:
		return x.String()
	case CRCRecord:
		return fmt.Sprintf("Size: %d Time:%08X %08X unk:%08X", x.Size, x.TimestampHigh, x.TimestampLow, x.Unknown)
	case Opaque:
		return ElidedHex(x)
	case NameRecord:
		return renderName(x)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func renderName(rec NameRecord) string {
	parts := []string{fmt.Sprintf("%08X", rec.RVA)}
	if rec.HasCategory {
		parts[0] += fmt.Sprintf(" (%s)", rec.Category)
	}
	if rec.Name != "" {
		parts = append(parts, escapeText(rec.Name))
	}
	if rec.Type != nil {
		parts = append(parts, fmt.Sprintf("type:%s %s", rec.Type.Depth, escapeText(rec.Type.Text)))
	}
	return strings.Join(parts, " ")
}

// Line renders c prefixed by its kind, one listing line per chunk. Payloads
// that fail to decode are reported inline.
func Line(c Chunk, v SchemaVersion) string {
	kind, known := ResolveTag(v, c.Tag)
	text, err := Render(c, v)
	if !known {
		return text
	}
	if err != nil {
		return fmt.Sprintf("%s:!malformed %s (%v)", kind, ElidedHex(c.Payload), err)
	}
	return string(kind) + ":" + text
}
