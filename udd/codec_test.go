package udd

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		format  FieldFormat
		payload []byte
		want    Value
	}{
		{"empty", FormatEmpty, []byte{}, Empty{}},
		{"string", FormatString, []byte("kernel32.dll\x00\x00"), Text("kernel32.dll")},
		{"ddstring", FormatDDString, []byte("\x10\x20\x00\x00start\x00"), CountedString{Index: 0x2010, Text: "start"}},
		{"mrustring", FormatMRUString, []byte("\x03\x00\x00\x00eax+4\x00"), CountedString{Index: 3, Text: "eax+4"}},
		{"ddstring no text", FormatDDString, []byte("\x01\x00\x00\x00"), CountedString{Index: 1}},
		{"dword", FormatDword, []byte("\x78\x56\x34\x12"), Dword(0x12345678)},
		{"dd2", FormatDD2, []byte("\x01\x00\x00\x00\x02\x00\x00\x00"), DwordPair{1, 2}},
		{"dd2string", FormatDD2String, []byte("\x01\x00\x00\x00\x02\x00\x00\x00txt\x00"), DwordPairString{First: 1, Second: 2, Text: "txt"}},
		{"version", FormatVersion, []byte("\x01\x00\x00\x00\x0a\x00\x00\x00\x00\x00\x00\x00\x02\x00\x00\x00"), VersionQuad{1, 10, 0, 2}},
		{"crc2", FormatCRC2, []byte("\x00\x10\x00\x00\xaa\x00\x00\x00\xbb\x00\x00\x00\xcc\x00\x00\x00"),
			CRCRecord{Size: 0x1000, TimestampHigh: 0xaa, TimestampLow: 0xbb, Unknown: 0xcc}},
		{"binary", FormatBinary, []byte{0, 1, 2, 0}, Opaque{0, 1, 2, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.format, tt.payload)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		format  FieldFormat
		payload []byte
	}{
		{"empty with data", FormatEmpty, []byte{0}},
		{"short dword", FormatDword, []byte{1, 2, 3}},
		{"long dword", FormatDword, []byte{1, 2, 3, 4, 5}},
		{"short dd2", FormatDD2, make([]byte, 7)},
		{"short ddstring", FormatDDString, []byte{1, 2}},
		{"short mrustring", FormatMRUString, nil},
		{"short dd2string", FormatDD2String, make([]byte, 7)},
		{"short version", FormatVersion, make([]byte, 12)},
		{"short crc2", FormatCRC2, make([]byte, 15)},
		{"short name", FormatName, []byte{1}},
		{"unknown format", FieldFormat(99), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.format, tt.payload); !errors.Is(err, ErrMalformedPayload) {
				t.Errorf("Decode() error = %v, want ErrMalformedPayload", err)
			}
		})
	}
}

func TestDecode_DoesNotAliasPayload(t *testing.T) {
	payload := []byte{1, 2, 3}
	v, err := Decode(FormatBinary, payload)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	payload[0] = 9
	if v.(Opaque)[0] != 1 {
		t.Error("decoded Opaque shares memory with payload")
	}
}

func TestCountedString_EncodeDecodeInverse(t *testing.T) {
	values := []CountedString{
		{0, ""},
		{1, "a"},
		{0x00401000, "WinMain"},
		{0xFFFFFFFF, "long label with spaces, commas and \xe9 bytes"},
		{42, "\n\t"},
	}

	for _, format := range []FieldFormat{FormatDDString, FormatMRUString} {
		for _, v := range values {
			payload, err := Encode(format, v)
			if err != nil {
				t.Fatalf("Encode(%s, %+v) error = %v", format, v, err)
			}
			got, err := Decode(format, payload)
			if err != nil {
				t.Fatalf("Decode(%s) error = %v", format, err)
			}
			if got != v {
				t.Errorf("%s round trip = %+v, want %+v", format, got, v)
			}
		}
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name   string
		format FieldFormat
		value  Value
		want   []byte
	}{
		{"dword", FormatDword, Dword(0x00401000), []byte{0x00, 0x10, 0x40, 0x00}},
		{"ddstring", FormatDDString, CountedString{Index: 0x10, Text: "lbl"}, []byte("\x10\x00\x00\x00lbl\x00")},
		{"string", FormatString, Text("a.exe"), []byte("a.exe\x00")},
		{"empty", FormatEmpty, Empty{}, []byte{}},
		{"empty nil", FormatEmpty, nil, []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.format, tt.value)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Encode() = % X, want % X", got, tt.want)
			}
		})
	}
}

func TestEncode_Errors(t *testing.T) {
	tests := []struct {
		name   string
		format FieldFormat
		value  Value
		want   error
	}{
		{"embedded NUL", FormatDDString, CountedString{Text: "a\x00b"}, ErrInvalidChunkConstruction},
		{"embedded NUL string", FormatString, Text("a\x00"), ErrInvalidChunkConstruction},
		{"type mismatch", FormatDword, Text("x"), ErrInvalidChunkConstruction},
		{"decode only", FormatName, NameRecord{}, ErrUnsupportedFormat},
		{"decode only crc", FormatCRC2, CRCRecord{}, ErrUnsupportedFormat},
		{"decode only binary", FormatBinary, Opaque{1}, ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Encode(tt.format, tt.value); !errors.Is(err, tt.want) {
				t.Errorf("Encode() error = %v, want %v", err, tt.want)
			}
		})
	}
}
