package udd

import (
	"errors"
	"testing"
)

func nameRecord(t *testing.T, payload string) NameRecord {
	t.Helper()
	v, err := Decode(FormatName, []byte(payload))
	if err != nil {
		t.Fatalf("Decode(NAME) error = %v", err)
	}
	rec, ok := v.(NameRecord)
	if !ok {
		t.Fatalf("Decode(NAME) returned %T", v)
	}
	return rec
}

func TestDecodeName_NoSentinel(t *testing.T) {
	rec := nameRecord(t, "\x10\x00\x00\x00alpha\x00")

	if rec.RVA != 0x10 {
		t.Errorf("RVA = %#x, want 0x10", rec.RVA)
	}
	if !rec.HasCategory || rec.Category != 'a' {
		t.Errorf("Category = (%q, %v), want ('a', true)", rec.Category, rec.HasCategory)
	}
	if rec.Name != "lpha" {
		t.Errorf("Name = %q, want %q", rec.Name, "lpha")
	}
	if rec.Type != nil {
		t.Errorf("Type = %+v, want nil", rec.Type)
	}
}

func TestDecodeName_IndirectSentinel(t *testing.T) {
	rec := nameRecord(t, "\x00\x10\x40\x00xfoo\xa0int*")

	if rec.RVA != 0x401000 {
		t.Errorf("RVA = %#x, want 0x401000", rec.RVA)
	}
	if rec.Category != 'x' {
		t.Errorf("Category = %q, want 'x'", rec.Category)
	}
	if rec.Name != "foo" {
		t.Errorf("Name = %q, want %q", rec.Name, "foo")
	}
	if rec.Type == nil {
		t.Fatal("Type = nil, want descriptor")
	}
	if !rec.Type.Depth.Indirect || rec.Type.Depth.String() != "*" {
		t.Errorf("Depth = %+v, want indirect", rec.Type.Depth)
	}
	if rec.Type.Text != "int*" {
		t.Errorf("Type.Text = %q, want %q", rec.Type.Text, "int*")
	}
}

func TestDecodeName_NumericSentinel(t *testing.T) {
	rec := nameRecord(t, "\x01\x00\x00\x00!\x81HANDLE")

	if rec.Category != CategoryUserLabel {
		t.Errorf("Category = %q, want '!'", rec.Category)
	}
	if rec.Name != "" {
		t.Errorf("Name = %q, want empty", rec.Name)
	}
	if rec.Type == nil || rec.Type.Depth.Indirect || rec.Type.Depth.Level != 0x81 {
		t.Fatalf("Type = %+v, want numeric depth 129", rec.Type)
	}
	if rec.Type.Depth.String() != "129" {
		t.Errorf("Depth.String() = %q, want 129", rec.Type.Depth.String())
	}
	if rec.Type.Text != "HANDLE" {
		t.Errorf("Type.Text = %q", rec.Type.Text)
	}
}

func TestDecodeName_NameNULsBeforeSentinel(t *testing.T) {
	rec := nameRecord(t, "\x01\x00\x00\x001ab\x00\x00\x90\x00t")
	if rec.Name != "ab" {
		t.Errorf("Name = %q, want %q", rec.Name, "ab")
	}
	// trailing NULs of the whole buffer are gone, inner ones stay with the type
	if rec.Type == nil || rec.Type.Text != "\x00t" {
		t.Errorf("Type = %+v, want raw text %q", rec.Type, "\x00t")
	}
}

func TestDecodeName_EmptyBuffer(t *testing.T) {
	for _, payload := range []string{"\x05\x00\x00\x00", "\x05\x00\x00\x00\x00\x00"} {
		rec := nameRecord(t, payload)
		if rec.RVA != 5 || rec.HasCategory || rec.Name != "" || rec.Type != nil {
			t.Errorf("Decode(%q) = %+v, want RVA only", payload, rec)
		}
	}
}

func TestDecodeName_CategoryOnly(t *testing.T) {
	rec := nameRecord(t, "\x05\x00\x00\x000\x00")
	if !rec.HasCategory || rec.Category != CategoryUserComment || rec.Name != "" || rec.Type != nil {
		t.Errorf("Decode() = %+v, want category only", rec)
	}
}

func TestDecodeName_Short(t *testing.T) {
	_, err := Decode(FormatName, []byte{1, 2, 3})
	if !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("Decode() error = %v, want ErrMalformedPayload", err)
	}
}

func TestFindSentinel(t *testing.T) {
	tests := []struct {
		in    string
		want  int
		found bool
	}{
		{"", 0, false},
		{"abc", 0, false},
		{"\x7f", 0, false},
		{"\x80", 0, true},
		{"ab\xa0c\x90", 2, true},
	}
	for _, tt := range tests {
		got, found := findSentinel([]byte(tt.in))
		if got != tt.want || found != tt.found {
			t.Errorf("findSentinel(%q) = (%d, %v), want (%d, %v)", tt.in, got, found, tt.want, tt.found)
		}
	}
}
