package labels

import (
	"bytes"
	"errors"
	"testing"

	"uddtool/udd"
)

func TestExtract_Version11(t *testing.T) {
	doc := newDoc(t, udd.Version11)
	add(t, doc, "\nUsK", counted(0, "GetProcAddress"))
	add(t, doc, "\nUs1", counted(0x1000, "label is not user input"))
	add(t, doc, "\nUsH", counted(1, "[esp+4]"))
	add(t, doc, "\nCml", []byte("-debug file.txt\x00"))

	got, err := Extract(doc, nil)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := []UserEntry{
		{Type: "MRU_Goto", Text: "GetProcAddress"},
		{Type: "MRU_Watch", Text: "[esp+4]"},
		{Type: "MRU_CMDLine", Text: "-debug file.txt"},
	}
	if len(got) != len(want) {
		t.Fatalf("Extract() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestExtract_Version20(t *testing.T) {
	doc := newDoc(t, udd.Version20)
	add(t, doc, "\nLsa", nameRecord(0, udd.CategoryWatch, "eax*2"))
	add(t, doc, "\nNam", nameRecord(0x1000, udd.CategoryUserLabel, "start"))
	add(t, doc, "\nLsa", nameRecord(1, udd.CategoryMRUGoto, "main"))
	add(t, doc, "\nLsa", nameRecord(2, udd.CategoryLogExpression, "not typed by user"))

	got, err := Extract(doc, nil)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := []UserEntry{
		{Type: "watch", Text: "eax*2"},
		{Type: "mru_goto", Text: "main"},
	}
	if len(got) != len(want) {
		t.Fatalf("Extract() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestExtract_Malformed(t *testing.T) {
	doc := newDoc(t, udd.Version20)
	add(t, doc, "\nLsa", []byte{1})

	if _, err := Extract(doc, nil); !errors.Is(err, udd.ErrMalformedPayload) {
		t.Errorf("Extract() error = %v, want ErrMalformedPayload", err)
	}
}

func TestWriteUserCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteUserCSV(&buf, []UserEntry{{Type: "watch", Text: "a,b"}}, Options{Header: true})
	if err != nil {
		t.Fatalf("WriteUserCSV() error = %v", err)
	}
	if want := "type,text\nwatch,\"a,b\"\n"; buf.String() != want {
		t.Errorf("WriteUserCSV() = %q, want %q", buf.String(), want)
	}
}
