package udd

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestMakeLabelAndCommentChunk(t *testing.T) {
	label, err := MakeLabelChunk(0x00401000, "WinMain", Version11)
	if err != nil {
		t.Fatalf("MakeLabelChunk() error = %v", err)
	}
	if label.Tag.String() != "\nUs1" {
		t.Errorf("label tag = %q", label.Tag.String())
	}
	if !bytes.Equal(label.Payload, []byte("\x00\x10\x40\x00WinMain\x00")) {
		t.Errorf("label payload = % X", label.Payload)
	}

	comment, err := MakeCommentChunk(0x00401000, "entry", Version11)
	if err != nil {
		t.Fatalf("MakeCommentChunk() error = %v", err)
	}
	if comment.Tag.String() != "\nUs6" {
		t.Errorf("comment tag = %q", comment.Tag.String())
	}
}

func TestMakeLabelChunk_Errors(t *testing.T) {
	if _, err := MakeLabelChunk(1, "x", Version20); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("MakeLabelChunk(v2.0) error = %v, want ErrUnsupportedVersion", err)
	}
	if _, err := MakeCommentChunk(1, "a\x00b", Version11); !errors.Is(err, ErrInvalidChunkConstruction) {
		t.Errorf("MakeCommentChunk(NUL) error = %v, want ErrInvalidChunkConstruction", err)
	}
	if _, err := MakeLabelChunk(1, strings.Repeat("x", MaxPayloadLen), Version11); !errors.Is(err, ErrInvalidChunkConstruction) {
		t.Errorf("MakeLabelChunk(long) error = %v, want ErrInvalidChunkConstruction", err)
	}
}

func TestMakeKindChunk_UnknownKind(t *testing.T) {
	if _, err := MakeKindChunk(Version20, KindSize, Dword(1)); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("MakeKindChunk() error = %v, want ErrUnsupportedVersion", err)
	}
	if _, err := MakeKindChunk(Version20, KindName, NameRecord{}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("MakeKindChunk() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestSkeletonBuild(t *testing.T) {
	size := uint32(0x3000)
	tests := []struct {
		name  string
		skel  Skeleton
		kinds []Kind
	}{
		{"bare v11", Skeleton{Version: Version11}, []Kind{KindHeader, KindFooter}},
		{"v11 with target", Skeleton{Version: Version11, Filename: "t.exe", Size: &size},
			[]Kind{KindHeader, KindFilename, KindSize, KindFooter}},
		{"v20 with target", Skeleton{Version: Version20, Filename: "t.exe", Size: &size},
			[]Kind{KindHeader, KindFilename, KindFooter}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := tt.skel.Build()
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}

			var buf bytes.Buffer
			if _, err := doc.WriteTo(&buf); err != nil {
				t.Fatalf("WriteTo() error = %v", err)
			}
			back, err := Read(&buf)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if back.Version() != tt.skel.Version {
				t.Errorf("Version() = %s, want %s", back.Version(), tt.skel.Version)
			}
			if len(back.Warnings()) != 0 {
				t.Errorf("Warnings() = %v", back.Warnings())
			}

			chunks := back.Chunks()
			if len(chunks) != len(tt.kinds) {
				t.Fatalf("chunk count = %d, want %d", len(chunks), len(tt.kinds))
			}
			for i, c := range chunks {
				if k, _ := ResolveTag(back.Version(), c.Tag); k != tt.kinds[i] {
					t.Errorf("chunk %d kind = %q, want %q", i, k, tt.kinds[i])
				}
			}
		})
	}
}

func TestSkeletonBuild_BadVersion(t *testing.T) {
	if _, err := (Skeleton{Version: 15}).Build(); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("Build() error = %v, want ErrUnsupportedVersion", err)
	}
}
