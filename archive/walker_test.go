package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func makeZip(t *testing.T, names ...string) string {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "test.zip")

	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	w := zip.NewWriter(zipFile)
	for _, name := range names {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", name, err)
		}
		if _, err := fw.Write([]byte(name + " content")); err != nil {
			t.Fatalf("Failed to write content for %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip writer: %v", err)
	}
	zipFile.Close()
	return zipPath
}

func TestWalk(t *testing.T) {
	zipPath := makeZip(t,
		"debug/target.udd",
		"debug/LIB.UDD",
		"debug/target.exe",
		"readme.txt",
		"top.udd",
	)

	tests := []struct {
		name string
		mask string
		want []string
	}{
		{"udd files", "*.udd", []string{"debug/LIB.UDD", "debug/target.udd", "top.udd"}},
		{"prefix mask", "t*", []string{"debug/target.exe", "debug/target.udd", "top.udd"}},
		{"no match", "*.csv", nil},
		{"empty mask", "", []string{"debug/LIB.UDD", "debug/target.exe", "debug/target.udd", "readme.txt", "top.udd"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var visited []string
			err := Walk(zipPath, tt.mask, func(archive string, file *zip.File) error {
				if archive != zipPath {
					t.Errorf("archive = %s, want %s", archive, zipPath)
				}
				visited = append(visited, file.Name)
				return nil
			})
			if err != nil {
				t.Fatalf("Walk() error = %v", err)
			}
			sort.Strings(visited)
			if len(visited) != len(tt.want) {
				t.Fatalf("visited %v, want %v", visited, tt.want)
			}
			for i := range visited {
				if visited[i] != tt.want[i] {
					t.Errorf("visited[%d] = %s, want %s", i, visited[i], tt.want[i])
				}
			}
		})
	}

	t.Run("walkFn returns error", func(t *testing.T) {
		expectedErr := errors.New("test error")
		err := Walk(zipPath, "*.udd", func(archive string, file *zip.File) error {
			return expectedErr
		})
		if err != expectedErr {
			t.Errorf("Walk() error = %v, want %v", err, expectedErr)
		}
	})

	t.Run("bad mask", func(t *testing.T) {
		err := Walk(zipPath, "[", func(archive string, file *zip.File) error {
			return nil
		})
		if err == nil {
			t.Error("Walk() expected error for malformed mask")
		}
	})
}

func TestWalk_InvalidArchive(t *testing.T) {
	t.Run("nonexistent file", func(t *testing.T) {
		err := Walk("/nonexistent/file.zip", "", func(archive string, file *zip.File) error {
			return nil
		})
		if err == nil {
			t.Error("Expected error for nonexistent file")
		}
	})

	t.Run("invalid zip file", func(t *testing.T) {
		invalidZip := filepath.Join(t.TempDir(), "invalid.zip")
		if err := os.WriteFile(invalidZip, []byte("not a zip file"), 0644); err != nil {
			t.Fatalf("Failed to create invalid zip: %v", err)
		}
		err := Walk(invalidZip, "", func(archive string, file *zip.File) error {
			return nil
		})
		if err == nil {
			t.Error("Expected error for invalid zip file")
		}
	})

	t.Run("path traversal", func(t *testing.T) {
		zipPath := makeZip(t, "../evil.udd")
		err := Walk(zipPath, "*.udd", func(archive string, file *zip.File) error {
			t.Error("walkFn called for unsafe entry")
			return nil
		})
		if err == nil {
			t.Error("Expected error for unsafe entry")
		}
	})
}

func TestWalk_WithDirectories(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "test.zip")

	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	w := zip.NewWriter(zipFile)

	// directory named like a match must not be visited
	dirHeader := &zip.FileHeader{Name: "old.udd/"}
	dirHeader.SetMode(os.ModeDir | 0755)
	if _, err := w.CreateHeader(dirHeader); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	fw, err := w.Create("old.udd/file.udd")
	if err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	fw.Write([]byte("content"))
	w.Close()
	zipFile.Close()

	var visited []string
	err = Walk(zipPath, "*.udd", func(archive string, file *zip.File) error {
		visited = append(visited, file.Name)
		return nil
	})
	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}
	if len(visited) != 1 || visited[0] != "old.udd/file.udd" {
		t.Errorf("visited %v, want [old.udd/file.udd]", visited)
	}
}

func TestWalk_FileContent(t *testing.T) {
	zipPath := makeZip(t, "a.udd")

	err := Walk(zipPath, "", func(archive string, file *zip.File) error {
		rc, err := file.Open()
		if err != nil {
			return err
		}
		defer rc.Close()

		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(rc); err != nil {
			return err
		}
		if want := "a.udd content"; buf.String() != want {
			t.Errorf("content = %s, want %s", buf.String(), want)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		mask, name string
		want       bool
	}{
		{"*.udd", "target.udd", true},
		{"*.udd", "TARGET.UDD", true},
		{"*.UDD", "target.udd", true},
		{"*.udd", "target.udd.bak", false},
		{"t?rget.*", "target.exe", true},
		{"", "anything", true},
		{"[", "x", false},
	}
	for _, tt := range tests {
		if got := Match(tt.mask, tt.name); got != tt.want {
			t.Errorf("Match(%q, %q) = %v, want %v", tt.mask, tt.name, got, tt.want)
		}
	}
}

func TestIsArchive(t *testing.T) {
	dir := t.TempDir()
	zipPath := makeZip(t, "a.udd")

	udd := filepath.Join(dir, "a.udd")
	if err := os.WriteFile(udd, []byte("Mod\x00\x16\x00\x00\x00Module info file v1.1\x00"), 0644); err != nil {
		t.Fatal(err)
	}
	empty := filepath.Join(dir, "empty.udd")
	if err := os.WriteFile(empty, nil, 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"zip", zipPath, true},
		{"udd", udd, false},
		{"empty", empty, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IsArchive(tt.path)
			if err != nil {
				t.Fatalf("IsArchive() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("IsArchive() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := IsArchive(filepath.Join(dir, "missing")); err == nil {
		t.Error("IsArchive() expected error for missing file")
	}
}
