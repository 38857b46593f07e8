package dumputil

import (
	"archive/zip"
	"errors"
	"fmt"
	"os"

	"uddtool/udd"
)

// DumpBlobs writes payloads of binary (opaque and unknown) chunks into
// <stem>-blobs.zip, one entry per chunk named after its index and tag.
func DumpBlobs(doc *udd.Document, inPath, outDir string, overwrite bool) (retErr error) {
	outPath := OutputPath(inPath, outDir, "-blobs.zip")
	if _, err := os.Stat(outPath); err == nil {
		if !overwrite {
			return fmt.Errorf("output file already exists: %s (use -overwrite)", outPath)
		}
		if err := os.Remove(outPath); err != nil {
			return err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer func() { retErr = errors.Join(retErr, f.Close()) }()

	zw := zip.NewWriter(f)
	defer func() { retErr = errors.Join(retErr, zw.Close()) }()

	written := 0
	for _, ci := range Describe(doc) {
		if len(ci.Payload) == 0 || (ci.Format != "" && ci.Format != udd.FormatBinary.String()) {
			continue
		}
		kind := ci.Kind
		if kind == "" {
			kind = "unk"
		}
		name := fmt.Sprintf("%04d_%s_%s%s", ci.Index, SanitizeFileComponent(ci.Tag), SanitizeFileComponent(kind), ExtFromFiletype(ci.Payload))
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		if _, err := w.Write(ci.Payload); err != nil {
			return err
		}
		written++
	}

	_, _ = fmt.Fprintf(os.Stderr, "blobs: wrote %d file(s) into %s\n", written, outPath)
	return nil
}

// SanitizeFileComponent cleans a string for use in a filename.
func SanitizeFileComponent(s string) string {
	if s == "" {
		return "unknown"
	}
	out := []rune(s)
	for i, r := range out {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			out[i] = '_'
		}
	}
	return string(out)
}
