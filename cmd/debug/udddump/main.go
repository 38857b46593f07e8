// udddump reads OllyDbg UDD files and produces detailed dumps of the chunk
// stream for troubleshooting: annotated text, JSON, an SQLite database with a
// row per chunk and a zip with raw payloads of binary chunks.
//
// Input can be either a standalone .udd file or a zip archive, in which case
// every .udd entry is dumped.
package main

import (
	"archive/zip"
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"uddtool/archive"
	"uddtool/cmd/debug/internal/dumputil"
	"uddtool/config"
	"uddtool/udd"
)

type options struct {
	dump, json, sqlite, blobs, overwrite bool
	outDir                               string
}

func main() {
	all := flag.Bool("all", false, "enable all dump flags (-dump, -json, -sqlite, -blobs)")
	dump := flag.Bool("dump", false, "dump all chunks into <file>-dump.txt")
	jsonOut := flag.Bool("json", false, "write decoded chunks into <file>.json")
	writeSqlite := flag.Bool("sqlite", false, "write chunk table into <file>.sqlite")
	blobs := flag.Bool("blobs", false, "dump payloads of binary chunks into <file>-blobs.zip")
	overwrite := flag.Bool("overwrite", false, "overwrite existing output")
	mask := flag.String("mask", "*.udd", "names of files to dump from zip archive")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: udddump [-all] [-dump] [-json] [-sqlite] [-blobs] [-overwrite] [-mask MASK] <file.udd|archive.zip> [outdir]\n\n")
		fmt.Fprintf(os.Stderr, "Reads UDD files and produces detailed dumps of their chunks.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 || flag.NArg() > 2 {
		flag.Usage()
		os.Exit(2)
	}

	opts := options{dump: *dump, json: *jsonOut, sqlite: *writeSqlite, blobs: *blobs, overwrite: *overwrite}
	if *all {
		opts.dump, opts.json, opts.sqlite, opts.blobs = true, true, true, true
	}
	if !opts.dump && !opts.json && !opts.sqlite && !opts.blobs {
		flag.Usage()
		os.Exit(2)
	}

	defer func(startedAt time.Time) {
		fmt.Fprintf(os.Stderr, "\nExecution time: %s\n", time.Since(startedAt))
	}(time.Now())

	inPath := flag.Arg(0)
	if flag.NArg() == 2 {
		opts.outDir = flag.Arg(1)
	}

	isZip, err := archive.IsArchive(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", inPath, err)
		os.Exit(1)
	}

	if !isZip {
		doc, err := udd.Load(inPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load %s: %v\n", inPath, err)
			os.Exit(1)
		}
		if err := dumpDocument(doc, inPath, opts); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	}

	// outputs for archive entries go next to the archive
	if opts.outDir == "" {
		opts.outDir = filepath.Dir(inPath)
	}
	count := 0
	err = archive.Walk(inPath, *mask, func(arc string, f *zip.File) error {
		doc, err := readEntry(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load %s:%s: %v\n", arc, f.Name, err)
			return nil
		}
		count++
		return dumpDocument(doc, config.CleanFileName(path.Base(f.Name)), opts)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "dumped %d file(s) from %s\n", count, inPath)
}

func readEntry(f *zip.File) (*udd.Document, error) {
	r, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return udd.Read(bytes.NewReader(data))
}

func dumpDocument(doc *udd.Document, inPath string, opts options) error {
	name := filepath.Base(inPath)
	for _, w := range doc.Warnings() {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, w)
	}

	if opts.dump {
		if err := dumputil.WriteOutput(inPath, opts.outDir, "-dump.txt", []byte(dumputil.DumpText(doc, name)), opts.overwrite); err != nil {
			return fmt.Errorf("dump: %w", err)
		}
	}

	if opts.json {
		data, err := dumputil.DumpJSON(doc, name)
		if err != nil {
			return fmt.Errorf("json: %w", err)
		}
		if err := dumputil.WriteOutput(inPath, opts.outDir, ".json", data, opts.overwrite); err != nil {
			return fmt.Errorf("json: %w", err)
		}
	}

	if opts.sqlite {
		data, err := dumputil.DumpSQLite(doc, name)
		if err != nil {
			return fmt.Errorf("sqlite: %w", err)
		}
		if err := dumputil.WriteOutput(inPath, opts.outDir, ".sqlite", data, opts.overwrite); err != nil {
			return fmt.Errorf("sqlite: %w", err)
		}
	}

	if opts.blobs {
		if err := dumputil.DumpBlobs(doc, inPath, opts.outDir, opts.overwrite); err != nil {
			return fmt.Errorf("blobs: %w", err)
		}
	}

	fmt.Printf("%s: %s, %d chunk(s), %d warning(s)\n", name, doc.Version(), doc.Len(), len(doc.Warnings()))
	return nil
}
