package tool

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"uddtool/archive"
	"uddtool/udd"
)

// List prints structure of UDD files. Arguments may be file masks,
// directories or zip archives, the configured mask is used when none given.
func List(ctx context.Context, cmd *cli.Command) error {
	env, log, err := prologue(ctx, "list")
	if err != nil {
		return err
	}

	mask := "*.udd"
	if env.Cfg != nil {
		mask = env.Cfg.Document.Mask
	}
	if cmd.IsSet("mask") {
		mask = cmd.String("mask")
	}
	sources := cmd.Args().Slice()
	if len(sources) == 0 {
		sources = []string{mask}
	}
	return list(ctx, sources, mask, env.CodePage, os.Stdout, log)
}

// source is a single UDD file either on disk or inside archive.
type source struct {
	name string
	open func() (io.ReadCloser, error)
}

func list(ctx context.Context, args []string, mask string, cp encoding.Encoding, w io.Writer, log *zap.Logger) (err error) {
	var files []source
	for _, arg := range args {
		if er := ctx.Err(); er != nil {
			return multierr.Append(err, er)
		}
		found, er := collect(arg, mask, cp, log)
		if er != nil {
			err = multierr.Append(err, er)
			continue
		}
		if len(found) == 0 {
			log.Warn("Nothing to list", zap.String("source", arg))
		}
		files = append(files, found...)
	}
	sort.Slice(files, func(i, j int) bool { return natural.Less(files[i].name, files[j].name) })

	for _, f := range files {
		if er := ctx.Err(); er != nil {
			return multierr.Append(err, er)
		}
		if er := listOne(f, w, log); er != nil {
			log.Error("Unable to list file", zap.String("file", f.name), zap.Error(er))
			err = multierr.Append(err, fmt.Errorf("%s: %w", f.name, er))
		}
	}
	return err
}

func listOne(src source, w io.Writer, log *zap.Logger) error {
	r, err := src.open()
	if err != nil {
		return err
	}
	defer r.Close()

	doc, err := udd.Read(r)
	if err != nil {
		if udd.IsHeaderTruncated(err) {
			log.Warn("Skipping empty file", zap.String("file", src.name))
			return nil
		}
		return err
	}

	if _, err := fmt.Fprintln(w, src.name); err != nil {
		return err
	}
	for _, warn := range doc.Warnings() {
		if _, err := fmt.Fprintln(w, warn.Error()); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(w, doc.String())
	return err
}

// collect expands single command line argument.
func collect(arg, mask string, cp encoding.Encoding, log *zap.Logger) ([]source, error) {
	fi, err := os.Stat(arg)
	if err != nil {
		// not a path, may be a mask
		matches, er := filepath.Glob(arg)
		if er != nil {
			return nil, fmt.Errorf("bad file mask %q: %w", arg, er)
		}
		var out []source
		for _, m := range matches {
			if fi, err := os.Stat(m); err == nil && fi.Mode().IsRegular() {
				out = append(out, fileSource(m))
			}
		}
		return out, nil
	}

	if fi.IsDir() {
		return collectDir(arg, mask, log)
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("unexpected path mode for (%s)", arg)
	}

	isZip, err := archive.IsArchive(arg)
	if err != nil {
		return nil, fmt.Errorf("unable to check archive type: %w", err)
	}
	if isZip {
		return collectArchive(arg, mask, cp, log)
	}
	// explicitly named file is listed whatever its name
	return []source{fileSource(arg)}, nil
}

func fileSource(name string) source {
	return source{name: name, open: func() (io.ReadCloser, error) { return os.Open(name) }}
}

func collectDir(dir, mask string, log *zap.Logger) ([]source, error) {
	var out []source
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.Type().IsRegular() || !archive.Match(mask, d.Name()) {
			return nil
		}
		out = append(out, fileSource(path))
		return nil
	})
	return out, err
}

// collectArchive reads matching entries into memory, archive is closed when
// Walk returns.
func collectArchive(path, mask string, cp encoding.Encoding, log *zap.Logger) ([]source, error) {
	var out []source
	err := archive.Walk(path, mask, func(arc string, f *zip.File) error {
		r, err := f.Open()
		if err != nil {
			log.Warn("Skipping file in archive", zap.String("archive", arc), zap.String("path", f.Name), zap.Error(err))
			return nil
		}
		defer r.Close()

		data, err := io.ReadAll(r)
		if err != nil {
			log.Warn("Skipping file in archive", zap.String("archive", arc), zap.String("path", f.Name), zap.Error(err))
			return nil
		}

		name := f.Name
		if cp != nil && f.NonUTF8 {
			if n, err := cp.NewDecoder().String(name); err == nil {
				name = n
			}
		}
		out = append(out, source{
			name: filepath.Join(arc, name),
			open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
		})
		return nil
	})
	return out, err
}
