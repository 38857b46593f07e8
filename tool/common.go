// Package tool implements uddtool commands.
package tool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"uddtool/labels"
	"uddtool/state"
	"uddtool/udd"
)

// stdoutName is used in logs when output goes to console.
const stdoutName = "STDOUT"

func csvOptions(env *state.LocalEnv) labels.Options {
	if env.Cfg == nil {
		return labels.Options{Header: true}
	}
	return labels.Options{Comma: env.Cfg.CSV.Rune(), Header: env.Cfg.CSV.Header}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// createOutput opens file for writing, returns STDOUT when fname is empty.
// Existing files are only replaced when overwrite is set.
func createOutput(fname string, overwrite bool, log *zap.Logger) (io.WriteCloser, string, error) {
	if len(fname) == 0 {
		return nopCloser{os.Stdout}, stdoutName, nil
	}
	if _, err := os.Stat(fname); err == nil {
		if !overwrite {
			return nil, fname, fmt.Errorf("output file already exists: %s", fname)
		}
		log.Warn("Overwriting existing file", zap.String("file", fname))
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fname, err
	} else if err := os.MkdirAll(filepath.Dir(fname), 0755); err != nil {
		return nil, fname, fmt.Errorf("unable to create output directory: %w", err)
	}
	f, err := os.Create(fname)
	if err != nil {
		return nil, fname, fmt.Errorf("unable to create destination file '%s': %w", fname, err)
	}
	return f, fname, nil
}

// loadDocument reads UDD file and reports its load warnings.
func loadDocument(env *state.LocalEnv, fname string, log *zap.Logger) (*udd.Document, error) {
	doc, err := udd.Load(fname)
	if err != nil {
		return nil, err
	}
	for _, w := range doc.Warnings() {
		log.Warn("Unknown chunk", zap.String("file", fname), zap.Error(w))
	}
	if err := env.Rpt.StoreCopy(filepath.Join("udd", filepath.Base(fname)), fname); err != nil {
		log.Warn("Unable to store file copy in report", zap.String("file", fname), zap.Error(err))
	}
	return doc, nil
}

// twoArgs returns first and optional second positional argument.
func twoArgs(cmd *cli.Command, log *zap.Logger) (string, string, error) {
	first := cmd.Args().Get(0)
	if len(first) == 0 {
		return "", "", errors.New("no input file has been specified")
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}
	return first, cmd.Args().Get(1), nil
}

func prologue(ctx context.Context, name string) (*state.LocalEnv, *zap.Logger, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	env := state.EnvFromContext(ctx)
	log := env.Log
	if log == nil {
		log = zap.NewNop()
	}
	return env, log.Named(name), nil
}
