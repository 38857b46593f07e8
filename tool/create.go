package tool

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"uddtool/udd"
)

// Create writes a new UDD file with header, optional module information and
// footer.
func Create(ctx context.Context, cmd *cli.Command) error {
	env, log, err := prologue(ctx, "create")
	if err != nil {
		return err
	}
	dst, target, err := twoArgs(cmd, log)
	if err != nil {
		return err
	}

	v := env.DefaultFormat
	if cmd.IsSet("format") {
		v = udd.SchemaVersion(cmd.Int("format"))
	}
	if !v.Valid() {
		return fmt.Errorf("%w: %d", udd.ErrUnsupportedVersion, int(v))
	}

	if err := create(dst, target, v, cmd.Bool("overwrite"), log); err != nil {
		return err
	}
	env.Rpt.Store("udd/created-"+v.String()+".udd", dst)
	log.Info("File created", zap.String("file", dst), zap.Stringer("format", v), zap.String("target", target))
	return nil
}

func create(dst, target string, v udd.SchemaVersion, overwrite bool, log *zap.Logger) error {
	if _, err := os.Stat(dst); err == nil {
		if !overwrite {
			return fmt.Errorf("output file already exists: %s", dst)
		}
		log.Warn("Overwriting existing file", zap.String("file", dst))
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	sk := udd.Skeleton{Version: v, Filename: target}
	if len(target) > 0 && v == udd.Version11 {
		sk.Size = targetSize(target, log)
	}

	doc, err := sk.Build()
	if err != nil {
		return fmt.Errorf("unable to build document: %w", err)
	}
	if err := doc.Save(dst); err != nil {
		return fmt.Errorf("unable to save '%s': %w", dst, err)
	}
	return nil
}

// targetSize returns size of the debugged module when it could be found.
func targetSize(target string, log *zap.Logger) *uint32 {
	fi, err := os.Stat(target)
	if err != nil || !fi.Mode().IsRegular() {
		log.Debug("Target module is not accessible, size omitted", zap.String("target", target), zap.Error(err))
		return nil
	}
	if fi.Size() > math.MaxUint32 {
		log.Warn("Target module is too large, size omitted", zap.String("target", target), zap.Int64("size", fi.Size()))
		return nil
	}
	size := uint32(fi.Size())
	return &size
}
