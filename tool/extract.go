package tool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"uddtool/labels"
	"uddtool/state"
)

// Extract writes user typed entries (MRU lists, watches, conditions) as CSV.
func Extract(ctx context.Context, cmd *cli.Command) (err error) {
	env, log, err := prologue(ctx, "extract")
	if err != nil {
		return err
	}
	src, dst, err := twoArgs(cmd, log)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	n, err := extract(env, src, &buf, log)
	if err != nil {
		return err
	}

	out, dst, err := createOutput(dst, cmd.Bool("overwrite"), log)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, out.Close()) }()

	if _, err := buf.WriteTo(out); err != nil {
		return fmt.Errorf("unable to write '%s': %w", dst, err)
	}
	log.Info("User data extracted", zap.String("from", src), zap.String("to", dst), zap.Int("entries", n))
	return nil
}

func extract(env *state.LocalEnv, src string, w io.Writer, log *zap.Logger) (int, error) {
	doc, err := loadDocument(env, src, log)
	if err != nil {
		return 0, err
	}
	entries, err := labels.Extract(doc, env.CodePage)
	if err != nil {
		return 0, fmt.Errorf("unable to extract user data from '%s': %w", src, err)
	}
	if err := labels.WriteUserCSV(w, entries, csvOptions(env)); err != nil {
		return 0, fmt.Errorf("unable to write CSV: %w", err)
	}
	return len(entries), nil
}
