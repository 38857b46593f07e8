package tool

import (
	"bytes"
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
)

// Export writes labels and comments of a UDD file as CSV.
func Export(ctx context.Context, cmd *cli.Command) (err error) {
	env, log, err := prologue(ctx, "export")
	if err != nil {
		return err
	}
	src, dst, err := twoArgs(cmd, log)
	if err != nil {
		return err
	}

	// output is created only when there is something to write
	var buf bytes.Buffer
	n, err := export(env, src, &buf, log)
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
	log.Info("Labels exported", zap.String("from", src), zap.String("to", dst), zap.Int("entries", n))
	return nil
}

func export(env *state.LocalEnv, src string, w io.Writer, log *zap.Logger) (int, error) {
	doc, err := loadDocument(env, src, log)
	if err != nil {
		return 0, err
	}
	entries, err := labels.Collect(doc, env.CodePage)
	if err != nil {
		return 0, fmt.Errorf("unable to collect labels from '%s': %w", src, err)
	}
	if err := labels.WriteCSV(w, entries, csvOptions(env)); err != nil {
		return 0, fmt.Errorf("unable to write CSV: %w", err)
	}
	return len(entries), nil
}

// Import adds labels and comments from CSV file to a UDD file in place.
func Import(ctx context.Context, cmd *cli.Command) error {
	env, log, err := prologue(ctx, "import")
	if err != nil {
		return err
	}
	src := cmd.Args().Get(0)
	dst := cmd.Args().Get(1)
	if len(src) == 0 || len(dst) == 0 {
		return errors.New("both CSV source and UDD destination must be specified")
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	var backup string
	if env.Cfg != nil && env.Cfg.Document.Backup {
		backup = env.Cfg.Document.BackupNameTemplate
	}
	if cmd.IsSet("backup") && !cmd.Bool("backup") {
		backup = ""
	} else if cmd.Bool("backup") && backup == "" {
		backup = defaultBackupName
	}

	n, err := importLabels(env, src, dst, backup, log)
	if err != nil {
		return err
	}
	log.Info("Labels imported", zap.String("from", src), zap.String("to", dst), zap.Int("chunks", n))
	return nil
}

const defaultBackupName = "{{ .File }}.bak"

// importLabels applies CSV src to UDD dst. Non empty backup is the name
// template of a copy made before dst is rewritten.
func importLabels(env *state.LocalEnv, src, dst, backup string, log *zap.Logger) (int, error) {
	f, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("unable to open CSV: %w", err)
	}
	defer f.Close()

	entries, err := labels.ReadCSV(f, csvOptions(env))
	if err != nil {
		return 0, fmt.Errorf("unable to read '%s': %w", src, err)
	}
	env.Rpt.Store(filepath.Join("csv", filepath.Base(src)), src)

	doc, err := loadDocument(env, dst, log)
	if err != nil {
		return 0, err
	}

	n, err := labels.Apply(doc, entries, env.CodePage)
	if err != nil {
		return 0, fmt.Errorf("unable to import into '%s': %w", dst, err)
	}
	if n == 0 {
		log.Info("Nothing new to import, file left intact", zap.String("file", dst))
		return 0, nil
	}

	if len(backup) > 0 {
		bak, err := backupName(backup, dst, doc.Version())
		if err != nil {
			return 0, err
		}
		if err := copyFile(dst, bak); err != nil {
			return 0, fmt.Errorf("unable to backup '%s': %w", dst, err)
		}
		log.Debug("Backup created", zap.String("file", bak))
	}
	if err := doc.Save(dst); err != nil {
		return 0, fmt.Errorf("unable to save '%s': %w", dst, err)
	}
	return n, nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}
