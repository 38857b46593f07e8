package tool

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"uddtool/config"
	"uddtool/udd"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Dir    string
	File   string
	Stem   string
	Ext    string
	Format string
}

// backupName expands backup name template for UDD file at path. Relative
// results are placed next to the file.
func backupName(field, path string, v udd.SchemaVersion) (string, error) {
	tmpl, err := template.New(config.BackupNameTemplateFieldName).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", config.BackupNameTemplateFieldName, err)
	}

	file := filepath.Base(path)
	values := Values{
		Dir:    filepath.Dir(path),
		File:   file,
		Stem:   strings.TrimSuffix(file, filepath.Ext(file)),
		Ext:    filepath.Ext(file),
		Format: v.String(),
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	name := strings.TrimSpace(buf.String())
	if name == "" {
		return "", fmt.Errorf("template field %s expanded to empty name", config.BackupNameTemplateFieldName)
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(values.Dir, name)
	}
	if filepath.Clean(name) == filepath.Clean(path) {
		return "", fmt.Errorf("backup name %q is the file itself", name)
	}
	return name, nil
}
