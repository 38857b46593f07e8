package state

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/encoding/charmap"

	"uddtool/udd"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start:         time.Now(),
		CodePage:      charmap.Windows1252,
		DefaultFormat: udd.Version11,
	}
}

// Configure derives runtime values from loaded configuration.
func (e *LocalEnv) Configure() error {
	if e.Cfg == nil {
		return errors.New("configuration was not loaded")
	}
	cp, err := e.Cfg.Document.Encoding()
	if err != nil {
		return err
	}
	v := udd.SchemaVersion(e.Cfg.Document.DefaultFormat)
	if !v.Valid() {
		return fmt.Errorf("%w: default format %d", udd.ErrUnsupportedVersion, e.Cfg.Document.DefaultFormat)
	}
	e.CodePage, e.DefaultFormat = cp, v
	return nil
}
