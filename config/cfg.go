package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	DocumentConfig struct {
		CodePage      string `yaml:"code_page" validate:"required"`
		DefaultFormat int    `yaml:"default_format" validate:"oneof=11 20"`
		Mask          string `yaml:"mask" validate:"required"`
		Backup        bool   `yaml:"backup"`
		// expanded by the import command, not when configuration is loaded
		BackupNameTemplate string `yaml:"backup_name_template" validate:"required_if=Backup true"`
	}

	CSVConfig struct {
		Separator string `yaml:"separator" validate:"len=1"`
		Header    bool   `yaml:"header"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Document  DocumentConfig `yaml:"document"`
		CSV       CSVConfig      `yaml:"csv"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

// Encoding resolves the configured code page. Strings inside UDD files are
// stored in the ANSI code page of the machine the debugger ran on.
func (conf *DocumentConfig) Encoding() (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(conf.CodePage)
	if err != nil {
		return nil, fmt.Errorf("unknown code page '%s': %w", conf.CodePage, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("code page '%s' is not supported", conf.CodePage)
	}
	return enc, nil
}

// Rune returns the separator as expected by encoding/csv.
func (conf *CSVConfig) Rune() rune {
	for _, r := range conf.Separator {
		return r
	}
	return ','
}

// BackupNameTemplateFieldName is left for expansion at run time.
const BackupNameTemplateFieldName = "backup_name_template"

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(BackupNameTemplateFieldName),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration expands the embedded template to get defaults and, when
// path is not empty, overlays values from that file before validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare returns expanded default configuration.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
