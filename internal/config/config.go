// Package config loads process configuration from an optional YAML file,
// a .env file and REPSE_-prefixed environment variables.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/checklist"
	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/errs"
	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/export"
	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/logger"
	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/questionnaire"
	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/scoring"
)

const (
	// EnvPrefix prefixes every environment override (REPSE_LOG_LEVEL, ...).
	EnvPrefix = "REPSE"
	// DefaultConfigName is looked up in the working directory when no path is given.
	DefaultConfigName = "repse"
	// DefaultExportDir is where artifacts land when export.dir is unset.
	DefaultExportDir = "."
)

// Config is the process configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Checklist ChecklistConfig `mapstructure:"checklist"`
	Export    ExportConfig    `mapstructure:"export"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ChecklistConfig struct {
	// Variant selects the built-in threshold table: "a" (60/90) or "b" (50/80).
	Variant string `mapstructure:"variant"`
	// Mode is "tristate" or "checkbox". Empty follows the variant.
	Mode string `mapstructure:"mode"`
	// Definition is an optional YAML/JSON file overriding items, bands or tier copy.
	Definition string `mapstructure:"definition"`
}

type ExportConfig struct {
	Dir         string `mapstructure:"dir"`
	Filename    string `mapstructure:"filename"`
	NotesColumn bool   `mapstructure:"notes_column"`
	// SQLite, when set, is the path of the evaluation snapshot database.
	SQLite string `mapstructure:"sqlite"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("checklist.variant", string(scoring.VariantA))
	v.SetDefault("checklist.mode", "")
	v.SetDefault("checklist.definition", "")
	v.SetDefault("export.dir", DefaultExportDir)
	v.SetDefault("export.filename", export.DefaultFilename)
	v.SetDefault("export.notes_column", false)
	v.SetDefault("export.sqlite", "")
}

// Load reads configuration. An empty path looks for repse.yaml in the working
// directory and tolerates its absence; an explicit path must exist.
// A .env file in the working directory is loaded first without overriding
// variables already set.
func Load(path string) (*Config, error) {
	LoadEnvFile(".env")

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errs.WrapConfiguration(err, "reading config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errs.WrapConfiguration(err, "decoding config")
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadEnvFile loads the first existing file among paths into the process
// environment. It reports the loaded path, or "" when none was found.
func LoadEnvFile(paths ...string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err == nil {
			return p
		}
	}
	return ""
}

// Validate checks enum-valued keys. It does not read the definition file.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return errs.WrapConfiguration(err, "log.level")
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "json", "console":
	default:
		return errs.Configuration("log.format %q: must be json or console", c.Log.Format)
	}
	if _, err := scoring.ParseVariant(c.Checklist.Variant); err != nil {
		return errs.WrapConfiguration(err, "checklist.variant")
	}
	if c.Checklist.Mode != "" {
		if _, err := checklist.ParseMode(c.Checklist.Mode); err != nil {
			return errs.WrapConfiguration(err, "checklist.mode")
		}
	}
	if f := c.Export.Filename; strings.ContainsAny(f, `/\`) || f == "." || f == ".." {
		return errs.Configuration("export.filename %q must be a bare file name", c.Export.Filename)
	}
	return nil
}

// Variant returns the parsed checklist variant.
func (c *Config) Variant() scoring.Variant {
	v, err := scoring.ParseVariant(c.Checklist.Variant)
	if err != nil {
		return scoring.VariantA
	}
	return v
}

// Mode returns the configured export mode. When unset, variant b maps to the
// checkbox front end and everything else to tri-state.
func (c *Config) Mode() checklist.Mode {
	if c.Checklist.Mode != "" {
		if m, err := checklist.ParseMode(c.Checklist.Mode); err == nil {
			return m
		}
	}
	if c.Variant() == scoring.VariantB {
		return checklist.ModeCheckbox
	}
	return checklist.ModeTriState
}

// Resolve builds the questionnaire and threshold table: the definition
// file, when configured, overrides the built-in items, bands and copy piece
// by piece.
func (c *Config) Resolve() (*questionnaire.Definition, *scoring.Table, error) {
	items := questionnaire.DefaultItems()
	bands, err := scoring.PresetBands(c.Variant())
	if err != nil {
		return nil, nil, errs.WrapConfiguration(err, "checklist.variant")
	}
	copies := scoring.DefaultCopy()

	if c.Checklist.Definition != "" {
		path := c.Checklist.Definition
		if !filepath.IsAbs(path) && c.File != "" {
			path = filepath.Join(filepath.Dir(c.File), path)
		}
		f, err := LoadDefinitionFile(path)
		if err != nil {
			return nil, nil, err
		}
		if len(f.Items) > 0 {
			items = f.Items
		}
		if len(f.Bands) > 0 {
			bands = f.Bands
		}
		for tier, cp := range f.Tiers {
			copies[tier] = cp
		}
	}

	def, err := questionnaire.New(items)
	if err != nil {
		return nil, nil, err
	}
	table, err := scoring.NewTable(bands, copies)
	if err != nil {
		return nil, nil, err
	}
	return def, table, nil
}

// NewEngine builds a checklist engine from the configuration.
func (c *Config) NewEngine(opts ...checklist.Option) (*checklist.Engine, error) {
	def, table, err := c.Resolve()
	if err != nil {
		return nil, err
	}
	opts = append([]checklist.Option{checklist.WithMode(c.Mode())}, opts...)
	return checklist.New(def, table, opts...)
}
