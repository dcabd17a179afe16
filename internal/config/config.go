// Package config loads the tool's configuration from defaults, environment
// variables and command line flags, in rising order of precedence.
// Environment variables use the DOCQUILL_ prefix (DOCQUILL_OUTPUT_DIR,
// DOCQUILL_LOG_LEVEL, ...).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/docquill/docquill/store"
)

const (
	DefaultLogLevel     = "info"
	DefaultOCRLanguage  = "eng"
	DefaultValidityDays = 30

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all settings of one invocation.
type Config struct {
	// TemplateDir holds the DOCX templates, one per product.
	TemplateDir string

	// OutputDir receives generated documents.
	OutputDir string

	// DataDir is the quotation registry database directory.
	DataDir string

	LogLevel    string
	OCRLanguage string

	// ValidityDays is how long a generated quotation stays valid; the
	// validity date is the quotation date plus this many days.
	ValidityDays int

	// QuotationPrefix and QuotationStart configure the quotation number
	// series; see the store package.
	QuotationPrefix string
	QuotationStart  int
}

// DefaultConfig returns a configuration with sensible defaults, rooted in
// the current working directory.
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		TemplateDir:     filepath.Join(currentDir, "templates"),
		OutputDir:       filepath.Join(currentDir, "output"),
		DataDir:         filepath.Join(currentDir, "data"),
		LogLevel:        DefaultLogLevel,
		OCRLanguage:     DefaultOCRLanguage,
		ValidityDays:    DefaultValidityDays,
		QuotationPrefix: store.DefaultQuotationPrefix,
		QuotationStart:  store.DefaultQuotationStart,
	}
}

// RegisterFlags defines the configuration flags on a flag set, typically a
// command's persistent flags.
func RegisterFlags(flags *pflag.FlagSet) {
	cfg := DefaultConfig()
	flags.String("templates", cfg.TemplateDir, "Directory holding DOCX templates")
	flags.String("output", cfg.OutputDir, "Directory receiving generated documents")
	flags.String("data", cfg.DataDir, "Quotation registry database directory")
	flags.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.String("ocr-lang", cfg.OCRLanguage, "Tesseract language(s), '+' separated")
	flags.Int("validity-days", cfg.ValidityDays, "Quotation validity period in days")
	flags.String("quotation-prefix", cfg.QuotationPrefix, "Quotation number series prefix")
	flags.Int("quotation-start", cfg.QuotationStart, "First number suffix of an empty series")
}

// Load resolves the configuration from defaults, DOCQUILL_* environment
// variables and the given parsed flag set.
func Load(flags *pflag.FlagSet) (*Config, error) {
	cfg := DefaultConfig()

	viper.SetEnvPrefix("DOCQUILL")
	viper.AutomaticEnv()

	viper.SetDefault("templates", cfg.TemplateDir)
	viper.SetDefault("output", cfg.OutputDir)
	viper.SetDefault("data", cfg.DataDir)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("ocr-lang", cfg.OCRLanguage)
	viper.SetDefault("validity-days", cfg.ValidityDays)
	viper.SetDefault("quotation-prefix", cfg.QuotationPrefix)
	viper.SetDefault("quotation-start", cfg.QuotationStart)

	if err := viper.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	cfg.TemplateDir = viper.GetString("templates")
	cfg.OutputDir = viper.GetString("output")
	cfg.DataDir = viper.GetString("data")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.OCRLanguage = viper.GetString("ocr-lang")
	cfg.ValidityDays = viper.GetInt("validity-days")
	cfg.QuotationPrefix = viper.GetString("quotation-prefix")
	cfg.QuotationStart = viper.GetInt("quotation-start")

	for _, dir := range []*string{&cfg.TemplateDir, &cfg.OutputDir, &cfg.DataDir} {
		if expanded, err := filepath.Abs(*dir); err == nil {
			*dir = expanded
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration and creates the output and data
// directories when absent. The template directory must already exist; an
// empty one means there is nothing to generate from.
func (c *Config) Validate() error {
	if c.TemplateDir == "" {
		return errors.New("template directory cannot be empty")
	}
	for _, dir := range []string{c.OutputDir, c.DataDir} {
		if dir == "" {
			return errors.New("output and data directories cannot be empty")
		}
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, DefaultDirPerm); err != nil {
				return fmt.Errorf("cannot create directory %s: %w", dir, err)
			}
		} else if err != nil {
			return fmt.Errorf("cannot access directory %s: %w", dir, err)
		}
	}

	if c.ValidityDays <= 0 {
		return errors.New("validity period must be positive")
	}
	if c.QuotationPrefix == "" {
		return errors.New("quotation prefix cannot be empty")
	}
	if c.QuotationStart <= 0 {
		return errors.New("quotation start must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return nil
}
