package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/docquill/docquill/store"
)

func newFlags(t *testing.T) *pflag.FlagSet {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	return flags
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DOCQUILL_TEMPLATES", "DOCQUILL_OUTPUT", "DOCQUILL_DATA",
		"DOCQUILL_LOGLEVEL", "DOCQUILL_OCR-LANG", "DOCQUILL_VALIDITY-DAYS",
		"DOCQUILL_QUOTATION-PREFIX", "DOCQUILL_QUOTATION-START",
	} {
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	flags := newFlags(t)

	dir := t.TempDir()
	if err := flags.Parse([]string{
		"--templates=" + filepath.Join(dir, "templates"),
		"--output=" + filepath.Join(dir, "output"),
		"--data=" + filepath.Join(dir, "data"),
	}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.OCRLanguage != DefaultOCRLanguage {
		t.Errorf("OCRLanguage = %q, want %q", cfg.OCRLanguage, DefaultOCRLanguage)
	}
	if cfg.ValidityDays != DefaultValidityDays {
		t.Errorf("ValidityDays = %d, want %d", cfg.ValidityDays, DefaultValidityDays)
	}
	if cfg.QuotationPrefix != store.DefaultQuotationPrefix {
		t.Errorf("QuotationPrefix = %q, want %q", cfg.QuotationPrefix, store.DefaultQuotationPrefix)
	}
	if cfg.QuotationStart != store.DefaultQuotationStart {
		t.Errorf("QuotationStart = %d, want %d", cfg.QuotationStart, store.DefaultQuotationStart)
	}
}

func TestLoadCreatesDirectories(t *testing.T) {
	clearEnv(t)
	flags := newFlags(t)

	dir := t.TempDir()
	output := filepath.Join(dir, "out")
	data := filepath.Join(dir, "db")
	if err := flags.Parse([]string{"--output=" + output, "--data=" + data}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if _, err := Load(flags); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for _, d := range []string{output, data} {
		if _, err := os.Stat(d); err != nil {
			t.Errorf("directory %s not created: %v", d, err)
		}
	}
}

func TestLoadFlagOverrides(t *testing.T) {
	clearEnv(t)
	flags := newFlags(t)

	if err := flags.Parse([]string{
		"--loglevel=debug",
		"--validity-days=45",
		"--output=" + filepath.Join(t.TempDir(), "out"),
	}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.ValidityDays != 45 {
		t.Errorf("ValidityDays = %d, want 45", cfg.ValidityDays)
	}
}

func TestLoadQuotationSeriesOverrides(t *testing.T) {
	clearEnv(t)
	flags := newFlags(t)

	if err := flags.Parse([]string{
		"--quotation-prefix=ACME/26-27/",
		"--quotation-start=100",
		"--output=" + filepath.Join(t.TempDir(), "out"),
	}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.QuotationPrefix != "ACME/26-27/" {
		t.Errorf("QuotationPrefix = %q, want ACME/26-27/", cfg.QuotationPrefix)
	}
	if cfg.QuotationStart != 100 {
		t.Errorf("QuotationStart = %d, want 100", cfg.QuotationStart)
	}
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutputDir = t.TempDir()
	cfg.DataDir = t.TempDir()
	cfg.LogLevel = "loud"

	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown log level")
	}
}

func TestValidateRejectsNonPositiveValidity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutputDir = t.TempDir()
	cfg.DataDir = t.TempDir()
	cfg.ValidityDays = 0

	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero validity period")
	}
}
