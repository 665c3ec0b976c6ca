package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing config file")
	}
	if cfg.Corpus.Language != defaultLanguage {
		t.Fatalf("expected default language, got %q", cfg.Corpus.Language)
	}
	if cfg.Corpus.AudioExt != ".opus" {
		t.Fatalf("expected default audio ext, got %q", cfg.Corpus.AudioExt)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
root = "` + dir + `/corpora"

[corpus]
language = " mls_dutch_opus "
audio_ext = "flac"

[splitter]
workers = 8
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected resolved existing path %q, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Corpus.Language != "mls_dutch_opus" {
		t.Fatalf("language not trimmed: %q", cfg.Corpus.Language)
	}
	if cfg.Corpus.AudioExt != ".flac" {
		t.Fatalf("audio ext not normalized: %q", cfg.Corpus.AudioExt)
	}
	if cfg.Splitter.Workers != 8 {
		t.Fatalf("workers not applied: %d", cfg.Splitter.Workers)
	}
	if !filepath.IsAbs(cfg.Paths.Root) {
		t.Fatalf("root not absolute: %q", cfg.Paths.Root)
	}
}

func TestValidateRejectsNegativeWorkers(t *testing.T) {
	cfg := Default()
	cfg.Splitter.Workers = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for negative workers")
	}
}

func TestValidateRejectsUnknownLogFormat(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "xml"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("expected logging.format error, got %v", err)
	}
}

func TestValidateRequiresPhonemizerForIPA(t *testing.T) {
	cfg := Default()
	cfg.Splitter.IPA = true
	cfg.Phonemize.Binary = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when ipa enabled without phonemize binary")
	}
}

func TestLanguageDir(t *testing.T) {
	cfg := Default()
	cfg.Paths.Root = "/data"
	cfg.Corpus.Language = "mls_polish_opus"
	if got := cfg.LanguageDir(); got != filepath.Join("/data", "mls_polish_opus") {
		t.Fatalf("unexpected language dir %q", got)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("sample config should exist")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config should validate: %v", err)
	}
}
