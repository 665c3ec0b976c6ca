package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// Root is the directory the corpus archives are unpacked into.
	Root string `toml:"root"`
}

// Corpus selects which MLS language folder the commands operate on.
type Corpus struct {
	Language string `toml:"language"`
	AudioExt string `toml:"audio_ext"`
}

// Cache controls persistence of assembled sample records next to the audio.
type Cache struct {
	Enabled bool `toml:"enabled"`
}

// Splitter contains defaults for the label splitting commands.
type Splitter struct {
	Workers int  `toml:"workers"`
	IPA     bool `toml:"ipa"`
}

// Phonemize configures the espeak-ng backed phonemizer.
type Phonemize struct {
	Binary string `toml:"binary"`
	Voice  string `toml:"voice"`
}

// Fetch configures archive download behavior.
type Fetch struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for mls.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Corpus    Corpus    `toml:"corpus"`
	Cache     Cache     `toml:"cache"`
	Splitter  Splitter  `toml:"splitter"`
	Phonemize Phonemize `toml:"phonemize"`
	Fetch     Fetch     `toml:"fetch"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/mls/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The second return value
// is the resolved path, the third reports whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("mls.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	root, err := expandPath(c.Paths.Root)
	if err != nil {
		return err
	}
	c.Paths.Root = root

	c.Corpus.Language = strings.TrimSpace(c.Corpus.Language)
	c.Corpus.AudioExt = strings.TrimSpace(c.Corpus.AudioExt)
	if c.Corpus.AudioExt != "" && !strings.HasPrefix(c.Corpus.AudioExt, ".") {
		c.Corpus.AudioExt = "." + c.Corpus.AudioExt
	}
	c.Phonemize.Binary = strings.TrimSpace(c.Phonemize.Binary)
	c.Phonemize.Voice = strings.TrimSpace(c.Phonemize.Voice)
	c.Fetch.BaseURL = strings.TrimRight(strings.TrimSpace(c.Fetch.BaseURL), "/")
	return nil
}

// EnsureDirectories creates the corpus root when absent.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.Root, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.Root, err)
	}
	return nil
}

// LanguageDir returns the directory the configured language unpacks into.
func (c *Config) LanguageDir() string {
	return filepath.Join(c.Paths.Root, c.Corpus.Language)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
