package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCorpus(); err != nil {
		return err
	}
	if err := c.validateSplitter(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCorpus() error {
	if c.Paths.Root == "" {
		return errors.New("paths.root must be set")
	}
	if c.Corpus.Language == "" {
		return errors.New("corpus.language must be set")
	}
	if c.Corpus.AudioExt == "" {
		return errors.New("corpus.audio_ext must be set")
	}
	return nil
}

func (c *Config) validateSplitter() error {
	if c.Splitter.Workers < 0 {
		return fmt.Errorf("splitter.workers must be zero or positive, got %d", c.Splitter.Workers)
	}
	if c.Splitter.IPA && c.Phonemize.Binary == "" {
		return errors.New("phonemize.binary must be set when splitter.ipa is true")
	}
	return nil
}

func (c *Config) validateFetch() error {
	if c.Fetch.BaseURL == "" {
		return errors.New("fetch.base_url must be set")
	}
	if c.Fetch.TimeoutSeconds < 0 {
		return errors.New("fetch.timeout_seconds must be zero or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
