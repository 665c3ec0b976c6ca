package testsupport

import (
	"path/filepath"
	"testing"

	"mls/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config rooted in a unique temp directory per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Paths.Root = filepath.Join(t.TempDir(), "corpus")
	cfg.Corpus.Language = "mls_test_opus"
	cfg.Logging.Format = "json"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithLanguage overrides the corpus language on the test config.
func WithLanguage(language string) ConfigOption {
	return func(c *config.Config) {
		c.Corpus.Language = language
	}
}

// WithCache enables or disables the sample record cache.
func WithCache(enabled bool) ConfigOption {
	return func(c *config.Config) {
		c.Cache.Enabled = enabled
	}
}

// WithWorkers sets the splitter worker pool size.
func WithWorkers(workers int) ConfigOption {
	return func(c *config.Config) {
		c.Splitter.Workers = workers
	}
}
