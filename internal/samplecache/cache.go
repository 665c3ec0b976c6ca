package samplecache

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"mls/internal/logging"
)

// Cache stores serialized records on disk, one file per record.
type Cache struct {
	enabled bool
	logger  *slog.Logger
}

// New creates a cache. When enabled is false all operations become no-ops.
func New(enabled bool, logger *slog.Logger) *Cache {
	return &Cache{
		enabled: enabled,
		logger:  logging.NewComponentLogger(logger, "samplecache"),
	}
}

// Enabled reports whether the cache persists records.
func (c *Cache) Enabled() bool {
	return c != nil && c.enabled
}

// Load decodes the record at path into the provided destination. The first
// return value is false when the cache is disabled or no record exists.
func (c *Cache) Load(path string, into any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("open cached record: %w", err)
	}
	defer file.Close()

	if err := gob.NewDecoder(file).Decode(into); err != nil {
		return false, fmt.Errorf("decode cached record %s: %w", path, err)
	}

	c.logger.Debug("cache hit", logging.String(logging.FieldPath, path))
	return true, nil
}

// Store writes the record to path atomically via a temp file and rename.
func (c *Cache) Store(path string, record any) error {
	if !c.Enabled() {
		return nil
	}

	tmpPath := path + ".tmp"
	file, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create temp record: %w", err)
	}

	if err := gob.NewEncoder(file).Encode(record); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("encode record: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("flush record: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename record: %w", err)
	}

	c.logger.Debug("cached record", logging.String(logging.FieldPath, path))
	return nil
}
