package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mls/internal/logging"
)

// IndexOptions selects which identifier set the index exposes.
type IndexOptions struct {
	// LowResource switches from the full filesystem walk to a precomputed
	// limited-supervision handle list.
	LowResource bool
	// Fold selects a 1-hour fold (0-5) in low-resource mode; nil selects the
	// 9-hour set. Setting Fold without LowResource is a configuration error.
	Fold *int
}

// Index is an ordered, positionally addressable view of one corpus split.
type Index struct {
	layout    Layout
	ids       []string
	assembler *Assembler
	logger    *slog.Logger
}

// NewIndex enumerates the split's sample identifiers.
//
// Full mode walks audio/*/*/* and sorts the stripped file names
// lexicographically; that order is canonical for positional access.
// Low-resource mode reads the subset handle file verbatim, preserving its
// order.
func NewIndex(layout Layout, opts IndexOptions, assembler *Assembler, logger *slog.Logger) (*Index, error) {
	logger = logging.NewComponentLogger(logger, "index")

	if !opts.LowResource && opts.Fold != nil {
		return nil, fmt.Errorf("%w: fold %d given but low-resource mode is off", ErrConfiguration, *opts.Fold)
	}
	if opts.Fold != nil && (*opts.Fold < 0 || *opts.Fold > 5) {
		return nil, fmt.Errorf("%w: fold must be in 0..5, got %d", ErrConfiguration, *opts.Fold)
	}

	info, err := os.Stat(layout.Dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: split directory %s does not exist (fetch the corpus first)", ErrNotFound, layout.Dir)
	}

	var ids []string
	if opts.LowResource {
		handles := layout.NineHourHandles()
		if opts.Fold != nil {
			handles = layout.OneHourHandles(*opts.Fold)
		}
		ids, err = readHandles(handles)
		if err != nil {
			return nil, err
		}
		logger.Debug("using limited-supervision subset",
			logging.String(logging.FieldPath, handles),
			logging.Int("count", len(ids)))
	} else {
		ids, err = walkAudio(layout)
		if err != nil {
			return nil, err
		}
		logger.Debug("using full split",
			logging.String(logging.FieldPath, layout.Dir),
			logging.Int("count", len(ids)))
	}

	return &Index{layout: layout, ids: ids, assembler: assembler, logger: logger}, nil
}

// Len returns the number of indexed sample identifiers.
func (x *Index) Len() int {
	return len(x.ids)
}

// IDs returns a copy of the indexed identifiers in positional order.
func (x *Index) IDs() []string {
	out := make([]string, len(x.ids))
	copy(out, x.ids)
	return out
}

// IDAt returns the identifier at position n.
func (x *Index) IDAt(n int) (string, error) {
	if n < 0 || n >= len(x.ids) {
		return "", fmt.Errorf("%w: %d not in [0, %d)", ErrBounds, n, len(x.ids))
	}
	return x.ids[n], nil
}

// At assembles the n-th sample.
func (x *Index) At(ctx context.Context, n int) (*Sample, error) {
	id, err := x.IDAt(n)
	if err != nil {
		return nil, err
	}
	if x.assembler == nil {
		return nil, fmt.Errorf("%w: index has no assembler", ErrConfiguration)
	}
	return x.assembler.Assemble(ctx, id)
}

// walkAudio enumerates every audio file three levels under audio/ and strips
// directory and extension.
func walkAudio(layout Layout) ([]string, error) {
	matches, err := filepath.Glob(layout.AudioGlob())
	if err != nil {
		return nil, fmt.Errorf("glob audio files: %w", err)
	}
	ids := make([]string, 0, len(matches))
	for _, match := range matches {
		base := filepath.Base(match)
		ids = append(ids, strings.TrimSuffix(base, layout.AudioExt))
	}
	sort.Strings(ids)
	return ids, nil
}

// readHandles loads a limited-supervision handle list verbatim.
func readHandles(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read handle list %s: %v", ErrNotFound, path, err)
	}
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			ids = append(ids, line)
		}
	}
	return ids, nil
}
