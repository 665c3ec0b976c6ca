package splitter

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mls/internal/corpus"
	"mls/internal/fileutil"
	"mls/internal/logging"
)

// limitedDirName is the sibling of the train split that receives the
// materialized low-resource corpus.
const limitedDirName = "limited_train"

// LimitedResult summarizes a limited-train materialization run.
type LimitedResult struct {
	// Skipped is true when an existing limited_train tree was left untouched.
	Skipped bool
	// Copied counts audio files copied into the limited tree.
	Copied int
	// Failures lists handles whose audio could not be copied.
	Failures []Failure
}

// MaterializeLimited copies the union of the 9-hour and six 1-hour
// limited-supervision subsets out of the train split into a parallel
// limited_train tree, then copies the subset metadata and the split's
// top-level text files. Audio files are copied, never moved; the train split
// is left intact.
func MaterializeLimited(ctx context.Context, languageDir, audioExt string, force bool, logger *slog.Logger) (*LimitedResult, error) {
	logger = logging.NewComponentLogger(logger, "limited")
	layout := corpus.NewLayout(languageDir, corpus.SplitTrain, audioExt)
	targetDir := filepath.Join(languageDir, limitedDirName)
	targetAudio := filepath.Join(targetDir, "audio")

	result := &LimitedResult{}

	if _, err := os.Stat(targetAudio); err == nil {
		if !force {
			logger.Warn("limited_train already exists, leaving it untouched",
				logging.String(logging.FieldPath, targetAudio))
			result.Skipped = true
			return result, nil
		}
	}

	handles, err := limitedHandleUnion(layout)
	if err != nil {
		return nil, err
	}

	logger.Info("materializing limited_train",
		logging.String(logging.FieldPath, targetDir),
		logging.Int("handles", len(handles)))

	for _, rawID := range handles {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		id, err := corpus.ParseID(rawID)
		if err != nil {
			result.Failures = append(result.Failures, Failure{ID: rawID, Err: err})
			continue
		}
		src := layout.AudioPath(id)
		dst := filepath.Join(targetAudio, id.Speaker, id.Chapter, rawID+audioExt)
		if err := fileutil.CopyFile(src, dst); err != nil {
			result.Failures = append(result.Failures, Failure{Path: src, ID: rawID, Err: err})
			continue
		}
		result.Copied++
	}

	if err := fileutil.CopyTree(layout.LimitedSupervisionDir(), filepath.Join(targetDir, "limited_supervision")); err != nil {
		return nil, fmt.Errorf("copy limited_supervision metadata: %w", err)
	}

	// Top-level split files (transcripts.txt and friends) ride along so the
	// limited tree is usable standalone. Individual misses are non-fatal.
	topLevel, err := filepath.Glob(filepath.Join(layout.Dir, "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("glob top-level text files: %w", err)
	}
	for _, path := range topLevel {
		if err := fileutil.CopyFile(path, filepath.Join(targetDir, filepath.Base(path))); err != nil {
			logger.Warn("top-level file not copied",
				logging.String(logging.FieldPath, path),
				logging.Error(err))
		}
	}

	for _, failure := range result.Failures {
		logger.Warn("handle skipped",
			logging.String(logging.FieldSampleID, failure.ID),
			logging.Error(failure.Err))
	}
	logger.Info("limited_train materialized",
		logging.Int("copied", result.Copied),
		logging.Int("failed", len(result.Failures)))

	return result, nil
}

// limitedHandleUnion reads the 9hr handle list plus all six 1hr folds and
// returns their union, sorted for deterministic copy order.
func limitedHandleUnion(layout corpus.Layout) ([]string, error) {
	unique := make(map[string]struct{})

	paths := []string{layout.NineHourHandles()}
	for fold := 0; fold < 6; fold++ {
		paths = append(paths, layout.OneHourHandles(fold))
	}
	for _, path := range paths {
		handles, err := readHandleFile(path)
		if err != nil {
			return nil, err
		}
		for _, handle := range handles {
			unique[handle] = struct{}{}
		}
	}

	out := make([]string, 0, len(unique))
	for handle := range unique {
		out = append(out, handle)
	}
	sort.Strings(out)
	return out, nil
}

func readHandleFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open handle list %s: %v", corpus.ErrNotFound, path, err)
	}
	defer file.Close()

	var handles []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			handles = append(handles, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read handle list %s: %w", path, err)
	}
	return handles, nil
}
