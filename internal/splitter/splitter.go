package splitter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"mls/internal/corpus"
	"mls/internal/logging"
	"mls/internal/phonemize"
)

// lockName is the advisory lock file guarding a split directory.
const lockName = ".split.lock"

// Options controls one split-labels run.
type Options struct {
	// Workers is the size of the append worker pool; 0 runs sequentially in
	// enumeration order. Negative counts are a configuration error.
	Workers int
	// IPA additionally emits phonemic per-chapter transcripts.
	IPA bool
	// Force removes existing label files before splitting. Without it an
	// already-split directory is left untouched.
	Force bool
}

// Failure records one audio file whose label could not be written.
type Failure struct {
	Path string
	ID   string
	Err  error
}

// Result summarizes a split-labels run.
type Result struct {
	// Skipped is true when existing label files were left untouched.
	Skipped bool
	// Removed counts label files deleted under Force.
	Removed int
	// Written counts transcript lines appended.
	Written int
	// Failures lists samples that were skipped; the run continues past them.
	Failures []Failure
}

// Splitter redistributes a bulk transcript into per-chapter label files.
type Splitter struct {
	layout     corpus.Layout
	phonemizer phonemize.Phonemizer
	logger     *slog.Logger
	progress   io.Writer
}

// New constructs a splitter for one split layout. The phonemizer may be nil
// when IPA output is never requested.
func New(layout corpus.Layout, phonemizer phonemize.Phonemizer, logger *slog.Logger) *Splitter {
	return &Splitter{
		layout:     layout,
		phonemizer: phonemizer,
		logger:     logging.NewComponentLogger(logger, "splitter"),
	}
}

// WithProgress renders a progress bar to w while splitting.
func (s *Splitter) WithProgress(w io.Writer) {
	s.progress = w
}

// Split performs the label redistribution described in the package doc.
func (s *Splitter) Split(ctx context.Context, opts Options) (*Result, error) {
	if opts.Workers < 0 {
		return nil, fmt.Errorf("%w: worker count %d is negative", corpus.ErrConfiguration, opts.Workers)
	}
	if opts.IPA && s.phonemizer == nil {
		return nil, fmt.Errorf("%w: ipa output requested without a phonemizer", corpus.ErrConfiguration)
	}
	if info, err := os.Stat(s.layout.Dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: split directory %s does not exist", corpus.ErrNotFound, s.layout.Dir)
	}

	lock := flock.New(filepath.Join(s.layout.Dir, lockName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire split lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("split %s is locked by another process", s.layout.Dir)
	}
	defer func() { _ = lock.Unlock() }()

	result := &Result{}

	existing, err := filepath.Glob(s.layout.LabelGlob())
	if err != nil {
		return nil, fmt.Errorf("glob existing labels: %w", err)
	}
	if len(existing) > 0 {
		if !opts.Force {
			s.logger.Warn("label files already exist, leaving split untouched",
				logging.String(logging.FieldPath, s.layout.Dir),
				logging.Int("label_files", len(existing)))
			result.Skipped = true
			return result, nil
		}
		for _, path := range existing {
			if err := os.Remove(path); err != nil {
				return nil, fmt.Errorf("remove stale label %s: %w", path, err)
			}
		}
		result.Removed = len(existing)
		s.logger.Info("removed existing label files", logging.Int("count", result.Removed))
	}

	labels, err := s.loadBulkTranscript()
	if err != nil {
		return nil, err
	}

	audioFiles, err := filepath.Glob(s.layout.AudioGlob())
	if err != nil {
		return nil, fmt.Errorf("glob audio files: %w", err)
	}

	s.logger.Info("splitting labels",
		logging.String(logging.FieldPath, s.layout.Dir),
		logging.Int("audio_files", len(audioFiles)),
		logging.Int("transcript_lines", len(labels)),
		logging.Int("workers", opts.Workers),
		logging.Bool("ipa", opts.IPA))

	bar := s.newBar(len(audioFiles))
	if opts.Workers == 0 {
		s.splitSequential(ctx, audioFiles, labels, opts.IPA, result, bar)
	} else {
		s.splitParallel(ctx, audioFiles, labels, opts, result, bar)
	}
	bar.wait()

	for _, failure := range result.Failures {
		s.logger.Warn("sample skipped",
			logging.String(logging.FieldPath, failure.Path),
			logging.String(logging.FieldSampleID, failure.ID),
			logging.Error(failure.Err))
	}
	s.logger.Info("label split complete",
		logging.Int("written", result.Written),
		logging.Int("failed", len(result.Failures)))

	return result, nil
}

func (s *Splitter) splitSequential(ctx context.Context, audioFiles []string, labels map[string]string, ipa bool, result *Result, bar *progressBar) {
	for _, audioFile := range audioFiles {
		if ctx.Err() != nil {
			result.Failures = append(result.Failures, Failure{Path: audioFile, Err: ctx.Err()})
			continue
		}
		s.record(result, audioFile, s.writeLabel(ctx, audioFile, labels, ipa))
		bar.increment()
	}
}

func (s *Splitter) splitParallel(ctx context.Context, audioFiles []string, labels map[string]string, opts Options, result *Result, bar *progressBar) {
	type outcome struct {
		path string
		err  error
	}

	jobs := make(chan string, len(audioFiles))
	outcomes := make(chan outcome, len(audioFiles))

	var wg sync.WaitGroup
	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if ctx.Err() != nil {
					outcomes <- outcome{path: path, err: ctx.Err()}
					continue
				}
				outcomes <- outcome{path: path, err: s.writeLabel(ctx, path, labels, opts.IPA)}
			}
		}()
	}

	for _, audioFile := range audioFiles {
		jobs <- audioFile
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	for out := range outcomes {
		s.record(result, out.path, out.err)
		bar.increment()
	}
}

func (s *Splitter) record(result *Result, path string, err error) {
	if err != nil {
		id := strings.TrimSuffix(filepath.Base(path), s.layout.AudioExt)
		result.Failures = append(result.Failures, Failure{Path: path, ID: id, Err: err})
		return
	}
	result.Written++
}

// writeLabel appends one audio file's transcript line to its chapter label
// file, plus the phonemic line when requested. Append-mode opens keep
// concurrent chapter writers from clobbering each other.
func (s *Splitter) writeLabel(ctx context.Context, audioFile string, labels map[string]string, ipa bool) error {
	rawID := strings.TrimSuffix(filepath.Base(audioFile), s.layout.AudioExt)
	id, err := corpus.ParseID(rawID)
	if err != nil {
		return err
	}

	text, ok := labels[rawID]
	if !ok {
		return fmt.Errorf("%w: bulk transcript has no entry for %s", corpus.ErrTranscriptNotFound, rawID)
	}

	if ipa {
		phones, err := s.phonemizer.Phonemize(ctx, text)
		if err != nil {
			return err
		}
		if err := appendLine(s.layout.IPATranscriptPath(id), rawID+"\t"+phones); err != nil {
			return err
		}
	}

	return appendLine(s.layout.TranscriptPath(id), rawID+"\t"+text)
}

// loadBulkTranscript reads transcripts.txt into memory. The map is read-only
// for the rest of the run, so workers share it without locking.
func (s *Splitter) loadBulkTranscript() (map[string]string, error) {
	path := s.layout.BulkTranscriptPath()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open bulk transcript %s: %v", corpus.ErrNotFound, path, err)
	}
	defer file.Close()

	labels := make(map[string]string)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		id, text, found := strings.Cut(line, "\t")
		if !found {
			continue
		}
		labels[id] = text
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan bulk transcript %s: %w", path, err)
	}
	return labels, nil
}

func appendLine(path, line string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open label file %s: %w", path, err)
	}
	if _, err := file.WriteString(line + "\n"); err != nil {
		_ = file.Close()
		return fmt.Errorf("append to %s: %w", path, err)
	}
	return file.Close()
}

// progressBar wraps one mpb bar so call sites stay nil-safe.
type progressBar struct {
	pool *mpb.Progress
	bar  *mpb.Bar
}

func (s *Splitter) newBar(total int) *progressBar {
	if s.progress == nil || total == 0 {
		return nil
	}
	pool := mpb.New(mpb.WithOutput(s.progress), mpb.WithWidth(64))
	bar := pool.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name("Splitting: "),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(decor.Percentage()),
	)
	return &progressBar{pool: pool, bar: bar}
}

func (b *progressBar) increment() {
	if b == nil {
		return
	}
	b.bar.Increment()
}

func (b *progressBar) wait() {
	if b == nil {
		return
	}
	b.pool.Wait()
}
