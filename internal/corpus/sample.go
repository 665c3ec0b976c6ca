package corpus

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"mls/internal/audio"
	"mls/internal/logging"
	"mls/internal/samplecache"
)

// Sample is the assembled unit returned to callers.
type Sample struct {
	Path        string
	Waveform    []float32
	SampleRate  int
	Utterance   string
	SpeakerID   int
	ChapterID   int
	UtteranceID int
}

// AssemblerOptions tunes caching behavior.
type AssemblerOptions struct {
	// UseCache consults and populates the sample cache.
	UseCache bool
	// Refresh bypasses cache lookups while still persisting fresh records.
	Refresh bool
}

// Assembler joins one sample identifier's audio file with its transcript line.
type Assembler struct {
	layout  Layout
	decoder audio.Decoder
	cache   *samplecache.Cache
	opts    AssemblerOptions
	logger  *slog.Logger

	mu sync.Mutex
	// chapters memoizes per-chapter transcript lines (identifier -> text),
	// built lazily on first access to a chapter. Each file holds tens of
	// lines, so one map per visited chapter stays small.
	chapters map[string]map[string]string
}

// NewAssembler constructs an assembler for one split layout.
func NewAssembler(layout Layout, decoder audio.Decoder, cache *samplecache.Cache, opts AssemblerOptions, logger *slog.Logger) *Assembler {
	if cache == nil {
		cache = samplecache.New(false, nil)
	}
	return &Assembler{
		layout:   layout,
		decoder:  decoder,
		cache:    cache,
		opts:     opts,
		logger:   logging.NewComponentLogger(logger, "assembler"),
		chapters: make(map[string]map[string]string),
	}
}

// Assemble produces the sample record for one identifier.
func (a *Assembler) Assemble(ctx context.Context, rawID string) (*Sample, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}

	cachePath := a.layout.CachePath(id)
	if a.opts.UseCache && !a.opts.Refresh {
		var cached Sample
		found, err := a.cache.Load(cachePath, &cached)
		if err != nil {
			return nil, err
		}
		if found {
			return &cached, nil
		}
	}

	audioPath := a.layout.AudioPath(id)
	wave, err := a.decoder.Decode(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("audio %s: %w", rawID, err)
	}

	utterance, err := a.utterance(id)
	if err != nil {
		return nil, err
	}

	speaker, chapter, utteranceID, err := id.Ints()
	if err != nil {
		return nil, err
	}

	sample := &Sample{
		Path:        audioPath,
		Waveform:    wave.Samples,
		SampleRate:  wave.SampleRate,
		Utterance:   utterance,
		SpeakerID:   speaker,
		ChapterID:   chapter,
		UtteranceID: utteranceID,
	}

	if a.opts.UseCache {
		if err := a.cache.Store(cachePath, sample); err != nil {
			return nil, err
		}
	}

	a.logger.Debug("assembled sample",
		logging.String(logging.FieldSampleID, rawID),
		logging.Int("sample_rate", sample.SampleRate),
		logging.Int("samples", len(sample.Waveform)))

	return sample, nil
}

// utterance resolves the transcript line for id from its chapter file.
func (a *Assembler) utterance(id ID) (string, error) {
	chapterKey := id.Speaker + "_" + id.Chapter

	a.mu.Lock()
	lines, ok := a.chapters[chapterKey]
	a.mu.Unlock()

	if !ok {
		loaded, err := a.loadChapter(id)
		if err != nil {
			return "", err
		}
		a.mu.Lock()
		a.chapters[chapterKey] = loaded
		a.mu.Unlock()
		lines = loaded
	}

	text, ok := lines[id.String()]
	if !ok {
		return "", fmt.Errorf("%w: no line for %s in %s", ErrTranscriptNotFound, id, a.layout.TranscriptPath(id))
	}
	return text, nil
}

// loadChapter scans a chapter transcript file once. Lines are
// identifier<TAB>text; on duplicate identifiers the first line wins, matching
// a sequential scan.
func (a *Assembler) loadChapter(id ID) (map[string]string, error) {
	path := a.layout.TranscriptPath(id)
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open chapter transcript %s: %w", path, err)
	}
	defer file.Close()

	lines := make(map[string]string)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		lineID, text, found := strings.Cut(line, "\t")
		if !found {
			continue
		}
		if _, exists := lines[lineID]; !exists {
			lines[lineID] = text
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan chapter transcript %s: %w", path, err)
	}
	return lines, nil
}
