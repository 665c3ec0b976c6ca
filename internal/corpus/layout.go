package corpus

import (
	"fmt"
	"path/filepath"
	"strconv"
)

// Split names a corpus partition.
type Split string

const (
	SplitTrain Split = "train"
	SplitDev   Split = "dev"
	SplitTest  Split = "test"
)

// Splits lists all partitions in their conventional order.
var Splits = []Split{SplitTrain, SplitDev, SplitTest}

// ParseSplit validates a split name.
func ParseSplit(name string) (Split, error) {
	switch Split(name) {
	case SplitTrain, SplitDev, SplitTest:
		return Split(name), nil
	default:
		return "", fmt.Errorf("%w: unknown split %q (want train, dev, or test)", ErrConfiguration, name)
	}
}

// File name conventions inside a split directory.
const (
	TransExt       = ".trans.txt"
	IPATransExt    = ".ipa_trans.txt"
	CacheExt       = ".sample.gob"
	BulkTranscript = "transcripts.txt"
	audioDirName   = "audio"
	limitedDirName = "limited_supervision"
	handlesName    = "handles.txt"
)

// Layout resolves the on-disk path conventions of one split directory.
type Layout struct {
	// Dir is <root>/<language>/<split>.
	Dir string
	// AudioExt is the corpus audio file extension, with leading dot.
	AudioExt string
}

// NewLayout builds the layout for one split under a language directory.
func NewLayout(languageDir string, split Split, audioExt string) Layout {
	return Layout{Dir: filepath.Join(languageDir, string(split)), AudioExt: audioExt}
}

// AudioDir returns the root of the speaker/chapter audio tree.
func (l Layout) AudioDir() string {
	return filepath.Join(l.Dir, audioDirName)
}

// ChapterDir returns the directory holding one chapter's audio and labels.
func (l Layout) ChapterDir(id ID) string {
	return filepath.Join(l.AudioDir(), id.Speaker, id.Chapter)
}

// AudioPath returns the audio file location for a sample.
func (l Layout) AudioPath(id ID) string {
	return filepath.Join(l.ChapterDir(id), id.String()+l.AudioExt)
}

// TranscriptPath returns the per-chapter transcript file for a sample's chapter.
func (l Layout) TranscriptPath(id ID) string {
	return filepath.Join(l.ChapterDir(id), id.Speaker+"_"+id.Chapter+TransExt)
}

// IPATranscriptPath returns the per-chapter phonemic transcript file.
func (l Layout) IPATranscriptPath(id ID) string {
	return filepath.Join(l.ChapterDir(id), id.Speaker+"_"+id.Chapter+IPATransExt)
}

// CachePath returns where the assembled record for a sample is cached.
func (l Layout) CachePath(id ID) string {
	return filepath.Join(l.ChapterDir(id), id.String()+CacheExt)
}

// BulkTranscriptPath returns the split-wide transcript file consumed by the
// label splitter.
func (l Layout) BulkTranscriptPath() string {
	return filepath.Join(l.Dir, BulkTranscript)
}

// AudioGlob returns the pattern matching every audio file in the split.
func (l Layout) AudioGlob() string {
	return filepath.Join(l.AudioDir(), "*", "*", "*"+l.AudioExt)
}

// LabelGlob returns the pattern matching every label file the splitter owns.
func (l Layout) LabelGlob() string {
	return filepath.Join(l.AudioDir(), "*", "*", "*.txt")
}

// NineHourHandles returns the handle list of the 9-hour limited subset.
func (l Layout) NineHourHandles() string {
	return filepath.Join(l.Dir, limitedDirName, "9hr", handlesName)
}

// OneHourHandles returns the handle list of one 1-hour fold (0-5).
func (l Layout) OneHourHandles(fold int) string {
	return filepath.Join(l.Dir, limitedDirName, "1hr", strconv.Itoa(fold), handlesName)
}

// LimitedSupervisionDir returns the subset metadata directory.
func (l Layout) LimitedSupervisionDir() string {
	return filepath.Join(l.Dir, limitedDirName)
}
