package corpus

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mls/internal/audio"
)

// fakeDecoder returns a fixed waveform and counts invocations.
type fakeDecoder struct {
	calls int
	rate  int
}

func (d *fakeDecoder) Decode(_ context.Context, path string) (audio.Waveform, error) {
	d.calls++
	if _, err := os.Stat(path); err != nil {
		return audio.Waveform{}, err
	}
	return audio.Waveform{Samples: []float32{0.25, -0.5}, SampleRate: d.rate}, nil
}

// buildSplit materializes a small split directory:
//
//	audio/1/1/{1_1_0,1_1_1}.opus with a chapter transcript
//	audio/2/5/2_5_0.opus with a chapter transcript
func buildSplit(t *testing.T) Layout {
	t.Helper()
	dir := t.TempDir()
	layout := NewLayout(dir, SplitTrain, ".opus")

	writeFile(t, filepath.Join(layout.AudioDir(), "1", "1", "1_1_0.opus"), "opus")
	writeFile(t, filepath.Join(layout.AudioDir(), "1", "1", "1_1_1.opus"), "opus")
	writeFile(t, filepath.Join(layout.AudioDir(), "2", "5", "2_5_0.opus"), "opus")
	writeFile(t, filepath.Join(layout.AudioDir(), "1", "1", "1_1.trans.txt"),
		"1_1_0\thello world\n1_1_1\tsecond utterance\n")
	writeFile(t, filepath.Join(layout.AudioDir(), "2", "5", "2_5.trans.txt"),
		"2_5_0\tanother chapter\n")

	return layout
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func writeHandles(t *testing.T, path string, ids ...string) {
	t.Helper()
	writeFile(t, path, strings.Join(ids, "\n")+"\n")
}
