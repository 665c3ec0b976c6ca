package testsupport

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// WriteFile writes content to path, creating parent directories as needed.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// AddUtterance drops one audio file into a split's speaker/chapter tree and
// appends its line to the split-wide transcript. The id must follow the
// speaker_chapter_utterance convention.
func AddUtterance(t testing.TB, splitDir, id, text string) {
	t.Helper()

	parts := strings.SplitN(id, "_", 3)
	if len(parts) != 3 {
		t.Fatalf("utterance id %q is not speaker_chapter_utterance", id)
	}
	audioPath := filepath.Join(splitDir, "audio", parts[0], parts[1], id+".opus")
	WriteFile(t, audioPath, "opus "+id)

	transcript := filepath.Join(splitDir, "transcripts.txt")
	if err := os.MkdirAll(splitDir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", splitDir, err)
	}
	f, err := os.OpenFile(transcript, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatalf("open %s: %v", transcript, err)
	}
	defer f.Close()
	if _, err := f.WriteString(id + "\t" + text + "\n"); err != nil {
		t.Fatalf("append %s: %v", transcript, err)
	}
}

// WriteNineHourHandles writes the 9-hour subset handle list for a split.
func WriteNineHourHandles(t testing.TB, splitDir string, ids ...string) {
	t.Helper()
	WriteFile(t, filepath.Join(splitDir, "limited_supervision", "9hr", "handles.txt"),
		strings.Join(ids, "\n")+"\n")
}

// WriteOneHourHandles writes one 1-hour fold's handle list for a split.
func WriteOneHourHandles(t testing.TB, splitDir string, fold int, ids ...string) {
	t.Helper()
	content := ""
	if len(ids) > 0 {
		content = strings.Join(ids, "\n") + "\n"
	}
	WriteFile(t, filepath.Join(splitDir, "limited_supervision", "1hr", strconv.Itoa(fold), "handles.txt"), content)
}
