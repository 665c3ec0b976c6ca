package fetch

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"mls/internal/corpus"
	"mls/internal/logging"
)

// buildArchive returns a tar.gz containing a minimal language tree and its
// MD5 digest.
func buildArchive(t *testing.T, language string) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	entries := map[string]string{
		language + "/train/transcripts.txt":         "1_2_0\thello\n",
		language + "/train/audio/1/2/1_2_0.opus":    "opus",
		language + "/metainfo.txt":                  "meta",
		language + "/train/limited_supervision/9hr/handles.txt": "1_2_0\n",
	}
	for name, content := range entries {
		if err := tw.WriteHeader(&tar.Header{
			Name:     name,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(content)),
		}); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}

	sum := md5.Sum(buf.Bytes())
	return buf.Bytes(), hex.EncodeToString(sum[:])
}

func serveArchive(t *testing.T, language string, body []byte) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/"+language+".tar.gz" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchDownloadsAndExtracts(t *testing.T) {
	const language = "mls_test_opus"
	body, digest := buildArchive(t, language)
	server := serveArchive(t, language, body)
	root := t.TempDir()

	f := New(logging.NewNop())
	result, err := f.Fetch(context.Background(), Options{
		BaseURL:  server.URL,
		Root:     root,
		Language: language,
		Checksum: digest,
	})
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if !result.Downloaded {
		t.Fatal("Downloaded = false, want true")
	}
	if result.Extracted != 4 {
		t.Fatalf("Extracted = %d, want 4", result.Extracted)
	}

	data, err := os.ReadFile(filepath.Join(root, language, "train", "transcripts.txt"))
	if err != nil {
		t.Fatalf("extracted transcript missing: %v", err)
	}
	if string(data) != "1_2_0\thello\n" {
		t.Fatalf("transcript content = %q", data)
	}
	if _, err := os.Stat(result.ArchivePath); err != nil {
		t.Fatalf("archive not kept on disk: %v", err)
	}

	// No partial staging files left behind.
	matches, _ := filepath.Glob(filepath.Join(root, ".*.partial"))
	if len(matches) != 0 {
		t.Fatalf("staging files left behind: %v", matches)
	}
}

func TestFetchSkipsExistingLanguageDir(t *testing.T) {
	const language = "mls_test_opus"
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, language), 0o755); err != nil {
		t.Fatal(err)
	}

	f := New(logging.NewNop())
	result, err := f.Fetch(context.Background(), Options{
		BaseURL:  "http://127.0.0.1:0",
		Root:     root,
		Language: language,
	})
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if !result.Skipped {
		t.Fatal("Skipped = false, want true")
	}
	if result.Downloaded {
		t.Fatal("Downloaded = true, want false")
	}
}

func TestFetchReusesArchiveOnDisk(t *testing.T) {
	const language = "mls_test_opus"
	body, _ := buildArchive(t, language)
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, language+".tar.gz"), body, 0o644); err != nil {
		t.Fatal(err)
	}

	// The base URL is unreachable, so any download attempt fails the test.
	f := New(logging.NewNop())
	result, err := f.Fetch(context.Background(), Options{
		BaseURL:  "http://127.0.0.1:0",
		Root:     root,
		Language: language,
	})
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if result.Downloaded {
		t.Fatal("Downloaded = true, want false")
	}
	if result.Extracted != 4 {
		t.Fatalf("Extracted = %d, want 4", result.Extracted)
	}
}

func TestFetchChecksumMismatch(t *testing.T) {
	const language = "mls_test_opus"
	body, _ := buildArchive(t, language)
	server := serveArchive(t, language, body)
	root := t.TempDir()

	f := New(logging.NewNop())
	_, err := f.Fetch(context.Background(), Options{
		BaseURL:  server.URL,
		Root:     root,
		Language: language,
		Checksum: "00000000000000000000000000000000",
	})
	if !errors.Is(err, ErrChecksum) {
		t.Fatalf("Fetch() error = %v, want ErrChecksum", err)
	}
	if _, statErr := os.Stat(filepath.Join(root, language+".tar.gz")); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatal("corrupt archive was kept on disk")
	}
}

func TestFetchMissingOptions(t *testing.T) {
	f := New(logging.NewNop())
	if _, err := f.Fetch(context.Background(), Options{Root: t.TempDir()}); !errors.Is(err, corpus.ErrConfiguration) {
		t.Fatalf("Fetch() error = %v, want ErrConfiguration", err)
	}
}

func TestFetchForceOverwrites(t *testing.T) {
	const language = "mls_test_opus"
	body, digest := buildArchive(t, language)
	server := serveArchive(t, language, body)
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, language), 0o755); err != nil {
		t.Fatal(err)
	}

	f := New(logging.NewNop())
	result, err := f.Fetch(context.Background(), Options{
		BaseURL:  server.URL,
		Root:     root,
		Language: language,
		Force:    true,
		Checksum: digest,
	})
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if result.Skipped {
		t.Fatal("Skipped = true, want false")
	}
	if result.Extracted != 4 {
		t.Fatalf("Extracted = %d, want 4", result.Extracted)
	}
}
