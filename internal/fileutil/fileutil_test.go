package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFileCreatesParents(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "nested", "deeper", "dst.txt")
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}

	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read dst: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("content mismatch: %q", data)
	}
}

func TestCopyTreePreservesStructure(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")

	files := map[string]string{
		"9hr/handles.txt":   "1_1_0\n",
		"1hr/0/handles.txt": "2_5_0\n",
	}
	for rel, content := range files {
		path := filepath.Join(src, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	if err := CopyTree(src, dst); err != nil {
		t.Fatalf("CopyTree: %v", err)
	}

	for rel, content := range files {
		data, err := os.ReadFile(filepath.Join(dst, rel))
		if err != nil {
			t.Fatalf("read copied %s: %v", rel, err)
		}
		if string(data) != content {
			t.Fatalf("copied content mismatch for %s: %q", rel, data)
		}
	}
}
