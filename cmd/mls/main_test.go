package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"mls/internal/config"
	"mls/internal/testsupport"
)

// runCLI executes the command tree with a fresh root and captured output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeTestConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("output %q does not contain %q", output, want)
	}
}

func TestConfigInitCommand(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatal("config init over existing file succeeded without --overwrite")
	}
	if _, err := runCLI(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestInfoCommand(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	trainDir := filepath.Join(cfg.LanguageDir(), "train")
	testsupport.AddUtterance(t, trainDir, "1_2_0", "hello world")
	testsupport.AddUtterance(t, trainDir, "1_2_1", "second line")
	configPath := writeTestConfig(t, cfg)

	out, err := runCLI(t, "--config", configPath, "info")
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	requireContains(t, out, cfg.Corpus.Language)
	requireContains(t, out, "train")
	requireContains(t, out, "2")
}

func TestSplitCommand(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	trainDir := filepath.Join(cfg.LanguageDir(), "train")
	testsupport.AddUtterance(t, trainDir, "1_2_0", "hello world")
	configPath := writeTestConfig(t, cfg)

	out, err := runCLI(t, "--config", configPath, "split", "train")
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	requireContains(t, out, "Wrote 1 labels")

	label := filepath.Join(trainDir, "audio", "1", "2", "1_2.trans.txt")
	data, err := os.ReadFile(label)
	if err != nil {
		t.Fatalf("label file missing: %v", err)
	}
	if string(data) != "1_2_0\thello world\n" {
		t.Fatalf("label content = %q", data)
	}

	// Second run without --force leaves the labels alone.
	out, err = runCLI(t, "--config", configPath, "split", "train")
	if err != nil {
		t.Fatalf("repeat split: %v", err)
	}
	requireContains(t, out, "already exist")
}

func TestSplitCommandRejectsUnknownSplit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)

	if _, err := runCLI(t, "--config", configPath, "split", "validation"); err == nil {
		t.Fatal("unknown split accepted")
	}
}

func TestLimitedTrainCommand(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	trainDir := filepath.Join(cfg.LanguageDir(), "train")
	testsupport.AddUtterance(t, trainDir, "1_2_0", "hello world")
	testsupport.AddUtterance(t, trainDir, "1_2_1", "second line")
	testsupport.WriteNineHourHandles(t, trainDir, "1_2_0")
	for fold := 0; fold < 6; fold++ {
		testsupport.WriteOneHourHandles(t, trainDir, fold)
	}
	configPath := writeTestConfig(t, cfg)

	out, err := runCLI(t, "--config", configPath, "limited-train")
	if err != nil {
		t.Fatalf("limited-train: %v", err)
	}
	requireContains(t, out, "Copied 1 audio files")

	copied := filepath.Join(cfg.LanguageDir(), "limited_train", "audio", "1", "2", "1_2_0.opus")
	if _, err := os.Stat(copied); err != nil {
		t.Fatalf("expected copied audio at %s: %v", copied, err)
	}
}
