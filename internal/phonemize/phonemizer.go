package phonemize

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// EspeakCommand is the default phonemizer binary.
const EspeakCommand = "espeak-ng"

// WordSeparator is the token emitted between words in a phone sequence.
const WordSeparator = "<SPACE>"

// Phonemizer converts utterance text to a phone sequence.
type Phonemizer interface {
	Phonemize(ctx context.Context, text string) (string, error)
}

// Espeak phonemizes by invoking espeak-ng with IPA output. The input is
// lowercased for the configured voice before transcription.
type Espeak struct {
	binary        string
	voice         string
	lower         cases.Caser
	commandOutput func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewEspeak constructs an espeak-ng backed phonemizer. Empty arguments select
// the default binary and the English voice.
func NewEspeak(binary, voice string) *Espeak {
	if binary == "" {
		binary = EspeakCommand
	}
	if voice == "" {
		voice = "en"
	}
	tag, err := language.Parse(voice)
	if err != nil {
		tag = language.English
	}
	return &Espeak{
		binary: binary,
		voice:  voice,
		lower:  cases.Lower(tag),
	}
}

// WithCommandOutput sets a custom command runner (for testing).
func (e *Espeak) WithCommandOutput(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	e.commandOutput = runner
}

// Phonemize implements Phonemizer. espeak-ng separates phones with "_" when
// given --sep and words with spaces; the output is rewritten so phones are
// space-separated and words delimited by the WordSeparator token.
func (e *Espeak) Phonemize(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	out, err := e.output(ctx, e.binary,
		"-q",
		"--ipa",
		"--sep=_",
		"-v", e.voice,
		e.lower.String(text),
	)
	if err != nil {
		return "", fmt.Errorf("phonemize: %w", err)
	}

	return normalize(string(out)), nil
}

// normalize rewrites espeak-ng's "_"-joined phones and whitespace-joined
// words into the corpus phone-sequence form.
func normalize(raw string) string {
	words := strings.Fields(raw)
	converted := make([]string, 0, len(words))
	for _, word := range words {
		phones := strings.FieldsFunc(word, func(r rune) bool { return r == '_' })
		if len(phones) == 0 {
			continue
		}
		converted = append(converted, strings.Join(phones, " "))
	}
	return strings.Join(converted, " "+WordSeparator+" ")
}

func (e *Espeak) output(ctx context.Context, name string, args ...string) ([]byte, error) {
	if e.commandOutput != nil {
		return e.commandOutput(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
