package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// Default external binaries.
const (
	FFmpegCommand  = "ffmpeg"
	FFprobeCommand = "ffprobe"
)

// Waveform is a decoded mono audio stream.
type Waveform struct {
	Samples    []float32
	SampleRate int
}

// Decoder turns an audio file into a waveform plus its sample rate.
type Decoder interface {
	Decode(ctx context.Context, path string) (Waveform, error)
}

// FFmpegDecoder decodes via the ffmpeg and ffprobe binaries. ffprobe reports
// the stream's native sample rate, ffmpeg emits 32-bit float PCM on stdout.
type FFmpegDecoder struct {
	ffmpegBinary  string
	ffprobeBinary string
	commandOutput func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewFFmpegDecoder constructs a decoder using the given binaries. Empty
// arguments select the defaults on PATH.
func NewFFmpegDecoder(ffmpegBinary, ffprobeBinary string) *FFmpegDecoder {
	if ffmpegBinary == "" {
		ffmpegBinary = FFmpegCommand
	}
	if ffprobeBinary == "" {
		ffprobeBinary = FFprobeCommand
	}
	return &FFmpegDecoder{
		ffmpegBinary:  ffmpegBinary,
		ffprobeBinary: ffprobeBinary,
	}
}

// WithCommandOutput sets a custom command runner (for testing).
func (d *FFmpegDecoder) WithCommandOutput(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	d.commandOutput = runner
}

// Decode implements Decoder.
func (d *FFmpegDecoder) Decode(ctx context.Context, path string) (Waveform, error) {
	rate, err := d.sampleRate(ctx, path)
	if err != nil {
		return Waveform{}, err
	}

	raw, err := d.output(ctx, d.ffmpegBinary,
		"-v", "error",
		"-i", path,
		"-map", "0:a:0",
		"-ac", "1",
		"-f", "f32le",
		"-",
	)
	if err != nil {
		return Waveform{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(raw)%4 != 0 {
		return Waveform{}, fmt.Errorf("decode %s: truncated pcm stream (%d bytes)", path, len(raw))
	}

	samples := make([]float32, len(raw)/4)
	for i := range samples {
		bits := binary.LittleEndian.Uint32(raw[i*4:])
		samples[i] = math.Float32frombits(bits)
	}
	return Waveform{Samples: samples, SampleRate: rate}, nil
}

func (d *FFmpegDecoder) sampleRate(ctx context.Context, path string) (int, error) {
	out, err := d.output(ctx, d.ffprobeBinary,
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=sample_rate",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, fmt.Errorf("probe %s: %w", path, err)
	}
	rate, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil || rate <= 0 {
		return 0, fmt.Errorf("probe %s: unexpected sample rate %q", path, strings.TrimSpace(string(out)))
	}
	return rate, nil
}

func (d *FFmpegDecoder) output(ctx context.Context, name string, args ...string) ([]byte, error) {
	if d.commandOutput != nil {
		return d.commandOutput(ctx, name, args...)
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
