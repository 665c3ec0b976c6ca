// Package audio decodes corpus audio files into waveforms.
//
// Decoding is delegated to ffmpeg/ffprobe so the loader handles whatever
// codec the corpus distribution uses (MLS ships .opus and .flac variants)
// without linking codec libraries. The Decoder interface keeps the call
// opaque to callers and lets tests substitute a fake.
package audio
