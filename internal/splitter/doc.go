// Package splitter materializes per-chapter transcript files from a split's
// bulk transcripts.txt, the one-time preprocessing step the corpus index
// relies on.
//
// The bulk file is loaded once into an identifier -> text map, every audio
// file in the split is enumerated, and each file's line is appended to its
// chapter's transcript (optionally alongside a phonemic transcript). The work
// partitions naturally by chapter, so parallel workers append without
// cross-worker coordination; line-level append atomicity is a documented
// filesystem assumption, not something this package enforces.
//
// Existing label files are only removed when the caller explicitly opts into
// the overwrite, and a file lock on the split directory keeps two splitters
// (or a splitter racing an index build) off the same split.
package splitter
