// Package samplecache persists assembled sample records next to their source
// audio files.
//
// Each record is one gob file keyed by the sample identifier (the path is
// derived by the corpus layout), so a populated cache survives process
// restarts and individual entries can be inspected or deleted with ordinary
// filesystem tools. Writes go through a temp file and rename so readers never
// observe a partially written record. A disabled cache is a no-op.
package samplecache
