package corpus

import "errors"

// Sentinel errors for status classification via errors.Is.
var (
	// ErrNotFound marks a split directory that does not exist on disk.
	ErrNotFound = errors.New("corpus not found")
	// ErrConfiguration marks contradictory or invalid construction inputs.
	ErrConfiguration = errors.New("configuration error")
	// ErrMalformedIdentifier marks an identifier that does not parse into
	// speaker, chapter, and utterance parts.
	ErrMalformedIdentifier = errors.New("malformed sample identifier")
	// ErrTranscriptNotFound marks a chapter transcript with no line for the
	// requested identifier.
	ErrTranscriptNotFound = errors.New("transcript not found")
	// ErrBounds marks a positional lookup outside [0, Len).
	ErrBounds = errors.New("sample index out of range")
)
