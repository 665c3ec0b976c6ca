package corpus

import (
	"fmt"
	"strconv"
	"strings"
)

// ID is a sample identifier: speaker, chapter, and utterance components as
// they appear in the source filenames. The components stay strings so the
// identifier round-trips verbatim (leading zeros and all); integer views are
// derived on demand.
type ID struct {
	Speaker   string
	Chapter   string
	Utterance string
}

// ParseID splits an underscore-joined identifier into its three components.
func ParseID(raw string) (ID, error) {
	parts := strings.Split(raw, "_")
	if len(parts) != 3 {
		return ID{}, fmt.Errorf("%w: %q has %d underscore-separated parts, want 3", ErrMalformedIdentifier, raw, len(parts))
	}
	return ID{Speaker: parts[0], Chapter: parts[1], Utterance: parts[2]}, nil
}

// String renders the identifier in its canonical underscore-joined form.
func (id ID) String() string {
	return id.Speaker + "_" + id.Chapter + "_" + id.Utterance
}

// Ints returns the numeric view of the identifier components.
func (id ID) Ints() (speaker, chapter, utterance int, err error) {
	speaker, err = strconv.Atoi(id.Speaker)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: speaker %q is not numeric", ErrMalformedIdentifier, id.Speaker)
	}
	chapter, err = strconv.Atoi(id.Chapter)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: chapter %q is not numeric", ErrMalformedIdentifier, id.Chapter)
	}
	utterance, err = strconv.Atoi(id.Utterance)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: utterance %q is not numeric", ErrMalformedIdentifier, id.Utterance)
	}
	return speaker, chapter, utterance, nil
}
