package corpus

import (
	"errors"
	"testing"
)

func TestParseID(t *testing.T) {
	id, err := ParseID("10107_10054_000001")
	if err != nil {
		t.Fatalf("ParseID: %v", err)
	}
	if id.Speaker != "10107" || id.Chapter != "10054" || id.Utterance != "000001" {
		t.Fatalf("unexpected components: %+v", id)
	}
	if id.String() != "10107_10054_000001" {
		t.Fatalf("String round trip: %q", id.String())
	}
}

func TestParseIDPreservesLeadingZeros(t *testing.T) {
	id, err := ParseID("007_08_09")
	if err != nil {
		t.Fatalf("ParseID: %v", err)
	}
	if id.String() != "007_08_09" {
		t.Fatalf("identifier must stay verbatim, got %q", id.String())
	}
	speaker, chapter, utterance, err := id.Ints()
	if err != nil {
		t.Fatalf("Ints: %v", err)
	}
	if speaker != 7 || chapter != 8 || utterance != 9 {
		t.Fatalf("unexpected numeric view: %d %d %d", speaker, chapter, utterance)
	}
}

func TestParseIDRejectsWrongArity(t *testing.T) {
	for _, raw := range []string{"", "1", "1_2", "1_2_3_4"} {
		if _, err := ParseID(raw); !errors.Is(err, ErrMalformedIdentifier) {
			t.Fatalf("ParseID(%q): expected ErrMalformedIdentifier, got %v", raw, err)
		}
	}
}

func TestIntsRejectsNonNumeric(t *testing.T) {
	id := ID{Speaker: "a", Chapter: "2", Utterance: "3"}
	if _, _, _, err := id.Ints(); !errors.Is(err, ErrMalformedIdentifier) {
		t.Fatalf("expected ErrMalformedIdentifier, got %v", err)
	}
}

func TestParseSplit(t *testing.T) {
	if _, err := ParseSplit("train"); err != nil {
		t.Fatalf("ParseSplit(train): %v", err)
	}
	if _, err := ParseSplit("validation"); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for unknown split, got %v", err)
	}
}
