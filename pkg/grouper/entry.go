package grouper

import (
	"slices"

	"github.com/kangen/kangen/pkg/span"
)

// Entry is one kanji headword extracted from an image, together with the
// nearby text attributed to it. Readings, meanings and examples are
// order-preserving sets: re-adding an existing value is a no-op.
type Entry struct {
	Kanji      string
	Anchor     span.Span
	Confidence float64
	Readings   []string
	Meanings   []string
	Examples   []string
}

// NewEntry creates an entry anchored at the given span.
func NewEntry(kanji string, anchor span.Span) *Entry {
	return &Entry{
		Kanji:      kanji,
		Anchor:     anchor,
		Confidence: anchor.Confidence,
	}
}

// AddReading appends a candidate reading unless already present.
func (e *Entry) AddReading(text string) {
	if !slices.Contains(e.Readings, text) {
		e.Readings = append(e.Readings, text)
	}
}

// AddMeaning appends a candidate meaning unless already present.
func (e *Entry) AddMeaning(text string) {
	if !slices.Contains(e.Meanings, text) {
		e.Meanings = append(e.Meanings, text)
	}
}

// AddExample appends an example snippet unless already present.
func (e *Entry) AddExample(text string) {
	if !slices.Contains(e.Examples, text) {
		e.Examples = append(e.Examples, text)
	}
}
