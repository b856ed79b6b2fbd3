package grouper

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/kangen/kangen/pkg/span"
)

// DefaultRadius is the pixel distance searched around each kanji anchor.
const DefaultRadius = 100

const (
	// Supporting text sits to the right of or below its headword on a study
	// sheet; neighbors to the upper-left beyond this slack are unrelated.
	// The slack absorbs OCR bounding-box jitter.
	directionalSlackPx = 30
	// |Δy| under this counts as "on the same line" for the tie-break.
	alignedBandPx = 20
)

// Proximity clusters spans around kanji anchors by pixel distance with a
// directional bias toward text right of or below the anchor.
type Proximity struct {
	Radius float64
}

// NewProximity returns a proximity strategy with the given radius in
// pixels; zero or negative selects DefaultRadius.
func NewProximity(radius float64) *Proximity {
	if radius <= 0 {
		radius = DefaultRadius
	}
	return &Proximity{Radius: radius}
}

// Name implements Strategy.
func (p *Proximity) Name() string { return "proximity" }

// Group builds one entry per anchor span, in input order. Anchors with
// coincident centers each run their own query; per-kanji deduplication is
// the deck's job, not ours.
func (p *Proximity) Group(spans []span.Span) []*Entry {
	if len(spans) == 0 {
		return nil
	}
	index := newPointIndex(spans)

	var entries []*Entry
	for i, s := range spans {
		headword, ok := anchorText(s)
		if !ok {
			continue
		}
		entry := NewEntry(headword, s)
		for _, j := range index.Within(s.Center, p.Radius) {
			if j == i {
				continue
			}
			neighbor := spans[j]
			if neighbor.Center.X < s.Center.X-directionalSlackPx &&
				neighbor.Center.Y < s.Center.Y-directionalSlackPx {
				continue
			}
			classifyNeighbor(entry, s, neighbor)
		}
		entries = append(entries, entry)
	}
	return entries
}

// anchorText reports whether the span qualifies as a headword anchor and
// returns its trimmed text. Anchors are 1-3 runes with at least one kanji;
// a single rune must itself be a kanji, longer anchors need kanji in at
// least half their runes. This rejects long kanji passages (example text)
// and mostly-kana spans with an incidental kanji.
func anchorText(s span.Span) (string, bool) {
	text := strings.TrimSpace(s.Text)
	n := utf8.RuneCountInString(text)
	if n < 1 || n > 3 {
		return "", false
	}
	k := span.CountKanji(text)
	if k == 0 {
		return "", false
	}
	if n == 1 {
		return text, k == 1
	}
	return text, float64(k) >= float64(n)/2
}

// classifyNeighbor routes one surviving neighbor span into the entry's
// readings, meanings or examples.
func classifyNeighbor(entry *Entry, anchor, neighbor span.Span) {
	text := strings.TrimSpace(neighbor.Text)
	if text == "" {
		return
	}

	switch {
	case neighbor.IsKana:
		entry.AddReading(text)
	case neighbor.IsLatin:
		entry.AddMeaning(text)
	case neighbor.HasKanji && utf8.RuneCountInString(text) > 3:
		entry.AddExample(text)
	default:
		// Mixed-script span: fall back to position relative to the anchor.
		dy := neighbor.Center.Y - anchor.Center.Y
		switch {
		case math.Abs(dy) < alignedBandPx && neighbor.Center.X > anchor.Center.X:
			if neighbor.IsKana {
				entry.AddReading(text)
			} else {
				entry.AddExample(text)
			}
		case dy > alignedBandPx:
			if neighbor.IsLatin {
				entry.AddMeaning(text)
			} else {
				entry.AddExample(text)
			}
		}
		// Neither beside nor below: dropped.
	}
}
