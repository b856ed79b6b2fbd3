package grouper

import "github.com/kangen/kangen/pkg/span"

// UniqueKanji is the layout-agnostic strategy: every distinct kanji
// character across all spans becomes its own entry, anchored at the span
// where it first appeared. Entry lists stay empty; readings and meanings
// come entirely from the dictionary and the enhancement service, which
// makes this mode work on any image, not just tabular study sheets.
type UniqueKanji struct{}

// Name implements Strategy.
func (UniqueKanji) Name() string { return "unique" }

// Group implements Strategy.
func (UniqueKanji) Group(spans []span.Span) []*Entry {
	seen := make(map[rune]bool)
	var entries []*Entry
	for _, s := range spans {
		for _, r := range s.Text {
			if span.IsKanjiRune(r) && !seen[r] {
				seen[r] = true
				entries = append(entries, NewEntry(string(r), s))
			}
		}
	}
	return entries
}
