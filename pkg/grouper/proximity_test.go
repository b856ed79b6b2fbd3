package grouper

import (
	"testing"

	"github.com/kangen/kangen/pkg/span"
)

// spanAt builds a classified span whose center lands on (x, y).
func spanAt(text string, x, y float64) span.Span {
	return span.New(span.Rect(x-10, y-10, x+10, y+10), text, 0.9)
}

func TestAnchorSelection(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"single kanji", "学", true},
		{"two kanji compound", "学校", true},
		{"kanji below half", "学べる", false}, // 1 kanji of 3 runes, 1 < 1.5
		{"half kanji", "売り", true},          // 1 of 2, 1 >= 1
		{"three kanji", "図書館", true},
		{"two of three kanji", "勉強中", true},
		{"four runes", "受け入れ", false},
		{"single kana", "が", false},
		{"pure kana", "がっこう", false},
		{"latin", "eat", false},
		{"whitespace padded kanji", " 学 ", true},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got := anchorText(spanAt(tt.text, 0, 0))
			if got != tt.want {
				t.Errorf("anchorText(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestDirectionalBias(t *testing.T) {
	// Neighbor strictly up-left beyond the slack is cut; crossing either
	// axis of the slack keeps it.
	anchor := spanAt("学", 200, 200)

	excluded := spanAt("がく", 150, 150) // x < 170 and y < 170
	included := spanAt("がく", 190, 150) // x >= 170 rescues it

	g := NewProximity(100)

	entries := g.Group([]span.Span{anchor, excluded})
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if len(entries[0].Readings) != 0 {
		t.Errorf("up-left neighbor should be excluded, got readings %v", entries[0].Readings)
	}

	entries = g.Group([]span.Span{anchor, included})
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if len(entries[0].Readings) != 1 || entries[0].Readings[0] != "がく" {
		t.Errorf("neighbor within slack should be a reading, got %v", entries[0].Readings)
	}
}

func TestGroupStudySheetRow(t *testing.T) {
	// A typical row: headword, reading to its right, meaning below.
	spans := []span.Span{
		spanAt("学校", 100, 100),
		spanAt("がっこう", 140, 100),
		spanAt("school", 100, 140),
	}

	entries := NewProximity(100).Group(spans)
	if len(entries) != 1 {
		t.Fatalf("expected exactly 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Kanji != "学校" {
		t.Errorf("anchor = %q, want 学校", e.Kanji)
	}
	if len(e.Readings) != 1 || e.Readings[0] != "がっこう" {
		t.Errorf("readings = %v, want [がっこう]", e.Readings)
	}
	if len(e.Meanings) != 1 || e.Meanings[0] != "school" {
		t.Errorf("meanings = %v, want [school]", e.Meanings)
	}
	if len(e.Examples) != 0 {
		t.Errorf("examples = %v, want none", e.Examples)
	}
}

func TestLongKanjiSpanBecomesExample(t *testing.T) {
	spans := []span.Span{
		spanAt("食", 100, 100),
		spanAt("食べ物を食べる", 160, 100),
	}
	entries := NewProximity(100).Group(spans)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if len(entries[0].Examples) != 1 || entries[0].Examples[0] != "食べ物を食べる" {
		t.Errorf("examples = %v, want the long kanji span", entries[0].Examples)
	}
}

func TestCoincidentAnchorsEachGetAnEntry(t *testing.T) {
	// Two anchors sharing a bounding box still produce two independent
	// entries, and each sees the other's neighbors.
	spans := []span.Span{
		spanAt("食", 100, 100),
		spanAt("飲", 100, 100),
		spanAt("たべる", 150, 100),
	}
	entries := NewProximity(100).Group(spans)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries for coincident anchors, got %d", len(entries))
	}
	for _, e := range entries {
		if len(e.Readings) != 1 || e.Readings[0] != "たべる" {
			t.Errorf("entry %q readings = %v, want [たべる]", e.Kanji, e.Readings)
		}
	}
}

func TestNeighborOutsideRadiusIgnored(t *testing.T) {
	spans := []span.Span{
		spanAt("学", 100, 100),
		spanAt("がく", 100, 250), // 150px away
	}
	entries := NewProximity(100).Group(spans)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if len(entries[0].Readings) != 0 {
		t.Errorf("out-of-radius neighbor leaked in: %v", entries[0].Readings)
	}
}

func TestMixedSpanTieBreak(t *testing.T) {
	// "yasみ" mixes latin and kana, so no script case claims it and it
	// falls through to the positional tie-break.
	anchor := spanAt("休", 100, 100)

	beside := spanAt("yasみ", 150, 105) // same line, to the right -> example
	below := spanAt("yasみ", 100, 160)  // clearly below, not latin -> example
	upRight := spanAt("yasみ", 150, 60) // above: neither band -> dropped

	g := NewProximity(100)

	e := g.Group([]span.Span{anchor, beside})[0]
	if len(e.Examples) != 1 {
		t.Errorf("beside: examples = %v, want one", e.Examples)
	}

	e = g.Group([]span.Span{anchor, below})[0]
	if len(e.Examples) != 1 {
		t.Errorf("below: examples = %v, want one", e.Examples)
	}

	e = g.Group([]span.Span{anchor, upRight})[0]
	if len(e.Examples) != 0 || len(e.Readings) != 0 || len(e.Meanings) != 0 {
		t.Errorf("up-right mixed span should be dropped, got %+v", e)
	}
}

func TestEntryListsAreOrderedUnique(t *testing.T) {
	e := NewEntry("食", spanAt("食", 0, 0))
	e.AddReading("たべる")
	e.AddReading("ショク")
	e.AddReading("たべる")
	if len(e.Readings) != 2 {
		t.Fatalf("readings = %v, want 2 unique values", e.Readings)
	}
	if e.Readings[0] != "たべる" || e.Readings[1] != "ショク" {
		t.Errorf("insertion order not preserved: %v", e.Readings)
	}
}

func TestUniqueKanjiStrategy(t *testing.T) {
	spans := []span.Span{
		spanAt("受け入れる", 10, 10),
		spanAt("教会", 200, 10),
		spanAt("がっこう", 300, 10),
		spanAt("受験", 400, 10), // 受 already seen
	}

	entries := UniqueKanji{}.Group(spans)

	want := []string{"受", "入", "教", "会", "験"}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, e := range entries {
		if e.Kanji != want[i] {
			t.Errorf("entry %d = %q, want %q", i, e.Kanji, want[i])
		}
		if len(e.Readings) != 0 || len(e.Meanings) != 0 {
			t.Errorf("unique mode should leave lists empty, got %+v", e)
		}
	}

	// First-occurrence anchor is kept.
	if entries[0].Anchor.Text != "受け入れる" {
		t.Errorf("anchor span = %q, want the first span containing 受", entries[0].Anchor.Text)
	}
}

func TestForName(t *testing.T) {
	s, err := ForName("proximity", 80)
	if err != nil {
		t.Fatalf("ForName(proximity): %v", err)
	}
	if p, ok := s.(*Proximity); !ok || p.Radius != 80 {
		t.Errorf("expected Proximity with radius 80, got %#v", s)
	}

	if s, err = ForName("unique", 0); err != nil || s.Name() != "unique" {
		t.Errorf("ForName(unique) = %v, %v", s, err)
	}

	if _, err = ForName("rows", 0); err == nil {
		t.Error("expected error for unknown strategy name")
	}
}
