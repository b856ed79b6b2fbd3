// Package grouper decides which OCR spans are "about" which kanji.
//
// Two strategies coexist: the proximity strategy clusters supporting text
// around kanji anchors using pixel distance and layout direction, while the
// unique-kanji strategy ignores layout entirely and emits one entry per
// distinct kanji character. Both produce the same Entry shape, so the rest
// of the pipeline does not care which one ran.
package grouper

import (
	"fmt"

	"github.com/kangen/kangen/pkg/span"
)

// Strategy turns classified spans into kanji entries.
type Strategy interface {
	Name() string
	Group(spans []span.Span) []*Entry
}

// ForName returns the strategy registered under name. The empty string
// selects the proximity strategy.
func ForName(name string, radius float64) (Strategy, error) {
	switch name {
	case "", "proximity":
		return NewProximity(radius), nil
	case "unique":
		return UniqueKanji{}, nil
	default:
		return nil, fmt.Errorf("unknown grouping strategy %q", name)
	}
}
