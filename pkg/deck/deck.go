// Package deck accumulates validated, deduplicated cards and saves them
// as an Anki package.
package deck

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/kangen/kangen/pkg/anki"
)

var ErrEmptyDeck = &EmptyDeckError{"no cards were added to the deck"}

type EmptyDeckError struct{ msg string }

func (e *EmptyDeckError) Error() string { return e.msg }

// Statistics summarizes a build run.
type Statistics struct {
	Created        int
	Skipped        int
	TotalProcessed int
}

// Builder collects cards across source images. Kanji uniqueness is global
// to the builder, so a character carded from one image is skipped when a
// later image yields it again. AddCard is the pipeline's only cross-image
// synchronization point and is safe for concurrent use.
type Builder struct {
	Logger *log.Logger

	mu      sync.Mutex
	pkg     *anki.Package
	seen    map[string]struct{}
	created int
	skipped int
}

// NewBuilder creates an empty builder writing to the given deck and model.
func NewBuilder(d anki.Deck, m anki.Model) *Builder {
	return &Builder{
		pkg:  anki.NewPackage(d, m),
		seen: make(map[string]struct{}),
	}
}

// AddCard validates and records one card. It rejects cards with a blank
// kanji or meaning and kanji already in the deck; rejections bump the
// skip counter and leave the dedup set untouched.
func (b *Builder) AddCard(kanji, meaning, onYomi, kunYomi, example string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := strings.TrimSpace(kanji)
	if key == "" {
		b.logf("skipping card: no kanji provided")
		b.skipped++
		return false
	}
	if strings.TrimSpace(meaning) == "" {
		b.logf("skipping card for %q: no meaning provided", key)
		b.skipped++
		return false
	}
	if _, dup := b.seen[key]; dup {
		b.logf("skipping duplicate kanji %q", key)
		b.skipped++
		return false
	}

	err := b.pkg.AddNote(key,
		strings.TrimSpace(meaning),
		strings.TrimSpace(onYomi),
		strings.TrimSpace(kunYomi),
		strings.TrimSpace(example))
	if err != nil {
		b.logf("skipping card for %q: %v", key, err)
		b.skipped++
		return false
	}

	b.seen[key] = struct{}{}
	b.created++
	return true
}

// Save writes the accumulated deck to path. An empty deck returns
// ErrEmptyDeck; serialization failures leave the counters untouched so a
// summary can still be reported.
func (b *Builder) Save(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.created == 0 {
		return ErrEmptyDeck
	}
	if err := b.pkg.WriteFile(path); err != nil {
		return fmt.Errorf("save deck: %w", err)
	}
	return nil
}

// Statistics reports the counters accumulated so far.
func (b *Builder) Statistics() Statistics {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Statistics{
		Created:        b.created,
		Skipped:        b.skipped,
		TotalProcessed: b.created + b.skipped,
	}
}

func (b *Builder) logf(format string, args ...any) {
	if b.Logger != nil {
		b.Logger.Printf(format, args...)
	}
}
