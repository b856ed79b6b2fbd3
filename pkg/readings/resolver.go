// Package readings derives candidate on/kun readings for kanji headwords
// from a morphological dictionary, and validates layout-derived readings
// against those candidates.
package readings

import (
	"slices"
	"sort"
	"unicode/utf8"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Set holds the on/kun reading candidates for one headword. Both lists are
// deduplicated and sorted.
type Set struct {
	On  []string
	Kun []string
}

// Empty reports whether the set carries no readings at all.
func (s Set) Empty() bool { return len(s.On) == 0 && len(s.Kun) == 0 }

// FirstOn returns the first on-yomi candidate, or "".
func (s Set) FirstOn() string {
	if len(s.On) == 0 {
		return ""
	}
	return s.On[0]
}

// FirstKun returns the first kun-yomi candidate, or "".
func (s Set) FirstKun() string {
	if len(s.Kun) == 0 {
		return ""
	}
	return s.Kun[0]
}

// Morpheme is one analyzed unit from the morphological dictionary.
type Morpheme struct {
	Surface string
	Reading string // katakana as stored by the dictionary, "" when absent
	POS     string // primary part-of-speech label (e.g. 動詞)
}

// Tokenizer is the morphological dictionary contract the resolver needs.
type Tokenizer interface {
	Morphemes(text string) []Morpheme
}

// Part-of-speech labels used by the IPA dictionary.
const (
	posVerb      = "動詞"
	posAdjective = "形容詞"
)

// KagomeTokenizer backs the resolver with the kagome IPA dictionary.
type KagomeTokenizer struct {
	t *tokenizer.Tokenizer
}

// NewKagomeTokenizer loads the embedded IPA dictionary. The load is the
// one-time heavy cost; construct once and share.
func NewKagomeTokenizer() (*KagomeTokenizer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &KagomeTokenizer{t: t}, nil
}

// Morphemes implements Tokenizer.
func (k *KagomeTokenizer) Morphemes(text string) []Morpheme {
	tokens := k.t.Tokenize(text)
	var out []Morpheme
	for _, token := range tokens {
		if token.Class == tokenizer.DUMMY {
			continue
		}

		// IPA feature layout: 0 is the part of speech, 7 the reading.
		features := token.Features()
		m := Morpheme{Surface: token.Surface}
		if len(features) > 0 {
			m.POS = features[0]
		}
		if len(features) > 7 && features[7] != "*" {
			m.Reading = features[7]
		}
		out = append(out, m)
	}
	return out
}

// Resolver turns a headword into dictionary-derived reading candidates.
// A nil resolver or nil tokenizer is the degraded mode: lookups return
// empty sets instead of failing.
type Resolver struct {
	tok Tokenizer
}

// NewResolver builds a kagome-backed resolver.
func NewResolver() (*Resolver, error) {
	kt, err := NewKagomeTokenizer()
	if err != nil {
		return nil, err
	}
	return &Resolver{tok: kt}, nil
}

// NewResolverWith wraps an existing tokenizer; pass nil for the degraded
// mode.
func NewResolverWith(tok Tokenizer) *Resolver {
	return &Resolver{tok: tok}
}

// Available reports whether a dictionary backend is present.
func (r *Resolver) Available() bool {
	return r != nil && r.tok != nil
}

// Lookup tokenizes the headword and classifies each morpheme reading:
// kun-yomi when the part of speech is a verb or adjective AND the headword
// is a single character, on-yomi otherwise. On-yomi is normalized to
// katakana, kun-yomi to hiragana.
func (r *Resolver) Lookup(word string) Set {
	if !r.Available() {
		return Set{}
	}

	singleRune := utf8.RuneCountInString(word) == 1
	var on, kun []string
	for _, m := range r.tok.Morphemes(word) {
		if m.Reading == "" {
			continue
		}
		if singleRune && (m.POS == posVerb || m.POS == posAdjective) {
			kun = appendUnique(kun, ToHiragana(m.Reading))
		} else {
			on = appendUnique(on, ToKatakana(m.Reading))
		}
	}
	sort.Strings(on)
	sort.Strings(kun)
	return Set{On: on, Kun: kun}
}

func appendUnique(list []string, v string) []string {
	if slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}
