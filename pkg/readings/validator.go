package readings

import (
	"fmt"
	"strings"
)

// DefaultValidationThreshold separates trustworthy groupings from suspect
// ones when reporting validation confidence.
const DefaultValidationThreshold = 0.7

// ValidationResult describes how well an entry's layout-derived readings
// agree with the dictionary's readings for its headword.
type ValidationResult struct {
	Valid      bool
	Confidence float64
	Issues     []string
	Matched    []string
	Unmatched  []string
}

// Validator cross-checks OCR-grouped readings against resolver candidates.
type Validator struct {
	resolver *Resolver
}

// NewValidator wraps a resolver; the resolver may be in degraded mode.
func NewValidator(r *Resolver) *Validator {
	return &Validator{resolver: r}
}

// ValidateEntry scores the readings attributed to kanji. Without a
// dictionary backend everything passes at half confidence, since there is
// nothing to check against.
func (v *Validator) ValidateEntry(kanji string, readings []string) ValidationResult {
	if !v.resolver.Available() {
		return ValidationResult{
			Valid:      true,
			Confidence: 0.5,
			Issues:     []string{"dictionary not available for validation"},
		}
	}

	if len(readings) == 0 {
		return ValidationResult{
			Issues: []string{"no readings detected"},
		}
	}

	set := v.resolver.Lookup(kanji)
	valid := make([]string, 0, 2*(len(set.On)+len(set.Kun)))
	for _, r := range append(append([]string{}, set.On...), set.Kun...) {
		valid = append(valid, r, ToHiragana(r), ToKatakana(r))
	}

	var matched, unmatched []string
	for _, reading := range readings {
		clean := stripReadingPunct(reading)
		if readingMatches(clean, valid) {
			matched = append(matched, reading)
		} else {
			unmatched = append(unmatched, reading)
		}
	}

	res := ValidationResult{Matched: matched, Unmatched: unmatched}
	if len(matched) > 0 {
		res.Valid = true
		res.Confidence = float64(len(matched)) / float64(len(readings))
		if len(unmatched) > 0 {
			res.Issues = append(res.Issues, fmt.Sprintf("readings not in dictionary: %v", unmatched))
		}
	} else {
		res.Issues = append(res.Issues, "no valid readings found for this kanji")
	}
	return res
}

func readingMatches(reading string, valid []string) bool {
	for _, v := range valid {
		if reading == v || ToHiragana(reading) == v || ToKatakana(reading) == v {
			return true
		}
	}
	return false
}

// stripReadingPunct removes the punctuation OCR tends to capture around
// readings (parentheses, spaces, middle dot, prolonged sound mark).
func stripReadingPunct(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '(', ')', '（', '）', '　', ' ', '・', 'ー':
			return -1
		}
		return r
	}, s)
}
