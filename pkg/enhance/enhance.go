// Package enhance turns grouped kanji entries into finished card text,
// preferring an AI service but never depending on one.
package enhance

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Request is one kanji submitted for enhancement, with the dictionary
// reading candidates the service must choose from.
type Request struct {
	Kanji string
	On    []string
	Kun   []string
}

// Fields is what a service produced for one kanji. Any field may be empty.
type Fields struct {
	Meaning string
	OnYomi  string
	KunYomi string
	Example string
}

// Card is the final text for one deck entry.
type Card struct {
	Kanji   string
	Meaning string
	OnYomi  string
	KunYomi string
	Example string
}

// Service enhances a batch of kanji in one call. The returned map is keyed
// by kanji; missing keys mean the service had nothing for that character.
// Rate-limit failures are reported as *RateLimitError.
type Service interface {
	EnhanceBatch(ctx context.Context, reqs []Request) (map[string]Fields, error)
}

// RateLimitError signals that the service refused the batch and suggested
// when to retry. RetryAfter is zero when no delay was supplied.
type RateLimitError struct {
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// sentinel strings some services emit instead of leaving a field empty.
var sentinelValues = []string{"none", "(none)", "n/a", "null"}

// CleanField trims s and collapses the usual "no value" sentinels to the
// empty string.
func CleanField(s string) string {
	trimmed := strings.TrimSpace(s)
	lower := strings.ToLower(trimmed)
	for _, sentinel := range sentinelValues {
		if lower == sentinel {
			return ""
		}
	}
	return trimmed
}

// CleanFields applies CleanField to every field of every result.
func CleanFields(results map[string]Fields) map[string]Fields {
	cleaned := make(map[string]Fields, len(results))
	for kanji, f := range results {
		cleaned[kanji] = Fields{
			Meaning: CleanField(f.Meaning),
			OnYomi:  CleanField(f.OnYomi),
			KunYomi: CleanField(f.KunYomi),
			Example: CleanField(f.Example),
		}
	}
	return cleaned
}
