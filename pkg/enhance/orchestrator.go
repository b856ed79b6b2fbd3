package enhance

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/kangen/kangen/pkg/grouper"
	"github.com/kangen/kangen/pkg/readings"
)

const (
	// DefaultBatchSize covers a whole study sheet in one service call.
	DefaultBatchSize = 500

	// defaultRetryDelay is used when a rate-limit response carries no
	// usable delay of its own.
	defaultRetryDelay = 60 * time.Second

	// retrySlack is added on top of the service-suggested delay so the
	// retry lands safely past the quota window.
	retrySlack = 2 * time.Second
)

// Orchestrator drives enhancement for a run: it resolves dictionary
// readings, batches entries through the service, retries once on rate
// limits, and merges AI output with deterministic fallbacks.
//
// A nil Service means permanent fallback mode: every card is built from
// resolver readings and grouping-derived meanings alone.
type Orchestrator struct {
	Service   Service
	Resolver  *readings.Resolver
	BatchSize int
	Logger    *log.Logger

	// sleep is swapped out by tests; nil means a real timer.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewOrchestrator wires an orchestrator with the default batch size.
func NewOrchestrator(service Service, resolver *readings.Resolver) *Orchestrator {
	return &Orchestrator{
		Service:   service,
		Resolver:  resolver,
		BatchSize: DefaultBatchSize,
	}
}

// EnhanceAll produces one Card per surviving entry, in input order.
// Entries whose meaning is still empty after every fallback are dropped.
// The only returned error is context cancellation; service failures
// degrade the affected batch instead of aborting the run.
func (o *Orchestrator) EnhanceAll(ctx context.Context, entries []*grouper.Entry) ([]Card, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	sets := make([]readings.Set, len(entries))
	for i, e := range entries {
		sets[i] = o.Resolver.Lookup(e.Kanji)
	}

	size := o.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}

	cards := make([]Card, 0, len(entries))
	for start := 0; start < len(entries); start += size {
		end := start + size
		if end > len(entries) {
			end = len(entries)
		}

		reqs := make([]Request, 0, end-start)
		for i := start; i < end; i++ {
			reqs = append(reqs, Request{
				Kanji: entries[i].Kanji,
				On:    sets[i].On,
				Kun:   sets[i].Kun,
			})
		}

		results, err := o.enhanceBatch(ctx, reqs)
		if err != nil {
			return nil, err
		}

		for i := start; i < end; i++ {
			card, ok := o.merge(entries[i], sets[i], results[entries[i].Kanji])
			if !ok {
				o.logf("dropping %q: no meaning from any source", entries[i].Kanji)
				continue
			}
			cards = append(cards, card)
		}
	}
	return cards, nil
}

// enhanceBatch calls the service with one rate-limit retry. Any terminal
// failure returns a nil map, which downstream code reads as "no AI results
// for this batch". The error return is reserved for context cancellation.
func (o *Orchestrator) enhanceBatch(ctx context.Context, reqs []Request) (map[string]Fields, error) {
	if o.Service == nil {
		return nil, nil
	}

	results, err := o.Service.EnhanceBatch(ctx, reqs)
	if err == nil {
		return CleanFields(results), nil
	}

	var rle *RateLimitError
	if errors.As(err, &rle) {
		delay := rle.RetryAfter
		if delay <= 0 {
			delay = defaultRetryDelay
		}
		delay += retrySlack

		o.logf("rate limited, retrying batch of %d in %s", len(reqs), delay)
		if err := o.sleepFor(ctx, delay); err != nil {
			return nil, err
		}

		results, err = o.Service.EnhanceBatch(ctx, reqs)
		if err == nil {
			return CleanFields(results), nil
		}
	}

	o.logf("enhancement failed for batch of %d, using fallback: %v", len(reqs), err)
	return nil, nil
}

// merge builds the final card text for one entry. AI fields win; empty
// readings fall back to the first resolver candidate, an empty meaning to
// the grouping-derived meanings joined by spaces. ok is false when no
// source produced a meaning.
func (o *Orchestrator) merge(entry *grouper.Entry, set readings.Set, ai Fields) (Card, bool) {
	card := Card{
		Kanji:   entry.Kanji,
		Meaning: ai.Meaning,
		OnYomi:  ai.OnYomi,
		KunYomi: ai.KunYomi,
		Example: ai.Example,
	}
	if card.OnYomi == "" {
		card.OnYomi = set.FirstOn()
	}
	if card.KunYomi == "" {
		card.KunYomi = set.FirstKun()
	}
	if card.Meaning == "" {
		card.Meaning = strings.Join(entry.Meanings, " ")
	}
	if strings.TrimSpace(card.Meaning) == "" {
		return Card{}, false
	}
	return card, true
}

func (o *Orchestrator) sleepFor(ctx context.Context, d time.Duration) error {
	if o.sleep != nil {
		return o.sleep(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (o *Orchestrator) logf(format string, args ...any) {
	if o.Logger != nil {
		o.Logger.Printf(format, args...)
	}
}
