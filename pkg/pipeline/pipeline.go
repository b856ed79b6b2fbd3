// Package pipeline runs the photo-to-deck flow: load, rectify, OCR,
// group, resolve, enhance, and card assembly over a set of images.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/kangen/kangen/pkg/deck"
	"github.com/kangen/kangen/pkg/enhance"
	"github.com/kangen/kangen/pkg/grouper"
	"github.com/kangen/kangen/pkg/imageprep"
	"github.com/kangen/kangen/pkg/ocr"
)

var (
	ErrNoImages = &PipelineError{"no input images found"}
	ErrNoText   = &PipelineError{"no text detected in any image"}
)

type PipelineError struct{ msg string }

func (e *PipelineError) Error() string { return e.msg }

// Summary is reported after every run, partial failures included.
type Summary struct {
	Images  int // images fully processed
	Failed  int // images skipped after load or OCR failure
	Spans   int // text spans above the confidence floor
	Entries int // grouped kanji entries
	Cards   int // cards surviving enhancement
	Deck    deck.Statistics
}

// Runner wires the pipeline stages. OCR, Strategy, Enhancer, and Deck are
// required; Rectifier and Logger are optional.
type Runner struct {
	OCR       ocr.Engine
	Rectifier imageprep.Rectifier
	Strategy  grouper.Strategy
	Enhancer  *enhance.Orchestrator
	Deck      *deck.Builder

	MinConfidence float64
	MaxDimension  int
	Logger        *log.Logger
}

// ExpandPaths resolves the command-line inputs to image files. Directories
// contribute their image entries (non-recursive); explicitly named files
// are taken as-is, so a bad one surfaces later as a per-image failure.
func ExpandPaths(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() || !imageprep.SupportedExt(e.Name()) {
				continue
			}
			files = append(files, filepath.Join(p, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, ErrNoImages
	}
	return files, nil
}

// Run processes the images sequentially against the shared deck builder.
// A Summary is returned even on error so callers can always report what
// happened. The error is ErrNoImages, ErrNoText, or context cancellation;
// single-image failures are counted and logged instead.
func (r *Runner) Run(ctx context.Context, paths []string) (*Summary, error) {
	files, err := ExpandPaths(paths)
	if err != nil {
		return &Summary{}, err
	}

	summary := &Summary{}
	for _, file := range files {
		select {
		case <-ctx.Done():
			summary.Deck = r.Deck.Statistics()
			return summary, ctx.Err()
		default:
		}

		if err := r.processImage(ctx, file, summary); err != nil {
			if ctx.Err() != nil {
				summary.Deck = r.Deck.Statistics()
				return summary, ctx.Err()
			}
			r.logf("skipping %s: %v", file, err)
			summary.Failed++
			continue
		}
		summary.Images++
	}

	summary.Deck = r.Deck.Statistics()
	if summary.Spans == 0 {
		return summary, ErrNoText
	}
	return summary, nil
}

func (r *Runner) processImage(ctx context.Context, path string, summary *Summary) error {
	img, _, err := imageprep.Load(path)
	if err != nil {
		return err
	}

	if r.Rectifier != nil {
		rectified, err := r.Rectifier.Rectify(ctx, img)
		if err != nil {
			// Recoverable: OCR the photo as shot.
			r.logf("rectification failed for %s, using original: %v", path, err)
		} else {
			img = rectified
		}
	}

	img = imageprep.Downscale(img, r.MaxDimension)
	encoded, err := imageprep.EncodePNG(img)
	if err != nil {
		return err
	}

	detections, err := r.OCR.Detect(ctx, encoded)
	if err != nil {
		return fmt.Errorf("ocr: %w", err)
	}

	spans := ocr.Spans(detections, r.MinConfidence)
	summary.Spans += len(spans)
	if len(spans) == 0 {
		r.logf("no text found in %s", path)
		return nil
	}

	entries := r.Strategy.Group(spans)
	summary.Entries += len(entries)

	cards, err := r.Enhancer.EnhanceAll(ctx, entries)
	if err != nil {
		return err
	}
	summary.Cards += len(cards)

	for _, c := range cards {
		r.Deck.AddCard(c.Kanji, c.Meaning, c.OnYomi, c.KunYomi, c.Example)
	}
	return nil
}

func (r *Runner) logf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
	}
}
