// Package tesseract backs the ocr.Engine contract with the system
// Tesseract library via gosseract.
package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/kangen/kangen/pkg/ocr"
	"github.com/kangen/kangen/pkg/span"
)

// Engine detects word-level text spans with Tesseract. Construct once and
// reuse; each Detect call gets its own client, so the engine is safe for
// sequential multi-image runs.
type Engine struct {
	languages   []string
	tessdataDir string

	// clientFactory lets tests substitute a prepared client.
	clientFactory func() *gosseract.Client
}

// Option configures the engine.
type Option func(*Engine)

// WithLanguages sets the Tesseract language packs to load, in priority
// order. Default is jpn+eng.
func WithLanguages(langs ...string) Option {
	return func(e *Engine) {
		if len(langs) > 0 {
			e.languages = langs
		}
	}
}

// WithTessdataDir points Tesseract at a custom traineddata directory,
// e.g. one populated by EnsureTrainedData.
func WithTessdataDir(dir string) Option {
	return func(e *Engine) { e.tessdataDir = dir }
}

// New constructs a Tesseract-backed engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		languages:     []string{"jpn", "eng"},
		clientFactory: gosseract.NewClient,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements ocr.Engine.
func (e *Engine) Name() string { return "tesseract" }

// Detect implements ocr.Engine. It returns one detection per recognized
// word; study sheets have no reliable reading order, so sparse page
// segmentation is used and callers treat the result as an unordered cloud.
func (e *Engine) Detect(ctx context.Context, image []byte) ([]ocr.Detection, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	c := e.clientFactory()
	defer c.Close()

	if e.tessdataDir != "" {
		if err := c.SetTessdataPrefix(e.tessdataDir); err != nil {
			return nil, fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if err := c.SetLanguage(e.languages...); err != nil {
		return nil, fmt.Errorf("set languages: %w", err)
	}
	if err := c.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		return nil, fmt.Errorf("set page seg mode: %w", err)
	}
	if err := c.SetImageFromBytes(image); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("get bounding boxes: %w", err)
	}

	detections := make([]ocr.Detection, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		detections = append(detections, ocr.Detection{
			Box: span.Rect(
				float64(b.Box.Min.X), float64(b.Box.Min.Y),
				float64(b.Box.Max.X), float64(b.Box.Max.Y),
			),
			Text:       text,
			Confidence: b.Confidence / 100.0,
		})
	}
	return detections, nil
}
