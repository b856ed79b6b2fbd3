// Package ocr defines the text-detection contract the pipeline consumes.
// Engines are black boxes returning positioned text; everything linguistic
// happens downstream.
package ocr

import (
	"context"

	"github.com/kangen/kangen/pkg/span"
)

// Detection is one raw text region from an engine, before confidence
// filtering.
type Detection struct {
	Box        span.Polygon
	Text       string
	Confidence float64 // in [0,1]
}

// Engine runs text detection over an encoded image.
type Engine interface {
	Name() string
	Detect(ctx context.Context, image []byte) ([]Detection, error)
}

// Spans drops detections below minConfidence and classifies the rest.
func Spans(detections []Detection, minConfidence float64) []span.Span {
	var spans []span.Span
	for _, d := range detections {
		if d.Confidence >= minConfidence {
			spans = append(spans, span.New(d.Box, d.Text, d.Confidence))
		}
	}
	return spans
}
