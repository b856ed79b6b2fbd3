package imageprep

import (
	"context"
	"image"
)

// Rectifier straightens a photographed sheet before OCR. Implementations
// that cannot find a document outline should return the input image with a
// nil error; the pipeline treats rectification as best-effort.
type Rectifier interface {
	Rectify(ctx context.Context, img image.Image) (image.Image, error)
}

// NopRectifier passes images through untouched. It is the default when
// rectification is disabled.
type NopRectifier struct{}

// Rectify implements Rectifier.
func (NopRectifier) Rectify(_ context.Context, img image.Image) (image.Image, error) {
	return img, nil
}
