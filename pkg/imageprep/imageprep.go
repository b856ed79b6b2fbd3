// Package imageprep loads study-sheet photos and normalizes them for OCR.
package imageprep

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	_ "image/jpeg"
	_ "golang.org/x/image/webp"
)

// DefaultMaxDimension bounds the longest image side before OCR. Phone
// photos beyond this carry no extra legible detail and slow Tesseract down.
const DefaultMaxDimension = 2400

// SupportedExt reports whether path has a decodable image extension.
func SupportedExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	}
	return false
}

// Load reads and decodes the image at path.
func Load(path string) (image.Image, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	return Decode(data)
}

// Decode decodes JPEG, PNG, or WebP image bytes. The returned string is
// the detected format name.
func Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// Downscale shrinks img so its longest side is at most maxDimension,
// preserving aspect ratio. Images already within the bound, and any call
// with maxDimension <= 0, return img unchanged.
func Downscale(img image.Image, maxDimension int) image.Image {
	if maxDimension <= 0 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDimension && h <= maxDimension {
		return img
	}

	nw, nh := maxDimension, maxDimension
	if w >= h {
		nh = h * maxDimension / w
	} else {
		nw = w * maxDimension / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// EncodePNG renders img as PNG bytes for the OCR handoff.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
