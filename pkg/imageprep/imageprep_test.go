package imageprep

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	return img
}

func TestSupportedExt(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"sheet.jpg", true},
		{"sheet.JPEG", true},
		{"sheet.png", true},
		{"sheet.webp", true},
		{"sheet.heic", false},
		{"sheet.txt", false},
		{"sheet", false},
	}
	for _, tt := range tests {
		if got := SupportedExt(tt.path); got != tt.want {
			t.Errorf("SupportedExt(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, testImage(80, 60)); err != nil {
		t.Fatal(err)
	}
	f.Close()

	img, format, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if format != "png" {
		t.Errorf("format = %q, want png", format)
	}
	if b := img.Bounds(); b.Dx() != 80 || b.Dy() != 60 {
		t.Errorf("bounds = %v, want 80x60", b)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, _, err := Decode([]byte("not an image at all")); err == nil {
		t.Error("Decode() = nil error for garbage input")
	}
}

func TestDownscale(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		maxDimension int
		wantW, wantH int
	}{
		{"landscape halved", 4800, 2400, 2400, 2400, 1200},
		{"portrait halved", 2400, 4800, 2400, 1200, 2400},
		{"non-integral ratio", 3000, 2000, 2400, 2400, 1600},
		{"square", 5000, 5000, 2400, 2400, 2400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Downscale(testImage(tt.w, tt.h), tt.maxDimension)
			b := got.Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("Downscale(%dx%d, %d) = %dx%d, want %dx%d",
					tt.w, tt.h, tt.maxDimension, b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestDownscaleLeavesSmallImagesAlone(t *testing.T) {
	src := testImage(800, 600)
	if got := Downscale(src, 2400); got != image.Image(src) {
		t.Error("Downscale() copied an image already within bounds")
	}
}

func TestDownscaleDisabled(t *testing.T) {
	src := testImage(4800, 2400)
	if got := Downscale(src, 0); got != image.Image(src) {
		t.Error("Downscale(0) should return the input unchanged")
	}
}

func TestEncodePNGDecodable(t *testing.T) {
	data, err := EncodePNG(testImage(32, 16))
	if err != nil {
		t.Fatalf("EncodePNG() error = %v", err)
	}
	img, format, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode(EncodePNG()) error = %v", err)
	}
	if format != "png" {
		t.Errorf("format = %q, want png", format)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 16 {
		t.Errorf("bounds = %v, want 32x16", b)
	}
}

func TestNopRectifier(t *testing.T) {
	src := testImage(10, 10)
	got, err := NopRectifier{}.Rectify(context.Background(), src)
	if err != nil {
		t.Fatalf("Rectify() error = %v", err)
	}
	if got != image.Image(src) {
		t.Error("NopRectifier changed the image")
	}
}
