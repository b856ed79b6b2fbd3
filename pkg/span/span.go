package span

import "strings"

// Unicode ranges for Japanese script detection.
const (
	kanjiStart    = '一'
	kanjiEnd      = '鿿'
	hiraganaStart = '぀'
	hiraganaEnd   = 'ゟ'
	katakanaStart = '゠'
	katakanaEnd   = 'ヿ'
)

// kanaExtras are punctuation/space characters that commonly appear inside
// kana runs (prolonged sound mark, middle dot, full-width space, parentheses)
// and should not disqualify a span from being kana.
const kanaExtras = "ー・　 ()（）"

// Point is a pixel coordinate in image space.
type Point struct {
	X float64
	Y float64
}

// Polygon is a 4-point bounding polygon as returned by the OCR engine,
// ordered top-left, top-right, bottom-right, bottom-left.
type Polygon [4]Point

// Center returns the centroid of the polygon.
func (p Polygon) Center() Point {
	var sx, sy float64
	for _, pt := range p {
		sx += pt.X
		sy += pt.Y
	}
	return Point{X: sx / 4, Y: sy / 4}
}

// Rect builds an axis-aligned polygon from two corner coordinates.
func Rect(x0, y0, x1, y1 float64) Polygon {
	return Polygon{
		{X: x0, Y: y0},
		{X: x1, Y: y0},
		{X: x1, Y: y1},
		{X: x0, Y: y1},
	}
}

// Span is one OCR-detected text region with position, confidence and
// derived script classification. Immutable after construction.
type Span struct {
	Text       string
	Box        Polygon
	Confidence float64
	Center     Point

	// Script flags are computed independently and are not exclusive:
	// mixed-script text may set none of them.
	HasKanji bool
	IsKana   bool
	IsLatin  bool
}

// New builds a classified Span from raw OCR output.
func New(box Polygon, text string, confidence float64) Span {
	return Span{
		Text:       text,
		Box:        box,
		Confidence: confidence,
		Center:     box.Center(),
		HasKanji:   ContainsKanji(text),
		IsKana:     IsKanaOnly(text),
		IsLatin:    IsLatinOnly(text),
	}
}

// ContainsKanji reports whether any rune falls in the CJK Unified
// Ideographs range.
func ContainsKanji(text string) bool {
	for _, r := range text {
		if r >= kanjiStart && r <= kanjiEnd {
			return true
		}
	}
	return false
}

// IsKanaOnly reports whether every rune is hiragana, katakana, or one of
// the whitelisted in-text punctuation characters. Empty and space-only
// strings count as kana.
func IsKanaOnly(text string) bool {
	for _, r := range text {
		if r >= hiraganaStart && r <= hiraganaEnd {
			continue
		}
		if r >= katakanaStart && r <= katakanaEnd {
			continue
		}
		if strings.ContainsRune(kanaExtras, r) {
			continue
		}
		return false
	}
	return true
}

// IsLatinOnly reports whether every rune is 7-bit ASCII.
func IsLatinOnly(text string) bool {
	for _, r := range text {
		if r >= 0x80 {
			return false
		}
	}
	return true
}

// IsKanjiRune reports whether a single rune is a kanji.
func IsKanjiRune(r rune) bool {
	return r >= kanjiStart && r <= kanjiEnd
}

// CountKanji returns the number of kanji runes in text.
func CountKanji(text string) int {
	n := 0
	for _, r := range text {
		if r >= kanjiStart && r <= kanjiEnd {
			n++
		}
	}
	return n
}
