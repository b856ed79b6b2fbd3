package ocr

import (
	"testing"

	"github.com/kangen/kangen/pkg/span"
)

func TestSpansFiltersByConfidence(t *testing.T) {
	detections := []Detection{
		{Box: span.Rect(0, 0, 40, 40), Text: "食", Confidence: 0.91},
		{Box: span.Rect(60, 0, 100, 40), Text: "noise", Confidence: 0.12},
		{Box: span.Rect(120, 0, 160, 40), Text: "たべる", Confidence: 0.5},
	}

	spans := Spans(detections, 0.5)
	if len(spans) != 2 {
		t.Fatalf("Spans() kept %d spans, want 2", len(spans))
	}
	if spans[0].Text != "食" || spans[1].Text != "たべる" {
		t.Errorf("Spans() kept %q and %q, want 食 and たべる", spans[0].Text, spans[1].Text)
	}
}

func TestSpansClassifiesText(t *testing.T) {
	detections := []Detection{
		{Box: span.Rect(0, 0, 40, 40), Text: "学校", Confidence: 0.9},
	}

	spans := Spans(detections, 0.0)
	if len(spans) != 1 {
		t.Fatalf("Spans() returned %d spans, want 1", len(spans))
	}
	s := spans[0]
	if !s.HasKanji {
		t.Errorf("HasKanji = false for %q, want true", s.Text)
	}
	if s.IsKana || s.IsLatin {
		t.Errorf("IsKana = %v, IsLatin = %v for %q, want both false", s.IsKana, s.IsLatin, s.Text)
	}
	if s.Center.X != 20 || s.Center.Y != 20 {
		t.Errorf("Center = (%v, %v), want (20, 20)", s.Center.X, s.Center.Y)
	}
}

func TestSpansEmptyInput(t *testing.T) {
	if spans := Spans(nil, 0.5); len(spans) != 0 {
		t.Errorf("Spans(nil) returned %d spans, want 0", len(spans))
	}
}
