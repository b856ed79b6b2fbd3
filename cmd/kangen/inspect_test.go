package main

import "testing"

func TestScriptTag(t *testing.T) {
	tests := []struct {
		name string
		rep  spanReport
		want string
	}{
		{"pure kanji", spanReport{HasKanji: true}, "kanji"},
		{"kanji wins over kana", spanReport{HasKanji: true, IsKana: true}, "kanji"},
		{"kana", spanReport{IsKana: true}, "kana"},
		{"latin", spanReport{IsLatin: true}, "latin"},
		{"mixed script", spanReport{}, "mixed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scriptTag(tt.rep); got != tt.want {
				t.Errorf("scriptTag(%+v) = %q, want %q", tt.rep, got, tt.want)
			}
		})
	}
}
