package readings

// Katakana/hiragana conversion is a fixed code-point offset: the kana
// blocks are parallel, shifted by 0x60. Only the letter ranges are mapped;
// the prolonged sound mark, middle dot and anything non-kana pass through.

// ToHiragana converts katakana letters to hiragana.
func ToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}

// ToKatakana converts hiragana letters to katakana.
func ToKatakana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x3041 && r <= 0x3096 {
			runes[i] = r + 0x60
		}
	}
	return string(runes)
}
