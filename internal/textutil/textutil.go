package textutil

import (
	"strings"
	"unicode"
)

// ScriptRatio returns the fraction of Han characters among the non-space runes
// of text. Returns 0 for text with no non-space runes.
func ScriptRatio(text string) float64 {
	var total, han int
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.Is(unicode.Han, r) {
			han++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(han) / float64(total)
}

// StripBracketed removes every 【…】 segment from a title. Unterminated
// brackets are left untouched.
func StripBracketed(title string) string {
	for {
		start := strings.Index(title, "【")
		if start < 0 {
			break
		}
		rest := title[start:]
		end := strings.Index(rest, "】")
		if end < 0 {
			break
		}
		title = title[:start] + rest[end+len("】"):]
	}
	return strings.TrimSpace(title)
}
