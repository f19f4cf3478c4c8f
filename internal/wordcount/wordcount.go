package wordcount

import (
	"strings"
	"time"
	"unicode"
)

// DefaultWordsPerMinute is the reading speed used when none is configured.
const DefaultWordsPerMinute = 200

// Stats is the per-script breakdown of a word count.
type Stats struct {
	Latin int `json:"latin"`
	Han   int `json:"han"`
	Total int `json:"words"`
}

// Count returns the length metric for text: Latin-word tokens plus Han characters.
func Count(text string) int {
	return Latin(text) + Han(text)
}

// Breakdown returns both sub-counts and their sum.
func Breakdown(text string) Stats {
	latin, han := Latin(text), Han(text)
	return Stats{Latin: latin, Han: han, Total: latin + han}
}

// Latin counts space-delimited word tokens. Anything that is not a word rune or
// a hyphen acts as a separator, so "hello-world" and "a_b" are single tokens.
func Latin(text string) int {
	cleaned := strings.Map(func(r rune) rune {
		if isWordRune(r) || r == '-' {
			return r
		}
		return ' '
	}, text)

	n := 0
	for _, tok := range strings.Fields(cleaned) {
		switch strings.TrimSpace(tok) {
		case "", "-", "_":
			continue
		}
		n++
	}
	return n
}

// Han counts runes in the Han script. Each ideograph is one word.
func Han(text string) int {
	n := 0
	for _, r := range text {
		if unicode.Is(unicode.Han, r) {
			n++
		}
	}
	return n
}

// isWordRune is deliberately disjoint from unicode.Han.
func isWordRune(r rune) bool {
	switch {
	case r == '_':
		return true
	case r >= '0' && r <= '9':
		return true
	case r < unicode.MaxASCII:
		return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
	}
	return unicode.Is(unicode.Latin, r)
}

// ReadingTime estimates how long words take to read, rounded up to whole minutes.
func ReadingTime(words, wpm int) time.Duration {
	if words <= 0 {
		return 0
	}
	if wpm <= 0 {
		wpm = DefaultWordsPerMinute
	}
	minutes := (words + wpm - 1) / wpm
	return time.Duration(minutes) * time.Minute
}
