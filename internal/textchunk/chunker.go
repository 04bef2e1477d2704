// Package textchunk splits long replies into word-aligned pieces small enough
// for a single speech synthesis request.
package textchunk

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxChars is the largest text a single Murf request accepts
const DefaultMaxChars = 3000

// Split tokenizes text on whitespace and greedily packs the words into chunks
// joined by single spaces. A chunk is closed as soon as the next word would
// push it past maxChars. A single word longer than maxChars is emitted as its
// own chunk and never split. Lengths are counted in runes.
func Split(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	chunks := make([]string, 0)
	var current strings.Builder
	currentLen := 0

	for _, word := range strings.Fields(text) {
		wordLen := utf8.RuneCountInString(word)

		if currentLen > 0 && currentLen+1+wordLen > maxChars {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}

		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(word)
		currentLen += wordLen
	}

	if currentLen > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}
