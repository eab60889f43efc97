package ranking

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Matcher decides whether a keyword occurs in a text. The zero value is
// plain case-sensitive substring containment.
type Matcher struct {
	FoldCase     bool
	WordBoundary bool
}

// Prepare normalizes text once so it can be tested against many keywords.
func (m Matcher) Prepare(text string) string {
	if m.FoldCase {
		return strings.ToLower(text)
	}
	return text
}

// Contains reports whether word occurs in a text returned by Prepare.
func (m Matcher) Contains(prepared, word string) bool {
	if word == "" {
		return false
	}
	if m.FoldCase {
		word = strings.ToLower(word)
	}
	if !m.WordBoundary {
		return strings.Contains(prepared, word)
	}
	for offset := 0; offset <= len(prepared); {
		i := strings.Index(prepared[offset:], word)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(word)
		if boundaryBefore(prepared, start) && boundaryAfter(prepared, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(prepared[start:])
		offset = start + size
	}
	return false
}

// ContainsAny reports whether any of words occurs in prepared.
func (m Matcher) ContainsAny(prepared string, words []string) bool {
	for _, w := range words {
		if m.Contains(prepared, w) {
			return true
		}
	}
	return false
}

// CountDistinct counts the entries of words that occur in prepared.
func (m Matcher) CountDistinct(prepared string, words []string) int {
	n := 0
	for _, w := range words {
		if m.Contains(prepared, w) {
			n++
		}
	}
	return n
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
