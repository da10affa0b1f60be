package profanity

import (
	_ "embed"
	"strings"
	"unicode"
)

//go:embed wordlist.txt
var defaultWordList string

// Lexicon decides whether a single whitespace-delimited token counts as
// profanity. Implementations receive the raw token and apply their own
// normalization.
type Lexicon interface {
	IsProfane(token string) bool
}

// WordList is a Lexicon backed by an in-memory word set. Matching is exact
// whole-token membership after normalization (lowercasing plus stripping of
// leading and trailing punctuation), never substring search, so "classic"
// does not trip on "ass".
type WordList struct {
	words map[string]struct{}
}

// NewWordList builds a WordList from the embedded default list.
func NewWordList() *WordList {
	return NewWordListFrom(parseWordList(defaultWordList))
}

// NewWordListFrom builds a WordList from the given words. Entries are
// lowercased; empty entries are dropped.
func NewWordListFrom(words []string) *WordList {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return &WordList{words: set}
}

// IsProfane reports whether the token's normalized form is in the list.
func (l *WordList) IsProfane(token string) bool {
	normalized := normalizeToken(token)
	if normalized == "" {
		return false
	}
	_, ok := l.words[normalized]
	return ok
}

// Len returns the number of distinct words in the list.
func (l *WordList) Len() int {
	return len(l.words)
}

// normalizeToken lowercases the token and trims leading/trailing runes that
// are neither letters nor digits, so "Damn!" and `"damn"` both resolve to
// "damn". Interior punctuation is kept: a masked token like "d*mn" is not
// treated as a list word.
func normalizeToken(token string) string {
	trimmed := strings.TrimFunc(token, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.ToLower(trimmed)
}

// parseWordList splits the embedded file into words: one per line, blank
// lines and '#' comments ignored.
func parseWordList(raw string) []string {
	lines := strings.Split(raw, "\n")
	words := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words
}
