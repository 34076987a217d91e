package contacts

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonWordPattern = regexp.MustCompile(`[^a-z0-9\s]`)

// WordSet is a set of normalized name words.
type WordSet map[string]struct{}

// Words decomposes text (NFKD), drops every non-ASCII rune, lowercases it,
// strips punctuation and returns the remaining words as a set.
func Words(text string) WordSet {
	if text == "" {
		return WordSet{}
	}

	t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	ascii, _, err := transform.String(t, text)
	if err != nil {
		return WordSet{}
	}

	ascii = nonWordPattern.ReplaceAllString(strings.ToLower(ascii), "")

	words := make(WordSet)
	for _, w := range strings.Fields(ascii) {
		words[w] = struct{}{}
	}
	return words
}

// SubsetOf reports whether every word of w is in other.
func (w WordSet) SubsetOf(other WordSet) bool {
	for word := range w {
		if _, ok := other[word]; !ok {
			return false
		}
	}
	return true
}
