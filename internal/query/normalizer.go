// Package query provides deterministic cleaning of user questions before
// retrieval. Normalization is pure and idempotent, and it fails open: a
// normalization bug must never block retrieval, so any internal failure
// returns the raw input unchanged.
package query

import (
	"regexp"
	"strings"
)

// shortQueryTokenLimit is the token count at or below which stop-words are
// kept. With so few tokens left, stop-words may carry the whole meaning.
const shortQueryTokenLimit = 3

// stopWords are common English words that add no semantic value for search.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {},
}

var (
	lineBreaks = regexp.MustCompile(`[\r\n]+`)
	whitespace = regexp.MustCompile(`\s+`)
	// \w would be ASCII-only here; spell out letter/number classes so
	// accented and non-Latin questions survive cleaning.
	specialChar = regexp.MustCompile(`[^\p{L}\p{N}_\s\-.?!]`)
)

// NormalizeText collapses line breaks and whitespace runs into single spaces
// and trims the result. Used both on queries and on chunk bodies before they
// go into an assembled context.
func NormalizeText(text string) string {
	text = lineBreaks.ReplaceAllString(text, " ")
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// Normalize cleans a raw user question for retrieval: whitespace collapsing,
// special-character stripping, lowercasing, and stop-word removal. Queries
// that strip down to three or fewer tokens keep their stop-words.
func Normalize(raw string) string {
	cleaned, ok := normalize(raw)
	if !ok {
		return raw
	}
	return cleaned
}

func normalize(raw string) (s string, ok bool) {
	// regexp replacement does not panic on any input, but the fail-open
	// contract covers future cleaning steps too.
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	cleaned := NormalizeText(raw)
	cleaned = specialChar.ReplaceAllString(cleaned, "")
	cleaned = strings.ToLower(cleaned)

	words := strings.Fields(cleaned)
	kept := make([]string, 0, len(words))
	for _, word := range words {
		if _, stop := stopWords[word]; stop && len(words) > shortQueryTokenLimit {
			continue
		}
		kept = append(kept, word)
	}

	return strings.Join(kept, " "), true
}
