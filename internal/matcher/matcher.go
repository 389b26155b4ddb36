// Package matcher picks the catalog entry that best fits a free-text title.
//
// Titles are compared after Normalize, using the Ratcliff/Obershelp ratio
// computed by go-difflib (a port of Python's difflib.SequenceMatcher). The
// catalog's own relevance order is trusted: the first candidate above
// GoodMatchThreshold wins, otherwise the top-ranked candidate is accepted
// when it clears FallbackFloor.
package matcher

import (
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"gitlab.com/yelinaung/movie-bot/internal/models"
)

const (
	// GoodMatchThreshold is the ratio a candidate must exceed to be taken immediately.
	GoodMatchThreshold = 0.7
	// FallbackFloor is the minimum ratio for the top-ranked fallback candidate.
	FallbackFloor = 0.4
)

// Normalize drops every rune that is not a letter, number or underscore and
// lowercases the rest. Input is NFC-composed first so that decomposed accents
// survive as letters.
func Normalize(title string) string {
	composed := norm.NFC.String(title)

	var sb strings.Builder
	sb.Grow(len(composed))
	for _, r := range composed {
		if isWordRune(r) {
			sb.WriteRune(r)
		}
	}

	// Casers are stateful and must not be shared between goroutines.
	return cases.Lower(language.Und).String(sb.String())
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// Ratio returns 2*M/T where M is the number of runes in the matching blocks
// and T the total rune count of both strings. Two empty strings score 1.
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(splitRunes(a), splitRunes(b)).Ratio()
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// SelectBest scans candidates in catalog order and returns the first whose
// normalized title scores above GoodMatchThreshold. Without one, the first
// candidate is returned if it scores at least FallbackFloor. The boolean is
// false when nothing qualifies, including for an empty candidate list.
func SelectBest(query string, candidates []models.Movie) (models.Match, bool) {
	if len(candidates) == 0 {
		return models.Match{}, false
	}

	normalizedQuery := Normalize(query)

	for _, movie := range candidates {
		ratio := Ratio(normalizedQuery, Normalize(movie.Title))
		if ratio > GoodMatchThreshold {
			return models.Match{Movie: movie, Ratio: ratio}, true
		}
	}

	fallback := candidates[0]
	ratio := Ratio(normalizedQuery, Normalize(fallback.Title))
	if ratio < FallbackFloor {
		return models.Match{}, false
	}

	return models.Match{Movie: fallback, Ratio: ratio}, true
}

// Score returns every candidate paired with its ratio against query, in
// catalog order. It is used for diagnostics and does not select anything.
func Score(query string, candidates []models.Movie) []models.Match {
	normalizedQuery := Normalize(query)

	scored := make([]models.Match, 0, len(candidates))
	for _, movie := range candidates {
		scored = append(scored, models.Match{
			Movie: movie,
			Ratio: Ratio(normalizedQuery, Normalize(movie.Title)),
		})
	}
	return scored
}
