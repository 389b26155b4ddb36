// Package models defines the domain entities for the movie list bot.
package models

import (
	"github.com/shopspring/decimal"
)

// Movie is a single catalog entry as returned by a title search.
type Movie struct {
	ID          int64
	Title       string
	ReleaseDate string
	Overview    string
	// VoteAverage is nil when the catalog omitted the rating.
	VoteAverage *decimal.Decimal
	VoteCount   int64
	PosterPath  string
}

// Year returns the first four characters of the release date, or "" when unknown.
func (m Movie) Year() string {
	if len(m.ReleaseDate) < 4 {
		return ""
	}
	return m.ReleaseDate[:4]
}

// HasPoster reports whether the catalog supplied a poster image path.
func (m Movie) HasPoster() bool {
	return m.PosterPath != ""
}

// Match is a movie selected for a query together with its similarity ratio.
type Match struct {
	Movie Movie
	Ratio float64
}
