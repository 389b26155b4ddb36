// Package catalog resolves free-text titles against the movie catalog.
package catalog

import (
	"context"
	"errors"

	"gitlab.com/yelinaung/movie-bot/internal/models"
)

// ErrConnection is the single failure class for catalog access. Transport
// errors, non-200 responses and undecodable bodies all wrap it.
var ErrConnection = errors.New("catalog connection error")

// ErrEmptyQuery is returned when the search query is blank.
var ErrEmptyQuery = errors.New("search query must not be empty")

// Service searches the catalog by title.
type Service interface {
	// SearchMovies returns the first page of results in catalog relevance
	// order. An empty slice with a nil error means nothing was found.
	SearchMovies(ctx context.Context, query string) ([]models.Movie, error)
	// PosterURL returns the absolute thumbnail URL for a poster path, or "".
	PosterURL(posterPath string) string
}
