package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/yelinaung/movie-bot/internal/catalog"
	"gitlab.com/yelinaung/movie-bot/internal/models"
)

type stubCatalog struct {
	results []models.Movie
	err     error
}

func (s stubCatalog) SearchMovies(context.Context, string) ([]models.Movie, error) {
	return s.results, s.err
}

func (s stubCatalog) PosterURL(string) string { return "" }

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	require.Equal(t, "movie-bot dev (commit: none, built: unknown)\n", out.String())
}

func TestLookup(t *testing.T) {
	t.Parallel()

	rating := decimal.RequireFromString("8.8")

	t.Run("marks the selected candidate", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		svc := stubCatalog{results: []models.Movie{
			{ID: 1, Title: "The Matrix", ReleaseDate: "1999-03-30"},
			{ID: 2, Title: "The Matrix Reloaded", ReleaseDate: "2003-05-15", VoteAverage: &rating},
		}}

		require.NoError(t, lookup(context.Background(), &out, svc, "the matrix reloaded"))

		text := out.String()
		require.Contains(t, text, `normalized "thematrixreloaded"`)
		require.Contains(t, text, "0.692")
		require.Contains(t, text, "1.000")
		require.Contains(t, text, "8.8")
		require.Equal(t, 1, strings.Count(text, "✔"))
		require.Contains(t, text, "Selected: The Matrix Reloaded (2003), ratio 1.000")
	})

	t.Run("reports no close match", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		svc := stubCatalog{results: []models.Movie{{ID: 1, Title: "Inception"}}}

		require.NoError(t, lookup(context.Background(), &out, svc, "The Matrix"))

		require.Contains(t, out.String(), "No close match")
		require.NotContains(t, out.String(), "✔")
	})

	t.Run("reports no results", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer

		require.NoError(t, lookup(context.Background(), &out, stubCatalog{}, "Qwxzv"))

		require.Contains(t, out.String(), "No results.")
	})

	t.Run("returns catalog errors", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		svc := stubCatalog{err: catalog.ErrConnection}

		err := lookup(context.Background(), &out, svc, "Heat")
		require.Error(t, err)
		require.True(t, errors.Is(err, catalog.ErrConnection))
	})
}

func TestLookupCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/movie", r.URL.Path)
		assert.Equal(t, "incepton", r.URL.Query().Get("query"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"id":27205,"title":"Inception","release_date":"2010-07-15","vote_average":8.4}]}`))
	}))
	t.Cleanup(server.Close)

	t.Setenv("TMDB_API_KEY", "test-key")
	t.Setenv("TMDB_BASE_URL", server.URL)
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"lookup", "incepton"})

	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "Selected: Inception (2010)")
}

func TestLookupCommand_RequiresTitle(t *testing.T) {
	t.Parallel()

	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"lookup"})

	require.Error(t, cmd.Execute())
}

func TestRenderCandidates(t *testing.T) {
	t.Parallel()

	rating := decimal.RequireFromString("7.95")
	out := renderCandidates([]candidateRow{
		{match: models.Match{Movie: models.Movie{ID: 1, Title: "Heat", ReleaseDate: "1995-12-15", VoteAverage: &rating}, Ratio: 1}, selected: true},
		{match: models.Match{Movie: models.Movie{ID: 2, Title: "Heat Wave"}, Ratio: 0.615}},
	})

	require.Contains(t, out, "TITLE", "headers are upper-cased")
	require.Contains(t, out, "Heat Wave")
	require.Contains(t, out, "8.0")
	require.Contains(t, out, "1.000")
	require.Contains(t, out, "0.615")
	require.Contains(t, out, "N/A")
	require.Equal(t, 1, strings.Count(out, "✔"))
	require.Equal(t, 6, strings.Count(out, "\n")+1, "top, header, separator, two rows, bottom")
}
