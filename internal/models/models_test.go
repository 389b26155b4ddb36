package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMovieYear(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		releaseDate string
		want        string
	}{
		{name: "full date", releaseDate: "1999-03-31", want: "1999"},
		{name: "year only", releaseDate: "2010", want: "2010"},
		{name: "empty date", releaseDate: "", want: ""},
		{name: "too short", releaseDate: "199", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := Movie{Title: "The Matrix", ReleaseDate: tt.releaseDate}
			require.Equal(t, tt.want, m.Year())
		})
	}
}

func TestMovieHasPoster(t *testing.T) {
	t.Parallel()

	require.True(t, Movie{PosterPath: "/abc.jpg"}.HasPoster())
	require.False(t, Movie{}.HasPoster())
}
