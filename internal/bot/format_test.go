package bot

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	appmodels "gitlab.com/yelinaung/movie-bot/internal/models"
)

func TestEscapeHTML(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Tom &amp; Jerry", escapeHTML("Tom & Jerry"))
	require.Equal(t, "&lt;b&gt;bold&lt;/b&gt;", escapeHTML("<b>bold</b>"))
	require.Equal(t, "&amp;lt;", escapeHTML("&lt;"))
	require.Equal(t, "Amélie", escapeHTML("Amélie"))
}

func TestTruncateGraphemes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{"shorter than limit", "Heat", 10, "Heat"},
		{"exact limit", "Heat", 4, "Heat"},
		{"ascii cut", "The Matrix", 3, "The"},
		{"multibyte runes", "ééééé", 2, "éé"},
		{"combining marks stay with base", "e\u0301e\u0301e\u0301", 2, "e\u0301e\u0301"},
		{"flag emoji is one character", "🇯🇵🇫🇷", 1, "🇯🇵"},
		{"zero limit", "Heat", 0, ""},
		{"empty input", "", 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, truncateGraphemes(tt.input, tt.limit))
		})
	}
}

func TestFormatYear(t *testing.T) {
	t.Parallel()

	require.Equal(t, "1999", formatYear(appmodels.Movie{ReleaseDate: "1999-03-30"}))
	require.Equal(t, "N/A", formatYear(appmodels.Movie{}))
}

func TestFormatRating(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		average string
		votes   int64
		want    string
	}{
		{"rounded with votes", "8.217", 26543, "8.2/10 ⭐ (26,543 votes)"},
		{"half rounds up", "7.25", 12, "7.3/10 ⭐ (12 votes)"},
		{"single vote", "10", 1, "10.0/10 ⭐ (1 vote)"},
		{"no votes", "0", 0, "0.0/10 ⭐"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, formatRating(mustParseDecimal(tt.average), tt.votes))
		})
	}

	t.Run("missing average", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "N/A", formatRating(nil, 500))
	})
}

func TestFormatOverview(t *testing.T) {
	t.Parallel()

	require.Equal(t, noOverview, formatOverview(""))
	require.Equal(t, noOverview, formatOverview("  \n "))
	require.Equal(t, "A heist.", formatOverview(" A heist. "))

	long := strings.Repeat("ab", 600)
	require.Equal(t, long[:maxOverviewLength], formatOverview(long))
}

func TestFormatMovieList(t *testing.T) {
	t.Parallel()

	t.Run("short list", func(t *testing.T) {
		t.Parallel()
		got := formatMovieList(listHeader, []string{"Heat", "Tom & Jerry"})
		require.Equal(t, "🎬 <b>Movie List:</b>\n1. Heat\n2. Tom &amp; Jerry", got)
	})

	t.Run("capped list counts omitted titles", func(t *testing.T) {
		t.Parallel()
		titles := make([]string, 300)
		for i := range titles {
			titles[i] = fmt.Sprintf("%s %03d", strings.Repeat("x", 40), i)
		}

		got := formatMovieList(listHeader, titles)
		require.LessOrEqual(t, len(got), maxMessageLength)

		shown := strings.Count(got, "\n") - 1
		require.Contains(t, got, listTrailer(len(titles)-shown))
		require.Contains(t, got, fmt.Sprintf("\n%d. ", shown))
		require.NotContains(t, got, fmt.Sprintf("\n%d. ", shown+1))
	})

	t.Run("exactly at the limit keeps every title", func(t *testing.T) {
		t.Parallel()
		header := strings.Repeat("h", maxMessageLength-len("\n1. Heat"))
		got := formatMovieList(header, []string{"Heat"})
		require.Len(t, got, maxMessageLength)
		require.True(t, strings.HasSuffix(got, "\n1. Heat"))
	})
}
