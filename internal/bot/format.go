package bot

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rivo/uniseg"
	"github.com/shopspring/decimal"
	appmodels "gitlab.com/yelinaung/movie-bot/internal/models"
)

const (
	// maxMessageLength is Telegram's limit for one message.
	maxMessageLength = 4096
	// maxOverviewLength bounds the overview shown by /search, in characters.
	maxOverviewLength = 1000

	notAvailable = "N/A"
	noOverview   = "No overview available."
)

// escapeHTML escapes special HTML characters for Telegram HTML parse mode.
func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// truncateGraphemes returns the first limit user-perceived characters of s.
func truncateGraphemes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	g := uniseg.NewGraphemes(s)
	count := 0
	for g.Next() {
		count++
		if count > limit {
			from, _ := g.Positions()
			return s[:from]
		}
	}
	return s
}

// formatYear returns the release year of m, or N/A.
func formatYear(m appmodels.Movie) string {
	if y := m.Year(); y != "" {
		return y
	}
	return notAvailable
}

// formatRating renders a TMDB vote average as "8.2/10 ⭐", adding the vote
// count when known. A nil average renders as N/A.
func formatRating(average *decimal.Decimal, votes int64) string {
	if average == nil {
		return notAvailable
	}

	rating := average.StringFixed(1) + "/10 ⭐"
	if votes > 0 {
		noun := "votes"
		if votes == 1 {
			noun = "vote"
		}
		rating += fmt.Sprintf(" (%s %s)", humanize.Comma(votes), noun)
	}
	return rating
}

// formatOverview truncates the overview for display.
func formatOverview(overview string) string {
	overview = strings.TrimSpace(overview)
	if overview == "" {
		return noOverview
	}
	return truncateGraphemes(overview, maxOverviewLength)
}

// formatMovieList renders a numbered list of titles under header, stopping
// before the message would exceed Telegram's length limit.
func formatMovieList(header string, titles []string) string {
	var sb strings.Builder
	sb.WriteString(header)

	for i, title := range titles {
		line := fmt.Sprintf("\n%d. %s", i+1, escapeHTML(title))
		remaining := len(titles) - i - 1
		// Keep room for the trailer unless this is the last line.
		reserve := 0
		if remaining > 0 {
			reserve = len(listTrailer(remaining))
		}
		if sb.Len()+len(line)+reserve > maxMessageLength {
			sb.WriteString(listTrailer(len(titles) - i))
			break
		}
		sb.WriteString(line)
	}

	return sb.String()
}

// listTrailer notes titles omitted from a truncated list.
func listTrailer(omitted int) string {
	return fmt.Sprintf("\n…and %d more", omitted)
}
