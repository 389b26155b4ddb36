package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"gitlab.com/yelinaung/movie-bot/internal/catalog"
	"gitlab.com/yelinaung/movie-bot/internal/config"
	"gitlab.com/yelinaung/movie-bot/internal/matcher"
	"gitlab.com/yelinaung/movie-bot/internal/models"
)

func newLookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <title>",
		Short: "Search the catalog and show how /add would match a title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadCatalog()
			if err != nil {
				return err
			}

			tmdb, err := catalog.NewTMDBClient(cfg.TMDBAPIKey, cfg.TMDBBaseURL, cfg.TMDBTimeout,
				catalog.WithImageBaseURL(cfg.TMDBImageBaseURL),
				catalog.WithLanguage(cfg.TMDBLanguage),
			)
			if err != nil {
				return err
			}

			return lookup(cmd.Context(), cmd.OutOrStdout(), tmdb, strings.Join(args, " "))
		},
	}
}

// lookup prints every candidate for query with its similarity ratio, then the
// candidate /add would store.
func lookup(ctx context.Context, out io.Writer, svc catalog.Service, query string) error {
	results, err := svc.SearchMovies(ctx, query)
	if err != nil {
		return fmt.Errorf("lookup %q: %w", query, err)
	}

	fmt.Fprintf(out, "Query: %q (normalized %q)\n", query, matcher.Normalize(query))
	if len(results) == 0 {
		fmt.Fprintln(out, "No results.")
		return nil
	}

	best, ok := matcher.SelectBest(query, results)

	rows := make([]candidateRow, 0, len(results))
	marked := false
	for _, m := range matcher.Score(query, results) {
		selected := ok && !marked && m.Movie.ID == best.Movie.ID && m.Ratio == best.Ratio
		marked = marked || selected
		rows = append(rows, candidateRow{match: m, selected: selected})
	}

	fmt.Fprintln(out, renderCandidates(rows))

	if !ok {
		fmt.Fprintf(out, "No close match (best fallback ratio below %.1f).\n", matcher.FallbackFloor)
		return nil
	}
	fmt.Fprintf(out, "Selected: %s (%s), ratio %.3f\n", best.Movie.Title, yearOrNA(best.Movie), best.Ratio)
	return nil
}

func yearOrNA(m models.Movie) string {
	if y := m.Year(); y != "" {
		return y
	}
	return "N/A"
}

func ratingOrNA(m models.Movie) string {
	if m.VoteAverage == nil {
		return "N/A"
	}
	return m.VoteAverage.StringFixed(1)
}

// candidateRow is one scored catalog result in the lookup table.
type candidateRow struct {
	match    models.Match
	selected bool
}

// renderCandidates draws the scored candidates in catalog order, numbers and
// scores right-aligned.
func renderCandidates(rows []candidateRow) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Title", "Year", "Rating", "Ratio", "Selected"})

	for i, row := range rows {
		mark := ""
		if row.selected {
			mark = "✔"
		}
		tw.AppendRow(table.Row{
			i + 1,
			row.match.Movie.Title,
			yearOrNA(row.match.Movie),
			ratingOrNA(row.match.Movie),
			strconv.FormatFloat(row.match.Ratio, 'f', 3, 64),
			mark,
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Name: "#", Align: text.AlignRight},
		{Name: "Rating", Align: text.AlignRight},
		{Name: "Ratio", Align: text.AlignRight},
		{Name: "Selected", Align: text.AlignCenter},
	})

	return tw.Render()
}
