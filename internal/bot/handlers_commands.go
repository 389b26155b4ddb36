package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"gitlab.com/yelinaung/movie-bot/internal/logger"
	"gitlab.com/yelinaung/movie-bot/internal/matcher"
	appmodels "gitlab.com/yelinaung/movie-bot/internal/models"
	"gitlab.com/yelinaung/movie-bot/internal/telemetry"
)

// User-facing responses.
const (
	msgConnectionError = "⚠️ Error connecting to the movie database. Please try again later."
	msgNotFound        = "❌ Movie not found in the movie database!"
	msgNoMatch         = "❌ No close match found!"
	msgEmptyRandom     = "❌ No movies in the list!"
	msgEmptyList       = "📜 Movie list is empty!"
	msgDeleted         = "🔥 All movies deleted!"
	msgAddUsage        = "Usage: <code>/add &lt;title&gt;</code>\nExample: <code>/add The Matrix</code>"
	msgSearchUsage     = "Usage: <code>/search &lt;title&gt;</code>\nExample: <code>/search Inception</code>"

	listHeader  = "🎬 <b>Movie List:</b>"
	embedFooter = "Data provided by The Movie Database (TMDB)"
)

// extractCommandArgs strips the /command prefix (and optional @botname suffix)
// from a message and returns the remaining trimmed arguments.
func extractCommandArgs(text, command string) string {
	args := strings.TrimSpace(strings.TrimPrefix(text, command))
	if strings.HasPrefix(args, "@") {
		if spaceIdx := strings.IndexAny(args, " \n"); spaceIdx != -1 {
			args = strings.TrimSpace(args[spaceIdx:])
		} else {
			args = ""
		}
	}
	return args
}

// handleAdd handles the /add command.
func (b *Bot) handleAdd(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	b.handleAddCore(ctx, tgBot, update)
}

// handleAddCore resolves the title against the catalog and appends the best
// match to the chat's list.
func (b *Bot) handleAddCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}

	const command = "add"
	chatID := update.Message.Chat.ID
	log := logger.FromContext(ctx)

	query := extractCommandArgs(update.Message.Text, cmdAdd)
	if query == "" {
		b.reply(ctx, tg, chatID, command, telemetry.OutcomeUsage, msgAddUsage)
		return
	}

	results, ok := b.searchCatalog(ctx, tg, chatID, command, query)
	if !ok {
		return
	}

	match, found := matcher.SelectBest(query, results)
	if !found {
		log.Info().Str("query", query).Int("candidates", len(results)).Msg("No close match")
		b.reply(ctx, tg, chatID, command, telemetry.OutcomeNoMatch, msgNoMatch)
		return
	}

	b.movies.Append(chatID, match.Movie.Title)

	log.Info().
		Str("query", query).
		Str("title", match.Movie.Title).
		Int64("movie_id", match.Movie.ID).
		Float64("ratio", match.Ratio).
		Int("list_size", b.movies.Count(chatID)).
		Msg("Movie added")

	b.reply(ctx, tg, chatID, command, telemetry.OutcomeOK, formatAdded(match.Movie, query))
}

// formatAdded renders the /add confirmation.
func formatAdded(m appmodels.Movie, query string) string {
	yearInfo := ""
	if y := m.Year(); y != "" {
		yearInfo = " (" + y + ")"
	}
	return fmt.Sprintf("✅ Added: <b>%s</b>%s\n(Matched from: '%s')",
		escapeHTML(m.Title), yearInfo, escapeHTML(query))
}

// searchCatalog queries the catalog and answers the connection-error and
// not-found cases itself. It reports whether the caller should continue.
func (b *Bot) searchCatalog(
	ctx context.Context,
	tg TelegramAPI,
	chatID int64,
	command, query string,
) ([]appmodels.Movie, bool) {
	log := logger.FromContext(ctx)

	results, err := b.catalog.SearchMovies(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("Catalog search failed")
		b.reply(ctx, tg, chatID, command, telemetry.OutcomeConnectionError, msgConnectionError)
		return nil, false
	}

	if len(results) == 0 {
		log.Info().Str("query", query).Msg("Movie not found")
		b.reply(ctx, tg, chatID, command, telemetry.OutcomeNotFound, msgNotFound)
		return nil, false
	}

	return results, true
}

// handleRandom handles the /random command.
func (b *Bot) handleRandom(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	b.handleRandomCore(ctx, tgBot, update)
}

// handleRandomCore is the testable implementation of handleRandom.
func (b *Bot) handleRandomCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}

	const command = "random"
	chatID := update.Message.Chat.ID

	title, err := b.movies.PickRandom(chatID)
	if err != nil {
		b.reply(ctx, tg, chatID, command, telemetry.OutcomeEmpty, msgEmptyRandom)
		return
	}

	b.reply(ctx, tg, chatID, command, telemetry.OutcomeOK,
		fmt.Sprintf("🎲 Random pick: <b>%s</b>", escapeHTML(title)))
}

// handleList handles the /list command.
func (b *Bot) handleList(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	b.handleListCore(ctx, tgBot, update)
}

// handleListCore is the testable implementation of handleList.
func (b *Bot) handleListCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}

	const command = "list"
	chatID := update.Message.Chat.ID

	titles := b.movies.GetAll(chatID)
	if len(titles) == 0 {
		b.reply(ctx, tg, chatID, command, telemetry.OutcomeEmpty, msgEmptyList)
		return
	}

	b.reply(ctx, tg, chatID, command, telemetry.OutcomeOK, formatMovieList(listHeader, titles))
}

// handleDelete handles the /delete command.
func (b *Bot) handleDelete(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	b.handleDeleteCore(ctx, tgBot, update)
}

// handleDeleteCore is the testable implementation of handleDelete.
func (b *Bot) handleDeleteCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	removed := b.movies.Count(chatID)
	b.movies.Clear(chatID)

	logger.FromContext(ctx).Info().Int("removed", removed).Msg("Movie list cleared")
	b.reply(ctx, tg, chatID, "delete", telemetry.OutcomeOK, msgDeleted)
}

// handleSearch handles the /search command.
func (b *Bot) handleSearch(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	b.handleSearchCore(ctx, tgBot, update)
}

// handleSearchCore shows catalog details for the first search result. No
// fuzzy matching is applied.
func (b *Bot) handleSearchCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}

	const command = "search"
	chatID := update.Message.Chat.ID

	query := extractCommandArgs(update.Message.Text, cmdSearch)
	if query == "" {
		b.reply(ctx, tg, chatID, command, telemetry.OutcomeUsage, msgSearchUsage)
		return
	}

	results, ok := b.searchCatalog(ctx, tg, chatID, command, query)
	if !ok {
		return
	}

	embed := b.movieEmbed(results[0])
	b.respond(ctx, tg, command, telemetry.OutcomeOK, embed.SendMessageParams(chatID))
}

// movieEmbed builds the rich details card for m.
func (b *Bot) movieEmbed(m appmodels.Movie) Embed {
	embed := Embed{
		Title:       m.Title,
		Description: formatOverview(m.Overview),
		Color:       ColorBlue,
		Fields: []EmbedField{
			{Name: "Release Year", Value: formatYear(m), Inline: true},
			{Name: "Rating", Value: formatRating(m.VoteAverage, m.VoteCount), Inline: true},
		},
		Footer: embedFooter,
	}
	if m.HasPoster() {
		embed.ThumbnailURL = b.catalog.PosterURL(m.PosterPath)
	}
	return embed
}
