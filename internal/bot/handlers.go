package bot

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"gitlab.com/yelinaung/movie-bot/internal/telemetry"
)

// Command names.
const (
	cmdStart  = "/start"
	cmdHelp   = "/help"
	cmdAdd    = "/add"
	cmdRandom = "/random"
	cmdList   = "/list"
	cmdDelete = "/delete"
	cmdSearch = "/search"
)

// commandMenu is published to Telegram on startup and listed by /help.
var commandMenu = []struct {
	command     string
	usage       string
	description string
}{
	{cmdAdd, "/add &lt;title&gt;", "Add a movie to this chat's list"},
	{cmdRandom, "/random", "Pick a random movie from the list"},
	{cmdList, "/list", "Show the movie list"},
	{cmdDelete, "/delete", "Delete every movie from the list"},
	{cmdSearch, "/search &lt;title&gt;", "Show details for a movie"},
	{cmdHelp, "/help", "Show available commands"},
}

// formatGreeting returns a greeting suffix with the user's name.
func formatGreeting(firstName string) string {
	if firstName == "" {
		return ""
	}
	return ", " + escapeHTML(firstName)
}

// handleStart handles the /start command.
func (b *Bot) handleStart(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	b.handleStartCore(ctx, tgBot, update)
}

// handleStartCore is the testable implementation of handleStart.
func (b *Bot) handleStartCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}

	firstName := ""
	if update.Message.From != nil {
		firstName = update.Message.From.FirstName
	}

	text := fmt.Sprintf(`👋 Welcome%s!

I keep a shared list of movies for this chat, matched against The Movie Database.

<b>Quick Start:</b>
• Add a movie: <code>/add The Matrix</code>
• Can't decide? <code>/random</code>

Use /help to see all available commands.`,
		formatGreeting(firstName))

	b.reply(ctx, tg, update.Message.Chat.ID, "start", telemetry.OutcomeOK, text)
}

// handleHelp handles the /help command.
func (b *Bot) handleHelp(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	b.handleHelpCore(ctx, tgBot, update)
}

// handleHelpCore is the testable implementation of handleHelp.
func (b *Bot) handleHelpCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}

	b.reply(ctx, tg, update.Message.Chat.ID, "help", telemetry.OutcomeOK, helpText())
}

// helpText lists every command in the menu.
func helpText() string {
	text := "📚 <b>Available Commands</b>\n"
	for _, c := range commandMenu {
		text += fmt.Sprintf("\n• <code>%s</code> - %s", c.usage, c.description)
	}
	return text + "\n\nTitles don't need to be exact: <code>/add incepton</code> finds Inception."
}
