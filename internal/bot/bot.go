// Package bot provides the Telegram bot initialization and handlers.
package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"gitlab.com/yelinaung/movie-bot/internal/catalog"
	"gitlab.com/yelinaung/movie-bot/internal/config"
	"gitlab.com/yelinaung/movie-bot/internal/logger"
	"gitlab.com/yelinaung/movie-bot/internal/repository"
	"gitlab.com/yelinaung/movie-bot/internal/telemetry"
)

// Bot wraps the Telegram bot with application dependencies.
type Bot struct {
	bot     *bot.Bot
	cfg     *config.Config
	catalog catalog.Service
	movies  *repository.MovieListRepository
	metrics *telemetry.Metrics

	// username is the bot's own @username, set once by Start before polling.
	username string
}

// New creates a new Bot instance.
func New(
	cfg *config.Config,
	catalogService catalog.Service,
	movies *repository.MovieListRepository,
	metrics *telemetry.Metrics,
) (*Bot, error) {
	b := &Bot{
		cfg:     cfg,
		catalog: catalogService,
		movies:  movies,
		metrics: metrics,
	}

	opts := []bot.Option{
		bot.WithMiddlewares(b.loggingMiddleware),
		bot.WithDefaultHandler(b.defaultHandler),
	}

	telegramBot, err := bot.New(cfg.TelegramBotToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b.bot = telegramBot
	b.registerHandlers()

	return b, nil
}

// Start registers the command list and begins polling for updates.
// It blocks until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	b.loadUsername(ctx, b.bot)
	b.registerCommands(ctx, b.bot)
	logger.Log.Info().Msg("Bot started polling")
	b.bot.Start(ctx)
}

// registerHandlers sets up command handlers.
func (b *Bot) registerHandlers() {
	b.bot.RegisterHandlerMatchFunc(b.commandMatcher(cmdStart), b.handleStart)
	b.bot.RegisterHandlerMatchFunc(b.commandMatcher(cmdHelp), b.handleHelp)
	b.bot.RegisterHandlerMatchFunc(b.commandMatcher(cmdAdd), b.handleAdd)
	b.bot.RegisterHandlerMatchFunc(b.commandMatcher(cmdRandom), b.handleRandom)
	b.bot.RegisterHandlerMatchFunc(b.commandMatcher(cmdList), b.handleList)
	b.bot.RegisterHandlerMatchFunc(b.commandMatcher(cmdDelete), b.handleDelete)
	b.bot.RegisterHandlerMatchFunc(b.commandMatcher(cmdSearch), b.handleSearch)
}

// loadUsername asks Telegram for the bot's own username. Without it, commands
// addressed to any @bot are accepted.
func (b *Bot) loadUsername(ctx context.Context, tg TelegramAPI) {
	me, err := tg.GetMe(ctx)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Failed to fetch bot identity")
		return
	}
	b.username = me.Username
	logger.Log.Debug().Str("username", me.Username).Msg("Loaded bot identity")
}

// commandMatcher matches text messages addressed to command, either bare or
// with this bot's @username. Unlike a plain prefix match it does not treat
// "/addx" as "/add".
func (b *Bot) commandMatcher(command string) bot.MatchFunc {
	return func(update *tgmodels.Update) bool {
		if update.Message == nil {
			return false
		}
		return isCommand(update.Message.Text, command, b.username)
	}
}

// isCommand reports whether text invokes command. A "@name" suffix must match
// username, case-insensitively; an empty username accepts any suffix.
func isCommand(text, command, username string) bool {
	rest, ok := strings.CutPrefix(text, command)
	if !ok {
		return false
	}
	if rest == "" || rest[0] == ' ' || rest[0] == '\n' {
		return true
	}
	if rest[0] != '@' {
		return false
	}

	mention := rest[1:]
	if i := strings.IndexAny(mention, " \n"); i != -1 {
		mention = mention[:i]
	}
	return username == "" || strings.EqualFold(mention, username)
}

// commandName returns the bare command word of text ("add" for "/add@bot x"),
// or "" when text is not a command.
func commandName(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	name := strings.TrimPrefix(text, "/")
	if i := strings.IndexAny(name, " \n@"); i != -1 {
		name = name[:i]
	}
	return name
}

// registerCommands publishes the command menu to Telegram. Failure is logged
// and does not stop the bot.
func (b *Bot) registerCommands(ctx context.Context, tg TelegramAPI) {
	commands := make([]tgmodels.BotCommand, 0, len(commandMenu))
	for _, c := range commandMenu {
		commands = append(commands, tgmodels.BotCommand{
			Command:     strings.TrimPrefix(c.command, "/"),
			Description: c.description,
		})
	}

	if _, err := tg.SetMyCommands(ctx, &bot.SetMyCommandsParams{Commands: commands}); err != nil {
		logger.Log.Warn().Err(err).Msg("Failed to register bot commands")
		return
	}
	logger.Log.Debug().Int("count", len(commands)).Msg("Registered bot commands")
}

// loggingMiddleware tags every message update with an invocation id and logs it.
func (b *Bot) loggingMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
		if update.Message == nil {
			next(ctx, tgBot, update)
			return
		}

		ctx = withInvocationLogger(ctx, update.Message)
		logUserInput(ctx, update.Message)

		next(ctx, tgBot, update)
	}
}

// withInvocationLogger attaches a logger carrying the invocation id and the
// hashed chat and user ids to ctx.
func withInvocationLogger(ctx context.Context, msg *tgmodels.Message) context.Context {
	lc := logger.Log.With().
		Str("invocation_id", uuid.NewString()).
		Str("chat_hash", logger.HashChatID(msg.Chat.ID))
	if msg.From != nil {
		lc = lc.Str("user_hash", logger.HashUserID(msg.From.ID))
	}
	return logger.WithContext(ctx, lc.Logger())
}

// logUserInput logs the user's input.
func logUserInput(ctx context.Context, msg *tgmodels.Message) {
	event := logger.FromContext(ctx).Info().Str("chat_type", string(msg.Chat.Type))
	if name := commandName(msg.Text); name != "" {
		event = event.Str("command", name)
	}
	event.Msg("User input")
}

// defaultHandler handles messages no command handler matched.
func (b *Bot) defaultHandler(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.defaultHandlerCore(ctx, tgBot, update)
}

// defaultHandlerCore is the testable implementation of defaultHandler.
// Only private chats get a hint; group chatter is ignored.
func (b *Bot) defaultHandlerCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	log := logger.FromContext(ctx)
	log.Debug().
		Str("text", logger.SanitizeText(update.Message.Text)).
		Msg("Default handler triggered")

	if update.Message.Chat.Type != "private" {
		return
	}

	b.send(ctx, tg, &bot.SendMessageParams{
		ChatID:    update.Message.Chat.ID,
		Text:      "I didn't understand that. Use /help to see available commands, or send <code>/add The Matrix</code>",
		ParseMode: tgmodels.ParseModeHTML,
	})
}

// send delivers params and logs a failure.
func (b *Bot) send(ctx context.Context, tg TelegramAPI, params *bot.SendMessageParams) {
	if _, err := tg.SendMessage(ctx, params); err != nil {
		logger.FromContext(ctx).Error().Err(err).Msg("Failed to send message")
	}
}

// reply sends an HTML text response for command and counts the outcome.
func (b *Bot) reply(ctx context.Context, tg TelegramAPI, chatID int64, command, outcome, text string) {
	b.respond(ctx, tg, command, outcome, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: tgmodels.ParseModeHTML,
	})
}

// respond sends params as the single response to command and counts the outcome.
func (b *Bot) respond(ctx context.Context, tg TelegramAPI, command, outcome string, params *bot.SendMessageParams) {
	b.metrics.RecordCommand(ctx, command, outcome)
	b.send(ctx, tg, params)
}
