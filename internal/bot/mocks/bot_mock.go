// Package mocks provides mock implementations for testing bot handlers.
package mocks

import (
	"context"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// TelegramAPI defines the interface for Telegram bot operations.
// This interface is defined here to avoid import cycles between bot and mocks packages.
type TelegramAPI interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SetMyCommands(ctx context.Context, params *bot.SetMyCommandsParams) (bool, error)
	GetMe(ctx context.Context) (*models.User, error)
}

// SentMessage captures a message sent via MockBot.
type SentMessage struct {
	ChatID             any
	Text               string
	ParseMode          models.ParseMode
	LinkPreviewOptions *models.LinkPreviewOptions
}

// Compile-time check that MockBot implements TelegramAPI.
var _ TelegramAPI = (*MockBot)(nil)

// MockBot simulates Telegram bot operations for testing.
type MockBot struct {
	mu sync.RWMutex

	SentMessages []SentMessage
	Commands     []models.BotCommand

	// SendMessageError allows simulating SendMessage failures.
	SendMessageError error
	// SetMyCommandsError allows simulating SetMyCommands failures.
	SetMyCommandsError error
	// GetMeError allows simulating GetMe failures.
	GetMeError error

	// Username is returned by GetMe.
	Username string

	// NextMessageID is auto-incremented for each sent message.
	NextMessageID int
}

// NewMockBot creates a new MockBot instance.
func NewMockBot() *MockBot {
	return &MockBot{
		SentMessages:  make([]SentMessage, 0),
		NextMessageID: 1000,
		Username:      "moviebot",
	}
}

// SendMessage simulates sending a message.
func (m *MockBot) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SendMessageError != nil {
		return nil, m.SendMessageError
	}

	m.SentMessages = append(m.SentMessages, SentMessage{
		ChatID:             params.ChatID,
		Text:               params.Text,
		ParseMode:          params.ParseMode,
		LinkPreviewOptions: params.LinkPreviewOptions,
	})

	msgID := m.NextMessageID
	m.NextMessageID++

	return &models.Message{
		ID: msgID,
		Chat: models.Chat{
			ID: chatIDToInt64(params.ChatID),
		},
		Text: params.Text,
	}, nil
}

// SetMyCommands records the registered command list.
func (m *MockBot) SetMyCommands(_ context.Context, params *bot.SetMyCommandsParams) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SetMyCommandsError != nil {
		return false, m.SetMyCommandsError
	}

	m.Commands = append([]models.BotCommand(nil), params.Commands...)
	return true, nil
}

// GetMe returns the mocked bot identity.
func (m *MockBot) GetMe(_ context.Context) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetMeError != nil {
		return nil, m.GetMeError
	}
	return &models.User{ID: 1, IsBot: true, FirstName: "Movie Bot", Username: m.Username}, nil
}

// Reset clears all recorded interactions.
func (m *MockBot) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SentMessages = make([]SentMessage, 0)
	m.Commands = nil
	m.SendMessageError = nil
	m.SetMyCommandsError = nil
	m.GetMeError = nil
}

// LastSentMessage returns the most recently sent message, or nil if none.
func (m *MockBot) LastSentMessage() *SentMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.SentMessages) == 0 {
		return nil
	}
	return &m.SentMessages[len(m.SentMessages)-1]
}

// SentMessageCount returns the number of messages sent.
func (m *MockBot) SentMessageCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.SentMessages)
}

// RegisteredCommands returns the commands recorded by SetMyCommands.
func (m *MockBot) RegisteredCommands() []models.BotCommand {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.BotCommand(nil), m.Commands...)
}

// chatIDToInt64 converts a ChatID to int64.
func chatIDToInt64(chatID any) int64 {
	switch v := chatID.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}
