package mocks

import (
	"github.com/go-telegram/bot/models"
)

// UpdateBuilder helps construct test Update objects.
type UpdateBuilder struct {
	update *models.Update
}

// NewUpdateBuilder creates a new UpdateBuilder.
func NewUpdateBuilder() *UpdateBuilder {
	return &UpdateBuilder{
		update: &models.Update{},
	}
}

// WithMessage sets a private-chat message on the update.
func (b *UpdateBuilder) WithMessage(chatID, userID int64, text string) *UpdateBuilder {
	b.update.Message = &models.Message{
		ID: 1,
		Chat: models.Chat{
			ID:   chatID,
			Type: "private",
		},
		From: &models.User{
			ID:        userID,
			FirstName: "Test",
			LastName:  "User",
			Username:  "testuser",
		},
		Text: text,
	}
	return b
}

// InGroup marks the message as sent in a group chat with the given title.
func (b *UpdateBuilder) InGroup(title string) *UpdateBuilder {
	if b.update.Message != nil {
		b.update.Message.Chat.Type = "group"
		b.update.Message.Chat.Title = title
	}
	return b
}

// WithFrom sets custom user details on the message.
func (b *UpdateBuilder) WithFrom(userID int64, username, firstName, lastName string) *UpdateBuilder {
	if b.update.Message != nil {
		b.update.Message.From = &models.User{
			ID:        userID,
			Username:  username,
			FirstName: firstName,
			LastName:  lastName,
		}
	}
	return b
}

// WithoutFrom removes the sender, as for channel posts.
func (b *UpdateBuilder) WithoutFrom() *UpdateBuilder {
	if b.update.Message != nil {
		b.update.Message.From = nil
	}
	return b
}

// Build returns the constructed Update.
func (b *UpdateBuilder) Build() *models.Update {
	return b.update
}

// MessageUpdate creates a simple message update.
func MessageUpdate(chatID, userID int64, text string) *models.Update {
	return NewUpdateBuilder().
		WithMessage(chatID, userID, text).
		Build()
}

// CommandUpdate creates a command message update.
func CommandUpdate(chatID, userID int64, command string) *models.Update {
	return MessageUpdate(chatID, userID, command)
}

// GroupCommandUpdate creates a command message update sent in a group chat.
func GroupCommandUpdate(chatID, userID int64, command string) *models.Update {
	return NewUpdateBuilder().
		WithMessage(chatID, userID, command).
		InGroup("Movie Night").
		Build()
}
