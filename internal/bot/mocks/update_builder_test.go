package mocks

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpdateBuilder(t *testing.T) {
	t.Parallel()

	t.Run("builds private message", func(t *testing.T) {
		t.Parallel()

		update := NewUpdateBuilder().WithMessage(100, 200, "/add Heat").Build()

		require.NotNil(t, update.Message)
		require.Equal(t, int64(100), update.Message.Chat.ID)
		require.Equal(t, "private", string(update.Message.Chat.Type))
		require.Equal(t, int64(200), update.Message.From.ID)
		require.Equal(t, "/add Heat", update.Message.Text)
	})

	t.Run("marks group chat", func(t *testing.T) {
		t.Parallel()

		update := NewUpdateBuilder().WithMessage(-100, 200, "/list").InGroup("Film Club").Build()

		require.Equal(t, "group", string(update.Message.Chat.Type))
		require.Equal(t, "Film Club", update.Message.Chat.Title)
	})

	t.Run("custom sender", func(t *testing.T) {
		t.Parallel()

		update := NewUpdateBuilder().
			WithMessage(1, 2, "hi").
			WithFrom(3, "ana", "Ana", "Lima").
			Build()

		require.Equal(t, int64(3), update.Message.From.ID)
		require.Equal(t, "ana", update.Message.From.Username)
		require.Equal(t, "Ana", update.Message.From.FirstName)
		require.Equal(t, "Lima", update.Message.From.LastName)
	})

	t.Run("without sender", func(t *testing.T) {
		t.Parallel()

		update := NewUpdateBuilder().WithMessage(1, 2, "hi").WithoutFrom().Build()
		require.Nil(t, update.Message.From)
	})

	t.Run("modifiers without message are no-ops", func(t *testing.T) {
		t.Parallel()

		update := NewUpdateBuilder().InGroup("x").WithFrom(1, "", "", "").WithoutFrom().Build()
		require.Nil(t, update.Message)
	})
}

func TestUpdateHelpers(t *testing.T) {
	t.Parallel()

	update := CommandUpdate(10, 20, "/random")
	require.Equal(t, "/random", update.Message.Text)
	require.Equal(t, "private", string(update.Message.Chat.Type))

	group := GroupCommandUpdate(-10, 20, "/list")
	require.Equal(t, int64(-10), group.Message.Chat.ID)
	require.Equal(t, "group", string(group.Message.Chat.Type))
	require.Equal(t, "Movie Night", group.Message.Chat.Title)
}
