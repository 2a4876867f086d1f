package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
)

func TestChat_SendRequiresMembership(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	a := h.user(t, "a", entity.RoleStudent)
	b := h.user(t, "b", entity.RoleTutor)
	outsider := h.user(t, "c", entity.RoleStudent)

	_, err := h.chat.Access(ctx, a.ID, a.ID)
	assert.ErrorIs(t, err, ErrSelfChat)

	chat, err := h.chat.Access(ctx, a.ID, b.ID)
	require.NoError(t, err)
	again, err := h.chat.Access(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, chat.ID, again.ID)

	_, err = h.chat.Send(ctx, chat.ID, outsider.ID, "hi")
	assert.ErrorIs(t, err, ErrNotInChat)
	_, err = h.chat.Send(ctx, chat.ID, a.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	m, err := h.chat.Send(ctx, chat.ID, a.ID, "hello")
	require.NoError(t, err)
	require.Len(t, h.hub.sent, 1)
	assert.Equal(t, chat.ID, h.hub.sent[0].room)
	assert.Equal(t, EventMessage, h.hub.sent[0].event)

	msgs, err := h.chat.Messages(ctx, chat.ID, b.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, m.ID, msgs[0].ID)

	_, err = h.chat.Messages(ctx, chat.ID, outsider.ID)
	assert.ErrorIs(t, err, ErrNotInChat)

	chats, err := h.chat.Fetch(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, m.ID, chats[0].LatestMessage)
}
