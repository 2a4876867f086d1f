package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
)

func TestChatRepository_FindOrCreateIsStable(t *testing.T) {
	ctx := context.Background()
	repo := NewChatRepository(NewStore())

	first, err := repo.FindOrCreate(ctx, "a", "b")
	require.NoError(t, err)
	second, err := repo.FindOrCreate(ctx, "b", "a")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	m := &entity.Message{ChatID: first.ID, Sender: "a", Content: "hi"}
	require.NoError(t, repo.AddMessage(ctx, m))
	assert.NotEmpty(t, m.ID)

	chat, _ := repo.GetByID(ctx, first.ID)
	assert.Equal(t, m.ID, chat.LatestMessage)

	msgs, err := repo.Messages(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	chats, _ := repo.ListByUser(ctx, "b")
	assert.Len(t, chats, 1)
}
