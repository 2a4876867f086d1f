package repository

import (
	"context"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
)

type ChatRepository interface {
	// FindOrCreate returns the one-to-one chat between a and b, creating it when missing.
	FindOrCreate(ctx context.Context, a, b string) (*entity.Chat, error)
	GetByID(ctx context.Context, id string) (*entity.Chat, error)
	// ListByUser is ordered by last activity, newest first.
	ListByUser(ctx context.Context, userID string) ([]entity.Chat, error)
	// AddMessage stores m and marks it as the chat's latest message.
	AddMessage(ctx context.Context, m *entity.Message) error
	Messages(ctx context.Context, chatID string) ([]entity.Message, error)
}
