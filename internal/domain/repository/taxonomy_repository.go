package repository

import (
	"context"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]entity.Category, error)
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	// GetByName matches case-insensitively on the whole name.
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	Create(ctx context.Context, c *entity.Category) error
	Update(ctx context.Context, id, name, description string) (*entity.Category, error)
	SetStatus(ctx context.Context, id string, status bool) (*entity.Category, error)
}

type LanguageRepository interface {
	List(ctx context.Context) ([]entity.Language, error)
	GetByID(ctx context.Context, id string) (*entity.Language, error)
	GetByName(ctx context.Context, name string) (*entity.Language, error)
	Create(ctx context.Context, l *entity.Language) error
	Update(ctx context.Context, id, name, description string) (*entity.Language, error)
	SetStatus(ctx context.Context, id string, status bool) (*entity.Language, error)
}
