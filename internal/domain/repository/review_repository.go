package repository

import (
	"context"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
)

type ReviewRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]entity.ReviewWithUser, error)
	CountByCourse(ctx context.Context, courseID string) (int64, error)
	Create(ctx context.Context, r *entity.Review) (*entity.ReviewWithUser, error)
	// FindByCourseAndUser backs the one-review-per-user check.
	FindByCourseAndUser(ctx context.Context, courseID, userID string) (*entity.Review, error)
	GetByID(ctx context.Context, id string) (*entity.Review, error)
	Update(ctx context.Context, id, text string, rating float64) (*entity.Review, error)
	Delete(ctx context.Context, id string) (*entity.Review, error)
}
