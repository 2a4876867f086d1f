package repository

import (
	"context"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
// Returned users carry the password hash only from the lookup methods used for authentication
// (FindByIdentifier, GetByID); list methods never load it.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// FindByUsernameOrEmail returns the first user whose username or email matches either value.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*entity.User, error)
	// FindByIdentifier matches identifier against username and email.
	FindByIdentifier(ctx context.Context, identifier string) (*entity.User, error)

	List(ctx context.Context) ([]entity.User, error)
	Count(ctx context.Context) (int64, error)
	ListByRole(ctx context.Context, role entity.Role) ([]entity.User, error)
	CountByRole(ctx context.Context, role entity.Role) (int64, error)
	Summaries(ctx context.Context, ids []string) ([]entity.UserSummary, error)

	SetStatus(ctx context.Context, id string, status bool) (*entity.User, error)
	UpdatePassword(ctx context.Context, id, hash string) (*entity.User, error)
	UpdateProfileImage(ctx context.Context, id, url string) (*entity.User, error)
	UpdateCredentials(ctx context.Context, id, email, username string) (*entity.User, error)

	// Follow adds targetID to actorID.following and actorID to targetID.followers.
	Follow(ctx context.Context, actorID, targetID string) error
	// Unfollow reverses Follow.
	Unfollow(ctx context.Context, actorID, targetID string) error
	// RemoveFollower drops followerID from actorID.followers and actorID from followerID.following.
	RemoveFollower(ctx context.Context, actorID, followerID string) error
}
