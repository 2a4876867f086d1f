package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	repo "github.com/oksasatya/go-learning-platform/internal/domain/repository"
)

type UserService struct {
	Users        repo.UserRepository
	Sessions     *SessionStore
	Media        Uploader
	Search       Indexer
	ESUsersIndex string
	Courses      *CourseService
	Audit        *Auditor
	Logger       *logrus.Logger
}

// profileOf resolves the follow graph of u into summaries.
func profileOf(ctx context.Context, users repo.UserRepository, u *entity.User) (*entity.Profile, error) {
	following, err := users.Summaries(ctx, u.Following)
	if err != nil {
		return nil, err
	}
	followers, err := users.Summaries(ctx, u.Followers)
	if err != nil {
		return nil, err
	}
	return &entity.Profile{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		Status:    u.Status,
		IsGoogle:  u.IsGoogle,
		Profile:   u.Profile,
		Following: following,
		Followers: followers,
		CreatedAt: u.CreatedAt,
	}, nil
}

func notFound(err, as error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return as
	}
	return err
}

func (s *UserService) Profile(ctx context.Context, userID string) (*entity.Profile, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return profileOf(ctx, s.Users, u)
}

// UpdateProfileImage uploads the image and stores its public URL on the user.
func (s *UserService) UpdateProfileImage(ctx context.Context, userID, filename, contentType string, r io.Reader) (*entity.Profile, error) {
	if s.Media == nil {
		return nil, ErrMediaDisabled
	}
	url, err := s.Media.Upload(ctx, "profiles", userID, filename, contentType, r)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.UpdateProfileImage(ctx, userID, url)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	s.indexUser(ctx, u)
	return profileOf(ctx, s.Users, u)
}

// UpdateCredentials changes email and username; both must stay unique.
func (s *UserService) UpdateCredentials(ctx context.Context, userID, email, username string) (*entity.Profile, error) {
	u, err := s.Users.UpdateCredentials(ctx, userID, strings.TrimSpace(email), strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, notFound(err, ErrUserNotFound)
	}
	s.indexUser(ctx, u)
	return profileOf(ctx, s.Users, u)
}

func (s *UserService) graph(ctx context.Context, actorID, targetID string, op func(context.Context, string, string) error) (*entity.Profile, error) {
	if actorID == targetID {
		return nil, ErrSelfFollow
	}
	if err := op(ctx, actorID, targetID); err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return s.Profile(ctx, actorID)
}

func (s *UserService) Follow(ctx context.Context, actorID, targetID string) (*entity.Profile, error) {
	return s.graph(ctx, actorID, targetID, s.Users.Follow)
}

func (s *UserService) Unfollow(ctx context.Context, actorID, targetID string) (*entity.Profile, error) {
	return s.graph(ctx, actorID, targetID, s.Users.Unfollow)
}

func (s *UserService) RemoveFollower(ctx context.Context, actorID, followerID string) (*entity.Profile, error) {
	return s.graph(ctx, actorID, followerID, s.Users.RemoveFollower)
}

func (s *UserService) List(ctx context.Context) ([]entity.User, error) {
	return s.Users.List(ctx)
}

func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.Users.Count(ctx)
}

func (s *UserService) ListByRole(ctx context.Context, role entity.Role) ([]entity.User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	return s.Users.ListByRole(ctx, role)
}

func (s *UserService) CountByRole(ctx context.Context, role entity.Role) (int64, error) {
	if !role.Valid() {
		return 0, ErrInvalidRole
	}
	return s.Users.CountByRole(ctx, role)
}

// Block disables the account and ends its session so refresh stops working at once.
func (s *UserService) Block(ctx context.Context, adminID, userID string, meta RequestMeta) (*entity.User, error) {
	u, err := s.Users.SetStatus(ctx, userID, false)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	if s.Sessions != nil {
		if err := s.Sessions.End(ctx, userID); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("end session of blocked user failed")
		}
	}
	s.statusChanged(ctx, u)
	s.Audit.Record(ctx, u.ID, u.Email, ActionBlock, meta, map[string]any{"by": adminID})
	return u, nil
}

func (s *UserService) Unblock(ctx context.Context, adminID, userID string, meta RequestMeta) (*entity.User, error) {
	u, err := s.Users.SetStatus(ctx, userID, true)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	s.statusChanged(ctx, u)
	s.Audit.Record(ctx, u.ID, u.Email, ActionUnblock, meta, map[string]any{"by": adminID})
	return u, nil
}

// statusChanged drops the popular list, which hides courses of blocked tutors.
func (s *UserService) statusChanged(ctx context.Context, u *entity.User) {
	if s.Courses != nil && u.Role == entity.RoleTutor {
		s.Courses.InvalidatePopular(ctx)
	}
}

func (s *UserService) RecentAudit(ctx context.Context, limit int) ([]entity.AuditLog, error) {
	return s.Audit.Recent(ctx, limit)
}

func (s *UserService) indexUser(ctx context.Context, u *entity.User) {
	if s.Search == nil || s.ESUsersIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"role":       u.Role,
		"profile":    u.Profile,
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
	}
	if err := s.Search.Index(ctx, s.ESUsersIndex, u.ID, doc); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
	}
}

// SearchUsers runs a fuzzy match on username and email.
func (s *UserService) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.Search == nil || s.ESUsersIndex == "" || strings.TrimSpace(q) == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	return s.Search.Search(ctx, s.ESUsersIndex, q, []string{"username^2", "email"}, size)
}
