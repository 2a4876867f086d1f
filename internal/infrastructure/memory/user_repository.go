package memory

import (
	"context"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	"github.com/oksasatya/go-learning-platform/internal/domain/repository"
)

type UserRepository struct {
	s *Store
}

func NewUserRepository(s *Store) *UserRepository {
	return &UserRepository{s: s}
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return repository.ErrDuplicate
		}
	}
	now := r.s.now()
	u.ID = newID()
	u.CreatedAt, u.UpdatedAt = now, now
	if u.Following == nil {
		u.Following = []string{}
	}
	if u.Followers == nil {
		u.Followers = []string{}
	}
	stored := copyUser(u, true)
	r.s.users[u.ID] = &stored
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := copyUser(u, true)
	return &c, nil
}

func (r *UserRepository) find(match func(*entity.User) bool) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, id := range sortedKeys(r.s.users) {
		if u := r.s.users[id]; match(u) {
			c := copyUser(u, true)
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email })
}

func (r *UserRepository) FindByUsernameOrEmail(_ context.Context, username, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Username == username || u.Email == email })
}

func (r *UserRepository) FindByIdentifier(_ context.Context, identifier string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Username == identifier || u.Email == identifier })
}

func (r *UserRepository) filter(match func(*entity.User) bool) []entity.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entity.User{}
	for _, id := range sortedKeys(r.s.users) {
		if u := r.s.users[id]; match(u) {
			out = append(out, copyUser(u, false))
		}
	}
	return out
}

func (r *UserRepository) List(_ context.Context) ([]entity.User, error) {
	return r.filter(func(u *entity.User) bool { return u.Role != entity.RoleAdmin }), nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	users, _ := r.List(ctx)
	return int64(len(users)), nil
}

func (r *UserRepository) ListByRole(_ context.Context, role entity.Role) ([]entity.User, error) {
	return r.filter(func(u *entity.User) bool { return u.Role == role }), nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role entity.Role) (int64, error) {
	users, _ := r.ListByRole(ctx, role)
	return int64(len(users)), nil
}

func (r *UserRepository) Summaries(_ context.Context, ids []string) ([]entity.UserSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.UserSummary, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out = append(out, u.Summary())
		}
	}
	return out, nil
}

func (r *UserRepository) update(id string, fn func(*entity.User) error) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if err := fn(u); err != nil {
		return nil, err
	}
	u.UpdatedAt = r.s.now()
	c := copyUser(u, false)
	return &c, nil
}

func (r *UserRepository) SetStatus(_ context.Context, id string, status bool) (*entity.User, error) {
	return r.update(id, func(u *entity.User) error { u.Status = status; return nil })
}

func (r *UserRepository) UpdatePassword(_ context.Context, id, hash string) (*entity.User, error) {
	return r.update(id, func(u *entity.User) error { u.Password = hash; return nil })
}

func (r *UserRepository) UpdateProfileImage(_ context.Context, id, url string) (*entity.User, error) {
	return r.update(id, func(u *entity.User) error { u.Profile = url; return nil })
}

func (r *UserRepository) UpdateCredentials(_ context.Context, id, email, username string) (*entity.User, error) {
	return r.update(id, func(u *entity.User) error {
		for otherID, other := range r.s.users {
			if otherID != id && (other.Email == email || other.Username == username) {
				return repository.ErrDuplicate
			}
		}
		u.Email, u.Username = email, username
		return nil
	})
}

// pair runs fn with both users under one write lock, the in-memory analogue of a transaction.
func (r *UserRepository) pair(a, b string, fn func(a, b *entity.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ua, ok := r.s.users[a]
	if !ok {
		return repository.ErrNotFound
	}
	ub, ok := r.s.users[b]
	if !ok {
		return repository.ErrNotFound
	}
	fn(ua, ub)
	now := r.s.now()
	ua.UpdatedAt, ub.UpdatedAt = now, now
	return nil
}

func (r *UserRepository) Follow(_ context.Context, actorID, targetID string) error {
	return r.pair(actorID, targetID, func(actor, target *entity.User) {
		actor.Following = addToSet(actor.Following, targetID)
		target.Followers = addToSet(target.Followers, actorID)
	})
}

func (r *UserRepository) Unfollow(_ context.Context, actorID, targetID string) error {
	return r.pair(actorID, targetID, func(actor, target *entity.User) {
		actor.Following = pull(actor.Following, targetID)
		target.Followers = pull(target.Followers, actorID)
	})
}

func (r *UserRepository) RemoveFollower(_ context.Context, actorID, followerID string) error {
	return r.pair(actorID, followerID, func(actor, follower *entity.User) {
		actor.Followers = pull(actor.Followers, followerID)
		follower.Following = pull(follower.Following, actorID)
	})
}

var _ repository.UserRepository = (*UserRepository)(nil)
