package memory

import (
	"context"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	"github.com/oksasatya/go-learning-platform/internal/domain/repository"
)

type ReviewRepository struct {
	s *Store
}

func NewReviewRepository(s *Store) *ReviewRepository {
	return &ReviewRepository{s: s}
}

func (r *ReviewRepository) withUser(rv *entity.Review) entity.ReviewWithUser {
	out := entity.ReviewWithUser{Review: *rv}
	if u, ok := r.s.users[rv.UserID]; ok {
		out.User = u.Summary()
	}
	return out
}

func (r *ReviewRepository) ListByCourse(_ context.Context, courseID string) ([]entity.ReviewWithUser, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entity.ReviewWithUser{}
	for _, id := range sortedKeys(r.s.reviews) {
		if rv := r.s.reviews[id]; rv.CourseID == courseID {
			out = append(out, r.withUser(rv))
		}
	}
	return out, nil
}

func (r *ReviewRepository) CountByCourse(_ context.Context, courseID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, rv := range r.s.reviews {
		if rv.CourseID == courseID {
			n++
		}
	}
	return n, nil
}

func (r *ReviewRepository) Create(_ context.Context, rv *entity.Review) (*entity.ReviewWithUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rv.ID = newID()
	rv.CreatedAt = r.s.now()
	stored := *rv
	r.s.reviews[rv.ID] = &stored
	out := r.withUser(&stored)
	return &out, nil
}

func (r *ReviewRepository) FindByCourseAndUser(_ context.Context, courseID, userID string) (*entity.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, rv := range r.s.reviews {
		if rv.CourseID == courseID && rv.UserID == userID {
			out := *rv
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *ReviewRepository) GetByID(_ context.Context, id string) (*entity.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rv, ok := r.s.reviews[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *rv
	return &out, nil
}

func (r *ReviewRepository) Update(_ context.Context, id, text string, rating float64) (*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rv, ok := r.s.reviews[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	rv.Review, rv.Rating = text, rating
	out := *rv
	return &out, nil
}

func (r *ReviewRepository) Delete(_ context.Context, id string) (*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rv, ok := r.s.reviews[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(r.s.reviews, id)
	out := *rv
	return &out, nil
}

var _ repository.ReviewRepository = (*ReviewRepository)(nil)
