package memory

import (
	"context"
	"strings"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	"github.com/oksasatya/go-learning-platform/internal/domain/repository"
)

type CategoryRepository struct {
	s *Store
}

func NewCategoryRepository(s *Store) *CategoryRepository {
	return &CategoryRepository{s: s}
}

func (r *CategoryRepository) List(_ context.Context) ([]entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entity.Category{}
	for _, id := range sortedKeys(r.s.categories) {
		out = append(out, *r.s.categories[id])
	}
	return out, nil
}

func (r *CategoryRepository) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (r *CategoryRepository) GetByName(_ context.Context, name string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.categories {
		if strings.EqualFold(c.CategoryName, name) {
			out := *c
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *CategoryRepository) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = newID()
	c.CreatedAt = r.s.now()
	stored := *c
	r.s.categories[c.ID] = &stored
	return nil
}

func (r *CategoryRepository) mutate(id string, fn func(*entity.Category)) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	fn(c)
	out := *c
	return &out, nil
}

func (r *CategoryRepository) Update(_ context.Context, id, name, description string) (*entity.Category, error) {
	return r.mutate(id, func(c *entity.Category) { c.CategoryName, c.Description = name, description })
}

func (r *CategoryRepository) SetStatus(_ context.Context, id string, status bool) (*entity.Category, error) {
	return r.mutate(id, func(c *entity.Category) { c.Status = status })
}

type LanguageRepository struct {
	s *Store
}

func NewLanguageRepository(s *Store) *LanguageRepository {
	return &LanguageRepository{s: s}
}

func (r *LanguageRepository) List(_ context.Context) ([]entity.Language, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entity.Language{}
	for _, id := range sortedKeys(r.s.languages) {
		out = append(out, *r.s.languages[id])
	}
	return out, nil
}

func (r *LanguageRepository) GetByID(_ context.Context, id string) (*entity.Language, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.languages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *l
	return &out, nil
}

func (r *LanguageRepository) GetByName(_ context.Context, name string) (*entity.Language, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, l := range r.s.languages {
		if strings.EqualFold(l.LanguageName, name) {
			out := *l
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *LanguageRepository) Create(_ context.Context, l *entity.Language) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l.ID = newID()
	l.CreatedAt = r.s.now()
	stored := *l
	r.s.languages[l.ID] = &stored
	return nil
}

func (r *LanguageRepository) mutate(id string, fn func(*entity.Language)) (*entity.Language, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.languages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	fn(l)
	out := *l
	return &out, nil
}

func (r *LanguageRepository) Update(_ context.Context, id, name, description string) (*entity.Language, error) {
	return r.mutate(id, func(l *entity.Language) { l.LanguageName, l.Description = name, description })
}

func (r *LanguageRepository) SetStatus(_ context.Context, id string, status bool) (*entity.Language, error) {
	return r.mutate(id, func(l *entity.Language) { l.Status = status })
}

var (
	_ repository.CategoryRepository = (*CategoryRepository)(nil)
	_ repository.LanguageRepository = (*LanguageRepository)(nil)
)
