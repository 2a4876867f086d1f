package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	repo "github.com/oksasatya/go-learning-platform/internal/domain/repository"
)

type CategoryService struct {
	Categories repo.CategoryRepository
}

func (s *CategoryService) List(ctx context.Context) ([]entity.Category, error) {
	return s.Categories.List(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id string) (*entity.Category, error) {
	c, err := s.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrCategoryNotFound)
	}
	return c, nil
}

// nameTaken reports whether another record (not selfID) already carries the name, ignoring case.
func nameTaken[T any](ctx context.Context, lookup func(context.Context, string) (*T, error), name, selfID string, idOf func(*T) string) (bool, error) {
	found, err := lookup(ctx, name)
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return idOf(found) != selfID, nil
}

func categoryID(c *entity.Category) string { return c.ID }
func languageID(l *entity.Language) string { return l.ID }

func (s *CategoryService) Create(ctx context.Context, name, description string) (*entity.Category, error) {
	name = strings.TrimSpace(name)
	taken, err := nameTaken(ctx, s.Categories.GetByName, name, "", categoryID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrCategoryExists
	}
	c := &entity.Category{CategoryName: name, Description: description, Status: true}
	if err := s.Categories.Create(ctx, c); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) Edit(ctx context.Context, id, name, description string) (*entity.Category, error) {
	name = strings.TrimSpace(name)
	taken, err := nameTaken(ctx, s.Categories.GetByName, name, id, categoryID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrCategoryExists
	}
	c, err := s.Categories.Update(ctx, id, name, description)
	if err != nil {
		return nil, notFound(err, ErrCategoryNotFound)
	}
	return c, nil
}

func (s *CategoryService) SetListed(ctx context.Context, id string, listed bool) (*entity.Category, error) {
	c, err := s.Categories.SetStatus(ctx, id, listed)
	if err != nil {
		return nil, notFound(err, ErrCategoryNotFound)
	}
	return c, nil
}

type LanguageService struct {
	Languages repo.LanguageRepository
	Courses   *CourseService
	Logger    *logrus.Logger
}

func (s *LanguageService) List(ctx context.Context) ([]entity.Language, error) {
	return s.Languages.List(ctx)
}

func (s *LanguageService) Get(ctx context.Context, id string) (*entity.Language, error) {
	l, err := s.Languages.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrLanguageNotFound)
	}
	return l, nil
}

func (s *LanguageService) Create(ctx context.Context, name, description string) (*entity.Language, error) {
	name = strings.TrimSpace(name)
	taken, err := nameTaken(ctx, s.Languages.GetByName, name, "", languageID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrLanguageExists
	}
	l := &entity.Language{LanguageName: name, Description: description, Status: true}
	if err := s.Languages.Create(ctx, l); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrLanguageExists
		}
		return nil, err
	}
	return l, nil
}

// Edit updates a language. A rename is carried over to every course tagged with the old name.
func (s *LanguageService) Edit(ctx context.Context, id, name, description string) (*entity.Language, error) {
	name = strings.TrimSpace(name)
	current, err := s.Languages.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrLanguageNotFound)
	}
	taken, err := nameTaken(ctx, s.Languages.GetByName, name, id, languageID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrLanguageExists
	}
	l, err := s.Languages.Update(ctx, id, name, description)
	if err != nil {
		return nil, notFound(err, ErrLanguageNotFound)
	}
	if current.LanguageName != name && s.Courses != nil {
		n, err := s.Courses.Courses.RenameLanguage(ctx, current.LanguageName, name)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			s.Courses.InvalidatePopular(ctx)
		}
		if s.Logger != nil {
			s.Logger.WithFields(logrus.Fields{"from": current.LanguageName, "to": name, "courses": n}).Info("language renamed")
		}
	}
	return l, nil
}

func (s *LanguageService) SetListed(ctx context.Context, id string, listed bool) (*entity.Language, error) {
	l, err := s.Languages.SetStatus(ctx, id, listed)
	if err != nil {
		return nil, notFound(err, ErrLanguageNotFound)
	}
	return l, nil
}
