package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	repo "github.com/oksasatya/go-learning-platform/internal/domain/repository"
)

type ReviewService struct {
	Reviews repo.ReviewRepository
	Courses *CourseService
	Logger  *logrus.Logger
}

func (s *ReviewService) List(ctx context.Context, courseID string) ([]entity.ReviewWithUser, error) {
	return s.Reviews.ListByCourse(ctx, courseID)
}

// IsRecorded reports whether userID already reviewed courseID.
func (s *ReviewService) IsRecorded(ctx context.Context, courseID, userID string) (bool, error) {
	_, err := s.Reviews.FindByCourseAndUser(ctx, courseID, userID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// Post stores one review per (course, user) and folds its rating into the course.
// The uniqueness check and the insert are separate store calls.
func (s *ReviewService) Post(ctx context.Context, courseID, userID, text string, rating float64) (*entity.ReviewWithUser, error) {
	if _, err := s.Courses.Courses.GetByID(ctx, courseID); err != nil {
		return nil, notFound(err, ErrCourseNotFound)
	}
	recorded, err := s.IsRecorded(ctx, courseID, userID)
	if err != nil {
		return nil, err
	}
	if recorded {
		return nil, ErrAlreadyReviewed
	}
	rv, err := s.Reviews.Create(ctx, &entity.Review{
		CourseID: courseID,
		UserID:   userID,
		Review:   strings.TrimSpace(text),
		Rating:   rating,
	})
	if err != nil {
		return nil, err
	}
	count, err := s.Reviews.CountByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Courses.ChangeRating(ctx, courseID, rating, count); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *ReviewService) authored(ctx context.Context, id, userID string) (*entity.Review, error) {
	rv, err := s.Reviews.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrReviewNotFound)
	}
	if rv.UserID != userID {
		return nil, ErrNotReviewer
	}
	return rv, nil
}

// Edit changes the text and rating of the caller's own review. The course rating is left as is.
func (s *ReviewService) Edit(ctx context.Context, id, userID, text string, rating float64) (*entity.Review, error) {
	if _, err := s.authored(ctx, id, userID); err != nil {
		return nil, err
	}
	rv, err := s.Reviews.Update(ctx, id, strings.TrimSpace(text), rating)
	if err != nil {
		return nil, notFound(err, ErrReviewNotFound)
	}
	return rv, nil
}

func (s *ReviewService) Delete(ctx context.Context, id, userID string) (*entity.Review, error) {
	if _, err := s.authored(ctx, id, userID); err != nil {
		return nil, err
	}
	rv, err := s.Reviews.Delete(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrReviewNotFound)
	}
	return rv, nil
}
