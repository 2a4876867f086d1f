package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	repo "github.com/oksasatya/go-learning-platform/internal/domain/repository"
	"github.com/oksasatya/go-learning-platform/pkg/helpers"
)

// KeyPopularCourses caches the public popular-course list.
const KeyPopularCourses = "courses:popular"

// TutorPopularLimit caps the tutor-scoped popular list.
const TutorPopularLimit = 4

type CourseService struct {
	Courses        repo.CourseRepository
	Redis          *redis.Client
	PopularTTL     time.Duration
	Media          Uploader
	Search         Indexer
	ESCoursesIndex string
	Logger         *logrus.Logger

	now func() time.Time
}

func (s *CourseService) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now().UTC()
}

func (s *CourseService) List(ctx context.Context) ([]entity.Course, error) {
	return s.Courses.List(ctx)
}

func (s *CourseService) Count(ctx context.Context) (int64, error) {
	return s.Courses.Count(ctx)
}

// Popular serves from the Redis cache when it is warm.
func (s *CourseService) Popular(ctx context.Context) ([]entity.Course, error) {
	if s.Redis != nil {
		var cached []entity.Course
		ok, err := helpers.RedisGetJSON(ctx, s.Redis, KeyPopularCourses, &cached)
		if err == nil && ok {
			return cached, nil
		}
		if err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("popular cache read failed")
		}
	}
	return s.WarmPopular(ctx)
}

// WarmPopular recomputes the popular list and stores it in the cache.
func (s *CourseService) WarmPopular(ctx context.Context) ([]entity.Course, error) {
	courses, err := s.Courses.Popular(ctx)
	if err != nil {
		return nil, err
	}
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, KeyPopularCourses, courses, s.PopularTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("popular cache write failed")
		}
	}
	return courses, nil
}

// InvalidatePopular drops the cached popular list.
func (s *CourseService) InvalidatePopular(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, KeyPopularCourses); err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("popular cache invalidate failed")
	}
}

func (s *CourseService) Detail(ctx context.Context, id string) (*entity.CourseDetail, error) {
	d, err := s.Courses.GetDetail(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrCourseNotFound)
	}
	return d, nil
}

func (s *CourseService) ByLanguage(ctx context.Context, language string) ([]entity.Course, error) {
	return s.Courses.ListByLanguage(ctx, language)
}

func (s *CourseService) CountByLanguage(ctx context.Context, language string) (int64, error) {
	return s.Courses.CountByLanguage(ctx, language)
}

// Create publishes a new listed course owned by tutorID.
func (s *CourseService) Create(ctx context.Context, tutorID string, in entity.CourseUpdate) (*entity.Course, error) {
	c := &entity.Course{
		TutorID:          tutorID,
		CourseName:       strings.TrimSpace(in.CourseName),
		Description:      in.Description,
		ShortDescription: in.ShortDescription,
		Status:           true,
		Category:         in.Category,
		Language:         in.Language,
		IsPaid:           in.IsPaid,
		Price:            in.Price,
		Level:            in.Level,
		ImgURL:           in.ImgURL,
		VideoURL:         in.VideoURL,
		Syllabus:         in.Syllabus,
		Assignments:      in.Assignments,
		Students:         []string{},
	}
	if !c.IsPaid {
		c.Price = 0
	}
	if err := s.Courses.Create(ctx, c); err != nil {
		return nil, err
	}
	s.IndexCourse(ctx, c)
	s.InvalidatePopular(ctx)
	return c, nil
}

func (s *CourseService) Update(ctx context.Context, id, tutorID string, in entity.CourseUpdate) (*entity.Course, error) {
	if !in.IsPaid {
		in.Price = 0
	}
	c, err := s.Courses.Update(ctx, id, tutorID, in)
	if err != nil {
		return nil, notFound(err, ErrNotOwner)
	}
	s.IndexCourse(ctx, c)
	s.InvalidatePopular(ctx)
	return c, nil
}

// SetListed lists or unlists a course. Only the owning tutor matches.
func (s *CourseService) SetListed(ctx context.Context, id, tutorID string, listed bool) (*entity.Course, error) {
	c, err := s.Courses.SetStatus(ctx, id, tutorID, listed)
	if err != nil {
		return nil, notFound(err, ErrNotOwner)
	}
	s.IndexCourse(ctx, c)
	s.InvalidatePopular(ctx)
	return c, nil
}

func (s *CourseService) TutorCourses(ctx context.Context, tutorID string) ([]entity.Course, error) {
	return s.Courses.TutorCourses(ctx, tutorID)
}

func (s *CourseService) TutorPopular(ctx context.Context, tutorID string) ([]entity.Course, error) {
	return s.Courses.TutorPopular(ctx, tutorID, TutorPopularLimit)
}

func (s *CourseService) owned(ctx context.Context, id, tutorID string) (*entity.Course, error) {
	c, err := s.Courses.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrCourseNotFound)
	}
	if c.TutorID != tutorID {
		return nil, ErrNotOwner
	}
	return c, nil
}

// Students lists the users enrolled in a course of tutorID.
func (s *CourseService) Students(ctx context.Context, id, tutorID string) ([]entity.User, error) {
	if _, err := s.owned(ctx, id, tutorID); err != nil {
		return nil, err
	}
	return s.Courses.Students(ctx, id)
}

func (s *CourseService) RemoveStudent(ctx context.Context, id, tutorID, studentID string) (*entity.Course, error) {
	if _, err := s.owned(ctx, id, tutorID); err != nil {
		return nil, err
	}
	c, err := s.Courses.RemoveStudent(ctx, id, studentID)
	if err != nil {
		return nil, notFound(err, ErrCourseNotFound)
	}
	return c, nil
}

// Enroll records a purchase at the current price and adds the student.
func (s *CourseService) Enroll(ctx context.Context, id, studentID string) (*entity.Course, error) {
	c, err := s.Courses.Enroll(ctx, id, studentID, s.clock())
	if err != nil {
		return nil, notFound(err, ErrCourseNotFound)
	}
	s.InvalidatePopular(ctx)
	return c, nil
}

func (s *CourseService) StudentCourses(ctx context.Context, studentID string) ([]entity.Course, error) {
	return s.Courses.StudentCourses(ctx, studentID)
}

// UploadMedia stores a course image or video and returns its URL.
func (s *CourseService) UploadMedia(ctx context.Context, tutorID, filename, contentType string, r io.Reader) (string, error) {
	if s.Media == nil {
		return "", ErrMediaDisabled
	}
	return s.Media.Upload(ctx, "courses", tutorID, filename, contentType, r)
}

// ChangeRating applies the rating rule and drops the popular cache.
func (s *CourseService) ChangeRating(ctx context.Context, id string, rating float64, count int64) (*entity.Course, error) {
	c, err := s.Courses.ChangeRating(ctx, id, rating, count)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidReviewCount) {
			return nil, err
		}
		return nil, notFound(err, ErrCourseNotFound)
	}
	s.IndexCourse(ctx, c)
	s.InvalidatePopular(ctx)
	return c, nil
}

func courseDoc(c *entity.Course) map[string]any {
	return map[string]any{
		"id":               c.ID,
		"tutor":            c.TutorID,
		"coursename":       c.CourseName,
		"shortDescription": c.ShortDescription,
		"description":      c.Description,
		"category":         c.Category,
		"language":         c.Language,
		"level":            c.Level,
		"price":            c.Price,
		"rating":           c.Rating,
		"status":           c.Status,
		"imgUrl":           c.ImgURL,
		"updated_at":       c.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func (s *CourseService) IndexCourse(ctx context.Context, c *entity.Course) {
	if s.Search == nil || s.ESCoursesIndex == "" {
		return
	}
	if err := s.Search.Index(ctx, s.ESCoursesIndex, c.ID, courseDoc(c)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("course_id", c.ID).Warn("es index failed")
	}
}

// Reindex pushes every listed course into the search index. It returns how many were sent.
func (s *CourseService) Reindex(ctx context.Context) (int, error) {
	if s.Search == nil || s.ESCoursesIndex == "" {
		return 0, nil
	}
	courses, err := s.Courses.List(ctx)
	if err != nil {
		return 0, err
	}
	for i := range courses {
		s.IndexCourse(ctx, &courses[i])
	}
	return len(courses), nil
}

func (s *CourseService) SearchCourses(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.Search == nil || s.ESCoursesIndex == "" || strings.TrimSpace(q) == "" {
		return []map[string]any{}, nil
	}
	return s.Search.Search(ctx, s.ESCoursesIndex, q, []string{"coursename^3", "shortDescription", "description", "category", "language"}, size)
}
