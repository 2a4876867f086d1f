package repository

import (
	"context"
	"time"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
)

// CourseRepository covers catalog queries, enrollment and the purchase rollups.
// Listing queries skip courses whose tutor is blocked unless stated otherwise.
type CourseRepository interface {
	Create(ctx context.Context, c *entity.Course) error
	GetByID(ctx context.Context, id string) (*entity.Course, error)
	GetDetail(ctx context.Context, id string) (*entity.CourseDetail, error)
	Update(ctx context.Context, id, tutorID string, in entity.CourseUpdate) (*entity.Course, error)
	// SetStatus lists or unlists a course; it matches on both id and owning tutor.
	SetStatus(ctx context.Context, id, tutorID string, status bool) (*entity.Course, error)

	List(ctx context.Context) ([]entity.Course, error)
	Count(ctx context.Context) (int64, error)
	Popular(ctx context.Context) ([]entity.Course, error)
	// TutorCourses is newest first and includes every course of the tutor.
	TutorCourses(ctx context.Context, tutorID string) ([]entity.Course, error)
	TutorPopular(ctx context.Context, tutorID string, limit int64) ([]entity.Course, error)
	// StudentCourses omits purchase history.
	StudentCourses(ctx context.Context, studentID string) ([]entity.Course, error)
	ListByLanguage(ctx context.Context, language string) ([]entity.Course, error)
	CountByLanguage(ctx context.Context, language string) (int64, error)
	RenameLanguage(ctx context.Context, oldName, newName string) (int64, error)

	// ChangeRating applies entity.NextRating to the stored rating.
	ChangeRating(ctx context.Context, id string, rating float64, count int64) (*entity.Course, error)
	// Enroll appends one purchase entry with the current price and pushes the student id.
	Enroll(ctx context.Context, id, studentID string, at time.Time) (*entity.Course, error)
	RemoveStudent(ctx context.Context, id, studentID string) (*entity.Course, error)
	// Students returns the enrolled users without password hashes.
	Students(ctx context.Context, id string) ([]entity.User, error)

	// RevenueByMonth sums price*share over all purchase history, grouped by month name, month desc.
	RevenueByMonth(ctx context.Context, share float64) ([]entity.MonthlyRevenue, error)
	TutorRevenueByMonth(ctx context.Context, tutorID string, share float64) ([]entity.MonthlyRevenue, error)
}
