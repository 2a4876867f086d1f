package application

import (
	"context"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	repo "github.com/oksasatya/go-learning-platform/internal/domain/repository"
)

// DashboardService serves the revenue rollups and admin counters.
type DashboardService struct {
	Users   repo.UserRepository
	Courses repo.CourseRepository
}

// PlatformRevenue is the platform cut of every purchase, per month.
func (s *DashboardService) PlatformRevenue(ctx context.Context) ([]entity.MonthlyRevenue, error) {
	return s.Courses.RevenueByMonth(ctx, entity.PlatformShare)
}

// TutorRevenue is the tutor share of purchases of the tutor's courses, per month.
func (s *DashboardService) TutorRevenue(ctx context.Context, tutorID string) ([]entity.MonthlyRevenue, error) {
	return s.Courses.TutorRevenueByMonth(ctx, tutorID, entity.TutorShare)
}

func (s *DashboardService) Summary(ctx context.Context) (*entity.DashboardSummary, error) {
	var (
		out entity.DashboardSummary
		err error
	)
	if out.Users, err = s.Users.Count(ctx); err != nil {
		return nil, err
	}
	if out.Students, err = s.Users.CountByRole(ctx, entity.RoleStudent); err != nil {
		return nil, err
	}
	if out.Tutors, err = s.Users.CountByRole(ctx, entity.RoleTutor); err != nil {
		return nil, err
	}
	if out.Courses, err = s.Courses.Count(ctx); err != nil {
		return nil, err
	}
	return &out, nil
}
