package memory

import (
	"context"
	"sort"
	"time"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	"github.com/oksasatya/go-learning-platform/internal/domain/repository"
)

type CourseRepository struct {
	s *Store
}

func NewCourseRepository(s *Store) *CourseRepository {
	return &CourseRepository{s: s}
}

func (r *CourseRepository) Create(_ context.Context, c *entity.Course) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	c.ID = newID()
	c.CreatedAt, c.UpdatedAt = now, now
	if c.Students == nil {
		c.Students = []string{}
	}
	stored := copyCourse(c)
	r.s.courses[c.ID] = &stored
	return nil
}

func (r *CourseRepository) GetByID(_ context.Context, id string) (*entity.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.courses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := copyCourse(c)
	return &out, nil
}

func (r *CourseRepository) GetDetail(_ context.Context, id string) (*entity.CourseDetail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.courses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	d := &entity.CourseDetail{Course: publicCourse(c)}
	if t, ok := r.s.users[c.TutorID]; ok {
		sum := t.Summary()
		d.Tutor = &sum
	}
	return d, nil
}

func (r *CourseRepository) mutate(id string, match func(*entity.Course) bool, fn func(*entity.Course)) (*entity.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.courses[id]
	if !ok || (match != nil && !match(c)) {
		return nil, repository.ErrNotFound
	}
	fn(c)
	c.UpdatedAt = r.s.now()
	out := copyCourse(c)
	return &out, nil
}

func ownedBy(tutorID string) func(*entity.Course) bool {
	return func(c *entity.Course) bool { return c.TutorID == tutorID }
}

func (r *CourseRepository) Update(_ context.Context, id, tutorID string, in entity.CourseUpdate) (*entity.Course, error) {
	return r.mutate(id, ownedBy(tutorID), func(c *entity.Course) {
		c.CourseName = in.CourseName
		c.Description = in.Description
		c.ShortDescription = in.ShortDescription
		c.Category = in.Category
		c.Language = in.Language
		c.IsPaid = in.IsPaid
		c.Price = in.Price
		c.Level = in.Level
		c.ImgURL = in.ImgURL
		c.VideoURL = in.VideoURL
		c.Syllabus = append([]entity.Session(nil), in.Syllabus...)
		c.Assignments = append([]entity.Assignment(nil), in.Assignments...)
	})
}

func (r *CourseRepository) SetStatus(_ context.Context, id, tutorID string, status bool) (*entity.Course, error) {
	return r.mutate(id, ownedBy(tutorID), func(c *entity.Course) { c.Status = status })
}

func (r *CourseRepository) collect(match func(*entity.Course) bool) []entity.Course {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entity.Course{}
	for _, id := range sortedKeys(r.s.courses) {
		if c := r.s.courses[id]; match(c) {
			out = append(out, copyCourse(c))
		}
	}
	return out
}

// publicCourse is the copy served to public listings, without purchase history.
func publicCourse(c *entity.Course) entity.Course {
	out := copyCourse(c)
	out.PurchaseHistory = nil
	return out
}

func (r *CourseRepository) listed(extra func(*entity.Course) bool) []entity.Course {
	courses := r.collect(func(c *entity.Course) bool {
		return r.s.tutorListed(c.TutorID) && (extra == nil || extra(c))
	})
	for i := range courses {
		courses[i].PurchaseHistory = nil
	}
	return courses
}

func byRatingDesc(courses []entity.Course) {
	sort.SliceStable(courses, func(i, j int) bool { return courses[i].Rating > courses[j].Rating })
}

func (r *CourseRepository) List(_ context.Context) ([]entity.Course, error) {
	return r.listed(nil), nil
}

func (r *CourseRepository) Count(_ context.Context) (int64, error) {
	return int64(len(r.listed(nil))), nil
}

func (r *CourseRepository) Popular(_ context.Context) ([]entity.Course, error) {
	courses := r.listed(nil)
	byRatingDesc(courses)
	return courses, nil
}

func (r *CourseRepository) TutorCourses(_ context.Context, tutorID string) ([]entity.Course, error) {
	courses := r.collect(ownedBy(tutorID))
	for i, j := 0, len(courses)-1; i < j; i, j = i+1, j-1 {
		courses[i], courses[j] = courses[j], courses[i]
	}
	return courses, nil
}

func (r *CourseRepository) TutorPopular(_ context.Context, tutorID string, limit int64) ([]entity.Course, error) {
	courses := r.collect(ownedBy(tutorID))
	byRatingDesc(courses)
	if limit > 0 && int64(len(courses)) > limit {
		courses = courses[:limit]
	}
	return courses, nil
}

func (r *CourseRepository) StudentCourses(_ context.Context, studentID string) ([]entity.Course, error) {
	courses := r.collect(func(c *entity.Course) bool { return c.HasStudent(studentID) })
	for i := range courses {
		courses[i].PurchaseHistory = nil
	}
	return courses, nil
}

func (r *CourseRepository) ListByLanguage(_ context.Context, language string) ([]entity.Course, error) {
	return r.listed(func(c *entity.Course) bool { return c.Language == language }), nil
}

func (r *CourseRepository) CountByLanguage(ctx context.Context, language string) (int64, error) {
	courses, _ := r.ListByLanguage(ctx, language)
	return int64(len(courses)), nil
}

func (r *CourseRepository) RenameLanguage(_ context.Context, oldName, newName string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, c := range r.s.courses {
		if c.Language == oldName {
			c.Language = newName
			n++
		}
	}
	return n, nil
}

func (r *CourseRepository) ChangeRating(_ context.Context, id string, rating float64, count int64) (*entity.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.courses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	next, err := entity.NextRating(c.Rating, rating, count)
	if err != nil {
		return nil, err
	}
	c.Rating = next
	out := copyCourse(c)
	return &out, nil
}

func (r *CourseRepository) Enroll(_ context.Context, id, studentID string, at time.Time) (*entity.Course, error) {
	return r.mutate(id, nil, func(c *entity.Course) {
		c.Students = append(c.Students, studentID)
		c.PurchaseHistory = append(c.PurchaseHistory, entity.NewPurchase(studentID, c.Price, at))
	})
}

func (r *CourseRepository) RemoveStudent(_ context.Context, id, studentID string) (*entity.Course, error) {
	return r.mutate(id, nil, func(c *entity.Course) { c.Students = pull(c.Students, studentID) })
}

func (r *CourseRepository) Students(_ context.Context, id string) ([]entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.courses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := []entity.User{}
	for _, uid := range sortedKeys(r.s.users) {
		if c.HasStudent(uid) {
			out = append(out, copyUser(r.s.users[uid], false))
		}
	}
	return out, nil
}

func (r *CourseRepository) revenue(match func(*entity.Course) bool, share float64) []entity.MonthlyRevenue {
	totals := map[string]float64{}
	for _, c := range r.collect(match) {
		for _, p := range c.PurchaseHistory {
			totals[p.Month] += p.Price * share
		}
	}
	out := make([]entity.MonthlyRevenue, 0, len(totals))
	for month, total := range totals {
		out = append(out, entity.MonthlyRevenue{Month: month, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	return out
}

func (r *CourseRepository) RevenueByMonth(_ context.Context, share float64) ([]entity.MonthlyRevenue, error) {
	return r.revenue(func(*entity.Course) bool { return true }, share), nil
}

func (r *CourseRepository) TutorRevenueByMonth(_ context.Context, tutorID string, share float64) ([]entity.MonthlyRevenue, error) {
	return r.revenue(ownedBy(tutorID), share), nil
}

var _ repository.CourseRepository = (*CourseRepository)(nil)
