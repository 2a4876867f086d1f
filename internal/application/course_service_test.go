package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
)

func TestCourse_ListUnlistOwnerOnly(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	owner := h.user(t, "owner", entity.RoleTutor)
	other := h.user(t, "other", entity.RoleTutor)
	c := h.courseOf(t, owner.ID, "Go Basics", 20)
	assert.True(t, c.Status, "new courses are listed")

	_, err := h.course.SetListed(ctx, c.ID, other.ID, false)
	assert.ErrorIs(t, err, ErrNotOwner)
	got, _ := h.courses.GetByID(ctx, c.ID)
	assert.True(t, got.Status, "no mutation for a foreign tutor")

	unlisted, err := h.course.SetListed(ctx, c.ID, owner.ID, false)
	require.NoError(t, err)
	assert.False(t, unlisted.Status)
}

func TestCourse_PopularCache(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	tutor := h.user(t, "t", entity.RoleTutor)
	low := h.courseOf(t, tutor.ID, "Low", 10)
	high := h.courseOf(t, tutor.ID, "High", 10)

	_, err := h.course.ChangeRating(ctx, high.ID, 5, 1)
	require.NoError(t, err)

	popular, err := h.course.Popular(ctx)
	require.NoError(t, err)
	require.Len(t, popular, 2)
	assert.Equal(t, high.ID, popular[0].ID)
	assert.True(t, h.mr.Exists(KeyPopularCourses))

	_, err = h.course.ChangeRating(ctx, low.ID, 10, 1)
	require.NoError(t, err)
	assert.False(t, h.mr.Exists(KeyPopularCourses), "rating change drops the cache")

	popular, err = h.course.Popular(ctx)
	require.NoError(t, err)
	assert.Equal(t, low.ID, popular[0].ID)
}

func TestCourse_PopularSkipsBlockedTutor(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	admin := h.user(t, "root", entity.RoleAdmin)
	good := h.user(t, "good", entity.RoleTutor)
	bad := h.user(t, "bad", entity.RoleTutor)
	h.courseOf(t, good.ID, "Kept", 0)
	h.courseOf(t, bad.ID, "Hidden", 0)

	popular, err := h.course.Popular(ctx)
	require.NoError(t, err)
	require.Len(t, popular, 2)
	require.True(t, h.mr.Exists(KeyPopularCourses))

	_, err = h.userSvc.Block(ctx, admin.ID, bad.ID, RequestMeta{})
	require.NoError(t, err)

	popular, err = h.course.Popular(ctx)
	require.NoError(t, err)
	require.Len(t, popular, 1)
	assert.Equal(t, "Kept", popular[0].CourseName)

	_, err = h.userSvc.Unblock(ctx, admin.ID, bad.ID, RequestMeta{})
	require.NoError(t, err)

	popular, err = h.course.Popular(ctx)
	require.NoError(t, err)
	assert.Len(t, popular, 2, "unblocked tutor is back in the cached list")
}

func TestCourse_BlockingStudentKeepsPopularCache(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	admin := h.user(t, "root", entity.RoleAdmin)
	tutor := h.user(t, "tutor", entity.RoleTutor)
	student := h.user(t, "stu", entity.RoleStudent)
	h.courseOf(t, tutor.ID, "Kept", 0)

	_, err := h.course.Popular(ctx)
	require.NoError(t, err)
	_, err = h.userSvc.Block(ctx, admin.ID, student.ID, RequestMeta{})
	require.NoError(t, err)

	assert.True(t, h.mr.Exists(KeyPopularCourses))
}

func TestCourse_TutorPopularCapped(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	tutor := h.user(t, "t", entity.RoleTutor)
	for i := 0; i < 6; i++ {
		h.courseOf(t, tutor.ID, "C", 1)
	}
	got, err := h.course.TutorPopular(ctx, tutor.ID)
	require.NoError(t, err)
	assert.Len(t, got, TutorPopularLimit)
}

func TestCourse_EnrollAndDashboards(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	tutor := h.user(t, "t", entity.RoleTutor)
	student := h.user(t, "s", entity.RoleStudent)
	c := h.courseOf(t, tutor.ID, "Paid", 100)
	h.course.now = func() time.Time { return time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC) }

	enrolled, err := h.course.Enroll(ctx, c.ID, student.ID)
	require.NoError(t, err)
	require.Len(t, enrolled.PurchaseHistory, 1)
	assert.Equal(t, "March", enrolled.PurchaseHistory[0].Month)
	assert.Equal(t, 100.0, enrolled.PurchaseHistory[0].Price)
	assert.Equal(t, []string{student.ID}, enrolled.Students)

	platform, err := h.dash.PlatformRevenue(ctx)
	require.NoError(t, err)
	require.Len(t, platform, 1)
	assert.InDelta(t, 5.0, platform[0].Total, 1e-9)

	share, err := h.dash.TutorRevenue(ctx, tutor.ID)
	require.NoError(t, err)
	require.Len(t, share, 1)
	assert.InDelta(t, 95.0, share[0].Total, 1e-9)

	mine, err := h.course.StudentCourses(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Nil(t, mine[0].PurchaseHistory)

	summary, err := h.dash.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.Students)
	assert.Equal(t, int64(1), summary.Tutors)
	assert.Equal(t, int64(1), summary.Courses)
}

func TestCourse_StudentsOwnerOnly(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	tutor := h.user(t, "t", entity.RoleTutor)
	other := h.user(t, "o", entity.RoleTutor)
	student := h.user(t, "s", entity.RoleStudent)
	c := h.courseOf(t, tutor.ID, "Course", 0)
	_, err := h.course.Enroll(ctx, c.ID, student.ID)
	require.NoError(t, err)

	_, err = h.course.Students(ctx, c.ID, other.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	students, err := h.course.Students(ctx, c.ID, tutor.ID)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Empty(t, students[0].Password)

	after, err := h.course.RemoveStudent(ctx, c.ID, tutor.ID, student.ID)
	require.NoError(t, err)
	assert.Empty(t, after.Students)
}

func TestCourse_CreateIndexesAndFreeCoursesCostNothing(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	tutor := h.user(t, "t", entity.RoleTutor)
	c, err := h.course.Create(ctx, tutor.ID, entity.CourseUpdate{CourseName: " Free ", IsPaid: false, Price: 30})
	require.NoError(t, err)
	assert.Equal(t, "Free", c.CourseName)
	assert.Zero(t, c.Price)
	assert.Contains(t, h.idx.docs, "courses/"+c.ID)

	n, err := h.course.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	url, err := h.course.UploadMedia(ctx, tutor.ID, "intro.mp4", "video/mp4", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Contains(t, url, "/courses/"+tutor.ID+"/")
}
