package application

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	"github.com/oksasatya/go-learning-platform/internal/infrastructure/memory"
	"github.com/oksasatya/go-learning-platform/pkg/helpers"
	"github.com/oksasatya/go-learning-platform/pkg/mailer"
	mailtpl "github.com/oksasatya/go-learning-platform/pkg/mailer/templates"
)

type fakePublisher struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, body.(mailer.EmailJob))
	return nil
}

func (p *fakePublisher) last(t *testing.T) mailer.EmailJob {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	require.NotEmpty(t, p.jobs)
	return p.jobs[len(p.jobs)-1]
}

type fakeVerifier map[string]*helpers.GoogleIdentity

func (v fakeVerifier) Verify(_ context.Context, token string) (*helpers.GoogleIdentity, error) {
	if id, ok := v[token]; ok {
		return id, nil
	}
	return nil, io.ErrUnexpectedEOF
}

type fakeIndexer struct {
	mu   sync.Mutex
	docs map[string]map[string]any
}

func (f *fakeIndexer) Index(_ context.Context, index, id string, doc any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.docs == nil {
		f.docs = map[string]map[string]any{}
	}
	f.docs[index+"/"+id] = doc.(map[string]any)
	return nil
}

func (f *fakeIndexer) Search(context.Context, string, string, []string, int) ([]map[string]any, error) {
	return []map[string]any{}, nil
}

type fakeUploader struct{ calls []string }

func (u *fakeUploader) Upload(_ context.Context, prefix, owner, filename, _ string, _ io.Reader) (string, error) {
	path := helpers.ObjectPath(prefix, owner, filename)
	u.calls = append(u.calls, path)
	return helpers.PublicURL("bucket", path), nil
}

type broadcast struct {
	room, event string
	data        any
}

type fakeHub struct{ sent []broadcast }

func (h *fakeHub) Broadcast(room, event string, data any) {
	h.sent = append(h.sent, broadcast{room, event, data})
}

// harness wires every service against the in-memory store and miniredis.
type harness struct {
	mr    *miniredis.Miniredis
	rdb   *redis.Client
	pub   *fakePublisher
	idx   *fakeIndexer
	media *fakeUploader
	hub   *fakeHub
	audit *memory.AuditRepository

	users    *memory.UserRepository
	courses  *memory.CourseRepository
	auth     *AuthService
	userSvc  *UserService
	course   *CourseService
	review   *ReviewService
	category *CategoryService
	language *LanguageService
	chat     *ChatService
	dash     *DashboardService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := helpers.NewRedisClient(mr.Addr(), "", 0)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := memory.NewStore()
	h := &harness{
		mr:      mr,
		rdb:     rdb,
		pub:     &fakePublisher{},
		idx:     &fakeIndexer{},
		media:   &fakeUploader{},
		hub:     &fakeHub{},
		audit:   memory.NewAuditRepository(),
		users:   memory.NewUserRepository(store),
		courses: memory.NewCourseRepository(store),
	}
	sessions := NewSessionStore(rdb, time.Hour)
	auditor := &Auditor{Repo: h.audit, Logger: logger}
	notify := &Notifier{Pub: h.pub, Brand: mailtpl.Brand{AppName: "Learn"}, Enabled: true, OTPTTL: 5 * time.Minute, Logger: logger}

	h.auth = &AuthService{
		Users:    h.users,
		JWT:      helpers.NewJWTManager("a", "r", time.Minute, time.Hour),
		Sessions: sessions,
		Redis:    rdb,
		OTPTTL:   5 * time.Minute,
		Notify:   notify,
		Google: fakeVerifier{
			"good": {Subject: "g1", Email: "gina@example.com", Name: "Gina Lee", Picture: "https://pic"},
		},
		Audit:  auditor,
		Logger: logger,
	}
	h.course = &CourseService{Courses: h.courses, Redis: rdb, PopularTTL: time.Minute, Media: h.media, Search: h.idx, ESCoursesIndex: "courses", Logger: logger}
	h.userSvc = &UserService{Users: h.users, Sessions: sessions, Media: h.media, Search: h.idx, ESUsersIndex: "users", Courses: h.course, Audit: auditor, Logger: logger}
	h.review = &ReviewService{Reviews: memory.NewReviewRepository(store), Courses: h.course, Logger: logger}
	h.category = &CategoryService{Categories: memory.NewCategoryRepository(store)}
	h.language = &LanguageService{Languages: memory.NewLanguageRepository(store), Courses: h.course, Logger: logger}
	h.chat = &ChatService{Chats: memory.NewChatRepository(store), Users: h.users, Hub: h.hub}
	h.dash = &DashboardService{Users: h.users, Courses: h.courses}
	return h
}

func (h *harness) user(t *testing.T, name string, role entity.Role) *entity.User {
	t.Helper()
	hash, err := helpers.HashPassword("password123")
	require.NoError(t, err)
	u := &entity.User{Username: name, Email: name + "@example.com", Password: hash, Role: role, Status: true}
	require.NoError(t, h.users.Create(context.Background(), u))
	return u
}

func (h *harness) courseOf(t *testing.T, tutorID, name string, price float64) *entity.Course {
	t.Helper()
	c, err := h.course.Create(context.Background(), tutorID, entity.CourseUpdate{
		CourseName: name, Language: "English", Category: "Dev", IsPaid: price > 0, Price: price,
	})
	require.NoError(t, err)
	return c
}
