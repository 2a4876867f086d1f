package container

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oksasatya/go-learning-platform/config"
	"github.com/oksasatya/go-learning-platform/internal/application"
	"github.com/oksasatya/go-learning-platform/internal/domain/repository"
	"github.com/oksasatya/go-learning-platform/internal/infrastructure/memory"
	"github.com/oksasatya/go-learning-platform/internal/infrastructure/mongodb"
	"github.com/oksasatya/go-learning-platform/internal/interface/ws"
	"github.com/oksasatya/go-learning-platform/pkg/helpers"
	mailtpl "github.com/oksasatya/go-learning-platform/pkg/mailer/templates"
)

// Stores groups the repositories provided by one store driver.
type Stores struct {
	Users      repository.UserRepository
	Courses    repository.CourseRepository
	Reviews    repository.ReviewRepository
	Categories repository.CategoryRepository
	Languages  repository.LanguageRepository
	Chats      repository.ChatRepository
	Audit      repository.AuditRepository
}

// MemoryStores backs every repository with one in-process store.
func MemoryStores(s *memory.Store) Stores {
	return Stores{
		Users:      memory.NewUserRepository(s),
		Courses:    memory.NewCourseRepository(s),
		Reviews:    memory.NewReviewRepository(s),
		Categories: memory.NewCategoryRepository(s),
		Languages:  memory.NewLanguageRepository(s),
		Chats:      memory.NewChatRepository(s),
		Audit:      memory.NewAuditRepository(),
	}
}

// MongoStores backs every repository with MongoDB. Audit stays in memory until
// a Postgres pool replaces it.
func MongoStores(client *mongo.Client, db *mongo.Database) Stores {
	return Stores{
		Users:      mongodb.NewUserRepository(client, db),
		Courses:    mongodb.NewCourseRepository(db),
		Reviews:    mongodb.NewReviewRepository(db),
		Categories: mongodb.NewCategoryRepository(db),
		Languages:  mongodb.NewLanguageRepository(db),
		Chats:      mongodb.NewChatRepository(db),
		Audit:      memory.NewAuditRepository(),
	}
}

// Infra carries the optional outbound adapters. A nil field turns the feature off.
type Infra struct {
	Redis     *redis.Client
	Publisher application.Publisher
	Search    application.Indexer
	Media     application.Uploader
	Google    application.IdentityVerifier
}

// Container holds the constructed components shared by router modules and jobs.
type Container struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Redis    *redis.Client
	JWT      *helpers.JWTManager
	Cookies  *helpers.Manager
	Sessions *application.SessionStore
	Hub      *ws.Hub

	Auth       *application.AuthService
	Users      *application.UserService
	Courses    *application.CourseService
	Reviews    *application.ReviewService
	Categories *application.CategoryService
	Languages  *application.LanguageService
	Chats      *application.ChatService
	Dashboard  *application.DashboardService
}

func New(cfg *config.Config, logger *logrus.Logger, stores Stores, infra Infra) *Container {
	jwt := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)
	sessions := application.NewSessionStore(infra.Redis, cfg.RefreshTTL)
	hub := ws.NewHub(logger)
	auditor := &application.Auditor{Repo: stores.Audit, Logger: logger}
	notify := &application.Notifier{
		Pub: infra.Publisher,
		Brand: mailtpl.Brand{
			AppName:     cfg.AppName,
			CompanyName: cfg.CompanyName,
			LogoURL:     cfg.LogoURL,
			SupportURL:  cfg.SupportURL,
		},
		Enabled: cfg.MailSendEnabled,
		OTPTTL:  cfg.OTPTTL,
		Logger:  logger,
	}

	courses := &application.CourseService{
		Courses:        stores.Courses,
		Redis:          infra.Redis,
		PopularTTL:     cfg.PopularCacheTTL,
		Media:          infra.Media,
		Search:         infra.Search,
		ESCoursesIndex: cfg.ESCoursesIndex,
		Logger:         logger,
	}

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Redis:    infra.Redis,
		JWT:      jwt,
		Cookies:  helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure),
		Sessions: sessions,
		Hub:      hub,
		Auth: &application.AuthService{
			Users:    stores.Users,
			JWT:      jwt,
			Sessions: sessions,
			Redis:    infra.Redis,
			OTPTTL:   cfg.OTPTTL,
			Notify:   notify,
			Google:   infra.Google,
			Audit:    auditor,
			Logger:   logger,
		},
		Users: &application.UserService{
			Users:        stores.Users,
			Sessions:     sessions,
			Media:        infra.Media,
			Search:       infra.Search,
			ESUsersIndex: cfg.ESUsersIndex,
			Courses:      courses,
			Audit:        auditor,
			Logger:       logger,
		},
		Courses:    courses,
		Reviews:    &application.ReviewService{Reviews: stores.Reviews, Courses: courses, Logger: logger},
		Categories: &application.CategoryService{Categories: stores.Categories},
		Languages:  &application.LanguageService{Languages: stores.Languages, Courses: courses, Logger: logger},
		Chats:      &application.ChatService{Chats: stores.Chats, Users: stores.Users, Hub: hub},
		Dashboard:  &application.DashboardService{Users: stores.Users, Courses: stores.Courses},
	}
}

// ChatGuard lets a websocket client join only the rooms of chats it takes part in.
func (c *Container) ChatGuard() ws.RoomGuard {
	return func(ctx context.Context, room, userID string) error {
		_, err := c.Chats.Member(ctx, room, userID)
		return err
	}
}
