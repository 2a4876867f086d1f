package main

import (
	"context"
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-learning-platform/config"
	"github.com/oksasatya/go-learning-platform/internal/container"
	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	"github.com/oksasatya/go-learning-platform/internal/domain/repository"
	"github.com/oksasatya/go-learning-platform/internal/infrastructure/mongodb"
	"github.com/oksasatya/go-learning-platform/pkg/helpers"
)

var (
	defaultCategories = []string{"Development", "Business", "Design", "Marketing", "Data Science"}
	defaultLanguages  = []string{"English", "Hindi", "Malayalam", "Tamil"}
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	client, err := mongodb.NewClient(ctx, cfg.MongoURI, cfg.MongoTimeout)
	if err != nil {
		logger.Fatalf("failed to connect to mongo: %v", err)
	}
	defer func() { _ = client.Disconnect(ctx) }()
	db := client.Database(cfg.MongoDB)
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		logger.Fatalf("failed to ensure indexes: %v", err)
	}
	stores := container.MongoStores(client, db)

	admin := &entity.User{
		Username: getenv("SEED_ADMIN_USERNAME", "admin"),
		Email:    getenv("SEED_ADMIN_EMAIL", "admin@example.com"),
		Role:     entity.RoleAdmin,
		Status:   true,
	}
	password := getenv("SEED_ADMIN_PASSWORD", "password123")
	if err := seedAdmin(ctx, stores.Users, admin, password); err != nil {
		logger.Fatalf("failed to seed admin: %v", err)
	}
	logger.WithFields(logrus.Fields{"id": admin.ID, "email": admin.Email}).Info("admin account ensured")

	for _, name := range defaultCategories {
		if err := seedCategory(ctx, stores.Categories, name); err != nil {
			logger.Fatalf("failed to seed category %q: %v", name, err)
		}
	}
	for _, name := range defaultLanguages {
		if err := seedLanguage(ctx, stores.Languages, name); err != nil {
			logger.Fatalf("failed to seed language %q: %v", name, err)
		}
	}
	logger.WithFields(logrus.Fields{"categories": len(defaultCategories), "languages": len(defaultLanguages)}).Info("taxonomy ensured")
}

func seedAdmin(ctx context.Context, users repository.UserRepository, admin *entity.User, password string) error {
	existing, err := users.FindByUsernameOrEmail(ctx, admin.Username, admin.Email)
	if err == nil {
		*admin = *existing
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return err
	}
	admin.Password = hash
	return users.Create(ctx, admin)
}

func seedCategory(ctx context.Context, repo repository.CategoryRepository, name string) error {
	_, err := repo.GetByName(ctx, name)
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return repo.Create(ctx, &entity.Category{CategoryName: name, Status: true})
}

func seedLanguage(ctx context.Context, repo repository.LanguageRepository, name string) error {
	_, err := repo.GetByName(ctx, name)
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return repo.Create(ctx, &entity.Language{LanguageName: name, Status: true})
}
