package main

import (
	"context"
	"database/sql"
	"errors"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/oksasatya/go-learning-platform/config"
	"github.com/oksasatya/go-learning-platform/internal/container"
	"github.com/oksasatya/go-learning-platform/internal/infrastructure/memory"
	"github.com/oksasatya/go-learning-platform/internal/infrastructure/mongodb"
	pginfra "github.com/oksasatya/go-learning-platform/internal/infrastructure/postgres"
	"github.com/oksasatya/go-learning-platform/internal/interface/middleware"
	"github.com/oksasatya/go-learning-platform/internal/router"
	"github.com/oksasatya/go-learning-platform/internal/scheduler"
	"github.com/oksasatya/go-learning-platform/pkg/helpers"
	"github.com/oksasatya/go-learning-platform/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Document store
	var stores container.Stores
	switch cfg.StoreDriver {
	case "memory":
		logger.Warn("STORE_DRIVER=memory; data is lost on restart")
		stores = container.MemoryStores(memory.NewStore())
	case "mongo":
		client, err := mongodb.NewClient(ctx, cfg.MongoURI, cfg.MongoTimeout)
		if err != nil {
			log.Fatalf("failed to connect to mongo: %v", err)
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		db := client.Database(cfg.MongoDB)
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			log.Fatalf("failed to ensure mongo indexes: %v", err)
		}
		stores = container.MongoStores(client, db)
	default:
		log.Fatalf("unknown STORE_DRIVER %q (want mongo or memory)", cfg.StoreDriver)
	}

	// Postgres audit log
	if cfg.AuditEnabled {
		pool, err := openAudit(ctx, cfg, logger)
		if err != nil {
			log.Fatalf("audit store: %v", err)
		}
		defer pool.Close()
		stores.Audit = pginfra.NewAuditRepository(pool)
	}

	// Redis
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()
	if err := helpers.PingRedis(ctx, rdb); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}

	infra := container.Infra{Redis: rdb}

	// GCS media uploads
	if cfg.GCSBucket != "" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			log.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		infra.Media = helpers.NewGCSUploader(gcsClient, cfg.GCSBucket)
	} else {
		logger.Warn("GCS_BUCKET not set; media uploads disabled")
	}

	// Elasticsearch search
	if es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass); err != nil {
		helpers.LogWarn(logger, "elasticsearch unavailable; search disabled", err, nil)
	} else {
		infra.Search = helpers.NewESIndexer(es)
	}

	// RabbitMQ email queue
	if cfg.MailSendEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			log.Fatalf("failed to connect to rabbitmq: %v", err)
		}
		defer pub.Close()
		infra.Publisher = pub
	}

	// Google sign-in
	if cfg.GoogleClientID != "" {
		infra.Google = helpers.NewGoogleVerifier(cfg.GoogleClientID)
	}

	c := container.New(cfg, logger, stores, infra)

	go func() {
		if err := c.Hub.RunWithContext(ctx); err != nil {
			helpers.LogError(logger, "websocket hub stopped", err, nil)
		}
	}()
	expvar.Publish("websocket_clients", expvar.Func(func() any { return c.Hub.ClientCount() }))

	if cfg.CronEnabled {
		jobs := scheduler.NewManager(c.Courses, cfg.PopularCacheTTL, logger)
		if err := jobs.Start(); err != nil {
			log.Fatalf("failed to start cron jobs: %v", err)
		}
		defer jobs.Stop()
	}

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RealIP())
	r.Use(middleware.RequestIDMiddleware())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r)
	router.InitModules(reg, c)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}
	cancel()
	logger.Info("server exited properly")
}

func openAudit(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*pgxpool.Pool, error) {
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
		AppName:         cfg.AppName,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLife,
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return pool, nil
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	// Open sql DB via pgx stdlib
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
