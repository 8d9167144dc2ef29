package main

import (
	"context"
	"database/sql"
	"errors"
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
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/oksasatya/news-portal-api/config"
	"github.com/oksasatya/news-portal-api/internal/application"
	"github.com/oksasatya/news-portal-api/internal/container"
	"github.com/oksasatya/news-portal-api/internal/infrastructure/imagehost"
	pginfra "github.com/oksasatya/news-portal-api/internal/infrastructure/postgres"
	"github.com/oksasatya/news-portal-api/internal/infrastructure/search"
	"github.com/oksasatya/news-portal-api/internal/interface/middleware"
	"github.com/oksasatya/news-portal-api/internal/router"
	"github.com/oksasatya/news-portal-api/pkg/helpers"
	"github.com/oksasatya/news-portal-api/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// Initialize Postgres pool
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	// Run migrations using database/sql with pgx stdlib
	if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("migration failed: %v", err)
	}

	// Redis
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	// Image host
	images, closeImages, err := newImageHost(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to init image host: %v", err)
	}
	defer closeImages()

	// RabbitMQ publisher for email jobs; the API runs without it
	var pub *helpers.RabbitPublisher
	if cfg.MailSendEnabled {
		pub, err = helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable, email notifications disabled")
			pub = nil
		} else {
			defer pub.Close()
		}
	}

	// Container
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetPGPool(pool)
	container.SetRedis(rdb)
	container.SetImageHost(images)
	container.SetJWT(helpers.NewJWTManager(cfg.JWTSecret))
	if pub != nil {
		container.SetRabbitPub(pub)
	}

	// Elasticsearch is optional; search falls back to postgres without it
	scheduler := cron.New()
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		if err := setupSearch(ctx, cfg, pool, scheduler, logger); err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable, search uses postgres")
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	r.Use(middleware.Metrics())
	// CORS
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
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

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

// newImageHost selects the object store named by IMAGE_HOST.
func newImageHost(ctx context.Context, cfg *config.Config) (application.ImageHost, func(), error) {
	switch cfg.ImageHost {
	case "s3":
		s3cfg := imagehost.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		}
		client, err := imagehost.NewS3Client(ctx, s3cfg)
		if err != nil {
			return nil, nil, err
		}
		host, err := imagehost.NewS3(client, s3cfg)
		if err != nil {
			return nil, nil, err
		}
		return host, func() {}, nil
	case "gcs", "":
		client, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return nil, nil, err
		}
		host, err := imagehost.NewGCS(client, cfg.GCSBucket)
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return host, func() { _ = client.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown image host %q", cfg.ImageHost)
}

// setupSearch connects to Elasticsearch, ensures the articles index and schedules the reindex job.
func setupSearch(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, scheduler *cron.Cron, logger *logrus.Logger) error {
	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		return err
	}
	index := search.NewArticleIndex(es, cfg.ESArticlesIndex)
	if err := index.EnsureIndex(ctx); err != nil {
		return err
	}
	container.SetArticleIndex(index)

	job := &application.ReindexJob{
		Articles: pginfra.NewArticleRepository(pginfra.NewDB(pool)),
		Index:    index,
		Logger:   logger,
	}
	run := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := job.Run(jobCtx); err != nil {
			helpers.LogError(logger, "reindex failed", err, nil)
		}
	}
	if _, err := scheduler.AddFunc(cfg.ReindexSchedule, run); err != nil {
		return fmt.Errorf("schedule reindex: %w", err)
	}
	go run()
	return nil
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
