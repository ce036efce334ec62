package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medportal/config"
	deliveryHttp "medportal/internal/delivery/http"
	"medportal/internal/delivery/http/handler"
	"medportal/internal/delivery/http/middleware"
	"medportal/internal/infrastructure/cache"
	"medportal/internal/infrastructure/database"
	"medportal/internal/infrastructure/storage"
	"medportal/internal/repository"
	"medportal/internal/usecase"
	"medportal/pkg/jwt"
	"medportal/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized.
// Schema migration, category seeding and upload directory creation happen
// here; any failure aborts startup.
func New() (*App, error) {
	app := &App{}

	setupLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	if err := database.SeedCategories(db); err != nil {
		return nil, fmt.Errorf("failed to seed categories: %w", err)
	}
	logrus.Info("Database schema ready")

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	uploads := storage.NewUploads(cfg.Upload.Dir, cfg.Upload.MaxBytes)
	if err := uploads.Init(); err != nil {
		return nil, fmt.Errorf("failed to prepare upload directories: %w", err)
	}

	app.Server = initializeServer(cfg, db, redisClient, uploads)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer wires repositories, usecases, handlers and middleware
// into the HTTP server.
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, uploads *storage.Uploads) *http.Server {
	jwtService := jwt.NewJWTService(cfg.Session)
	sessions := cache.NewRedisSessionStore(redisClient)
	customValidator := validator.NewValidator()

	userRepo := repository.NewUserRepository()
	categoryRepo := repository.NewCategoryRepository()
	postRepo := repository.NewBlogPostRepository()

	log := logrus.StandardLogger()

	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, jwtService, sessions, uploads)
	blogUsecase := usecase.NewBlogUsecase(db, log, postRepo, categoryRepo, uploads)

	authHandler := handler.NewAuthHandler(authUsecase, customValidator, jwtService, cfg.Upload.MaxBytes)
	dashboardHandler := handler.NewDashboardHandler(authUsecase)
	blogHandler := handler.NewBlogHandler(blogUsecase, customValidator, cfg.Upload.MaxBytes)

	authMiddleware := middleware.NewAuthMiddleware(jwtService, sessions)
	corsMiddleware := middleware.NewCORSMiddleware()

	router := deliveryHttp.NewRouter(authHandler, dashboardHandler, blogHandler, authMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
