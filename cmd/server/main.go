package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/backcat/backend/internal/infrastructure/auth"
	"github.com/backcat/backend/internal/infrastructure/cache"
	"github.com/backcat/backend/internal/infrastructure/config"
	"github.com/backcat/backend/internal/infrastructure/logger"
	"github.com/backcat/backend/internal/infrastructure/persistence"
	"github.com/backcat/backend/internal/infrastructure/storage"
	"github.com/backcat/backend/internal/interfaces/http/handler"
	"github.com/backcat/backend/internal/interfaces/http/middleware"
	"github.com/backcat/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting backcat backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Redis with in-memory fallback outside production.
	cacheFactory := cache.NewFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithMemoryFallback(!cfg.IsProduction()),
	)
	sideCache, err := cacheFactory.Create()
	if err != nil {
		log.Fatal("Failed to initialize cache", zap.Error(err))
	}

	var fileStorage storage.FileStorage
	if cfg.Storage.Bucket != "" {
		s3, err := storage.NewS3Storage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s3.EnsureBucket(ctx); err != nil {
			cancel()
			log.Fatal("Failed to prepare storage bucket", zap.Error(err))
		}
		cancel()
		fileStorage = s3
	} else {
		log.Warn("No storage bucket configured, thumbnails are kept in memory")
		fileStorage = storage.NewMemoryStorage("")
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	userRepo := persistence.NewGormUserRepository(db.DB, sideCache)
	campingRepo := persistence.NewGormCampingRepository(db.DB, sideCache, fileStorage)
	areaRepo := persistence.NewGormAreaRepository(db.DB, sideCache)
	poiRepo := persistence.NewGormPOIRepository(db.DB, sideCache)
	bookingRepo := persistence.NewGormBookingRepository(db.DB, sideCache)
	reviewRepo := persistence.NewGormReviewRepository(db.DB, sideCache)

	middleware.SetupValidator()

	engine := router.Setup(router.Config{
		Logger:      log,
		JWTService:  jwtService,
		MaxBodySize: cfg.HTTP.MaxBodySize,

		System:   handler.NewSystemHandler(db),
		Auth:     handler.NewAuthHandler(userRepo, jwtService),
		Users:    handler.NewUserHandler(userRepo),
		Campings: handler.NewCampingHandler(campingRepo),
		Areas:    handler.NewAreaHandler(areaRepo),
		POIs:     handler.NewPOIHandler(poiRepo),
		Bookings: handler.NewBookingHandler(bookingRepo),
		Reviews:  handler.NewReviewHandler(reviewRepo),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
