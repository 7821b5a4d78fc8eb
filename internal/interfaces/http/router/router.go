// Package router wires middleware and handlers into a gin engine.
package router

import (
	"github.com/backcat/backend/internal/infrastructure/auth"
	"github.com/backcat/backend/internal/infrastructure/logger"
	"github.com/backcat/backend/internal/interfaces/http/handler"
	"github.com/backcat/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Config bundles everything the router needs.
type Config struct {
	Logger      *zap.Logger
	JWTService  *auth.JWTService
	MaxBodySize int64
	CORS        *middleware.CORSConfig

	System   *handler.SystemHandler
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Campings *handler.CampingHandler
	Areas    *handler.AreaHandler
	POIs     *handler.POIHandler
	Bookings *handler.BookingHandler
	Reviews  *handler.ReviewHandler
}

// Setup builds the gin engine with all middleware and routes.
func Setup(cfg Config) *gin.Engine {
	engine := gin.New()

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(cfg.Logger))
	engine.Use(logger.Recovery(cfg.Logger))
	if cfg.CORS != nil {
		engine.Use(middleware.CORSWithConfig(*cfg.CORS))
	} else {
		engine.Use(middleware.CORS())
	}
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}

	engine.GET("/health", cfg.System.Health)

	api := engine.Group("/api/v1")

	jwtCfg := middleware.DefaultJWTConfig(cfg.JWTService)
	jwtCfg.Logger = cfg.Logger
	jwtCfg.SkipPaths = append(jwtCfg.SkipPaths, "/api/v1/system/ping")
	api.Use(middleware.JWTAuthMiddlewareWithConfig(jwtCfg))

	system := api.Group("/system")
	{
		system.GET("/ping", cfg.System.Ping)
	}

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", cfg.Auth.Register)
		authGroup.POST("/login", cfg.Auth.Login)
		authGroup.POST("/refresh", cfg.Auth.Refresh)
	}

	users := api.Group("/users")
	{
		users.GET("/me", cfg.Users.Me)
		users.PATCH("/me", cfg.Users.Update)
		users.DELETE("/me", cfg.Users.Delete)
		users.GET("/:id", cfg.Users.Get)
	}

	campings := api.Group("/campings")
	{
		campings.POST("", cfg.Campings.Create)
		campings.GET("", cfg.Campings.List)
		campings.GET("/:id", cfg.Campings.Get)
		campings.PATCH("/:id", cfg.Campings.Update)
		campings.DELETE("/:id", cfg.Campings.Delete)

		campings.POST("/:id/thumbnails", cfg.Campings.AddThumbnail)
		campings.POST("/:id/thumbnails/upload", cfg.Campings.UploadThumbnail)
		campings.DELETE("/:id/thumbnails/:index", cfg.Campings.RemoveThumbnail)

		campings.POST("/:id/areas", cfg.Areas.Create)
		campings.POST("/:id/pois", cfg.POIs.Create)
	}

	areas := api.Group("/areas")
	{
		areas.GET("", cfg.Areas.List)
		areas.GET("/:id", cfg.Areas.Get)
		areas.PATCH("/:id", cfg.Areas.Update)
		areas.DELETE("/:id", cfg.Areas.Delete)

		areas.POST("/:id/bookings", cfg.Bookings.Create)
		areas.POST("/:id/reviews", cfg.Reviews.Create)
	}

	pois := api.Group("/pois")
	{
		pois.GET("", cfg.POIs.List)
		pois.GET("/:id", cfg.POIs.Get)
		pois.PATCH("/:id", cfg.POIs.Update)
		pois.DELETE("/:id", cfg.POIs.Delete)
	}

	bookings := api.Group("/bookings")
	{
		bookings.GET("", cfg.Bookings.List)
		bookings.GET("/:id", cfg.Bookings.Get)
		bookings.PATCH("/:id", cfg.Bookings.Update)
		bookings.DELETE("/:id", cfg.Bookings.Delete)
	}

	reviews := api.Group("/reviews")
	{
		reviews.GET("", cfg.Reviews.List)
		reviews.GET("/:id", cfg.Reviews.Get)
		reviews.PATCH("/:id", cfg.Reviews.Update)
		reviews.DELETE("/:id", cfg.Reviews.Delete)
	}

	return engine
}
