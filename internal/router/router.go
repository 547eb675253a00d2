package router

import (
	"log"

	"github.com/anonto42/tuiter/backend/internal/events"
	"github.com/anonto42/tuiter/backend/internal/handlers"
	"github.com/anonto42/tuiter/backend/internal/middleware"
	"github.com/anonto42/tuiter/backend/internal/repositories"
	"github.com/anonto42/tuiter/backend/internal/validators"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
)

// Dependencies are the collaborators the routes are wired to
type Dependencies struct {
	Store      handlers.Pinger
	Follows    repositories.FollowRepository
	Likes      repositories.LikeRepository
	LikeCounts repositories.LikeCountCache
	Publisher  events.Publisher
	// Auth protects mutating routes; nil leaves them open.
	Auth echo.MiddlewareFunc
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, metrics *middleware.Metrics) {
	e.Use(eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			if v.Error != nil {
				log.Printf("%s %s %d %s err=%v", v.Method, v.URI, v.Status, v.Latency, v.Error)
				return nil
			}
			log.Printf("%s %s %d %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	if metrics != nil {
		e.Use(metrics.Middleware())
	}
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	e.Validator = validators.NewValidator()

	if deps.LikeCounts == nil {
		deps.LikeCounts = repositories.NopLikeCountCache{}
	}
	if deps.Publisher == nil {
		deps.Publisher = events.NopPublisher{}
	}

	healthHandler := handlers.NewHealthHandler(deps.Store)
	e.GET("/health", healthHandler.HealthCheck)

	guard := middleware.NewGuard(deps.Auth)
	if deps.Auth != nil {
		log.Println("Authentication required on mutating routes.")
	}

	api := e.Group("/api")

	followHandler := handlers.NewFollowHandler(deps.Follows, deps.Publisher)
	followHandler.RegisterFollowRoutes(api, guard)
	log.Println("Follow routes configured.")

	likeHandler := handlers.NewLikeHandler(deps.Likes, deps.LikeCounts, deps.Publisher)
	likeHandler.RegisterLikeRoutes(api, guard)
	log.Println("Like routes configured.")

	log.Println("All routes configured.")
}
