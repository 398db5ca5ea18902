package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jaffaexplorer/community-platform/internal/core/port"
	"github.com/jaffaexplorer/community-platform/internal/infra/config"
	"github.com/jaffaexplorer/community-platform/internal/transport/http/handlers"
	"github.com/jaffaexplorer/community-platform/internal/transport/http/middleware"
	"github.com/jaffaexplorer/community-platform/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth          *usecase.AuthService
	Registration  *usecase.RegistrationService
	PasswordReset *usecase.PasswordResetService
	Profiles      *usecase.ProfileService
	Sales         *usecase.SalesService
	Posts         *usecase.PostService
	Offers        *usecase.OffersService
	Ratings       *usecase.SiteRatingService
	Moderation    *usecase.ModerationService
	Contacts      *usecase.ContactService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Services    ServiceSet
	Images      port.ImageStore
	Database    DatabaseChecker
	Cache       CacheChecker
	Metrics     *middleware.HTTPMetrics
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(deps.Config.App.CORSOrigins))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	checks := make(map[string]handlers.DependencyCheck, 2)
	if deps.Database != nil {
		checks["postgres"] = deps.Database.Ping
	}
	if deps.Cache != nil {
		checks["redis"] = deps.Cache.HealthCheck
	}
	healthHandler := handlers.NewHealthHandler(checks)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterSwagger(r)

	api := r.Group("/api/v1")
	{
		authHandler := handlers.NewAuthHandler(deps.Services.Auth)
		authHandler.RegisterRoutes(api, loginLimit(deps))

		registrationHandler := handlers.NewRegistrationHandler(deps.Services.Registration, deps.Config.Frontend)
		registrationHandler.RegisterRoutes(api)

		passwordHandler := handlers.NewPasswordHandler(deps.Services.PasswordReset)
		passwordHandler.RegisterRoutes(api, passwordResetLimit(deps))

		profileHandler := handlers.NewProfileHandler(deps.Services.Profiles, deps.Services.Auth)
		profileHandler.RegisterRoutes(api)

		salesHandler := handlers.NewSalesHandler(deps.Services.Sales, deps.Services.Auth)
		salesHandler.RegisterRoutes(api)

		postHandler := handlers.NewPostHandler(deps.Services.Posts, deps.Services.Auth)
		postHandler.RegisterRoutes(api)

		offersHandler := handlers.NewOffersHandler(deps.Services.Offers, deps.Services.Auth)
		offersHandler.RegisterRoutes(api)

		ratingsHandler := handlers.NewRatingsHandler(deps.Services.Ratings, deps.Services.Auth)
		ratingsHandler.RegisterRoutes(api)

		contactHandler := handlers.NewContactHandler(deps.Services.Contacts, deps.Services.Auth)
		contactHandler.RegisterRoutes(api)

		adminHandler := handlers.NewAdminHandler(deps.Services.Moderation, deps.Services.Posts, deps.Services.Contacts, deps.Services.Auth)
		adminHandler.RegisterRoutes(api)

		uploadHandler := handlers.NewUploadHandler(deps.Images, deps.Services.Auth)
		uploadHandler.RegisterRoutes(api)
	}

	return r
}

func loginLimit(deps Dependencies) gin.HandlerFunc {
	return limitRule(deps, "login_ip", deps.Config.RateLimit.LoginMaxAttempts, time.Minute)
}

func passwordResetLimit(deps Dependencies) gin.HandlerFunc {
	return limitRule(deps, "password_reset_ip", deps.Config.RateLimit.PasswordResetMaxAttempts, time.Hour)
}

func limitRule(deps Dependencies, name string, limit int, fallbackWindow time.Duration) gin.HandlerFunc {
	if deps.RateLimiter == nil || limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = fallbackWindow
	}

	return deps.RateLimiter.Limit(middleware.RateLimitRule{
		Name:       name,
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	})
}
