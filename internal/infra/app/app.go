package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/jaffaexplorer/community-platform/internal/core/port"
	"github.com/jaffaexplorer/community-platform/internal/infra/config"
	"github.com/jaffaexplorer/community-platform/internal/infra/database"
	kafkainfra "github.com/jaffaexplorer/community-platform/internal/infra/kafka"
	"github.com/jaffaexplorer/community-platform/internal/infra/logger"
	"github.com/jaffaexplorer/community-platform/internal/infra/mailer"
	redisinfra "github.com/jaffaexplorer/community-platform/internal/infra/redis"
	"github.com/jaffaexplorer/community-platform/internal/infra/security"
	"github.com/jaffaexplorer/community-platform/internal/infra/storage"
	postgresrepo "github.com/jaffaexplorer/community-platform/internal/repository/postgres"
	redisrepo "github.com/jaffaexplorer/community-platform/internal/repository/redis"
	"github.com/jaffaexplorer/community-platform/internal/transport/http/middleware"
	"github.com/jaffaexplorer/community-platform/internal/transport/http/routes"
	"github.com/jaffaexplorer/community-platform/internal/usecase"
)

// Application wires configuration, infrastructure, and the HTTP server.
type Application struct {
	cfg      *config.AppConfig
	engine   *gin.Engine
	logger   *zap.Logger
	pool     *pgxpool.Pool
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
}

// New builds the application graph from configuration.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	if err := security.ConfigureArgon2(security.Argon2Config{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	}); err != nil {
		return nil, fmt.Errorf("configure argon2: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	tokenIssuer, err := security.NewTokenIssuer(cfg.JWT.Secret, cfg.App.Name, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("init token issuer: %w", err)
	}

	stateTokens, err := security.NewStateTokenIssuer(cfg.Token.Secret)
	if err != nil {
		return nil, fmt.Errorf("init state token issuer: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)

	var mail port.Mailer
	if cfg.Mail.APIKey != "" {
		mail, err = mailer.NewBrevoMailer(cfg.Mail, log)
		if err != nil {
			return nil, fmt.Errorf("init mailer: %w", err)
		}
	} else {
		log.Info("mail api key not configured, logging outgoing mail instead")
		mail = mailer.NewLoggingMailer(log)
	}

	var producer *kafkainfra.Producer
	var events port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			events = kafkainfra.NewStubPublisher(log)
		} else {
			events = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		events = kafkainfra.NewStubPublisher(log)
	}

	var images port.ImageStore
	if cfg.Storage.Bucket != "" {
		store, err := storage.NewS3ImageStore(ctx, cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("init image store: %w", err)
		}
		images = store
	} else {
		log.Info("storage bucket not configured, uploads disabled")
	}

	passwordValidator := security.DefaultPasswordValidator()

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}
	rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), "directory:rate-limit", rateLimitWindow*2)
	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	metrics, err := middleware.NewHTTPMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	authService := usecase.NewAuthService(repos.Users, tokenIssuer)
	registrationService := usecase.NewRegistrationService(cfg, repos.Users, passwordValidator, stateTokens, mail, events, log)
	passwordResetService := usecase.NewPasswordResetService(cfg, repos.Users, passwordValidator, stateTokens, mail, events, log)
	profileService := usecase.NewProfileService(repos.Profiles)
	salesService := usecase.NewSalesService(repos.Sales, repos.Favorites, repos.Profiles)
	postService := usecase.NewPostService(cfg, repos.Posts, mail, log)
	offersService := usecase.NewOffersService(repos.Offers, repos.Profiles)
	ratingService := usecase.NewSiteRatingService(repos.Ratings)
	moderationService := usecase.NewModerationService(cfg, repos.Users, repos.Sales, repos.Favorites, repos.Posts, mail, events, log)
	contactService := usecase.NewContactService(cfg, repos.Contacts, mail, log)

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Images:      images,
		Database:    pool,
		Cache:       redisClient,
		Metrics:     metrics,
		Services: routes.ServiceSet{
			Auth:          authService,
			Registration:  registrationService,
			PasswordReset: passwordResetService,
			Profiles:      profileService,
			Sales:         salesService,
			Posts:         postService,
			Offers:        offersService,
			Ratings:       ratingService,
			Moderation:    moderationService,
			Contacts:      contactService,
		},
	})

	return &Application{
		cfg:      cfg,
		engine:   engine,
		logger:   log,
		pool:     pool,
		redis:    redisClient,
		producer: producer,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.producer != nil {
			_ = a.producer.Close()
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting directory API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
