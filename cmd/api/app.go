package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/bondaralexcy/medical-diagnostic/internal/cache"
	"github.com/bondaralexcy/medical-diagnostic/internal/config"
	"github.com/bondaralexcy/medical-diagnostic/internal/email"
	"github.com/bondaralexcy/medical-diagnostic/internal/handler"
	accountHandler "github.com/bondaralexcy/medical-diagnostic/internal/handler/account"
	appointmentHandler "github.com/bondaralexcy/medical-diagnostic/internal/handler/appointment"
	authHandler "github.com/bondaralexcy/medical-diagnostic/internal/handler/auth"
	catalogHandler "github.com/bondaralexcy/medical-diagnostic/internal/handler/catalog"
	doctorHandler "github.com/bondaralexcy/medical-diagnostic/internal/handler/doctor"
	"github.com/bondaralexcy/medical-diagnostic/internal/handler/health"
	patientHandler "github.com/bondaralexcy/medical-diagnostic/internal/handler/patient"
	promHandler "github.com/bondaralexcy/medical-diagnostic/internal/handler/prometheus"
	resultHandler "github.com/bondaralexcy/medical-diagnostic/internal/handler/result"
	"github.com/bondaralexcy/medical-diagnostic/internal/middleware"
	"github.com/bondaralexcy/medical-diagnostic/internal/repository"
	"github.com/bondaralexcy/medical-diagnostic/internal/repository/memory"
	"github.com/bondaralexcy/medical-diagnostic/internal/repository/postgres"
	"github.com/bondaralexcy/medical-diagnostic/internal/router"
	"github.com/bondaralexcy/medical-diagnostic/internal/service/access"
	accountService "github.com/bondaralexcy/medical-diagnostic/internal/service/account"
	appointmentService "github.com/bondaralexcy/medical-diagnostic/internal/service/appointment"
	catalogService "github.com/bondaralexcy/medical-diagnostic/internal/service/catalog"
	doctorService "github.com/bondaralexcy/medical-diagnostic/internal/service/doctor"
	patientService "github.com/bondaralexcy/medical-diagnostic/internal/service/patient"
	resultService "github.com/bondaralexcy/medical-diagnostic/internal/service/result"
	"github.com/bondaralexcy/medical-diagnostic/pkg/auth"
	"github.com/bondaralexcy/medical-diagnostic/pkg/circuitbreaker"
	"github.com/bondaralexcy/medical-diagnostic/pkg/metrics"
	"github.com/bondaralexcy/medical-diagnostic/pkg/security"
	"github.com/bondaralexcy/medical-diagnostic/pkg/validator"
)

const (
	metricsNamespace = "clinic"
	cachePrefix      = "clinic:"
)

// app is the assembled process: store, services and HTTP engine.
type app struct {
	handler http.Handler
	closers []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*app, error) {
	a := &app{}

	store, err := openStore(ctx, cfg.Database, logger, a)
	if err != nil {
		a.Close()
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(registry, metricsNamespace)

	doctorCache, err := openCache(ctx, cfg.Cache)
	if err != nil {
		a.Close()
		return nil, err
	}

	mailer := email.NewService(newSender(cfg.SMTP, logger), cfg.SMTP.From, m)
	v := validator.New()
	policy := access.NewPolicy(cfg.Access.ModeratorGroup)
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)

	accounts := accountService.NewService(store, security.NewBcryptHasher(0), jwtSvc, mailer, v, m, logger)
	patients := patientService.NewService(store, policy, v, logger)
	appointments := appointmentService.NewService(store, policy, v)
	results := resultService.NewService(store, policy, v)
	doctors := doctorService.NewService(store, doctorCache, doctorService.Config{CacheEnabled: cfg.Cache.Enabled}, v, m, logger)
	catalog := catalogService.NewService(store, policy, v, logger)

	if err := bootstrapSuperuser(ctx, accounts, cfg.Bootstrap, logger); err != nil {
		a.Close()
		return nil, err
	}
	logger.Warn().Msg("password reset mails a new password to any registered address; the mailbox is the only proof of identity")

	authMiddleware := middleware.NewAuthMiddleware(accounts)
	doctorH := doctorHandler.NewHandler(doctors)
	catalogH := catalogHandler.NewHandler(catalog)

	r := router.NewRouter(
		authMiddleware,
		promHandler.New(registry, metricsNamespace),
		router.Handlers{
			Public: []handler.PublicRoutes{
				health.NewHandler(store),
				authHandler.NewHandler(accounts, cfg.Server.PublicURL),
			},
			Catalog: []handler.PublicRoutes{doctorH, catalogH},
			Protected: []handler.Routes{
				accountHandler.NewHandler(accounts, authMiddleware.RequireSuperuser()),
				patientHandler.NewHandler(patients),
				appointmentHandler.NewHandler(appointments),
				resultHandler.NewHandler(results),
				doctorH,
				catalogH,
			},
		},
		logger,
		router.RouterConfig{
			Mode:           cfg.Server.Mode,
			RateLimit:      cfg.RateLimit.Enabled,
			RateLimitRPS:   rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateLimitBurst: cfg.RateLimit.Burst,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			RequestTimeout: cfg.Server.RequestTimeout,
		},
	)
	r.Setup()
	a.handler = r.Engine()
	return a, nil
}

func openStore(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger, a *app) (repository.Store, error) {
	switch cfg.Driver {
	case "memory":
		logger.Warn().Msg("using in-memory store; data is lost on restart")
		return memory.NewStore(), nil
	case "postgres":
		db, err := postgres.NewDB(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		if cfg.Migrate {
			if err := postgres.Migrate(ctx, db); err != nil {
				return nil, fmt.Errorf("failed to migrate database: %w", err)
			}
		}
		return postgres.NewStore(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// openCache returns nil when caching is off; the doctor service then reads
// through to the store.
func openCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	switch cfg.Backend {
	case "redis":
		c, err := cache.NewRedisCache(ctx, cfg.RedisURL, cachePrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return c, nil
	default:
		return cache.NewMemoryCache(cfg.CleanupInterval), nil
	}
}

func newSender(cfg config.SMTPConfig, logger zerolog.Logger) email.Sender {
	if !cfg.Enabled {
		logger.Warn().Msg("smtp disabled; outgoing mail is logged, not delivered")
		return email.NewLogSender(logger)
	}
	smtp := email.NewSMTPSender(email.SMTPConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
	})
	return email.NewBreakerSender(smtp, circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
		Name:        "smtp",
		MaxFailures: cfg.MaxFailures,
		Timeout:     cfg.BreakerReset,
	}))
}

func bootstrapSuperuser(ctx context.Context, accounts *accountService.Service, cfg config.BootstrapConfig, logger zerolog.Logger) error {
	if cfg.SuperuserEmail == "" {
		return nil
	}
	if cfg.SuperuserPassword == "" {
		logger.Warn().Str("email", cfg.SuperuserEmail).Msg("superuser password not set; skipping bootstrap")
		return nil
	}
	return accounts.EnsureSuperuser(ctx, cfg.SuperuserEmail, cfg.SuperuserPassword)
}
