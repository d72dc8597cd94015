package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/bondaralexcy/medical-diagnostic/internal/handler"
	"github.com/bondaralexcy/medical-diagnostic/internal/handler/prometheus"
	"github.com/bondaralexcy/medical-diagnostic/internal/middleware"
)

type RouterConfig struct {
	Mode           string
	RateLimit      bool
	RateLimitRPS   rate.Limit
	RateLimitBurst int
	AllowedOrigins []string
	MaxBodySize    int64
	RequestTimeout time.Duration
}

type Router struct {
	engine  *gin.Engine
	auth    *middleware.AuthMiddleware
	metrics *prometheus.Handler
	logger  zerolog.Logger

	public    []handler.PublicRoutes
	catalog   []handler.PublicRoutes
	protected []handler.Routes
}

// Handlers groups the route owners by who may call them. Catalog routes
// are public and carry cache headers.
type Handlers struct {
	Public    []handler.PublicRoutes
	Catalog   []handler.PublicRoutes
	Protected []handler.Routes
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	metrics *prometheus.Handler,
	handlers Handlers,
	logger zerolog.Logger,
	config RouterConfig,
) *Router {
	if config.Mode != "" {
		gin.SetMode(config.Mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	r := &Router{
		engine:    engine,
		auth:      auth,
		metrics:   metrics,
		logger:    logger,
		public:    handlers.Public,
		catalog:   handlers.Catalog,
		protected: handlers.Protected,
	}

	maxBody := config.MaxBodySize
	if maxBody <= 0 {
		maxBody = middleware.DefaultMaxBodySize
	}

	engine.Use(
		middleware.Compress(middleware.DefaultCompressConfig()),
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.ErrorHandler(logger),
		metrics.Middleware(),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
		middleware.CORS(config.AllowedOrigins),
		middleware.SizeLimit(maxBody),
		middleware.Timeout(config.RequestTimeout),
	)

	if config.RateLimit {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimitRPS,
			Burst: config.RateLimitBurst,
		})
		engine.Use(rateLimiter.RateLimit())
	}

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/metrics", r.metrics.Handler())

	api := r.engine.Group("/api/v1")

	for _, h := range r.public {
		h.RegisterPublicRoutes(api)
	}

	catalog := api.Group("")
	catalog.Use(middleware.CacheControl(middleware.PublicCatalogCacheConfig()))
	for _, h := range r.catalog {
		h.RegisterPublicRoutes(catalog)
	}

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	for _, h := range r.protected {
		h.RegisterRoutes(protected)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
