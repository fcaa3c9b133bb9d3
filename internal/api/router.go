package api

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	swagger "github.com/go-swagno/swagno-fiber/swagger"

	"github.com/frbox-labs/frbox/internal/api/docs"
	"github.com/frbox-labs/frbox/internal/api/handler"
	"github.com/frbox-labs/frbox/internal/api/middleware"
	"github.com/frbox-labs/frbox/internal/config"
	"github.com/frbox-labs/frbox/internal/service"
)

type Dependencies struct {
	FaceService *service.FaceService
}

type Router struct {
	app         *fiber.App
	cfg         *config.Config
	logger      *slog.Logger
	deps        *Dependencies
	rateLimiter *middleware.RateLimiter
}

func NewRouter(cfg *config.Config, logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "FRbox API",
		// The declared-length guard is the authority on request size; give
		// the framework limit enough headroom that it never fires first.
		BodyLimit: cfg.MaxImageSize * 2,
	})

	return &Router{
		app:    app,
		cfg:    cfg,
		logger: logger,
		deps:   deps,
	}
}

// Setup wires the ingress chain in order. Security headers are registered
// first so they are attached to every response, including ones
// short-circuited by a later stage.
func (r *Router) Setup() {
	r.app.Use(helmet.New(helmet.Config{
		XFrameOptions:             "DENY",
		ContentSecurityPolicy:     "default-src 'none'",
		HSTSMaxAge:                31536000,
		HSTSExcludeSubdomains:     false,
		ContentTypeNosniff:        "nosniff",
		CrossOriginResourcePolicy: "same-origin",
	}))
	r.app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins(r.cfg.AllowedOrigins),
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept," + middleware.APIKeyHeader,
	}))

	// Swagger documentation (no auth required)
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Health check endpoints (no auth required)
	healthHandler := handler.NewHealthHandler()
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	// Guard stages: auth before rate limiting, so authenticated clients are
	// keyed by API key; the size guard runs before any body processing.
	r.app.Use(middleware.Auth(r.cfg.APIKeySet()))

	r.rateLimiter = middleware.NewRateLimiter(
		middleware.DefaultRateLimiterConfig(r.cfg.RateLimitPerMinute))
	r.app.Use(r.rateLimiter.Handler())

	r.app.Use(middleware.SizeGuard(r.cfg.MaxImageSize))

	if r.deps != nil {
		faceHandler := handler.NewFaceHandler(r.deps.FaceService, r.logger)
		r.app.Post("/embedding", faceHandler.Embedding)
		r.app.Post("/verify", faceHandler.Verify)
	}
}

func allowOrigins(origins []string) string {
	if len(origins) == 0 {
		return "*"
	}
	return strings.Join(origins, ",")
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	if r.rateLimiter != nil {
		r.rateLimiter.Stop()
	}
	return r.app.Shutdown()
}
