package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/orgwatch/pkg/domain/interfaces"
)

type config struct {
	addr          string
	webhookSecret string
	maxBodyBytes  int64
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the listen address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithWebhookSecret enables POST /hooks/github, verified with secret
func WithWebhookSecret(secret string) Option {
	return func(c *config) {
		c.webhookSecret = secret
	}
}

// WithMaxBodyBytes limits the size of webhook payloads
func WithMaxBodyBytes(n int64) Option {
	return func(c *config) {
		c.maxBodyBytes = n
	}
}

// Server serves the health endpoint and, if enabled, the GitHub webhook
type Server struct {
	*http.Server
}

// NewServer creates a new HTTP server. webhookUC may be nil when no webhook
// secret is configured.
func NewServer(
	ctx context.Context,
	monitorUC interfaces.MonitorUseCase,
	webhookUC interfaces.WebhookUseCase,
	opts ...Option,
) (*Server, error) {
	cfg := &config{
		addr:         "localhost:8080",
		maxBodyBytes: 1 << 20,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           newRouter(ctx, cfg, monitorUC, webhookUC),
			ReadHeaderTimeout: 15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}, nil
}

func newRouter(
	ctx context.Context,
	cfg *config,
	monitorUC interfaces.MonitorUseCase,
	webhookUC interfaces.WebhookUseCase,
) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(ctx))
	r.Use(middleware.Recoverer)

	r.Get("/health", newHealthHandler(monitorUC))

	if cfg.webhookSecret == "" || webhookUC == nil {
		return r
	}

	r.With(middleware.RequestSize(cfg.maxBodyBytes)).
		Post("/hooks/github", NewWebhookHandler(cfg.webhookSecret, webhookUC).Handle)

	return r
}
