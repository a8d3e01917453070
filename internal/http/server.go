package http

import (
	stdhttp "net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"pressroom/app/internal/blog"
	"pressroom/app/internal/mail"
)

// Options configures the HTTP server wiring.
type Options struct {
	BlogService blog.Service
	Mailer      mail.Sender
	Database    *gorm.DB
	Logger      *logrus.Logger
	SentryHub   *sentry.Hub
	RateLimiter RateLimiterSettings
}

// RateLimiterSettings configures the HTTP rate limiter behaviour.
type RateLimiterSettings struct {
	RequestsPerSecond float64
	Burst             int
	ClientTTL         time.Duration
}

const (
	defaultRateLimitRPS   = 10
	defaultRateLimitBurst = 20
	defaultClientTTL      = 5 * time.Minute
)

// Server wires the HTTP transport layer via Huma and templ components.
type Server struct {
	api         huma.API
	mux         *stdhttp.ServeMux
	blog        blog.Service
	mailer      mail.Sender
	logger      *logrus.Logger
	sentry      *sentry.Hub
	db          *gorm.DB
	rateLimiter *RateLimiter
}

// NewServer constructs the HTTP server.
func NewServer(opts Options) (*Server, error) {
	if opts.BlogService == nil {
		return nil, eris.New("blog service is required")
	}
	if opts.Database == nil {
		return nil, eris.New("database is required")
	}

	mux := stdhttp.NewServeMux()
	config := huma.DefaultConfig("Pressroom", "1.0.0")

	api := humago.New(mux, config)

	srv := &Server{
		api:    api,
		mux:    mux,
		blog:   opts.BlogService,
		mailer: opts.Mailer,
		logger: opts.Logger,
		sentry: opts.SentryHub,
		db:     opts.Database,
	}

	settings := opts.RateLimiter
	if settings.Burst <= 0 {
		settings.Burst = defaultRateLimitBurst
	}
	if settings.RequestsPerSecond <= 0 {
		settings.RequestsPerSecond = defaultRateLimitRPS
	}
	if settings.ClientTTL <= 0 {
		settings.ClientTTL = defaultClientTTL
	}

	srv.rateLimiter = NewRateLimiter(settings.Burst, settings.RequestsPerSecond, settings.ClientTTL)

	srv.registerMiddlewares()
	srv.registerRoutes()

	return srv, nil
}

// Handler exposes the underlying HTTP handler for wiring into the application.
func (s *Server) Handler() stdhttp.Handler {
	return s.mux
}

// API exposes the underlying Huma API instance.
func (s *Server) API() huma.API {
	return s.api
}

func (s *Server) registerMiddlewares() {
	s.api.UseMiddleware(
		s.sentryMiddleware(),
		s.recoveryMiddleware(),
		s.requestIDMiddleware(),
		s.rateLimitMiddleware(),
		s.loggingMiddleware(),
	)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /favicon.ico", faviconHandler)
	s.mux.HandleFunc("HEAD /favicon.ico", faviconHandler)

	s.registerListRoutes()
	s.registerDetailRoutes()
	s.registerShareRoutes()
	s.registerSearchRoute()
	s.registerStaticRoutes()
	s.registerHealthRoute()
}

func (s *Server) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	s.mux.ServeHTTP(w, r)
}
