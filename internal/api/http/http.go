package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jekabolt/grbpwr-waitlist/internal/auth/jwt"
	"github.com/jekabolt/grbpwr-waitlist/internal/middleware"
	"github.com/jekabolt/grbpwr-waitlist/internal/ratelimit"
	"github.com/jekabolt/grbpwr-waitlist/internal/waitlist"
)

// Config is the configuration for the http server
type Config struct {
	Port           string           `mapstructure:"port"`
	Address        string           `mapstructure:"address"`
	AllowedOrigins []string         `mapstructure:"allowed_origins"`
	RequestTimeout time.Duration    `mapstructure:"request_timeout"`
	RateLimit      ratelimit.Config `mapstructure:"rate_limit"`
}

// Server is the http server
type Server struct {
	hs      *http.Server
	c       *Config
	svc     *waitlist.Service
	jwtAuth *jwtauth.JWTAuth
	done    chan struct{}
}

// New creates a new server
func New(c *Config, svc *waitlist.Service, jwtAuth *jwtauth.JWTAuth) *Server {
	return &Server{
		c:       c,
		svc:     svc,
		jwtAuth: jwtAuth,
		done:    make(chan struct{}),
	}
}

// Done returns a channel that is closed when the http server exits
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Handler builds the admin API router. Rate limiter state lives until ctx is done.
func (s *Server) Handler(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	limits := ratelimit.New(ctx, s.c.RateLimit)

	timeout := s.c.RequestTimeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			return isOriginAllowed(origin, s.c.AllowedOrigins)
		},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
	}))
	r.Use(chimw.RequestID)
	r.Use(middleware.ClientIdentifier)
	r.Use(middleware.RequestLogger)
	r.Use(limits.Requests)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(timeout))

	r.Get("/healthz", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Use(jwt.WithAuth(s.jwtAuth))

		r.Route("/waitlist", func(r chi.Router) {
			r.Get("/", s.listEntries)
			r.Get("/stats", s.stats)
			r.With(limits.Bulk).Post("/bulk/approve", s.bulkApprove)
			r.With(limits.Bulk).Post("/bulk/reject", s.bulkReject)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.diff)
				r.Get("/audit", s.entryAudit)
				r.Put("/payload", s.revise)
				r.Post("/approve", s.approve)
				r.Post("/reject", s.reject)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Put("/{id}/status", s.setStatus)
			r.Get("/{id}/audit", s.productAudit)
			r.Put("/slug/{slug}/changeable", s.setChangeable)
		})
	})

	return r
}

// Start starts the server
func (s *Server) Start(ctx context.Context) error {
	listenerAddr := fmt.Sprintf("%s:%s", s.c.Address, s.c.Port)
	s.hs = &http.Server{
		Addr:              listenerAddr,
		Handler:           s.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Default().InfoContext(ctx, "grbpwr-waitlist new listener", slog.String("addr", "http://"+listenerAddr))
		err := s.hs.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			slog.Default().InfoContext(ctx, "http server returned")
		} else {
			slog.Default().ErrorContext(ctx, "http server exited with an error", slog.String("err", err.Error()))
		}
		close(s.done)
	}()

	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.hs == nil {
		return nil
	}
	return s.hs.Shutdown(ctx)
}

func isOriginAllowed(origin string, allowedOrigins []string) bool {
	// Always allow localhost origins
	if strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "https://localhost:") {
		return true
	}

	for _, allowedOrigin := range allowedOrigins {
		if origin == allowedOrigin {
			return true
		}
	}

	return false
}
