/* router.go
 * Builds the Server and its chi route table
 */

package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"scoreline-bot/api/api"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Server is the HTTP front end of the api
type Server struct {
	api     *api.API
	limiter *IPRateLimiter
	metrics *metrics
}

// NewServer creates a Server.
// Preconditions: cfg.API is set and the rate settings are positive
// Postconditions: returns the Server, or an error describing the invalid setting
func NewServer(cfg Config) (*Server, error) {
	if cfg.API == nil {
		return nil, fmt.Errorf("api is required")
	}
	if cfg.RateLimit <= 0 || cfg.RateBurst <= 0 {
		return nil, fmt.Errorf("rate limit and burst must be positive")
	}
	return &Server{
		api:     cfg.API,
		limiter: NewIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		metrics: newMetrics(),
	}, nil
}

// Router returns the handler serving every route
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(s.metrics.instrument)

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Get("/parse", s.handleParse)
		r.Post("/parse", s.handleParse)
		r.Post("/scores", s.handleSubmit)
	})
	r.Get("/scores/{matchID}", s.handleGetScore)
	r.Get("/scores/{matchID}/history", s.handleGetHistory)
	r.Get("/formats", s.handleFormats)
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())
	return r
}

// rateLimit rejects requests from client IPs that have used up their budget
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(clientIP(r)) {
			s.metrics.rateLimited.Inc()
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, errors.New(http.StatusText(http.StatusTooManyRequests)))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs each request at debug level
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("http request")
	})
}
