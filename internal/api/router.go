package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig carries the dependencies for the HTTP router.
type RouterConfig struct {
	// Engine serves the read-only state endpoints (required).
	Engine EngineInterface

	// Hub serves the /ws endpoint. May be nil in tests that only exercise
	// the REST surface.
	Hub *Hub

	// RateLimiter is an optional pre-built limiter; built from
	// RateLimitConfig (or defaults) when nil.
	RateLimiter *IPRateLimiter

	// RateLimitConfig overrides the default limiter settings when
	// RateLimiter is nil.
	RateLimitConfig *RateLimitConfig

	// MaxConnsPerIP caps concurrent websocket connections per source IP.
	MaxConnsPerIP int

	// CORSOrigins overrides the default allowed origins.
	CORSOrigins []string

	// DisableLogging drops the request logger middleware, for tests.
	DisableLogging bool
}

// NewRouter constructs the router. It is pure: no goroutines, no
// listeners, safe to hand to httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rlCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rlCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rlCfg)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	h := &handlers{engine: cfg.Engine}

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.handleGetState)
		r.Get("/stats", h.handleGetStats)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.Hub != nil {
		maxPerIP := cfg.MaxConnsPerIP
		if maxPerIP <= 0 {
			maxPerIP = 5
		}
		r.Get("/ws", cfg.Hub.HandleWS(NewConnCounter(maxPerIP)))
	}

	return r
}
