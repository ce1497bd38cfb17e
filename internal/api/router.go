package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/realdesk/internal/auth"
	"github.com/mesh-intelligence/realdesk/pkg/types"
)

// RouterConfig holds what the router serves.
type RouterConfig struct {
	Store        types.Store
	Auth         *auth.Service
	AuthRequired bool
	CORSOrigins  []string
	Health       http.Handler
	Log          *zap.Logger
}

// NewRouter builds the HTTP handler.
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if cfg.Health != nil {
		r.Method(http.MethodGet, "/healthz", cfg.Health)
	}
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	s := cfg.Store
	r.Route("/api", func(r chi.Router) {
		if cfg.Auth != nil {
			ah := authHandler{svc: cfg.Auth, log: log}
			r.Post("/auth/login", ah.login)
			r.Post("/auth/logout", ah.logout)
			r.Get("/auth/me", ah.me)
		}

		r.Group(func(r chi.Router) {
			if cfg.AuthRequired && cfg.Auth != nil {
				r.Use(RequireSession(cfg.Auth, log))
			}
			r.Route("/properties", newResource("property", "properties", s.Properties(), log).routes)
			r.Route("/leads", newResource("lead", "leads", s.Leads(), log).routes)
			r.Route("/appointments", newResource("appointment", "appointments", s.Appointments(), log).routes)
			r.Route("/workflows", newResource("workflow", "workflows", s.Workflows(), log).routes)
			r.Get("/activities", activitiesHandler{log: s.Activities(), zl: log}.list)
		})
	})
	return r
}

// RequestLogger logs one line per request at info, or warn for 5xx.
func RequestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			}
			if status >= http.StatusInternalServerError {
				log.Warn("request", fields...)
				return
			}
			log.Info("request", fields...)
		})
	}
}
