package api

import (
	"context"
	"net/http"
	"time"
)

// Checker reports whether one dependency is usable.
type Checker func(ctx context.Context) error

// HealthHandler serves /healthz by running every registered check.
type HealthHandler struct {
	Checks    map[string]Checker
	Version   string
	StartTime time.Time
	Timeout   time.Duration
}

// HealthResponse is the /healthz body.
type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

// NewHealthHandler returns a handler with no checks registered.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{
		Checks:    map[string]Checker{},
		Version:   version,
		StartTime: time.Now(),
		Timeout:   2 * time.Second,
	}
}

// Register adds a named check.
func (h *HealthHandler) Register(name string, c Checker) {
	h.Checks[name] = c
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	status := "healthy"
	deps := make(map[string]string, len(h.Checks))
	for name, check := range h.Checks {
		if err := check(ctx); err != nil {
			deps[name] = "unhealthy: " + err.Error()
			status = "degraded"
			continue
		}
		deps[name] = "healthy"
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, HealthResponse{
		Status:       status,
		Version:      h.Version,
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	})
}
