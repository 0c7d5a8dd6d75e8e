// AngelaMos | 2026
// handler.go

package health

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

const checkTimeout = 5 * time.Second

type Checker interface {
	Ping(ctx context.Context) error
}

// Dependency is a named backing service probed on readiness. Optional
// dependencies are reported but never fail the probe.
type Dependency struct {
	Name     string
	Checker  Checker
	Optional bool
}

type Handler struct {
	deps     []Dependency
	ready    atomic.Bool
	draining atomic.Bool
}

func NewHandler(deps ...Dependency) *Handler {
	h := &Handler{deps: deps}
	h.ready.Store(true)
	return h
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Liveness)
	r.Get("/livez", h.Liveness)
	r.Get("/readyz", h.Readiness)
}

// gate answers 503 while draining, and also while not ready when
// readiness is being asked. It reports whether the caller may continue.
func (h *Handler) gate(w http.ResponseWriter, readiness bool) bool {
	switch {
	case h.draining.Load():
		writeStatus(w, http.StatusServiceUnavailable, StatusResponse{Status: "shutting_down"})
	case readiness && !h.ready.Load():
		writeStatus(w, http.StatusServiceUnavailable, StatusResponse{Status: "not_ready"})
	default:
		return true
	}
	return false
}

func (h *Handler) Liveness(w http.ResponseWriter, _ *http.Request) {
	if h.gate(w, false) {
		writeStatus(w, http.StatusOK, StatusResponse{Status: "ok"})
	}
}

// Readiness pings every dependency concurrently. Only a failing required
// dependency turns the probe into a 503.
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	if !h.gate(w, true) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	checks := make([]HealthCheck, len(h.deps))
	var g errgroup.Group
	for i, dep := range h.deps {
		g.Go(func() error {
			checks[i] = ping(ctx, dep)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // probes record failures in checks

	resp, code := ReadinessResponse{Status: "ok", Checks: checks}, http.StatusOK
	for i := range checks {
		if !checks[i].Healthy && !h.deps[i].Optional {
			resp.Status, code = "degraded", http.StatusServiceUnavailable
		}
	}

	writeStatus(w, code, resp)
}

func ping(ctx context.Context, dep Dependency) HealthCheck {
	if dep.Checker == nil {
		return HealthCheck{Name: dep.Name, Message: "not configured"}
	}

	start := time.Now()
	err := dep.Checker.Ping(ctx)

	check := HealthCheck{Name: dep.Name, Healthy: err == nil, Latency: time.Since(start).String()}
	if err != nil {
		check.Message = "ping failed"
	}
	return check
}

func (h *Handler) SetReady(ready bool) {
	h.ready.Store(ready)
}

// SetShutdown flips both probes to 503 so load balancers stop routing
// before the listener closes.
func (h *Handler) SetShutdown(shutdown bool) {
	h.draining.Store(shutdown)
}

func writeStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	core.JSON(w, status, data)
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ReadinessResponse struct {
	Status string        `json:"status"`
	Checks []HealthCheck `json:"checks"`
}

type HealthCheck struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}
