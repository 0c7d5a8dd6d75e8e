// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

// Pool is a backing connection pool shown on the stats page.
type Pool interface {
	Ping(ctx context.Context) error
	PoolStats() core.PoolStats
}

type NamedPool struct {
	Name string
	Pool Pool
}

type Handler struct {
	counts CountsRepository
	pools  []NamedPool
	logger *zap.Logger
}

func NewHandler(counts CountsRepository, logger *zap.Logger, pools ...NamedPool) *Handler {
	return &Handler{counts: counts, pools: pools, logger: logger}
}

// RegisterRoutes mounts the admin-only /admin/stats endpoints.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/stats", func(r chi.Router) {
		r.Use(authenticator, adminOnly)

		r.Get("/", h.GetSystemStats)
		r.Get("/shop", h.GetShopStats)
		r.Get("/runtime", h.GetRuntimeStats)
	})
}

type PoolStatus struct {
	Healthy bool           `json:"healthy"`
	Stats   core.PoolStats `json:"stats"`
}

type SystemStats struct {
	Shop    *ShopCounts           `json:"shop,omitempty"`
	Pools   map[string]PoolStatus `json:"pools"`
	Runtime RuntimeStats          `json:"runtime"`
}

type RuntimeStats struct {
	GoVersion    string `json:"goVersion"`
	NumGoroutine int    `json:"numGoroutine"`
	NumCPU       int    `json:"numCpu"`
	HeapAlloc    uint64 `json:"heapAllocBytes"`
	Sys          uint64 `json:"sysBytes"`
	NumGC        uint32 `json:"numGc"`
}

// GetSystemStats reports every pool, the process and, when the counts
// query succeeds, the shop totals.
func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	stats := SystemStats{
		Pools:   make(map[string]PoolStatus, len(h.pools)),
		Runtime: sampleRuntime(),
	}

	for _, p := range h.pools {
		stats.Pools[p.Name] = PoolStatus{
			Healthy: p.Pool.Ping(r.Context()) == nil,
			Stats:   p.Pool.PoolStats(),
		}
	}

	counts, err := h.counts.Counts(r.Context())
	if err != nil {
		h.logger.Warn("shop counts unavailable", zap.Error(err))
	}
	stats.Shop = counts

	core.OK(w, stats)
}

func (h *Handler) GetShopStats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.counts.Counts(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	core.OK(w, counts)
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, sampleRuntime())
}

func sampleRuntime() RuntimeStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		HeapAlloc:    m.HeapAlloc,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
	}
}
