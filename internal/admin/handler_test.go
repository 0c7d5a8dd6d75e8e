// AngelaMos | 2026
// handler_test.go

package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

type stubCounts struct {
	counts *ShopCounts
	err    error
}

func (s stubCounts) Counts(context.Context) (*ShopCounts, error) {
	return s.counts, s.err
}

type stubPool struct {
	err   error
	stats core.PoolStats
}

func (p stubPool) Ping(context.Context) error  { return p.err }
func (p stubPool) PoolStats() core.PoolStats { return p.stats }

func passThrough(next http.Handler) http.Handler { return next }

func get(h *Handler, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r, passThrough, passThrough)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestSystemStats(t *testing.T) {
	h := NewHandler(
		stubCounts{counts: &ShopCounts{Users: 3, Admins: 1, Products: 4, Orders: 2, ReservedUnits: 5}},
		zap.NewNop(),
		NamedPool{Name: "database", Pool: stubPool{stats: core.PoolStats{Open: 2, Idle: 2}}},
		NamedPool{Name: "redis", Pool: stubPool{err: errors.New("down"), stats: core.PoolStats{Timeouts: 7}}},
	)

	rec := get(h, "/admin/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SystemStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.NotNil(t, resp.Shop)
	assert.EqualValues(t, 3, resp.Shop.Users)
	assert.EqualValues(t, 5, resp.Shop.ReservedUnits)

	require.Contains(t, resp.Pools, "database")
	assert.True(t, resp.Pools["database"].Healthy)
	assert.Equal(t, 2, resp.Pools["database"].Stats.Open)

	require.Contains(t, resp.Pools, "redis")
	assert.False(t, resp.Pools["redis"].Healthy)
	assert.EqualValues(t, 7, resp.Pools["redis"].Stats.Timeouts)

	assert.NotEmpty(t, resp.Runtime.GoVersion)
}

func TestSystemStatsDegraded(t *testing.T) {
	h := NewHandler(
		stubCounts{err: errors.New("timeout")},
		zap.NewNop(),
		NamedPool{Name: "database", Pool: stubPool{err: errors.New("down")}},
	)

	rec := get(h, "/admin/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.NotContains(t, raw, "shop")

	pools := raw["pools"].(map[string]any)
	assert.NotContains(t, pools, "redis")
	assert.Equal(t, false, pools["database"].(map[string]any)["healthy"])
}

func TestShopAndRuntimeStats(t *testing.T) {
	h := NewHandler(stubCounts{counts: &ShopCounts{Categories: 2, OutOfStock: 1}}, zap.NewNop())

	rec := get(h, "/admin/stats/shop")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"outOfStock":1`)

	rec = get(h, "/admin/stats/runtime")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"numGoroutine"`)

	failing := NewHandler(stubCounts{err: errors.New("boom")}, zap.NewNop())
	assert.Equal(t, http.StatusInternalServerError, get(failing, "/admin/stats/shop").Code)
}
