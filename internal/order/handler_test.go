// AngelaMos | 2026
// handler_test.go

package order

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/storefront/internal/core"
	"github.com/carterperez-dev/templates/storefront/internal/middleware"
)

var testUsers = map[string]*core.Identity{
	"alice": alice,
	"bob":   bob,
	"root":  root,
}

// headerAuth stands in for the JWT authenticator: the X-Test-User header
// names the caller.
func headerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := testUsers[r.Header.Get("X-Test-User")]
		if !ok {
			core.JSONError(w, core.UnauthorizedError("Access denied: No token provided"))
			return
		}
		next.ServeHTTP(w, r.WithContext(middleware.WithIdentity(r.Context(), id)))
	})
}

func newTestRouter(store *memStore) http.Handler {
	r := chi.NewRouter()
	NewHandler(newTestService(store, &stubNotifier{})).RegisterRoutes(r, headerAuth)
	return r
}

func do(t *testing.T, h http.Handler, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHandler_PlaceOrderScenario(t *testing.T) {
	p := runner()
	store := newMemStore(p)
	h := newTestRouter(store)

	rec := do(t, h, http.MethodPost, "/orders", "alice", `{"productId": 10, "quantity": 3}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Order placed successfully", body["message"])
	assert.EqualValues(t, 1, body["orderId"])

	order, ok := body["order"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "150.00", order["totalPrice"])
	assert.Equal(t, "reserved", order["status"])
	assert.Equal(t, 7, store.stock(10))

	rec = do(t, h, http.MethodPost, "/orders", "alice", `{"productId": 10, "quantity": 20}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Insufficient stock for Runner. Only 7 left.", decodeBody(t, rec)["error"])
	assert.Equal(t, 7, store.stock(10))
}

func TestHandler_PlaceOrderRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "zero quantity", body: `{"productId": 10, "quantity": 0}`},
		{name: "negative quantity", body: `{"productId": 10, "quantity": -2}`},
		{name: "fractional quantity", body: `{"productId": 10, "quantity": 1.5}`},
		{name: "missing product", body: `{"quantity": 1}`},
		{name: "not json", body: `quantity=1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore(runner())
			rec := do(t, newTestRouter(store), http.MethodPost, "/orders", "alice", tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t,
				"Product ID and a positive quantity are required.",
				decodeBody(t, rec)["error"],
			)
			assert.Equal(t, 10, store.stock(10))
			assert.Zero(t, store.orderCount())
		})
	}
}

func TestHandler_RejectsOversizedBodies(t *testing.T) {
	store := newMemStore(runner())
	h := newTestRouter(store)

	rec := do(t, h, http.MethodPost, "/orders", "alice", `{"productId": 10, "quantity": 1}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := int64(decodeBody(t, rec)["orderId"].(float64))

	padding := strings.Repeat(" ", 1<<20)

	rec = do(t, h, http.MethodPost, "/orders", "alice", padding+`{"productId": 10, "quantity": 1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t,
		"Product ID and a positive quantity are required.",
		decodeBody(t, rec)["error"],
	)
	assert.Equal(t, 1, store.orderCount())

	rec = do(t, h, http.MethodPatch, fmt.Sprintf("/orders/%d/status", id), "alice",
		padding+`{"status": "processed"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t,
		"Invalid status. Allowed values: processed, completed, cancelled.",
		decodeBody(t, rec)["error"],
	)
}

func TestHandler_StatusRequiresValue(t *testing.T) {
	store := newMemStore(runner())
	h := newTestRouter(store)

	rec := do(t, h, http.MethodPost, "/orders", "alice", `{"productId": 10, "quantity": 1}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	path := fmt.Sprintf("/orders/%d/status", int64(decodeBody(t, rec)["orderId"].(float64)))

	for _, body := range []string{`{}`, `{"status": ""}`, `not json`} {
		rec = do(t, h, http.MethodPatch, path, "alice", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t,
			"Invalid status. Allowed values: processed, completed, cancelled.",
			decodeBody(t, rec)["error"],
		)
	}
}

func TestHandler_PlaceOrderUnknownProduct(t *testing.T) {
	rec := do(t, newTestRouter(newMemStore(runner())),
		http.MethodPost, "/orders", "alice", `{"productId": 99, "quantity": 1}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", decodeBody(t, rec)["error"])
}

func TestHandler_RequiresAuthentication(t *testing.T) {
	rec := do(t, newTestRouter(newMemStore(runner())),
		http.MethodPost, "/orders", "", `{"productId": 10, "quantity": 1}`)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_StatusAndDelete(t *testing.T) {
	store := newMemStore(runner())
	h := newTestRouter(store)

	rec := do(t, h, http.MethodPost, "/orders", "alice", `{"productId": 10, "quantity": 4}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := int64(decodeBody(t, rec)["orderId"].(float64))

	path := fmt.Sprintf("/orders/%d", id)

	rec = do(t, h, http.MethodPatch, path+"/status", "bob", `{"status": "completed"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Order not found", decodeBody(t, rec)["error"])

	rec = do(t, h, http.MethodPatch, path+"/status", "alice", `{"status": "bogus"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPatch, path+"/status", "alice", `{"status": "processed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "processed", decodeBody(t, rec)["status"])

	rec = do(t, h, http.MethodDelete, path, "root", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 6, store.stock(10))

	rec = do(t, h, http.MethodDelete, path, "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Order deleted successfully", decodeBody(t, rec)["message"])
	assert.Equal(t, 10, store.stock(10))

	rec = do(t, h, http.MethodDelete, "/orders/abc", "alice", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_ListOrders(t *testing.T) {
	store := newMemStore(runner())
	h := newTestRouter(store)

	do(t, h, http.MethodPost, "/orders", "alice", `{"productId": 10, "quantity": 1}`)
	do(t, h, http.MethodPost, "/orders", "bob", `{"productId": 10, "quantity": 1}`)

	var orders []map[string]any

	rec := do(t, h, http.MethodGet, "/orders", "bob", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "Runner", orders[0]["productName"])

	rec = do(t, h, http.MethodGet, "/orders", "root", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	assert.Len(t, orders, 2)
}
