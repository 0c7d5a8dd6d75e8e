// AngelaMos | 2026
// handler_test.go

package category

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

type stubRepo struct {
	categories map[int64]*Category
	products   map[int64]int
	nextID     int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{categories: map[int64]*Category{}, products: map[int64]int{}}
}

func (r *stubRepo) List(context.Context) ([]Category, error) {
	out := []Category{}
	for id := int64(1); id <= r.nextID; id++ {
		if c, ok := r.categories[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubRepo) GetByID(_ context.Context, id int64) (*Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, fmt.Errorf("get category: %w", core.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (r *stubRepo) nameTaken(name string, except int64) bool {
	for id, c := range r.categories {
		if id != except && c.Name == name {
			return true
		}
	}
	return false
}

func (r *stubRepo) Create(_ context.Context, c *Category) error {
	if r.nameTaken(c.Name, 0) {
		return fmt.Errorf("create category: %w", core.ErrDuplicateKey)
	}
	r.nextID++
	c.ID = r.nextID
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *stubRepo) Update(_ context.Context, c *Category) error {
	if r.nameTaken(c.Name, c.ID) {
		return fmt.Errorf("update category: %w", core.ErrDuplicateKey)
	}
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *stubRepo) Delete(_ context.Context, id int64) error {
	delete(r.categories, id)
	return nil
}

func (r *stubRepo) CountProducts(_ context.Context, id int64) (int, error) {
	return r.products[id], nil
}

func passThrough(next http.Handler) http.Handler { return next }

func newTestRouter(repo Repository) http.Handler {
	r := chi.NewRouter()
	NewHandler(NewService(repo, zap.NewNop())).RegisterRoutes(r, passThrough, passThrough)
	return r
}

func send(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCategoryLifecycle(t *testing.T) {
	repo := newStubRepo()
	h := newTestRouter(repo)

	rec := send(h, http.MethodGet, "/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = send(h, http.MethodPost, "/categories", `{"name":"  Shoes ","description":"Footwear"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Shoes"`)

	rec = send(h, http.MethodPut, "/categories/1", `{"name":"Sneakers"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Sneakers"`)
	assert.Contains(t, rec.Body.String(), `"description":"Footwear"`)

	rec = send(h, http.MethodDelete, "/categories/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Category deleted successfully."}`, rec.Body.String())
}

func TestCategoryErrors(t *testing.T) {
	repo := newStubRepo()
	h := newTestRouter(repo)
	require.Equal(t, http.StatusCreated, send(h, http.MethodPost, "/categories", `{"name":"Shoes"}`).Code)
	require.Equal(t, http.StatusCreated, send(h, http.MethodPost, "/categories", `{"name":"Hats"}`).Code)
	repo.products[1] = 3

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode int
		wantBody string
	}{
		{
			name:     "missing name on create",
			method:   http.MethodPost,
			path:     "/categories",
			body:     `{"description":"x"}`,
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"Category name is required."}`,
		},
		{
			name:     "missing name on update",
			method:   http.MethodPut,
			path:     "/categories/1",
			body:     `{}`,
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"Category name is required for update."}`,
		},
		{
			name:     "duplicate on create",
			method:   http.MethodPost,
			path:     "/categories",
			body:     `{"name":"Shoes"}`,
			wantCode: http.StatusConflict,
			wantBody: `{"error":"Category with name 'Shoes' already exists."}`,
		},
		{
			name:     "duplicate on rename",
			method:   http.MethodPut,
			path:     "/categories/2",
			body:     `{"name":"Shoes"}`,
			wantCode: http.StatusConflict,
			wantBody: `{"error":"Category with name 'Shoes' already exists."}`,
		},
		{
			name:     "update unknown",
			method:   http.MethodPut,
			path:     "/categories/9",
			body:     `{"name":"Bags"}`,
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"Category not found"}`,
		},
		{
			name:     "delete in use",
			method:   http.MethodDelete,
			path:     "/categories/1",
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"Cannot delete category: products are associated with it. Please reassign or delete products first."}`,
		},
		{
			name:     "delete unknown",
			method:   http.MethodDelete,
			path:     "/categories/9",
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"Category not found"}`,
		},
		{
			name:     "bad id",
			method:   http.MethodDelete,
			path:     "/categories/abc",
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := send(h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}

	_, err := repo.GetByID(context.Background(), 1)
	assert.NoError(t, err, "category in use is kept")
}
