// AngelaMos | 2026
// handler.go

package category

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validate: core.NewValidator()}
}

// RegisterRoutes mounts /categories. Listing is public; writes need an
// admin token.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.List)

		r.With(authenticator, adminOnly).Post("/", h.Create)
		r.With(authenticator, adminOnly).Put("/{categoryID}", h.Update)
		r.With(authenticator, adminOnly).Delete("/{categoryID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	core.OK(w, categories)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.bind(w, r, "Category name is required.")
	if !ok {
		return
	}

	created, err := h.service.Create(r.Context(), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	core.Created(w, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "categoryID", "category")
	if !ok {
		return
	}
	req, ok := h.bind(w, r, "Category name is required for update.")
	if !ok {
		return
	}

	updated, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		respondErr(w, err)
		return
	}
	core.OK(w, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "categoryID", "category")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondErr(w, err)
		return
	}
	core.Message(w, http.StatusOK, "Category deleted successfully.")
}

// bind decodes and validates a CategoryRequest, answering 400 with missing
// when the name is absent.
func (h *Handler) bind(w http.ResponseWriter, r *http.Request, missing string) (CategoryRequest, bool) {
	var req CategoryRequest
	if !core.DecodeJSON(w, r, &req) {
		return req, false
	}
	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, missing)
		return req, false
	}
	return req, true
}

func respondErr(w http.ResponseWriter, err error) {
	if _, ok := core.IsAppError(err); !ok && errors.Is(err, core.ErrNotFound) {
		core.NotFound(w, "category")
		return
	}
	core.JSONError(w, err)
}
