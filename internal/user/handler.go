// AngelaMos | 2026
// handler.go

package user

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/storefront/internal/core"
	"github.com/carterperez-dev/templates/storefront/internal/middleware"
)

type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validate: core.NewValidator()}
}

// RegisterRoutes mounts /users. Every route needs a token; listing and
// deletion are admin only, the service decides the rest.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/users", func(r chi.Router) {
		r.Use(authenticator)

		r.With(adminOnly).Get("/", h.ListUsers)
		r.Get("/{userID}", h.GetUser)
		r.Put("/{userID}", h.UpdateUser)
		r.With(adminOnly).Delete("/{userID}", h.DeleteUser)
	})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	users, err := h.service.ListUsers(r.Context(), Filter{
		Search: q.Get("search"),
		Role:   q.Get("role"),
	})
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	core.OK(w, profiles(users))
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "userID", "user")
	if !ok {
		return
	}

	u, err := h.service.GetUser(r.Context(), middleware.GetIdentity(r.Context()), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	core.OK(w, u.Profile())
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "userID", "user")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !core.DecodeJSON(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	u, err := h.service.UpdateUser(r.Context(), middleware.GetIdentity(r.Context()), id, req)
	if err != nil {
		respondErr(w, err)
		return
	}
	core.OK(w, updatedProfile{Message: "User updated successfully", User: u.Profile()})
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "userID", "user")
	if !ok {
		return
	}

	if err := h.service.DeleteUser(r.Context(), middleware.GetIdentity(r.Context()), id); err != nil {
		respondErr(w, err)
		return
	}
	core.Message(w, http.StatusOK, "User deleted successfully.")
}

func respondErr(w http.ResponseWriter, err error) {
	if _, ok := core.IsAppError(err); ok {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "user")
	case errors.Is(err, core.ErrDuplicateKey):
		core.Conflict(w, "Username or email already exists.")
	default:
		core.JSONError(w, err)
	}
}
