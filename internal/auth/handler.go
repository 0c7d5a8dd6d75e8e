// AngelaMos | 2026
// handler.go

package auth

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

// RegisterRoutes mounts the public account endpoints behind limiter, which
// may be nil.
func (h *Handler) RegisterRoutes(r chi.Router, limiter func(http.Handler) http.Handler) {
	if limiter != nil {
		r = r.With(limiter)
	}
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !core.DecodeJSON(w, r, &req) {
		return
	}

	if req.Username == "" || req.Password == "" || req.Email == "" {
		core.BadRequest(w, "Username, password, and email are required.")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	err := h.service.Register(r.Context(), req)
	switch {
	case errors.Is(err, ErrAccountExists):
		core.Conflict(w, "Username or email already exists.")
	case err != nil:
		core.InternalServerError(w, err)
	default:
		core.Message(w, http.StatusCreated, "User registered successfully")
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !core.DecodeJSON(w, r, &req) {
		return
	}
	if h.validate.Struct(req) != nil {
		core.BadRequest(w, "Username and password are required.")
		return
	}

	tokens, err := h.service.Login(r.Context(), req)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		core.Unauthorized(w, "Invalid credentials")
	case err != nil:
		core.InternalServerError(w, err)
	default:
		core.OK(w, tokens)
	}
}
