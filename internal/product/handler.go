// AngelaMos | 2026
// handler.go

package product

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

const multipartOverhead = 1 << 20

type Handler struct {
	service        *Service
	validator      *validator.Validate
	maxUploadBytes int64
}

func NewHandler(service *Service, maxUploadBytes int64) *Handler {
	return &Handler{
		service:        service,
		validator:      core.NewValidator(),
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{productID}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(adminOnly)

			r.Post("/", h.Create)
			r.Put("/{productID}", h.Update)
			r.Delete("/{productID}", h.Delete)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := ListParams{
		Page:  parseIntQuery(q.Get("page"), 1),
		Limit: parseIntQuery(q.Get("limit"), 10),
	}

	if raw := q.Get("categoryId"); raw != "" {
		categoryID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			core.BadRequest(w, "categoryId must be an integer")
			return
		}
		params.CategoryID = &categoryID
	}

	resp, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "productID", "product")
	if !ok {
		return
	}

	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, product)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	upload, cleanup, err := h.decode(w, r, &req)
	if err != nil {
		core.JSONError(w, err)
		return
	}
	defer cleanup()

	if err := h.validator.Struct(req); err != nil {
		core.JSONError(w, errMissingFields)
		return
	}

	product, err := h.service.Create(r.Context(), req, upload)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, product)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "productID", "product")
	if !ok {
		return
	}

	var req UpdateProductRequest
	upload, cleanup, err := h.decode(w, r, &req)
	if err != nil {
		core.JSONError(w, err)
		return
	}
	defer cleanup()

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	product, err := h.service.Update(r.Context(), id, req, upload)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, product)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "productID", "product")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	core.Message(w, http.StatusOK, "Product deleted successfully")
}

// decode fills dst from a JSON body or from multipart form fields, and
// returns the optional "image" file part.
func (h *Handler) decode(
	w http.ResponseWriter,
	r *http.Request,
	dst any,
) (*Upload, func(), error) {
	noop := func() {}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if err := core.ReadJSON(w, r, dst); err != nil {
			return nil, noop, core.InvalidInputError("invalid request body")
		}
		return nil, noop, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, noop, core.InvalidInputError("Only JPEG and PNG images up to 5MB are allowed")
		}
		return nil, noop, core.InvalidInputError("invalid multipart body")
	}
	cleanup := func() {
		//nolint:errcheck // temp file cleanup is best-effort
		_ = r.MultipartForm.RemoveAll()
	}

	if err := bindForm(r, dst); err != nil {
		cleanup()
		return nil, noop, err
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, cleanup, nil
	}
	if err != nil {
		cleanup()
		return nil, noop, core.InvalidInputError("invalid image part")
	}

	if header.Size > h.maxUploadBytes {
		_ = file.Close() //nolint:errcheck // rejecting the upload
		cleanup()
		return nil, noop, core.InvalidInputError("Only JPEG and PNG images up to 5MB are allowed")
	}

	return &Upload{Reader: file, Filename: header.Filename}, func() {
		_ = file.Close() //nolint:errcheck // read-only multipart file
		cleanup()
	}, nil
}

type formFields struct {
	name, description, price, stock, categoryID, imageURL *string
}

func readForm(r *http.Request) formFields {
	get := func(key string) *string {
		if values, ok := r.MultipartForm.Value[key]; ok && len(values) > 0 {
			return &values[0]
		}
		return nil
	}

	return formFields{
		name:        get("name"),
		description: get("description"),
		price:       get("price"),
		stock:       get("stock"),
		categoryID:  get("categoryId"),
		imageURL:    get("imageUrl"),
	}
}

func bindForm(r *http.Request, dst any) error {
	f := readForm(r)

	price, err := optionalMoney(f.price)
	if err != nil {
		return core.InvalidInputError("price must be a number")
	}
	stock, err := optionalInt(f.stock)
	if err != nil {
		return core.InvalidInputError("stock must be an integer")
	}
	categoryID, err := optionalInt64(f.categoryID)
	if err != nil {
		return core.InvalidInputError("categoryId must be an integer")
	}

	switch req := dst.(type) {
	case *CreateProductRequest:
		if f.name != nil {
			req.Name = *f.name
		}
		req.Description = nonEmpty(f.description)
		req.Price = price
		req.Stock = stock
		req.CategoryID = categoryID
		req.ImageURL = nonEmpty(f.imageURL)
	case *UpdateProductRequest:
		req.Name = nonEmpty(f.name)
		req.Description = nonEmpty(f.description)
		req.Price = price
		req.Stock = stock
		req.CategoryID = categoryID
		req.ImageURL = nonEmpty(f.imageURL)
	default:
		return fmt.Errorf("unsupported form target %T", dst)
	}

	return nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func optionalMoney(s *string) (*core.Money, error) {
	if nonEmpty(s) == nil {
		return nil, nil
	}
	m, err := core.ParseMoney(*s)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func optionalInt(s *string) (*int, error) {
	if nonEmpty(s) == nil {
		return nil, nil
	}
	v, err := strconv.Atoi(*s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func optionalInt64(s *string) (*int64, error) {
	if nonEmpty(s) == nil {
		return nil, nil
	}
	v, err := strconv.ParseInt(*s, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrUploadRejected):
		core.JSONError(w, core.NewAppError(
			err,
			"Only JPEG and PNG images up to 5MB are allowed",
			http.StatusBadRequest,
			"UPLOAD_REJECTED",
		))
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "product")
	default:
		if _, ok := core.IsAppError(err); ok {
			core.JSONError(w, err)
			return
		}
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "Invalid categoryId.")
			return
		}
		core.JSONError(w, err)
	}
}


func parseIntQuery(val string, defaultVal int) int {
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
