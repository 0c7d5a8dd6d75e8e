// AngelaMos | 2026
// response.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var (
	exposeDetails atomic.Bool
	errorLogger   atomic.Pointer[zap.Logger]
)

// ConfigureResponses sets the logger used for internal errors and whether
// error bodies carry a "details" field. Details are meant for development.
func ConfigureResponses(logger *zap.Logger, showDetails bool) {
	if logger != nil {
		errorLogger.Store(logger)
	}
	exposeDetails.Store(showDetails)
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		if logger := errorLogger.Load(); logger != nil {
			logger.Error("encode response", zap.Error(err))
		}
	}
}

func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, MessageResponse{Message: message})
}

// JSONError writes err as {"error": ...}. Any error is accepted; it is mapped
// through ToAppError first.
func JSONError(w http.ResponseWriter, err error) {
	appErr := ToAppError(err)

	resp := ErrorResponse{Error: appErr.Message}

	if appErr.StatusCode >= http.StatusInternalServerError {
		if logger := errorLogger.Load(); logger != nil {
			logger.Error("internal error", zap.Error(err))
		}
		if exposeDetails.Load() && appErr.Err != nil {
			resp.Details = appErr.Err.Error()
		}
	}

	JSON(w, appErr.StatusCode, resp)
}

func BadRequest(w http.ResponseWriter, message string) {
	JSONError(w, InvalidInputError(message))
}

func Unauthorized(w http.ResponseWriter, message string) {
	JSONError(w, UnauthorizedError(message))
}

// NotFound writes "<Resource> not found".
func NotFound(w http.ResponseWriter, resource string) {
	msg := "Not found"
	if resource != "" {
		msg = strings.ToUpper(resource[:1]) + resource[1:] + " not found"
	}
	JSONError(w, NotFoundError(msg))
}

func Conflict(w http.ResponseWriter, message string) {
	JSONError(w, DuplicateError(message))
}

func InternalServerError(w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}
	JSONError(w, NewAppError(
		err,
		"Something went wrong!",
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
	))
}

func FormatValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return "invalid request"
	}

	msgs := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		msgs = append(msgs, formatFieldError(fe))
	}

	return strings.Join(msgs, "; ")
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
