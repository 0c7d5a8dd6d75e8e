// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidInput      = errors.New("invalid input")
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenInvalid      = errors.New("token invalid")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrUploadRejected    = errors.New("upload rejected")
	ErrInUse             = errors.New("resource in use")
)

// AppError carries the HTTP status and client-facing message for an error.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, statusCode int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: statusCode,
		Code:       code,
	}
}

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func InvalidInputError(message string) *AppError {
	return NewAppError(ErrInvalidInput, message, http.StatusBadRequest, "INVALID_INPUT")
}

func UnauthorizedError(message string) *AppError {
	return NewAppError(ErrUnauthorized, message, http.StatusUnauthorized, "UNAUTHORIZED")
}

func TokenInvalidError() *AppError {
	return NewAppError(ErrTokenInvalid, "Invalid token", http.StatusForbidden, "TOKEN_INVALID")
}

func ForbiddenError(message string) *AppError {
	return NewAppError(ErrForbidden, message, http.StatusForbidden, "FORBIDDEN")
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrNotFound, message, http.StatusNotFound, "NOT_FOUND")
}

func DuplicateError(message string) *AppError {
	return NewAppError(ErrDuplicateKey, message, http.StatusConflict, "DUPLICATE")
}

func InUseError(message string) *AppError {
	return NewAppError(ErrInUse, message, http.StatusBadRequest, "IN_USE")
}

// StockError reports a reservation that asked for more units than a product
// has. It matches ErrInsufficientStock under errors.Is.
type StockError struct {
	ProductName string
	Requested   int
	Available   int
}

func (e *StockError) Error() string {
	return fmt.Sprintf(
		"Insufficient stock for %s. Only %d left.",
		e.ProductName,
		e.Available,
	)
}

func (e *StockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// ToAppError maps any error onto its HTTP shape. Errors that already carry an
// AppError keep it; sentinel errors get a generic message for their kind;
// everything else is an internal error.
func ToAppError(err error) *AppError {
	if appErr, ok := IsAppError(err); ok {
		return appErr
	}

	var stockErr *StockError
	if errors.As(err, &stockErr) {
		return NewAppError(err, stockErr.Error(), http.StatusBadRequest, "INSUFFICIENT_STOCK")
	}

	switch {
	case errors.Is(err, ErrInvalidInput):
		return NewAppError(err, "Invalid request", http.StatusBadRequest, "INVALID_INPUT")
	case errors.Is(err, ErrUploadRejected):
		return NewAppError(err, "Only JPEG and PNG images up to 5MB are allowed", http.StatusBadRequest, "UPLOAD_REJECTED")
	case errors.Is(err, ErrInUse):
		return NewAppError(err, "Resource is still referenced", http.StatusBadRequest, "IN_USE")
	case errors.Is(err, ErrUnauthorized):
		return NewAppError(err, "Access denied: No token provided", http.StatusUnauthorized, "UNAUTHORIZED")
	case errors.Is(err, ErrTokenExpired):
		return NewAppError(err, "Invalid token", http.StatusForbidden, "TOKEN_EXPIRED")
	case errors.Is(err, ErrTokenInvalid):
		return NewAppError(err, "Invalid token", http.StatusForbidden, "TOKEN_INVALID")
	case errors.Is(err, ErrForbidden):
		return NewAppError(err, "Access denied", http.StatusForbidden, "FORBIDDEN")
	case errors.Is(err, ErrNotFound):
		return NewAppError(err, "Not found", http.StatusNotFound, "NOT_FOUND")
	case errors.Is(err, ErrDuplicateKey):
		return NewAppError(err, "Resource already exists", http.StatusConflict, "DUPLICATE")
	}

	return NewAppError(err, "Something went wrong!", http.StatusInternalServerError, "INTERNAL_ERROR")
}
