// AngelaMos | 2026
// errors_test.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestToAppError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "app error kept",
			err:     fmt.Errorf("wrap: %w", NotFoundError("Order not found")),
			status:  http.StatusNotFound,
			message: "Order not found",
		},
		{
			name:    "stock error",
			err:     fmt.Errorf("place: %w", &StockError{ProductName: "Runner", Requested: 20, Available: 7}),
			status:  http.StatusBadRequest,
			message: "Insufficient stock for Runner. Only 7 left.",
		},
		{
			name:    "invalid input sentinel",
			err:     fmt.Errorf("parse: %w", ErrInvalidInput),
			status:  http.StatusBadRequest,
			message: "Invalid request",
		},
		{
			name:    "unauthorized sentinel",
			err:     ErrUnauthorized,
			status:  http.StatusUnauthorized,
			message: "Access denied: No token provided",
		},
		{
			name:    "invalid token",
			err:     ErrTokenInvalid,
			status:  http.StatusForbidden,
			message: "Invalid token",
		},
		{
			name:    "forbidden",
			err:     fmt.Errorf("x: %w", ErrForbidden),
			status:  http.StatusForbidden,
			message: "Access denied",
		},
		{
			name:    "duplicate",
			err:     ErrDuplicateKey,
			status:  http.StatusConflict,
			message: "Resource already exists",
		},
		{
			name:    "in use",
			err:     ErrInUse,
			status:  http.StatusBadRequest,
			message: "Resource is still referenced",
		},
		{
			name:    "upload rejected",
			err:     ErrUploadRejected,
			status:  http.StatusBadRequest,
			message: "Only JPEG and PNG images up to 5MB are allowed",
		},
		{
			name:    "anything else",
			err:     errors.New("connection refused"),
			status:  http.StatusInternalServerError,
			message: "Something went wrong!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := ToAppError(tt.err)
			assert.Equal(t, tt.status, appErr.StatusCode)
			assert.Equal(t, tt.message, appErr.Message)
		})
	}
}

func TestStockErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("tx: %w", &StockError{ProductName: "Runner", Available: 0})
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.NotErrorIs(t, err, ErrInvalidInput)
}

func TestJSONError_DetailsOnlyWhenExposed(t *testing.T) {
	t.Cleanup(func() { ConfigureResponses(zap.NewNop(), false) })

	cause := errors.New("pq: relation missing")

	ConfigureResponses(zap.NewNop(), true)
	rec := httptest.NewRecorder()
	JSONError(rec, cause)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Something went wrong!", body.Error)
	assert.Equal(t, "pq: relation missing", body.Details)

	ConfigureResponses(zap.NewNop(), false)
	rec = httptest.NewRecorder()
	JSONError(rec, cause)

	body = ErrorResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Details)
	assert.NotContains(t, rec.Body.String(), "details")
}

func TestJSONError_ClientErrorsNeverCarryDetails(t *testing.T) {
	ConfigureResponses(zap.NewNop(), true)
	t.Cleanup(func() { ConfigureResponses(zap.NewNop(), false) })

	rec := httptest.NewRecorder()
	JSONError(rec, InvalidInputError("Category name is required."))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Category name is required."}`, rec.Body.String())
}

func TestNotFoundCapitalizesResource(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFound(rec, "product")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Product not found"}`, rec.Body.String())
}

func TestMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	Message(rec, http.StatusCreated, "User registered successfully")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"User registered successfully"}`, rec.Body.String())
}
