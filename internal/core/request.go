// AngelaMos | 2026
// request.go

package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const maxJSONBody = 1 << 20

// ReadJSON decodes a JSON request body of at most 1 MiB into dst without
// writing a response.
func ReadJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	return json.NewDecoder(r.Body).Decode(dst)
}

// DecodeJSON is ReadJSON that answers 400 itself on failure and returns
// false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := ReadJSON(w, r, dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			BadRequest(w, "request body too large")
			return false
		}
		BadRequest(w, "invalid request body")
		return false
	}
	return true
}

// PathID parses the positive integer route parameter param. noun names the
// resource in the 400 written on failure.
func PathID(w http.ResponseWriter, r *http.Request, param, noun string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		BadRequest(w, "invalid "+noun+" id")
		return 0, false
	}
	return id, true
}
