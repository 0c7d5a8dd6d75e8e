// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

const identityKey contextKey = "identity"

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*core.Identity, error)
}

var (
	errNoToken    = core.UnauthorizedError("Access denied: No token provided")
	errAdminsOnly = core.ForbiddenError("Admin access required")
)

// Authenticator attaches the verified caller to the request context.
// A missing bearer token is a 401, a token that fails verification a 403.
func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				core.JSONError(w, errNoToken)
				return
			}

			identity, err := verifier.Verify(r.Context(), token)
			if err != nil {
				core.JSONError(w, core.TokenInvalidError())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireAdmin must run after Authenticator.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := core.AuthorizeAdmin(GetIdentity(r.Context()))
		switch {
		case err == nil:
			next.ServeHTTP(w, r)
		case GetIdentity(r.Context()) == nil:
			core.JSONError(w, errNoToken)
		case errors.Is(err, core.ErrForbidden):
			core.JSONError(w, errAdminsOnly)
		default:
			core.JSONError(w, err)
		}
	})
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func WithIdentity(ctx context.Context, identity *core.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func GetIdentity(ctx context.Context) *core.Identity {
	identity, _ := ctx.Value(identityKey).(*core.Identity)
	return identity
}
