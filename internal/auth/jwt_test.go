// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/storefront/internal/config"
	"github.com/carterperez-dev/templates/storefront/internal/core"
)

func newTestSigner(t *testing.T, expire time.Duration) *Signer {
	t.Helper()

	dir := t.TempDir()
	cfg := config.JWTConfig{
		PrivateKeyPath:    filepath.Join(dir, "keys", "private.pem"),
		PublicKeyPath:     filepath.Join(dir, "keys", "public.pem"),
		AccessTokenExpire: expire,
		Issuer:            "storefront",
		Audience:          "storefront-api",
	}
	require.NoError(t, WriteKeyPair(cfg.PrivateKeyPath, cfg.PublicKeyPath))

	m, err := NewSigner(cfg)
	require.NoError(t, err)
	return m
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestSigner(t, time.Hour)

	token, err := m.Sign(core.Identity{
		ID:       42,
		Username: "alice",
		Role:     core.RoleAdmin,
		Email:    "alice@example.com",
	})
	require.NoError(t, err)

	id, err := m.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id.ID)
	assert.Equal(t, "alice", id.Username)
	assert.Equal(t, core.RoleAdmin, id.Role)
	assert.Equal(t, "alice@example.com", id.Email)
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	issuer := newTestSigner(t, time.Hour)
	verifier := newTestSigner(t, time.Hour)

	token, err := issuer.Sign(core.Identity{ID: 1, Username: "a", Role: core.RoleUser})
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestVerifyRejectsGarbageAndExpired(t *testing.T) {
	_, err := newTestSigner(t, time.Hour).Verify(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)

	expired := newTestSigner(t, -time.Minute)
	token, err := expired.Sign(core.Identity{ID: 1, Username: "a", Role: core.RoleUser})
	require.NoError(t, err)

	_, err = expired.Verify(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, core.ToAppError(err).StatusCode)
}

func TestJWKSHandler(t *testing.T) {
	m := newTestSigner(t, time.Hour)

	rec := httptest.NewRecorder()
	m.JWKS()(rec, httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Keys []map[string]any `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Keys, 1)
	assert.Equal(t, m.KeyID(), body.Keys[0]["kid"])
	assert.NotContains(t, body.Keys[0], "d")
}

func TestKeyIDIsStableForAKey(t *testing.T) {
	m := newTestSigner(t, time.Hour)

	again, err := NewSigner(m.cfg)
	require.NoError(t, err)
	assert.Equal(t, m.KeyID(), again.KeyID())
	assert.Len(t, m.KeyID(), 16)
}
