// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/templates/storefront/internal/config"
	"github.com/carterperez-dev/templates/storefront/internal/core"
)

const (
	claimUsername = "username"
	claimRole     = "role"
	claimEmail    = "email"
	claimType     = "type"

	accessTokenType = "access"
	clockSkew       = 30 * time.Second
)

// Signer issues and verifies ES256 access tokens. There is no server-side
// session: a token is valid until it expires.
type Signer struct {
	key    jwk.Key
	public jwk.Key
	jwks   jwk.Set
	keyID  string
	cfg    config.JWTConfig
}

func NewSigner(cfg config.JWTConfig) (*Signer, error) {
	key, err := loadSigningKey(cfg.PrivateKeyPath)
	if err != nil {
		return nil, err
	}

	// The key id is the key's own thumbprint so it stays stable across
	// restarts and replicas sharing a key.
	thumb, err := key.Thumbprint(crypto.SHA256)
	if err != nil {
		return nil, fmt.Errorf("key thumbprint: %w", err)
	}
	keyID := base64.RawURLEncoding.EncodeToString(thumb)[:16]

	if err := key.Set(jwk.KeyIDKey, keyID); err != nil {
		return nil, fmt.Errorf("set key id: %w", err)
	}

	public, err := key.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}
	if err := public.Set(jwk.KeyUsageKey, "sig"); err != nil {
		return nil, fmt.Errorf("set key usage: %w", err)
	}

	jwks := jwk.NewSet()
	if err := jwks.AddKey(public); err != nil {
		return nil, fmt.Errorf("build jwks: %w", err)
	}

	return &Signer{
		key:    key,
		public: public,
		jwks:   jwks,
		keyID:  keyID,
		cfg:    cfg,
	}, nil
}

func loadSigningKey(path string) (jwk.Key, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read signing key: %w", err)
	}

	key, err := jwk.ParseKey(raw, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse signing key %s: %w", path, err)
	}

	if err := key.Set(jwk.AlgorithmKey, jwa.ES256()); err != nil {
		return nil, fmt.Errorf("set algorithm: %w", err)
	}

	return key, nil
}

// WriteKeyPair creates a P-256 key pair as PEM files, creating parent
// directories as needed. The private key is written owner-only.
func WriteKeyPair(privatePath, publicPath string) error {
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}

	private, err := jwk.Import(ecKey)
	if err != nil {
		return fmt.Errorf("import key: %w", err)
	}

	public, err := private.PublicKey()
	if err != nil {
		return fmt.Errorf("derive public key: %w", err)
	}

	files := []struct {
		path string
		key  jwk.Key
		mode os.FileMode
	}{
		{privatePath, private, 0o600},
		{publicPath, public, 0o644},
	}

	for _, f := range files {
		pem, err := jwk.Pem(f.key)
		if err != nil {
			return fmt.Errorf("encode %s: %w", f.path, err)
		}
		if err := os.MkdirAll(filepath.Dir(f.path), 0o750); err != nil {
			return fmt.Errorf("create key dir: %w", err)
		}
		if err := os.WriteFile(f.path, pem, f.mode); err != nil {
			return fmt.Errorf("write %s: %w", f.path, err)
		}
	}

	return nil
}

// Sign mints an access token for identity, valid for the configured
// lifetime.
func (s *Signer) Sign(identity core.Identity) (string, error) {
	now := time.Now()

	token, err := jwt.NewBuilder().
		JwtID(uuid.NewString()).
		Issuer(s.cfg.Issuer).
		Audience([]string{s.cfg.Audience}).
		Subject(strconv.FormatInt(identity.ID, 10)).
		IssuedAt(now).
		NotBefore(now).
		Expiration(now.Add(s.cfg.AccessTokenExpire)).
		Claim(claimUsername, identity.Username).
		Claim(claimRole, identity.Role).
		Claim(claimEmail, identity.Email).
		Claim(claimType, accessTokenType).
		Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), s.key))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return string(signed), nil
}

func (s *Signer) Verify(_ context.Context, raw string) (*core.Identity, error) {
	token, err := jwt.Parse(
		[]byte(raw),
		jwt.WithKey(jwa.ES256(), s.public),
		jwt.WithValidate(true),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithAudience(s.cfg.Audience),
		jwt.WithAcceptableSkew(clockSkew),
	)
	if err != nil {
		if expired(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	identity, err := identityFrom(token)
	if err != nil {
		return nil, fmt.Errorf("verify token: %s: %w", err, core.ErrTokenInvalid)
	}

	return identity, nil
}

func identityFrom(token jwt.Token) (*core.Identity, error) {
	var kind string
	if err := token.Get(claimType, &kind); err != nil || kind != accessTokenType {
		return nil, fmt.Errorf("not an access token")
	}

	subject, _ := token.Subject()
	id, err := strconv.ParseInt(subject, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("bad subject %q", subject)
	}

	identity := &core.Identity{ID: id}
	if err := token.Get(claimRole, &identity.Role); err != nil {
		return nil, fmt.Errorf("missing %s claim", claimRole)
	}
	if err := token.Get(claimUsername, &identity.Username); err != nil {
		return nil, fmt.Errorf("missing %s claim", claimUsername)
	}
	//nolint:errcheck // email is optional
	_ = token.Get(claimEmail, &identity.Email)

	return identity, nil
}

func expired(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "exp") && strings.Contains(msg, "not satisfied")
}

func (s *Signer) KeyID() string {
	return s.keyID
}

// JWKS serves the public key set so other services can verify tokens.
func (s *Signer) JWKS() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		core.OK(w, s.jwks)
	}
}
