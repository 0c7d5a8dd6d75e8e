// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

type argonParams struct {
	memory  uint32
	time    uint32
	threads uint8
	keyLen  uint32
}

var currentArgon = argonParams{
	memory:  64 * 1024,
	time:    1,
	threads: 4,
	keyLen:  32,
}

const saltLength = 16

var errMalformedHash = errors.New("malformed password hash")

func (p argonParams) key(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)
}

// encode renders the PHC string form, e.g.
// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>.
func (p argonParams) encode(salt, key []byte) string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memory, p.time, p.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
}

func parseArgon(encoded string) (argonParams, []byte, []byte, error) {
	var p argonParams

	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[1] != "argon2id" {
		return p, nil, nil, errMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, fmt.Errorf("argon2 version %q: %w", fields[2], errMalformedHash)
	}

	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return p, nil, nil, fmt.Errorf("argon2 params %q: %w", fields[3], errMalformedHash)
	}

	salt, err := base64.RawStdEncoding.DecodeString(fields[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("argon2 salt: %w", errMalformedHash)
	}
	key, err := base64.RawStdEncoding.DecodeString(fields[5])
	if err != nil {
		return p, nil, nil, fmt.Errorf("argon2 key: %w", errMalformedHash)
	}

	p.keyLen = uint32(len(key)) //nolint:gosec // G115: key is a few dozen bytes

	return p, salt, key, nil
}

// HashPassword hashes with argon2id under the current parameters.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	return currentArgon.encode(salt, currentArgon.key(password, salt)), nil
}

func isBcrypt(encoded string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(encoded, prefix) {
			return true
		}
	}
	return false
}

// VerifyPassword reports whether password matches encoded. Both argon2id
// and bcrypt hashes are understood; accounts seeded with bcrypt keep working.
func VerifyPassword(password, encoded string) (bool, error) {
	if isBcrypt(encoded) {
		err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, fmt.Errorf("bcrypt: %w", err)
		}
	}

	params, salt, want, err := parseArgon(encoded)
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare(want, params.key(password, salt)) == 1, nil
}

func outdated(encoded string) bool {
	params, _, _, err := parseArgon(encoded)
	return err != nil || params != currentArgon
}

var dummyHash = sync.OnceValue(func() string {
	hash, err := HashPassword("timing-equaliser")
	if err != nil {
		return currentArgon.encode(make([]byte, saltLength), make([]byte, currentArgon.keyLen))
	}
	return hash
})

// CheckPassword verifies password against stored, which may be nil when the
// account does not exist. A dummy hash is verified in that case so both
// paths cost the same. On success with an outdated or bcrypt hash, upgraded
// holds a fresh argon2id hash to persist.
func CheckPassword(password string, stored *string) (ok bool, upgraded string, err error) {
	if stored == nil || *stored == "" {
		//nolint:errcheck // result discarded; only the cost matters
		_, _ = VerifyPassword(password, dummyHash())
		return false, "", nil
	}

	ok, err = VerifyPassword(password, *stored)
	if err != nil || !ok {
		return false, "", err
	}

	if outdated(*stored) {
		if fresh, hashErr := HashPassword(password); hashErr == nil {
			upgraded = fresh
		}
	}

	return true, upgraded, nil
}
