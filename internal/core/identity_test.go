// AngelaMos | 2026
// identity_test.go

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorizeSelfOrAdmin(t *testing.T) {
	user := &Identity{ID: 1, Role: RoleUser}
	admin := &Identity{ID: 9, Role: RoleAdmin}

	assert.NoError(t, AuthorizeSelfOrAdmin(user, 1))
	assert.NoError(t, AuthorizeSelfOrAdmin(admin, 1))
	assert.ErrorIs(t, AuthorizeSelfOrAdmin(user, 2), ErrForbidden)
	assert.ErrorIs(t, AuthorizeSelfOrAdmin(nil, 1), ErrUnauthorized)
}

func TestAuthorizeAdmin(t *testing.T) {
	assert.NoError(t, AuthorizeAdmin(&Identity{Role: RoleAdmin}))
	assert.ErrorIs(t, AuthorizeAdmin(&Identity{Role: RoleUser}), ErrForbidden)
	assert.ErrorIs(t, AuthorizeAdmin(nil), ErrForbidden)
}
