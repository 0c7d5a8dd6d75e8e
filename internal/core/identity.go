// AngelaMos | 2026
// identity.go

package core

import (
	"fmt"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Identity is the authenticated caller, as carried by a verified token.
type Identity struct {
	ID       int64
	Username string
	Role     string
	Email    string
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

func AuthorizeAdmin(id *Identity) error {
	if !id.IsAdmin() {
		return fmt.Errorf("admin access required: %w", ErrForbidden)
	}
	return nil
}

// AuthorizeSelfOrAdmin allows the caller to act on targetID when it is their
// own account or they are an admin.
func AuthorizeSelfOrAdmin(id *Identity, targetID int64) error {
	if id == nil {
		return fmt.Errorf("no identity: %w", ErrUnauthorized)
	}
	if id.ID == targetID || id.IsAdmin() {
		return nil
	}
	return fmt.Errorf("access denied: %w", ErrForbidden)
}
