// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

// UpdateUserRequest is a partial update. Nil fields are left unchanged.
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=1,max=255"`
	Email    *string `json:"email,omitempty"    validate:"omitempty,email,max=255"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=1,max=128"`
	Role     *string `json:"role,omitempty"`
}

// Profile is the public view of a User. The password hash never leaves
// the package.
type Profile struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type updatedProfile struct {
	Message string  `json:"message"`
	User    Profile `json:"user"`
}

// Filter narrows the admin user listing. Search matches username or email.
type Filter struct {
	Search string
	Role   string
}

func (u *User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func profiles(users []User) []Profile {
	out := make([]Profile, len(users))
	for i := range users {
		out[i] = users[i].Profile()
	}
	return out
}
