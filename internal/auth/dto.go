// AngelaMos | 2026
// dto.go

package auth

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=1,max=255"`
	Password string `json:"password" validate:"required,min=1,max=128"`
	Email    string `json:"email"    validate:"required,email,max=255"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
