// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountExists      = errors.New("username or email already exists")
)

// UserInfo is what authentication needs to know about an account.
type UserInfo struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         string
}

func (u *UserInfo) Identity() core.Identity {
	return core.Identity{ID: u.ID, Username: u.Username, Role: u.Role, Email: u.Email}
}

// Accounts is the slice of the user store that authentication depends on.
type Accounts interface {
	GetByUsername(ctx context.Context, username string) (*UserInfo, error)
	Create(ctx context.Context, username, email, passwordHash, role string) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

type Service struct {
	tokens   *Signer
	accounts Accounts
	logger   *zap.Logger
}

// NewService wires authentication. tokens may be nil for callers that only
// create accounts.
func NewService(tokens *Signer, accounts Accounts, logger *zap.Logger) *Service {
	return &Service{tokens: tokens, accounts: accounts, logger: logger}
}

// Register creates a regular user. Any role in the request is ignored.
func (s *Service) Register(ctx context.Context, req RegisterRequest) error {
	_, err := s.CreateAccount(ctx, req, core.RoleUser)
	return err
}

func (s *Service) CreateAccount(ctx context.Context, req RegisterRequest, role string) (*UserInfo, error) {
	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	info, err := s.accounts.Create(ctx, username, email, hash, role)
	switch {
	case errors.Is(err, core.ErrDuplicateKey):
		return nil, ErrAccountExists
	case err != nil:
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.logger.Info("account created",
		zap.Int64("user_id", info.ID),
		zap.String("username", info.Username),
		zap.String("role", role),
	)
	return info, nil
}

// Login checks the credentials and issues an access token. Unknown
// usernames still pay for a hash comparison. A stored hash using weaker
// parameters is replaced after a successful check.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	var stored *string

	info, err := s.accounts.GetByUsername(ctx, req.Username)
	switch {
	case err == nil:
		stored = &info.PasswordHash
	case !errors.Is(err, core.ErrNotFound):
		return nil, fmt.Errorf("load account: %w", err)
	}

	valid, upgraded, err := core.CheckPassword(req.Password, stored)
	if err != nil {
		return nil, fmt.Errorf("check password: %w", err)
	}
	if !valid {
		s.logger.Warn("login rejected", zap.String("username", req.Username))
		return nil, ErrInvalidCredentials
	}

	if upgraded != "" {
		if err := s.accounts.UpdatePassword(ctx, info.ID, upgraded); err != nil {
			s.logger.Warn("password hash upgrade failed",
				zap.Int64("user_id", info.ID),
				zap.Error(err),
			)
		}
	}

	token, err := s.tokens.Sign(info.Identity())
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.logger.Info("login", zap.Int64("user_id", info.ID))
	return &TokenResponse{Token: token}, nil
}
