// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/carterperez-dev/templates/storefront/internal/auth"
	"github.com/carterperez-dev/templates/storefront/internal/core"
	"github.com/carterperez-dev/templates/storefront/internal/order"
)

type Service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// GetByID backs the order notifications' buyer lookup.
func (s *Service) GetByID(ctx context.Context, id int64) (*auth.UserInfo, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserInfo(u), nil
}

func (s *Service) GetByUsername(
	ctx context.Context,
	username string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) Create(
	ctx context.Context,
	username, email, passwordHash, role string,
) (*auth.UserInfo, error) {
	if role == "" {
		role = core.RoleUser
	}

	user := &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID int64,
	passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) ListUsers(
	ctx context.Context,
	filter Filter,
) ([]User, error) {
	return s.repo.List(ctx, filter)
}

// GetUser returns the target profile to its owner or to an admin.
func (s *Service) GetUser(
	ctx context.Context,
	caller *core.Identity,
	id int64,
) (*User, error) {
	if err := core.AuthorizeSelfOrAdmin(caller, id); err != nil {
		return nil, forbiddenOr(err,
			"Access denied: You can only view your own profile unless you are an admin.")
	}

	return s.repo.GetByID(ctx, id)
}

// UpdateUser applies a partial update. Only admins may change a role, and
// a new password is hashed before it is stored.
func (s *Service) UpdateUser(
	ctx context.Context,
	caller *core.Identity,
	id int64,
	req UpdateUserRequest,
) (*User, error) {
	if err := core.AuthorizeSelfOrAdmin(caller, id); err != nil {
		return nil, forbiddenOr(err,
			"Access denied: You can only update your own profile unless you are an admin.")
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Role != nil {
		if !caller.IsAdmin() {
			return nil, core.ForbiddenError(
				"Access denied: Only administrators can change user roles.")
		}
		if !IsValidRole(*req.Role) {
			return nil, core.InvalidInputError(
				`Invalid role provided. Must be "admin" or "user".`)
		}
		user.Role = *req.Role
	}

	if req.Username != nil {
		user.Username = strings.TrimSpace(*req.Username)
	}

	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}

	if req.Password != nil {
		hash, hashErr := core.HashPassword(*req.Password)
		if hashErr != nil {
			return nil, fmt.Errorf("hash password: %w", hashErr)
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user updated",
		zap.Int64("user_id", user.ID),
		zap.Int64("by", caller.ID),
	)

	return user, nil
}

// DeleteUser removes an account. Admins cannot remove themselves, and
// accounts that still own orders are kept.
func (s *Service) DeleteUser(
	ctx context.Context,
	caller *core.Identity,
	id int64,
) error {
	if err := core.AuthorizeAdmin(caller); err != nil {
		return forbiddenOr(err, "Admin access required")
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if caller.ID == id {
		return core.ForbiddenError("Admin cannot delete their own account.")
	}

	hasOrders, err := s.repo.HasOrders(ctx, id)
	if err != nil {
		return err
	}
	if hasOrders {
		return errUserHasOrders
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, core.ErrInUse) {
			return errUserHasOrders
		}
		return err
	}

	s.logger.Info("user deleted",
		zap.Int64("user_id", id),
		zap.Int64("by", caller.ID),
	)

	return nil
}

var errUserHasOrders = core.InUseError(
	"Cannot delete user: existing orders are associated with this user. Please manage orders first.",
)

func forbiddenOr(err error, message string) error {
	if errors.Is(err, core.ErrForbidden) {
		return core.ForbiddenError(message)
	}
	return err
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
	}
}

var (
	_ auth.Accounts        = (*Service)(nil)
	_ order.BuyerDirectory = (*Service)(nil)
)
