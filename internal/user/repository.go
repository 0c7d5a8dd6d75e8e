// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter Filter) ([]User, error)
	HasOrders(ctx context.Context, id int64) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const selectUser = `
	SELECT id, username, email, password_hash, role, created_at, updated_at
	FROM users`

func (r *repository) Create(ctx context.Context, u *User) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		u.Username, u.Email, u.PasswordHash, u.Role,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if core.IsUniqueViolation(err) {
		err = core.ErrDuplicateKey
	}
	if err != nil {
		return fmt.Errorf("insert user %q: %w", u.Username, err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.one(ctx, "id", id)
}

func (r *repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.one(ctx, "username", username)
}

func (r *repository) one(ctx context.Context, column string, value any) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, selectUser+` WHERE `+column+` = $1`, value)
	if err != nil {
		return nil, fmt.Errorf("user by %s: %w", column, core.NoRows(err))
	}
	return &u, nil
}

func (r *repository) Update(ctx context.Context, u *User) error {
	err := r.db.GetContext(ctx, &u.UpdatedAt, `
		UPDATE users
		SET username = $2, email = $3, password_hash = $4, role = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Role,
	)
	if core.IsUniqueViolation(err) {
		err = core.ErrDuplicateKey
	}
	if err != nil {
		return fmt.Errorf("update user %d: %w", u.ID, core.NoRows(err))
	}
	return nil
}

func (r *repository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	err := core.Affected(r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		id, passwordHash,
	))
	if err != nil {
		return fmt.Errorf("set password for user %d: %w", id, err)
	}
	return nil
}

// Delete fails with ErrInUse while orders still reference the user.
func (r *repository) Delete(ctx context.Context, id int64) error {
	err := core.Affected(r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id))
	if core.IsForeignKeyViolation(err) {
		err = core.ErrInUse
	}
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

func (r *repository) List(ctx context.Context, filter Filter) ([]User, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Search != "" {
		p := arg("%" + escapeLike(filter.Search) + "%")
		where = append(where, "(username ILIKE "+p+" OR email ILIKE "+p+")")
	}
	if filter.Role != "" {
		where = append(where, "role = "+arg(filter.Role))
	}

	query := selectUser
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	users := []User{}
	if err := r.db.SelectContext(ctx, &users, query+" ORDER BY id", args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *repository) HasOrders(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE user_id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("orders of user %d: %w", id, err)
	}
	return exists, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
