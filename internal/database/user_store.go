package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/suyash01/expensehub/internal/models"
)

// UserStore reads the user table maintained by the auth service.
type UserStore struct {
	db SQLDB
}

func NewUserStore(db SQLDB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) GetByID(ctx context.Context, id string) (models.User, error) {
	var u models.User
	var role, banReason sql.NullString
	var banned sql.NullBool
	var banExpires sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, role, banned, ban_reason, ban_expires, created_at
		FROM "user"
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Name, &u.Email, &role, &banned, &banReason, &banExpires, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	u.Role = models.Role(role.String)
	u.Banned = banned.Bool
	if banReason.Valid {
		u.BanReason = &banReason.String
	}
	if banExpires.Valid {
		u.BanExpires = &banExpires.Time
	}
	return u, nil
}

// SetRole writes role directly. Used only to bootstrap the first admin,
// when there is no admin session to act through the auth service.
func (s *UserStore) SetRole(ctx context.Context, id string, role models.Role) error {
	res, err := s.db.ExecContext(ctx, `UPDATE "user" SET role = $1, updated_at = now() WHERE id = $2`, string(role), id)
	if err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return nil
}
