package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrUserNotFound is returned when no contact details exist for a user.
var ErrUserNotFound = errors.New("user not found")

// UserDirectory resolves delivery addresses for users. The account subsystem
// owns the users table; the engine only reads contact details from it.
type UserDirectory interface {
	Email(ctx context.Context, userID uuid.UUID) (string, error)
	PhoneNumber(ctx context.Context, userID uuid.UUID) (string, error)
}

type userDirectory struct {
	db *sqlx.DB
}

// NewUserDirectory creates a user directory backed by the shared users table.
func NewUserDirectory(db *sqlx.DB) UserDirectory {
	return &userDirectory{db: db}
}

func (d *userDirectory) Email(ctx context.Context, userID uuid.UUID) (string, error) {
	var email string
	err := d.db.GetContext(ctx, &email, `
		SELECT email FROM users WHERE id = $1
	`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("lookup email: %w", err)
	}
	return email, nil
}

func (d *userDirectory) PhoneNumber(ctx context.Context, userID uuid.UUID) (string, error) {
	var phone sql.NullString
	err := d.db.GetContext(ctx, &phone, `
		SELECT phone_number FROM users WHERE id = $1
	`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("lookup phone: %w", err)
	}
	return phone.String, nil
}
