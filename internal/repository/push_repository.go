package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PushSubscription is one browser's web-push registration.
type PushSubscription struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"userId"`
	Endpoint  string    `db:"endpoint" json:"endpoint"`
	P256dh    string    `db:"p256dh" json:"-"`
	Auth      string    `db:"auth" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// PushRepository stores web-push subscriptions for the push channel adapter.
type PushRepository interface {
	CreateSubscription(ctx context.Context, sub *PushSubscription) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]PushSubscription, error)
	DeleteByEndpoint(ctx context.Context, endpoint string) error
}

type pushRepository struct {
	db *sqlx.DB
}

// NewPushRepository creates a new push subscription repository.
func NewPushRepository(db *sqlx.DB) PushRepository {
	return &pushRepository{db: db}
}

func (r *pushRepository) CreateSubscription(ctx context.Context, sub *PushSubscription) error {
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	query := `
		INSERT INTO push_subscriptions (id, user_id, endpoint, p256dh, auth)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (endpoint)
		DO UPDATE SET user_id = EXCLUDED.user_id, p256dh = EXCLUDED.p256dh, auth = EXCLUDED.auth
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		sub.ID, sub.UserID, sub.Endpoint, sub.P256dh, sub.Auth,
	).Scan(&sub.CreatedAt)
	if err != nil {
		return fmt.Errorf("create push subscription: %w", err)
	}
	return nil
}

func (r *pushRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]PushSubscription, error) {
	var subs []PushSubscription
	err := r.db.SelectContext(ctx, &subs, `
		SELECT * FROM push_subscriptions WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list push subscriptions: %w", err)
	}
	return subs, nil
}

func (r *pushRepository) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM push_subscriptions WHERE endpoint = $1
	`, endpoint)
	if err != nil {
		return fmt.Errorf("delete push subscription: %w", err)
	}
	return nil
}
