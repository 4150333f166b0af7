package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cryptosden/backend/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrPreferenceNotFound is returned when a user has never saved preferences.
var ErrPreferenceNotFound = errors.New("notification preference not found")

// PreferenceRepository defines the persistence surface for notification preferences.
type PreferenceRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*model.NotificationPreference, error)
	// Upsert replaces the whole row; preferences are copy-on-write snapshots.
	Upsert(ctx context.Context, prefs *model.NotificationPreference) error
	// ListDigestDue returns users on a daily/weekly cadence whose rolling
	// window has elapsed since their last digest.
	ListDigestDue(ctx context.Context, now time.Time) ([]model.NotificationPreference, error)
	SetLastDigestAt(ctx context.Context, userID uuid.UUID, at time.Time) error
}

type preferenceRepository struct {
	db *sqlx.DB
}

// NewPreferenceRepository creates a new preference repository.
func NewPreferenceRepository(db *sqlx.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

func (r *preferenceRepository) Get(ctx context.Context, userID uuid.UUID) (*model.NotificationPreference, error) {
	var prefs model.NotificationPreference
	err := r.db.GetContext(ctx, &prefs, `
		SELECT * FROM notification_preferences WHERE user_id = $1
	`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPreferenceNotFound
		}
		return nil, fmt.Errorf("get preference: %w", err)
	}
	return &prefs, nil
}

func (r *preferenceRepository) Upsert(ctx context.Context, prefs *model.NotificationPreference) error {
	query := `
		INSERT INTO notification_preferences (
			user_id, email, push, sms, frequency, quiet_hours, timezone
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id)
		DO UPDATE SET
			email = EXCLUDED.email,
			push = EXCLUDED.push,
			sms = EXCLUDED.sms,
			frequency = EXCLUDED.frequency,
			quiet_hours = EXCLUDED.quiet_hours,
			timezone = EXCLUDED.timezone,
			updated_at = CURRENT_TIMESTAMP
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		prefs.UserID, prefs.Email, prefs.Push, prefs.SMS,
		prefs.Frequency, prefs.QuietHours, prefs.Timezone,
	).Scan(&prefs.CreatedAt, &prefs.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert preference: %w", err)
	}
	return nil
}

func (r *preferenceRepository) ListDigestDue(ctx context.Context, now time.Time) ([]model.NotificationPreference, error) {
	var prefs []model.NotificationPreference
	err := r.db.SelectContext(ctx, &prefs, `
		SELECT * FROM notification_preferences
		WHERE (frequency = 'daily'  AND (last_digest_at IS NULL OR last_digest_at <= $1 - INTERVAL '24 hours'))
		   OR (frequency = 'weekly' AND (last_digest_at IS NULL OR last_digest_at <= $1 - INTERVAL '7 days'))
		ORDER BY user_id
	`, now)
	if err != nil {
		return nil, fmt.Errorf("list digest due: %w", err)
	}
	return prefs, nil
}

func (r *preferenceRepository) SetLastDigestAt(ctx context.Context, userID uuid.UUID, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE notification_preferences SET
			last_digest_at = $1,
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $2
	`, at, userID)
	if err != nil {
		return fmt.Errorf("set last digest: %w", err)
	}
	return nil
}
