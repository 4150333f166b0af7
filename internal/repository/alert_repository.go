// Package repository provides data access over Postgres via sqlx.
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

// Sentinel errors for alert data access.
var (
	ErrAlertNotFound = errors.New("alert not found")
	// ErrStaleAlert is returned when an optimistic-versioned update lost the
	// race against a concurrent writer (user toggle/delete vs. evaluation).
	ErrStaleAlert = errors.New("alert version is stale")
)

// AlertRepository defines the persistence surface for alerts.
type AlertRepository interface {
	Create(ctx context.Context, alert *model.Alert) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Alert, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Alert, error)
	ListActive(ctx context.Context) ([]model.Alert, error)
	// UpdateEvaluation persists the fields mutated by one evaluation tick,
	// guarded by the row version read at the start of the tick.
	UpdateEvaluation(ctx context.Context, alert *model.Alert) error
	SetActive(ctx context.Context, id, userID uuid.UUID, active bool) error
	SetActiveAll(ctx context.Context, userID uuid.UUID, active bool) (int64, error)
	ClearTrigger(ctx context.Context, id, userID uuid.UUID) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	// ListTriggeredPending returns a user's alerts whose latest trigger has
	// not yet been included in a notification (digest reconstruction).
	ListTriggeredPending(ctx context.Context, userID uuid.UUID) ([]model.Alert, error)
	MarkNotified(ctx context.Context, ids []uuid.UUID, at time.Time) error
	Stats(ctx context.Context, userID uuid.UUID) (*model.AlertStats, error)
}

type alertRepository struct {
	db *sqlx.DB
}

// NewAlertRepository creates a new alert repository.
func NewAlertRepository(db *sqlx.DB) AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) Create(ctx context.Context, alert *model.Alert) error {
	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	query := `
		INSERT INTO alerts (
			id, user_id, type, cryptocurrency, condition, threshold,
			metadata, notification_method, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING version, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		alert.ID, alert.UserID, alert.Type, alert.Cryptocurrency, alert.Condition,
		alert.Threshold, alert.Metadata, alert.NotificationMethod, alert.IsActive,
	).Scan(&alert.Version, &alert.CreatedAt, &alert.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create alert: %w", err)
	}
	return nil
}

func (r *alertRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Alert, error) {
	var alert model.Alert
	err := r.db.GetContext(ctx, &alert, `
		SELECT * FROM alerts WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAlertNotFound
		}
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return &alert, nil
}

func (r *alertRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Alert, error) {
	var alerts []model.Alert
	err := r.db.SelectContext(ctx, &alerts, `
		SELECT * FROM alerts WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return alerts, nil
}

func (r *alertRepository) ListActive(ctx context.Context) ([]model.Alert, error) {
	var alerts []model.Alert
	err := r.db.SelectContext(ctx, &alerts, `
		SELECT * FROM alerts WHERE is_active = true ORDER BY cryptocurrency, type
	`)
	if err != nil {
		return nil, fmt.Errorf("list active alerts: %w", err)
	}
	return alerts, nil
}

func (r *alertRepository) UpdateEvaluation(ctx context.Context, alert *model.Alert) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE alerts SET
			current_value = $1,
			previous_value = $2,
			last_checked = $3,
			is_triggered = $4,
			triggered_at = $5,
			message = $6,
			version = version + 1,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $7 AND version = $8
	`, alert.CurrentValue, alert.PreviousValue, alert.LastChecked,
		alert.IsTriggered, alert.TriggeredAt, alert.Message, alert.ID, alert.Version)
	if err != nil {
		return fmt.Errorf("update evaluation: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrStaleAlert
	}
	alert.Version++
	return nil
}

func (r *alertRepository) SetActive(ctx context.Context, id, userID uuid.UUID, active bool) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE alerts SET
			is_active = $1,
			version = version + 1,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND user_id = $3
	`, active, id, userID)
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrAlertNotFound
	}
	return nil
}

func (r *alertRepository) SetActiveAll(ctx context.Context, userID uuid.UUID, active bool) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE alerts SET
			is_active = $1,
			version = version + 1,
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $2 AND is_active <> $1
	`, active, userID)
	if err != nil {
		return 0, fmt.Errorf("set active all: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

func (r *alertRepository) ClearTrigger(ctx context.Context, id, userID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE alerts SET
			is_triggered = false,
			message = '',
			version = version + 1,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("clear trigger: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrAlertNotFound
	}
	return nil
}

func (r *alertRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM alerts WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("delete alert: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrAlertNotFound
	}
	return nil
}

func (r *alertRepository) ListTriggeredPending(ctx context.Context, userID uuid.UUID) ([]model.Alert, error) {
	var alerts []model.Alert
	err := r.db.SelectContext(ctx, &alerts, `
		SELECT * FROM alerts
		WHERE user_id = $1
		  AND is_triggered = true
		  AND triggered_at IS NOT NULL
		  AND (last_notified_at IS NULL OR triggered_at > last_notified_at)
		ORDER BY triggered_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list triggered pending: %w", err)
	}
	return alerts, nil
}

func (r *alertRepository) MarkNotified(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`
		UPDATE alerts SET last_notified_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id IN (?)
	`, at, ids)
	if err != nil {
		return fmt.Errorf("mark notified: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("mark notified: %w", err)
	}
	return nil
}

func (r *alertRepository) Stats(ctx context.Context, userID uuid.UUID) (*model.AlertStats, error) {
	var stats model.AlertStats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE is_active),
			COUNT(*) FILTER (WHERE is_triggered),
			COUNT(*) FILTER (WHERE triggered_at > NOW() - INTERVAL '24 hours')
		FROM alerts WHERE user_id = $1
	`, userID).Scan(&stats.Total, &stats.Active, &stats.Triggered, &stats.TriggeredLast24)
	if err != nil {
		return nil, fmt.Errorf("alert stats: %w", err)
	}
	return &stats, nil
}
