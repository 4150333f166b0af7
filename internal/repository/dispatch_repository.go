package repository

import (
	"context"
	"fmt"

	"github.com/cryptosden/backend/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// DispatchRepository is the append-only store of delivery attempt records.
type DispatchRepository interface {
	Create(ctx context.Context, record *model.DispatchRecord) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.DispatchRecord, error)
	// SuccessRate returns sent / (sent + failed) for a user, 1.0 when there
	// is no history. Suppressed records are excluded: a deliberate
	// suppression is not a delivery failure.
	SuccessRate(ctx context.Context, userID uuid.UUID) (float64, error)
}

type dispatchRepository struct {
	db *sqlx.DB
}

// NewDispatchRepository creates a new dispatch record repository.
func NewDispatchRepository(db *sqlx.DB) DispatchRepository {
	return &dispatchRepository{db: db}
}

func (r *dispatchRepository) Create(ctx context.Context, record *model.DispatchRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	query := `
		INSERT INTO dispatch_records (
			id, user_id, alert_id, event_id, channel, status,
			digest, simulated, message, error, attempts, refers_to
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		record.ID, record.UserID, record.AlertID, record.EventID, record.Channel,
		record.Status, record.Digest, record.Simulated, record.Message,
		record.Error, record.Attempts, record.RefersTo,
	).Scan(&record.CreatedAt)
	if err != nil {
		return fmt.Errorf("create dispatch record: %w", err)
	}
	return nil
}

func (r *dispatchRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.DispatchRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []model.DispatchRecord
	err := r.db.SelectContext(ctx, &records, `
		SELECT * FROM dispatch_records
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list dispatch records: %w", err)
	}
	return records, nil
}

func (r *dispatchRepository) SuccessRate(ctx context.Context, userID uuid.UUID) (float64, error) {
	var sent, failed int
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'sent'),
			COUNT(*) FILTER (WHERE status = 'failed')
		FROM dispatch_records WHERE user_id = $1
	`, userID).Scan(&sent, &failed)
	if err != nil {
		return 0, fmt.Errorf("dispatch success rate: %w", err)
	}

	total := sent + failed
	if total == 0 {
		return 1.0, nil
	}
	return float64(sent) / float64(total), nil
}
