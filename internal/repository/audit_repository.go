package repository

import (
	"context"
	"fmt"

	"github.com/cryptosden/backend/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// AuditRepository writes entries to the append-only admin audit log. The log
// is owned by the admin console; the engine only appends to it.
type AuditRepository interface {
	Record(ctx context.Context, entry *model.AuditEntry) error
}

type auditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository creates a new audit log repository.
func NewAuditRepository(db *sqlx.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Record(ctx context.Context, entry *model.AuditEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Severity == "" {
		entry.Severity = model.AuditSeverityInfo
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_log (
			id, actor_id, action, target_type, target_id,
			description, details, severity, category
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, entry.ID, entry.ActorID, entry.Action, entry.TargetType, entry.TargetID,
		entry.Description, entry.Details, entry.Severity, entry.Category)
	if err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}
	return nil
}
