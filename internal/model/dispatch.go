package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DispatchStatus is the outcome of one delivery attempt on one channel.
type DispatchStatus string

const (
	DispatchSent            DispatchStatus = "sent"
	DispatchSuppressedQuiet DispatchStatus = "suppressed_quiet_hours"
	DispatchSuppressedPref  DispatchStatus = "suppressed_preference"
	DispatchFailed          DispatchStatus = "failed"
	DispatchPendingRetry    DispatchStatus = "pending_retry"
)

// DispatchRecord is an append-only record of one delivery attempt for one
// trigger event (or digest) on one channel. Records are never mutated; a
// correction appends a new record pointing at the original via RefersTo.
//
// Simulated marks successes produced by inert channel adapters (push/sms while
// those channels have no live delivery); the UI counts them apart from true sends.
type DispatchRecord struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	UserID    uuid.UUID      `db:"user_id" json:"userId"`
	AlertID   *uuid.UUID     `db:"alert_id" json:"alertId,omitempty"`
	EventID   uuid.UUID      `db:"event_id" json:"eventId"`
	Channel   Channel        `db:"channel" json:"channel"`
	Status    DispatchStatus `db:"status" json:"status"`
	Digest    bool           `db:"digest" json:"digest"`
	Simulated bool           `db:"simulated" json:"simulated"`
	Message   string         `db:"message" json:"message"`
	Error     *string        `db:"error" json:"error,omitempty"`
	Attempts  int            `db:"attempts" json:"attempts"`
	RefersTo  *uuid.UUID     `db:"refers_to" json:"refersTo,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
}

// AuditSeverity grades audit entries.
type AuditSeverity string

const (
	AuditSeverityInfo     AuditSeverity = "info"
	AuditSeverityWarning  AuditSeverity = "warning"
	AuditSeverityCritical AuditSeverity = "critical"
)

// AuditDetails is free-form structured context stored as JSONB.
type AuditDetails map[string]interface{}

// Value implements driver.Valuer.
func (d AuditDetails) Value() (driver.Value, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner.
func (d *AuditDetails) Scan(src interface{}) error {
	if src == nil {
		*d = AuditDetails{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported audit details type %T", src)
	}
	return json.Unmarshal(b, d)
}

// AuditEntry is one row in the append-only audit log of sensitive operations
// (test-fire, bulk toggle, admin override).
type AuditEntry struct {
	ID          uuid.UUID     `db:"id" json:"id"`
	ActorID     uuid.UUID     `db:"actor_id" json:"actorId"`
	Action      string        `db:"action" json:"action"`
	TargetType  string        `db:"target_type" json:"targetType"`
	TargetID    string        `db:"target_id" json:"targetId"`
	Description string        `db:"description" json:"description"`
	Details     AuditDetails  `db:"details" json:"details,omitempty"`
	Severity    AuditSeverity `db:"severity" json:"severity"`
	Category    string        `db:"category" json:"category"`
	CreatedAt   time.Time     `db:"created_at" json:"createdAt"`
}
