package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cryptosden/backend/internal/apperror"
	"github.com/cryptosden/backend/internal/logger"
	"github.com/cryptosden/backend/internal/model"
	"github.com/cryptosden/backend/internal/repository"
)

// AlertRepositoryInterface defines the contract for alert data access.
// Implementations must be safe for concurrent use.
type AlertRepositoryInterface interface {
	Create(ctx context.Context, alert *model.Alert) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Alert, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Alert, error)
	ListActive(ctx context.Context) ([]model.Alert, error)
	UpdateEvaluation(ctx context.Context, alert *model.Alert) error
	SetActive(ctx context.Context, id, userID uuid.UUID, active bool) error
	SetActiveAll(ctx context.Context, userID uuid.UUID, active bool) (int64, error)
	ClearTrigger(ctx context.Context, id, userID uuid.UUID) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	ListTriggeredPending(ctx context.Context, userID uuid.UUID) ([]model.Alert, error)
	MarkNotified(ctx context.Context, ids []uuid.UUID, at time.Time) error
	Stats(ctx context.Context, userID uuid.UUID) (*model.AlertStats, error)
}

// AuditRecorder writes entries to the append-only audit log.
type AuditRecorder interface {
	Record(ctx context.Context, entry *model.AuditEntry) error
}

// AlertService handles alert lifecycle and the operator-facing paths that
// bypass the evaluation loop (test fire, bulk toggle).
type AlertService struct {
	repo       AlertRepositoryInterface
	prefs      *PreferenceService
	dispatcher *Dispatcher
	audit      AuditRecorder
}

// NewAlertService creates a new AlertService.
func NewAlertService(repo AlertRepositoryInterface, prefs *PreferenceService, dispatcher *Dispatcher, audit AuditRecorder) *AlertService {
	return &AlertService{
		repo:       repo,
		prefs:      prefs,
		dispatcher: dispatcher,
		audit:      audit,
	}
}

type CreateAlertInput struct {
	Type               string              `json:"type"`
	Cryptocurrency     string              `json:"cryptocurrency"`
	Condition          string              `json:"condition"`
	Threshold          decimal.Decimal     `json:"threshold"`
	Metadata           model.AlertMetadata `json:"metadata,omitempty"`
	NotificationMethod []string            `json:"notificationMethod"`
}

// Create validates and stores a new alert. New alerts start active, not
// triggered, with no observed values.
func (s *AlertService) Create(ctx context.Context, userID uuid.UUID, input CreateAlertInput) (*model.Alert, error) {
	if err := validateAlertInput(input); err != nil {
		return nil, err
	}

	alert := &model.Alert{
		ID:                 uuid.New(),
		UserID:             userID,
		Type:               model.AlertType(input.Type),
		Cryptocurrency:     input.Cryptocurrency,
		Condition:          model.AlertCondition(input.Condition),
		Threshold:          input.Threshold,
		Metadata:           input.Metadata,
		NotificationMethod: input.NotificationMethod,
		IsActive:           true,
	}

	if err := s.repo.Create(ctx, alert); err != nil {
		return nil, fmt.Errorf("creating alert: %w", err)
	}

	return alert, nil
}

func validateAlertInput(input CreateAlertInput) error {
	alertType := model.AlertType(input.Type)
	condition := model.AlertCondition(input.Condition)

	switch alertType {
	case model.AlertTypePrice, model.AlertTypeSentiment, model.AlertTypeRisk,
		model.AlertTypeVolume, model.AlertTypeTechnical:
	default:
		return apperror.ValidationError("type", "unknown alert type")
	}

	if input.Cryptocurrency == "" {
		return apperror.ValidationError("cryptocurrency", "cryptocurrency is required")
	}

	if !model.ConditionAllowed(alertType, condition) {
		return apperror.ValidationError("condition",
			fmt.Sprintf("condition %q is not valid for %s alerts", input.Condition, input.Type))
	}

	if !input.Threshold.IsPositive() {
		return apperror.ValidationError("threshold", "threshold must be positive")
	}

	if len(input.NotificationMethod) == 0 {
		return apperror.ValidationError("notificationMethod", "at least one notification channel is required")
	}
	for _, ch := range input.NotificationMethod {
		if !model.ValidChannel(ch) {
			return apperror.ValidationError("notificationMethod", fmt.Sprintf("unknown channel %q", ch))
		}
	}

	if alertType == model.AlertTypeTechnical {
		indicator := input.Metadata[model.MetadataKeyIndicator]
		valid := false
		for _, known := range model.TechnicalIndicators {
			if indicator == known {
				valid = true
				break
			}
		}
		if !valid {
			return apperror.ValidationError("metadata",
				"technical alerts require a technicalIndicator of RSI, MACD, SMA or EMA")
		}
	}

	return nil
}

// Get retrieves an alert, enforcing ownership.
func (s *AlertService) Get(ctx context.Context, id, userID uuid.UUID) (*model.Alert, error) {
	alert, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting alert %s: %w", id, err)
	}
	if alert.UserID != userID {
		return nil, repository.ErrAlertNotFound
	}
	return alert, nil
}

// List retrieves all alerts for a user.
func (s *AlertService) List(ctx context.Context, userID uuid.UUID) ([]model.Alert, error) {
	alerts, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing alerts for user %s: %w", userID, err)
	}
	return alerts, nil
}

// Toggle activates or deactivates one alert. Deactivation does not clear
// trigger state or observed values; reactivation resumes from them.
func (s *AlertService) Toggle(ctx context.Context, id, userID uuid.UUID, active bool) error {
	if err := s.repo.SetActive(ctx, id, userID, active); err != nil {
		return fmt.Errorf("toggling alert %s: %w", id, err)
	}
	return nil
}

// ToggleAll flips every alert the user owns and audits the operation.
func (s *AlertService) ToggleAll(ctx context.Context, userID uuid.UUID, active bool) (int64, error) {
	count, err := s.repo.SetActiveAll(ctx, userID, active)
	if err != nil {
		return 0, fmt.Errorf("toggling all alerts for user %s: %w", userID, err)
	}

	action := "alerts.bulk_disable"
	if active {
		action = "alerts.bulk_enable"
	}
	s.auditLog(ctx, &model.AuditEntry{
		ActorID:     userID,
		Action:      action,
		TargetType:  "alert",
		TargetID:    userID.String(),
		Description: fmt.Sprintf("bulk toggled %d alerts", count),
		Details:     model.AuditDetails{"count": count, "active": active},
		Category:    "alerts",
	})

	return count, nil
}

// ClearTrigger resets an alert's triggered state so it can fire again.
func (s *AlertService) ClearTrigger(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.ClearTrigger(ctx, id, userID); err != nil {
		return fmt.Errorf("clearing trigger on alert %s: %w", id, err)
	}
	return nil
}

// Delete removes an alert. Its dispatch records remain.
func (s *AlertService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("deleting alert %s: %w", id, err)
	}
	return nil
}

// TestFire sends a test notification through the full resolution and dispatch
// path without touching the alert's trigger state. Delivery honors the user's
// channel preferences and quiet hours exactly as a real trigger would, so a
// test is a faithful rehearsal. The operation is audited.
func (s *AlertService) TestFire(ctx context.Context, id, userID uuid.UUID) (*model.TriggerEvent, error) {
	alert, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	value := alert.Threshold
	if alert.CurrentValue.Valid {
		value = alert.CurrentValue.Decimal
	}

	now := time.Now()
	event := &model.TriggerEvent{
		ID:          uuid.New(),
		AlertID:     alert.ID,
		UserID:      userID,
		Type:        alert.Type,
		Asset:       alert.Cryptocurrency,
		Message:     "[Test] " + TriggerMessage(alert, value),
		Value:       value,
		TriggeredAt: now,
		Test:        true,
	}

	prefs, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	res := ResolveChannels(prefs, model.CategoryAlerts, alert.Channels(), now)

	s.dispatcher.Dispatch(ctx, Delivery{
		UserID:  userID,
		AlertID: &alert.ID,
		EventID: event.ID,
		Subject: "Test alert: " + alert.Cryptocurrency,
		Body:    event.Message,
	}, res)

	s.auditLog(ctx, &model.AuditEntry{
		ActorID:     userID,
		Action:      "alerts.test_fire",
		TargetType:  "alert",
		TargetID:    alert.ID.String(),
		Description: "manually fired a test notification",
		Details:     model.AuditDetails{"eventId": event.ID.String(), "channels": alert.NotificationMethod},
		Category:    "alerts",
	})

	return event, nil
}

// Stats returns the user's alert dashboard numbers.
func (s *AlertService) Stats(ctx context.Context, userID uuid.UUID) (*model.AlertStats, error) {
	stats, err := s.repo.Stats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("computing alert stats for user %s: %w", userID, err)
	}

	rate, err := s.dispatcher.SuccessRate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("computing delivery success rate for user %s: %w", userID, err)
	}
	stats.SuccessRate = rate

	return stats, nil
}

// Dispatches returns the user's recent dispatch history.
func (s *AlertService) Dispatches(ctx context.Context, userID uuid.UUID, limit int) ([]model.DispatchRecord, error) {
	records, err := s.dispatcher.History(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing dispatches for user %s: %w", userID, err)
	}
	return records, nil
}

// auditLog records an audit entry, logging instead of failing the caller when
// the write itself fails.
func (s *AlertService) auditLog(ctx context.Context, entry *model.AuditEntry) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		logger.FromContext(ctx).Error("failed to write audit entry",
			"action", entry.Action, "error", err.Error())
	}
}
