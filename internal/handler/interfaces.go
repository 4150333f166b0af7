package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/cryptosden/backend/internal/model"
	"github.com/cryptosden/backend/internal/service"
)

// AlertServiceInterface defines the alert operations the handlers need.
type AlertServiceInterface interface {
	Create(ctx context.Context, userID uuid.UUID, input service.CreateAlertInput) (*model.Alert, error)
	Get(ctx context.Context, id, userID uuid.UUID) (*model.Alert, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.Alert, error)
	Toggle(ctx context.Context, id, userID uuid.UUID, active bool) error
	ToggleAll(ctx context.Context, userID uuid.UUID, active bool) (int64, error)
	ClearTrigger(ctx context.Context, id, userID uuid.UUID) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	TestFire(ctx context.Context, id, userID uuid.UUID) (*model.TriggerEvent, error)
	Stats(ctx context.Context, userID uuid.UUID) (*model.AlertStats, error)
	Dispatches(ctx context.Context, userID uuid.UUID, limit int) ([]model.DispatchRecord, error)
}

// PreferenceServiceInterface defines the preference operations the handlers need.
type PreferenceServiceInterface interface {
	Get(ctx context.Context, userID uuid.UUID) (*model.NotificationPreference, error)
	Update(ctx context.Context, userID uuid.UUID, input service.UpdatePreferenceInput) (*model.NotificationPreference, error)
}
