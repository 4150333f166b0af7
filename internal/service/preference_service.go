package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cryptosden/backend/internal/apperror"
	"github.com/cryptosden/backend/internal/model"
	"github.com/cryptosden/backend/internal/repository"
	"github.com/cryptosden/backend/pkg/clock"
)

// PreferenceRepositoryInterface defines the contract for preference data access.
type PreferenceRepositoryInterface interface {
	Get(ctx context.Context, userID uuid.UUID) (*model.NotificationPreference, error)
	Upsert(ctx context.Context, prefs *model.NotificationPreference) error
	ListDigestDue(ctx context.Context, now time.Time) ([]model.NotificationPreference, error)
	SetLastDigestAt(ctx context.Context, userID uuid.UUID, at time.Time) error
}

// PreferenceService manages notification preferences and answers the central
// routing question: which channels may carry a given notification right now.
type PreferenceService struct {
	repo PreferenceRepositoryInterface
}

// NewPreferenceService creates a new PreferenceService.
func NewPreferenceService(repo PreferenceRepositoryInterface) *PreferenceService {
	return &PreferenceService{repo: repo}
}

// Get returns the user's preferences, falling back to the default preference
// for users who have never saved one. The default is never persisted on read.
func (s *PreferenceService) Get(ctx context.Context, userID uuid.UUID) (*model.NotificationPreference, error) {
	prefs, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrPreferenceNotFound) {
			return model.DefaultPreference(userID), nil
		}
		return nil, fmt.Errorf("getting preferences for user %s: %w", userID, err)
	}
	return prefs, nil
}

type UpdatePreferenceInput struct {
	Email      model.MethodSettings `json:"email"`
	Push       model.MethodSettings `json:"push"`
	SMS        model.MethodSettings `json:"sms"`
	Frequency  string               `json:"frequency"`
	QuietHours model.QuietHours     `json:"quietHours"`
	Timezone   string               `json:"timezone"`
}

// Update validates and saves the user's preferences as a whole-row replacement.
func (s *PreferenceService) Update(ctx context.Context, userID uuid.UUID, input UpdatePreferenceInput) (*model.NotificationPreference, error) {
	if !model.ValidFrequency(input.Frequency) {
		return nil, apperror.ValidationError("frequency", "frequency must be immediate, daily or weekly")
	}

	if input.QuietHours.Enabled {
		if _, err := clock.ParseWindow(input.QuietHours.Start, input.QuietHours.End); err != nil {
			return nil, apperror.ValidationError("quietHours", "quiet hours must use HH:MM times")
		}
	}

	tz := input.Timezone
	if tz == "" {
		tz = "UTC"
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, apperror.ValidationError("timezone", "unknown timezone")
	}

	// Preserve the digest watermark across saves.
	var lastDigestAt *time.Time
	if existing, err := s.repo.Get(ctx, userID); err == nil {
		lastDigestAt = existing.LastDigestAt
	} else if !errors.Is(err, repository.ErrPreferenceNotFound) {
		return nil, fmt.Errorf("getting preferences for user %s: %w", userID, err)
	}

	prefs := &model.NotificationPreference{
		UserID:       userID,
		Email:        input.Email,
		Push:         input.Push,
		SMS:          input.SMS,
		Frequency:    model.Frequency(input.Frequency),
		QuietHours:   input.QuietHours,
		Timezone:     tz,
		LastDigestAt: lastDigestAt,
	}

	if err := s.repo.Upsert(ctx, prefs); err != nil {
		return nil, fmt.Errorf("saving preferences for user %s: %w", userID, err)
	}

	return prefs, nil
}

// Resolution is the outcome of routing one notification against a preference
// snapshot: the channels it may use now and, per rejected channel, why.
type Resolution struct {
	Allowed    []model.Channel
	Suppressed map[model.Channel]model.DispatchStatus
}

// ResolveChannels filters candidate channels through a preference snapshot.
// A channel passes when its method is enabled and subscribed to the category
// and the moment is outside the user's quiet hours. Rejections are reported
// per channel so the dispatcher can record them.
func ResolveChannels(prefs *model.NotificationPreference, category model.NotificationCategory, candidates []model.Channel, at time.Time) Resolution {
	res := Resolution{
		Suppressed: make(map[model.Channel]model.DispatchStatus),
	}

	quiet := InQuietHours(prefs, at)

	for _, ch := range candidates {
		method := prefs.Method(ch)
		switch {
		case !method.Enabled || !method.Subscribed(category):
			res.Suppressed[ch] = model.DispatchSuppressedPref
		case quiet:
			res.Suppressed[ch] = model.DispatchSuppressedQuiet
		default:
			res.Allowed = append(res.Allowed, ch)
		}
	}

	return res
}

// InQuietHours reports whether at falls inside the user's quiet hours,
// evaluated on the wall clock of the user's timezone. A malformed window
// never suppresses.
func InQuietHours(prefs *model.NotificationPreference, at time.Time) bool {
	if !prefs.QuietHours.Enabled {
		return false
	}
	window, err := clock.ParseWindow(prefs.QuietHours.Start, prefs.QuietHours.End)
	if err != nil {
		return false
	}
	return window.Contains(clock.InLocation(at, prefs.Timezone))
}
