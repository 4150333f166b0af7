package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cryptosden/backend/internal/config"
	"github.com/cryptosden/backend/internal/logger"
	"github.com/cryptosden/backend/internal/market"
	"github.com/cryptosden/backend/internal/model"
	"github.com/cryptosden/backend/internal/repository"
)

// ErrCycleRunning is returned when a cycle is requested while one is in flight.
var ErrCycleRunning = errors.New("evaluation cycle already running")

// EvaluationService runs the periodic evaluation cycle: fetch fresh market
// values, evaluate every active alert, persist observations and fan out
// immediate notifications.
type EvaluationService struct {
	alerts     AlertRepositoryInterface
	provider   market.SnapshotProvider
	prefs      *PreferenceService
	dispatcher *Dispatcher
	cfg        config.EvaluatorConfig
	metrics    *MetricsCollector

	running atomic.Bool
	now     func() time.Time
}

// NewEvaluationService creates a new EvaluationService.
func NewEvaluationService(
	alerts AlertRepositoryInterface,
	provider market.SnapshotProvider,
	prefs *PreferenceService,
	dispatcher *Dispatcher,
	cfg config.EvaluatorConfig,
	metrics *MetricsCollector,
) *EvaluationService {
	return &EvaluationService{
		alerts:     alerts,
		provider:   provider,
		prefs:      prefs,
		dispatcher: dispatcher,
		cfg:        cfg,
		metrics:    metrics,
		now:        time.Now,
	}
}

// snapshotKey identifies one market lookup. Alerts sharing a key share one
// fetch per cycle.
type snapshotKey struct {
	asset     string
	metric    model.AlertType
	indicator string
}

type snapshotResult struct {
	value decimal.Decimal
	err   error
}

// RunCycle executes one evaluation cycle. Cycles never overlap: if one is
// still running the new request is rejected with ErrCycleRunning and the
// caller simply waits for the next tick.
//
// Failures are isolated at every level. A failed market lookup leaves the
// affected alerts' values untouched (only last_checked advances), a stale
// write conflict skips that one alert, and a failed dispatch never blocks
// evaluation of the rest.
func (s *EvaluationService) RunCycle(ctx context.Context) (*CycleMetrics, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrCycleRunning
	}
	defer s.running.Store(false)

	log := logger.FromContext(ctx)
	started := s.now()
	cycle := CycleMetrics{StartedAt: started}

	alerts, err := s.alerts.ListActive(ctx)
	if err != nil {
		cycle.CompletedAt = s.now()
		cycle.Duration = cycle.CompletedAt.Sub(started)
		cycle.Error = err.Error()
		s.record(cycle)
		return &cycle, err
	}

	snapshots := s.fetchSnapshots(ctx, alerts)

	for i := range alerts {
		alert := &alerts[i]
		key := snapshotKey{alert.Cryptocurrency, alert.Type, alert.Indicator()}
		result := snapshots[key]

		actx := logger.WithAlertID(ctx, alert.ID.String())
		event := s.evaluateOne(actx, alert, result, &cycle)
		if event == nil {
			continue
		}
		cycle.Triggered++

		if s.dispatchImmediate(actx, alert, event) {
			cycle.Dispatched++
		}
	}

	cycle.Evaluated = len(alerts)
	cycle.CompletedAt = s.now()
	cycle.Duration = cycle.CompletedAt.Sub(started)
	cycle.Success = true
	s.record(cycle)

	log.Info("evaluation cycle complete",
		slog.Int("evaluated", cycle.Evaluated),
		slog.Int("triggered", cycle.Triggered),
		slog.Int("dispatched", cycle.Dispatched),
		slog.Int("fetch_errors", cycle.FetchErrors),
		slog.Duration("duration", cycle.Duration),
	)

	return &cycle, nil
}

// fetchSnapshots fetches each distinct (asset, metric, indicator) once, with
// a capped number of concurrent lookups.
func (s *EvaluationService) fetchSnapshots(ctx context.Context, alerts []model.Alert) map[snapshotKey]snapshotResult {
	keys := make([]snapshotKey, 0)
	seen := make(map[snapshotKey]struct{})
	for i := range alerts {
		key := snapshotKey{alerts[i].Cryptocurrency, alerts[i].Type, alerts[i].Indicator()}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	concurrency := s.cfg.FetchConcurrency
	if concurrency <= 0 {
		concurrency = 8
	}

	var mu sync.Mutex
	results := make(map[snapshotKey]snapshotResult, len(keys))

	var wg sync.WaitGroup
	work := make(chan snapshotKey)

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for key := range work {
				value, err := s.provider.Value(ctx, key.asset, key.metric, key.indicator)
				mu.Lock()
				results[key] = snapshotResult{value: value, err: err}
				mu.Unlock()
			}
		}()
	}

	for _, key := range keys {
		work <- key
	}
	close(work)
	wg.Wait()

	return results
}

// evaluateOne applies one snapshot to one alert and persists the outcome.
// It returns a trigger event when the alert fired, nil otherwise.
func (s *EvaluationService) evaluateOne(ctx context.Context, alert *model.Alert, result snapshotResult, cycle *CycleMetrics) *model.TriggerEvent {
	log := logger.FromContext(ctx)
	now := s.now()

	// The observation timestamp always advances, even when the lookup
	// failed and the values stay as they were.
	alert.LastChecked = &now

	var event *model.TriggerEvent

	if result.err != nil {
		cycle.FetchErrors++
		log.Warn("market lookup failed",
			slog.String("asset", alert.Cryptocurrency),
			slog.String("metric", string(alert.Type)),
			slog.String("error", result.err.Error()),
		)
	} else {
		alert.PreviousValue = alert.CurrentValue
		alert.CurrentValue = decimal.NewNullDecimal(result.value)

		if EvaluateCondition(alert.Condition, alert.Threshold, result.value, alert.PreviousValue) {
			alert.IsTriggered = true
			alert.TriggeredAt = &now
			alert.Message = TriggerMessage(alert, result.value)

			event = &model.TriggerEvent{
				ID:          uuid.New(),
				AlertID:     alert.ID,
				UserID:      alert.UserID,
				Type:        alert.Type,
				Asset:       alert.Cryptocurrency,
				Message:     alert.Message,
				Value:       result.value,
				TriggeredAt: now,
			}
		}
	}

	if err := s.alerts.UpdateEvaluation(ctx, alert); err != nil {
		if errors.Is(err, repository.ErrStaleAlert) {
			// Someone changed the alert mid-cycle; their write wins.
			cycle.StaleSkips++
			log.Info("skipping stale alert")
			return nil
		}
		log.Error("failed to persist evaluation", slog.String("error", err.Error()))
		return nil
	}

	return event
}

// dispatchImmediate routes a trigger event for a user on the immediate
// cadence. Daily and weekly users are left for the digest sweep, which
// reconstructs their pending triggers from the alert store.
func (s *EvaluationService) dispatchImmediate(ctx context.Context, alert *model.Alert, event *model.TriggerEvent) bool {
	log := logger.FromContext(ctx)

	prefs, err := s.prefs.Get(ctx, alert.UserID)
	if err != nil {
		log.Error("failed to load preferences",
			slog.String("user_id", alert.UserID.String()),
			slog.String("error", err.Error()),
		)
		return false
	}

	if prefs.Frequency != model.FrequencyImmediate {
		return false
	}

	res := ResolveChannels(prefs, model.CategoryAlerts, alert.Channels(), event.TriggeredAt)
	s.dispatcher.Dispatch(ctx, Delivery{
		UserID:  alert.UserID,
		AlertID: &alert.ID,
		EventID: event.ID,
		Subject: "Crypto alert: " + titleAsset(alert.Cryptocurrency),
		Body:    event.Message,
	}, res)

	// Immediate users are notified (or deliberately suppressed) now; the
	// trigger must not resurface in a future digest.
	if err := s.alerts.MarkNotified(ctx, []uuid.UUID{alert.ID}, event.TriggeredAt); err != nil {
		log.Error("failed to mark alert notified", slog.String("error", err.Error()))
	}

	return len(res.Allowed) > 0
}

func (s *EvaluationService) record(cycle CycleMetrics) {
	if s.metrics != nil {
		s.metrics.RecordCycle(cycle)
	}
}
