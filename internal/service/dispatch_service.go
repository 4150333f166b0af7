package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cryptosden/backend/internal/config"
	"github.com/cryptosden/backend/internal/logger"
	"github.com/cryptosden/backend/internal/model"
	"github.com/cryptosden/backend/internal/notify"
)

// DispatchRepositoryInterface defines the contract for dispatch record access.
type DispatchRepositoryInterface interface {
	Create(ctx context.Context, record *model.DispatchRecord) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.DispatchRecord, error)
	SuccessRate(ctx context.Context, userID uuid.UUID) (float64, error)
}

// Delivery is one notification routed to one user, before channel fan-out.
type Delivery struct {
	UserID  uuid.UUID
	AlertID *uuid.UUID
	EventID uuid.UUID
	Subject string
	Body    string
	Digest  bool
}

// Dispatcher fans a delivery out to its resolved channels. Every outcome,
// including suppressions, lands in the dispatch record log exactly once.
type Dispatcher struct {
	records  DispatchRepositoryInterface
	adapters map[model.Channel]notify.Adapter
	retry    RetryConfig
	timeout  time.Duration
	sem      chan struct{}
}

// NewDispatcher creates a dispatcher over the given channel adapters.
func NewDispatcher(records DispatchRepositoryInterface, adapters []notify.Adapter, cfg config.DispatchConfig) *Dispatcher {
	byChannel := make(map[model.Channel]notify.Adapter, len(adapters))
	for _, a := range adapters {
		byChannel[a.Channel()] = a
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 16
	}

	retry := DefaultRetryConfig()
	if cfg.MaxAttempts > 0 {
		retry.MaxAttempts = cfg.MaxAttempts
	}
	if cfg.InitialDelay > 0 {
		retry.InitialDelay = cfg.InitialDelay
	}

	return &Dispatcher{
		records:  records,
		adapters: byChannel,
		retry:    retry,
		timeout:  cfg.Timeout,
		sem:      make(chan struct{}, concurrency),
	}
}

// Dispatch delivers one notification according to a resolution. Suppressed
// channels get a record and no send. Allowed channels are attempted
// concurrently, each bounded by the dispatch timeout and retried on transient
// failure. Record writes that fail are logged and dropped rather than
// blocking delivery.
func (d *Dispatcher) Dispatch(ctx context.Context, del Delivery, res Resolution) {
	log := logger.FromContext(ctx)

	for ch, status := range res.Suppressed {
		d.record(ctx, log, &model.DispatchRecord{
			UserID:  del.UserID,
			AlertID: del.AlertID,
			EventID: del.EventID,
			Channel: ch,
			Status:  status,
			Digest:  del.Digest,
			Message: del.Body,
		})
	}

	var wg sync.WaitGroup
	for _, ch := range res.Allowed {
		adapter, ok := d.adapters[ch]
		if !ok {
			errMsg := "no adapter for channel"
			d.record(ctx, log, &model.DispatchRecord{
				UserID:  del.UserID,
				AlertID: del.AlertID,
				EventID: del.EventID,
				Channel: ch,
				Status:  model.DispatchFailed,
				Digest:  del.Digest,
				Message: del.Body,
				Error:   &errMsg,
			})
			continue
		}

		wg.Add(1)
		go func(ch model.Channel, adapter notify.Adapter) {
			defer wg.Done()

			select {
			case d.sem <- struct{}{}:
				defer func() { <-d.sem }()
			case <-ctx.Done():
				d.recordOutcome(ctx, log, del, ch, adapter, 0, ctx.Err())
				return
			}

			sendCtx := ctx
			var cancel context.CancelFunc
			if d.timeout > 0 {
				sendCtx, cancel = context.WithTimeout(ctx, d.timeout)
				defer cancel()
			}

			attempts, err := WithRetry(sendCtx, d.retry, log, func() error {
				return adapter.Send(sendCtx, notify.Message{
					UserID:  del.UserID,
					Subject: del.Subject,
					Body:    del.Body,
					Digest:  del.Digest,
				})
			})

			d.recordOutcome(ctx, log, del, ch, adapter, attempts, err)
		}(ch, adapter)
	}
	wg.Wait()
}

// recordOutcome writes the terminal record for one channel attempt. A context
// expiry before the retry budget was spent is recorded as pending_retry so
// operators can tell an exhausted channel from a cut-short cycle.
func (d *Dispatcher) recordOutcome(ctx context.Context, log *slog.Logger, del Delivery, ch model.Channel, adapter notify.Adapter, attempts int, err error) {
	rec := &model.DispatchRecord{
		UserID:    del.UserID,
		AlertID:   del.AlertID,
		EventID:   del.EventID,
		Channel:   ch,
		Digest:    del.Digest,
		Simulated: !adapter.Live(),
		Message:   del.Body,
		Attempts:  attempts,
	}

	switch {
	case err == nil:
		rec.Status = model.DispatchSent
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		rec.Status = model.DispatchPendingRetry
		errMsg := err.Error()
		rec.Error = &errMsg
	default:
		rec.Status = model.DispatchFailed
		errMsg := err.Error()
		rec.Error = &errMsg
		log.Error("notification delivery failed",
			slog.String("channel", string(ch)),
			slog.String("user_id", del.UserID.String()),
			slog.Int("attempts", attempts),
			slog.String("error", err.Error()),
		)
	}

	d.record(ctx, log, rec)
}

func (d *Dispatcher) record(ctx context.Context, log *slog.Logger, rec *model.DispatchRecord) {
	// Record writes happen even when the dispatch context has expired.
	if ctx.Err() != nil {
		ctx = context.WithoutCancel(ctx)
	}
	if err := d.records.Create(ctx, rec); err != nil {
		log.Error("failed to write dispatch record",
			slog.String("channel", string(rec.Channel)),
			slog.String("status", string(rec.Status)),
			slog.String("error", err.Error()),
		)
	}
}

// History returns a user's most recent dispatch records.
func (d *Dispatcher) History(ctx context.Context, userID uuid.UUID, limit int) ([]model.DispatchRecord, error) {
	return d.records.ListByUser(ctx, userID, limit)
}

// SuccessRate returns the user's delivery success rate.
func (d *Dispatcher) SuccessRate(ctx context.Context, userID uuid.UUID) (float64, error) {
	return d.records.SuccessRate(ctx, userID)
}
