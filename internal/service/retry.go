package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/cryptosden/backend/internal/repository"
)

// RetryConfig holds retry configuration for transient delivery failures.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 2 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// WithRetry executes fn with exponential backoff. It returns the number of
// attempts made alongside the final error so callers can record it.
func WithRetry(ctx context.Context, cfg RetryConfig, logger *slog.Logger, fn func() error) (int, error) {
	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return attempt - 1, ctx.Err()
		default:
		}

		if err := fn(); err == nil {
			return attempt, nil
		} else {
			lastErr = err

			if !IsRetryableError(err) {
				return attempt, err
			}

			if logger != nil {
				logger.Warn("delivery attempt failed",
					slog.Int("attempt", attempt),
					slog.Int("max_attempts", cfg.MaxAttempts),
					slog.String("error", err.Error()),
				)
			}
		}

		if attempt < cfg.MaxAttempts {
			// Add jitter to prevent thundering herd
			jitter := time.Duration(rand.Int63n(int64(delay/4) + 1))
			waitTime := delay + jitter

			select {
			case <-ctx.Done():
				return attempt, ctx.Err()
			case <-time.After(waitTime):
			}

			delay = time.Duration(float64(delay) * cfg.Multiplier)
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		}
	}

	return cfg.MaxAttempts, fmt.Errorf("all %d attempts failed: %w", cfg.MaxAttempts, lastErr)
}

// IsRetryableError determines if a delivery error should be retried.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Context errors should not be retried
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// A missing recipient address will not appear by retrying
	if errors.Is(err, repository.ErrUserNotFound) {
		return false
	}

	return true
}
