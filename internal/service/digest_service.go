package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cryptosden/backend/internal/logger"
	"github.com/cryptosden/backend/internal/model"
)

// DigestService assembles and sends daily/weekly digests. Pending triggers
// are reconstructed from the alert store on every sweep, so a crash between
// trigger and digest loses nothing.
type DigestService struct {
	alerts     AlertRepositoryInterface
	prefs      PreferenceRepositoryInterface
	dispatcher *Dispatcher
	now        func() time.Time
}

// NewDigestService creates a new DigestService.
func NewDigestService(alerts AlertRepositoryInterface, prefs PreferenceRepositoryInterface, dispatcher *Dispatcher) *DigestService {
	return &DigestService{
		alerts:     alerts,
		prefs:      prefs,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// FlushDue sends digests to every user whose cadence window has elapsed.
// It returns the number of digests sent. Users inside their quiet hours are
// deferred whole: no records are written and their watermark does not move,
// so the next sweep picks them up again.
func (s *DigestService) FlushDue(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)
	now := s.now()

	due, err := s.prefs.ListDigestDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("listing digest-due users: %w", err)
	}

	sent := 0
	for i := range due {
		prefs := &due[i]

		if InQuietHours(prefs, now) {
			continue
		}

		ok, err := s.flushUser(ctx, prefs, now)
		if err != nil {
			// One user's failure never blocks the rest of the sweep.
			log.Error("digest flush failed",
				slog.String("user_id", prefs.UserID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		if ok {
			sent++
		}
	}

	return sent, nil
}

// flushUser sends one user's digest. With nothing pending the watermark still
// advances so an empty window is not rescanned every sweep.
func (s *DigestService) flushUser(ctx context.Context, prefs *model.NotificationPreference, now time.Time) (bool, error) {
	pending, err := s.alerts.ListTriggeredPending(ctx, prefs.UserID)
	if err != nil {
		return false, fmt.Errorf("listing pending triggers: %w", err)
	}

	if len(pending) == 0 {
		if err := s.prefs.SetLastDigestAt(ctx, prefs.UserID, now); err != nil {
			return false, fmt.Errorf("advancing digest watermark: %w", err)
		}
		return false, nil
	}

	candidates := channelUnion(pending)
	res := ResolveChannels(prefs, model.CategoryAlerts, candidates, now)

	s.dispatcher.Dispatch(ctx, Delivery{
		UserID:  prefs.UserID,
		EventID: uuid.New(),
		Subject: digestSubject(prefs.Frequency, len(pending)),
		Body:    digestBody(prefs.Frequency, pending),
		Digest:  true,
	}, res)

	ids := make([]uuid.UUID, len(pending))
	for i := range pending {
		ids[i] = pending[i].ID
	}
	if err := s.alerts.MarkNotified(ctx, ids, now); err != nil {
		return false, fmt.Errorf("marking triggers notified: %w", err)
	}
	if err := s.prefs.SetLastDigestAt(ctx, prefs.UserID, now); err != nil {
		return false, fmt.Errorf("advancing digest watermark: %w", err)
	}

	return true, nil
}

// channelUnion merges the subscribed channels of all pending alerts,
// preserving first-seen order.
func channelUnion(alerts []model.Alert) []model.Channel {
	seen := make(map[model.Channel]struct{})
	var out []model.Channel
	for i := range alerts {
		for _, ch := range alerts[i].Channels() {
			if _, ok := seen[ch]; ok {
				continue
			}
			seen[ch] = struct{}{}
			out = append(out, ch)
		}
	}
	return out
}

func digestSubject(freq model.Frequency, count int) string {
	period := "Daily"
	if freq == model.FrequencyWeekly {
		period = "Weekly"
	}
	noun := "alerts"
	if count == 1 {
		noun = "alert"
	}
	return fmt.Sprintf("%s digest: %d triggered %s", period, count, noun)
}

func digestBody(freq model.Frequency, alerts []model.Alert) string {
	var b strings.Builder
	if freq == model.FrequencyWeekly {
		b.WriteString("Your alerts triggered this week:\n\n")
	} else {
		b.WriteString("Your alerts triggered today:\n\n")
	}
	for i := range alerts {
		a := &alerts[i]
		b.WriteString("- ")
		b.WriteString(a.Message)
		if a.TriggeredAt != nil {
			b.WriteString(" (")
			b.WriteString(a.TriggeredAt.UTC().Format("Jan 2 15:04 MST"))
			b.WriteString(")")
		}
		b.WriteString("\n")
	}
	return b.String()
}
