package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/cryptosden/backend/internal/config"
	"github.com/cryptosden/backend/internal/model"
	"github.com/cryptosden/backend/internal/repository"
)

// pushPayload matches what the service worker on the web client expects.
type pushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon,omitempty"`
	Tag   string `json:"tag,omitempty"`
}

// PushAdapter delivers web push notifications. Without VAPID keys the adapter
// is inert: Send succeeds with no external effect so the rest of the pipeline
// behaves identically in every environment.
type PushAdapter struct {
	subs            repository.PushRepository
	vapidPublicKey  string
	vapidPrivateKey string
	subject         string
}

// NewPushAdapter creates the web push adapter.
func NewPushAdapter(cfg *config.Config, subs repository.PushRepository) *PushAdapter {
	return &PushAdapter{
		subs:            subs,
		vapidPublicKey:  cfg.VAPIDPublicKey,
		vapidPrivateKey: cfg.VAPIDPrivateKey,
		subject:         cfg.VAPIDSubject,
	}
}

// Channel implements Adapter.
func (a *PushAdapter) Channel() model.Channel { return model.ChannelPush }

// Live implements Adapter.
func (a *PushAdapter) Live() bool {
	return a.vapidPublicKey != "" && a.vapidPrivateKey != ""
}

// Send implements Adapter. Expired subscriptions (404/410 from the push
// service) are pruned as they are discovered. Delivery counts as successful
// when at least one device accepted the payload, or when the user has no
// registered devices at all.
func (a *PushAdapter) Send(ctx context.Context, msg Message) error {
	if !a.Live() {
		return nil
	}

	subs, err := a.subs.ListByUser(ctx, msg.UserID)
	if err != nil {
		return fmt.Errorf("list push subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return nil
	}

	payload, err := json.Marshal(pushPayload{
		Title: msg.Subject,
		Body:  msg.Body,
		Icon:  "/icon-192.png",
	})
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}

	var lastErr error
	delivered := 0
	for _, sub := range subs {
		wpSub := &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys: webpush.Keys{
				P256dh: sub.P256dh,
				Auth:   sub.Auth,
			},
		}

		resp, err := webpush.SendNotificationWithContext(ctx, payload, wpSub, &webpush.Options{
			Subscriber:      a.subject,
			VAPIDPublicKey:  a.vapidPublicKey,
			VAPIDPrivateKey: a.vapidPrivateKey,
			TTL:             86400,
		})
		if err != nil {
			lastErr = err
			continue
		}
		_ = resp.Body.Close()

		if resp.StatusCode == 404 || resp.StatusCode == 410 {
			_ = a.subs.DeleteByEndpoint(ctx, sub.Endpoint)
			continue
		}
		delivered++
	}

	if delivered == 0 && lastErr != nil {
		return fmt.Errorf("send push: %w", lastErr)
	}
	return nil
}
