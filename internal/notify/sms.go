package notify

import (
	"context"

	"github.com/cryptosden/backend/internal/model"
)

// SMSAdapter is a placeholder for the SMS channel. The channel exists in
// preferences and dispatch records but no SMS provider is integrated yet, so
// every send is a no-op recorded as simulated by the dispatcher.
type SMSAdapter struct{}

// NewSMSAdapter creates the inert SMS adapter.
func NewSMSAdapter() *SMSAdapter { return &SMSAdapter{} }

// Channel implements Adapter.
func (a *SMSAdapter) Channel() model.Channel { return model.ChannelSMS }

// Live implements Adapter.
func (a *SMSAdapter) Live() bool { return false }

// Send implements Adapter.
func (a *SMSAdapter) Send(ctx context.Context, msg Message) error {
	return nil
}
