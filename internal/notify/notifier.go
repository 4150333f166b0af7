// Package notify contains the delivery channel adapters used by the
// dispatcher. Every channel, live or not, implements the same Adapter
// interface so enabling a channel later is a wiring change only.
package notify

import (
	"context"

	"github.com/cryptosden/backend/internal/model"
	"github.com/google/uuid"
)

// Message is one notification to deliver on one channel.
type Message struct {
	UserID  uuid.UUID
	Subject string
	Body    string
	// Digest marks batched daily/weekly deliveries.
	Digest bool
}

// Adapter delivers messages on a single channel.
//
// Live reports whether the adapter performs real external delivery. Inert
// adapters (channels declared in the schema but not yet launched) return
// success from Send without external effect; the dispatcher records those
// outcomes as simulated so they are never mistaken for true sends.
type Adapter interface {
	Channel() model.Channel
	Live() bool
	Send(ctx context.Context, msg Message) error
}
