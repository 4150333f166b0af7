package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/cryptosden/backend/internal/config"
	"github.com/cryptosden/backend/internal/model"
	"github.com/cryptosden/backend/internal/repository"
	mail "github.com/go-mail/mail"
)

// EmailAdapter delivers alert notifications over SMTP. It is the only live
// channel in the current feature set.
type EmailAdapter struct {
	dialer    *mail.Dialer
	from      string
	directory repository.UserDirectory
}

// NewEmailAdapter creates the SMTP email adapter.
func NewEmailAdapter(cfg config.SMTPConfig, directory repository.UserDirectory) *EmailAdapter {
	dialer := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.Timeout = 15 * time.Second
	return &EmailAdapter{
		dialer:    dialer,
		from:      cfg.From,
		directory: directory,
	}
}

// Channel implements Adapter.
func (a *EmailAdapter) Channel() model.Channel { return model.ChannelEmail }

// Live implements Adapter.
func (a *EmailAdapter) Live() bool { return true }

// Send implements Adapter. The SMTP dial runs in a goroutine so the caller's
// context deadline is honored even though the mail library does not take one.
func (a *EmailAdapter) Send(ctx context.Context, msg Message) error {
	to, err := a.directory.Email(ctx, msg.UserID)
	if err != nil {
		return fmt.Errorf("resolve recipient: %w", err)
	}

	m := mail.NewMessage()
	m.SetHeader("From", a.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	done := make(chan error, 1)
	go func() { done <- a.dialer.DialAndSend(m) }()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send email: %w", err)
		}
		return nil
	}
}
