package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NotificationCategory groups notifications for per-method subscription flags.
type NotificationCategory string

const (
	CategoryAlerts        NotificationCategory = "alerts"
	CategoryMarketUpdates NotificationCategory = "marketUpdates"
	CategorySecurity      NotificationCategory = "security"
	CategoryNewsletter    NotificationCategory = "newsletter"
)

// Frequency is a user's delivery cadence. Exactly one is in effect at a time.
type Frequency string

const (
	FrequencyImmediate Frequency = "immediate"
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
)

// ValidFrequency reports whether s names a known cadence.
func ValidFrequency(s string) bool {
	switch Frequency(s) {
	case FrequencyImmediate, FrequencyDaily, FrequencyWeekly:
		return true
	}
	return false
}

// MethodSettings holds the enablement flag and per-category subscriptions for
// one delivery method. Stored as JSONB.
type MethodSettings struct {
	Enabled       bool `json:"enabled"`
	Alerts        bool `json:"alerts"`
	MarketUpdates bool `json:"marketUpdates"`
	Security      bool `json:"security"`
	Newsletter    bool `json:"newsletter"`
}

// Subscribed reports whether the given category is subscribed under this method.
// The method-level Enabled flag is checked separately by the resolver.
func (m MethodSettings) Subscribed(c NotificationCategory) bool {
	switch c {
	case CategoryAlerts:
		return m.Alerts
	case CategoryMarketUpdates:
		return m.MarketUpdates
	case CategorySecurity:
		return m.Security
	case CategoryNewsletter:
		return m.Newsletter
	}
	return false
}

// Value implements driver.Valuer.
func (m MethodSettings) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *MethodSettings) Scan(src interface{}) error {
	if src == nil {
		*m = MethodSettings{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported method settings type %T", src)
	}
	return json.Unmarshal(b, m)
}

// QuietHours is a local wall-clock do-not-disturb window. Start and End use
// "HH:MM" and the window may wrap past midnight (e.g. 22:00 to 07:00).
type QuietHours struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// Value implements driver.Valuer.
func (q QuietHours) Value() (driver.Value, error) {
	return json.Marshal(q)
}

// Scan implements sql.Scanner.
func (q *QuietHours) Scan(src interface{}) error {
	if src == nil {
		*q = QuietHours{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported quiet hours type %T", src)
	}
	return json.Unmarshal(b, q)
}

// NotificationPreference is a user's delivery configuration. Readers treat a
// loaded row as an immutable snapshot; updates go through a whole-row upsert
// so an in-flight dispatch keeps the snapshot it resolved against.
type NotificationPreference struct {
	UserID       uuid.UUID      `db:"user_id" json:"userId"`
	Email        MethodSettings `db:"email" json:"email"`
	Push         MethodSettings `db:"push" json:"push"`
	SMS          MethodSettings `db:"sms" json:"sms"`
	Frequency    Frequency      `db:"frequency" json:"frequency"`
	QuietHours   QuietHours     `db:"quiet_hours" json:"quietHours"`
	Timezone     string         `db:"timezone" json:"timezone"`
	LastDigestAt *time.Time     `db:"last_digest_at" json:"lastDigestAt,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updatedAt"`
}

// Method returns the settings block for the given channel.
func (p *NotificationPreference) Method(ch Channel) MethodSettings {
	switch ch {
	case ChannelEmail:
		return p.Email
	case ChannelPush:
		return p.Push
	case ChannelSMS:
		return p.SMS
	}
	return MethodSettings{}
}

// DefaultPreference returns the preference applied to users who have never
// saved one: email-only alerts, immediate delivery, no quiet hours.
func DefaultPreference(userID uuid.UUID) *NotificationPreference {
	return &NotificationPreference{
		UserID:    userID,
		Email:     MethodSettings{Enabled: true, Alerts: true, Security: true},
		Push:      MethodSettings{Enabled: false},
		SMS:       MethodSettings{Enabled: false},
		Frequency: FrequencyImmediate,
		Timezone:  "UTC",
	}
}
