package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// AlertType identifies which market metric an alert watches.
type AlertType string

const (
	AlertTypePrice     AlertType = "price"
	AlertTypeSentiment AlertType = "sentiment"
	AlertTypeRisk      AlertType = "risk"
	AlertTypeVolume    AlertType = "volume"
	AlertTypeTechnical AlertType = "technical"
)

// AlertCondition is the comparison applied between the watched metric and the threshold.
type AlertCondition string

const (
	ConditionAbove         AlertCondition = "above"
	ConditionBelow         AlertCondition = "below"
	ConditionCrossesUp     AlertCondition = "crosses_up"
	ConditionCrossesDown   AlertCondition = "crosses_down"
	ConditionChangePercent AlertCondition = "change_percent"
)

// Channel is a notification delivery channel.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPush  Channel = "push"
	ChannelSMS   Channel = "sms"
)

// TechnicalIndicators supported in alert metadata for type = technical.
var TechnicalIndicators = []string{"RSI", "MACD", "SMA", "EMA"}

// MetadataKeyIndicator is the metadata key holding the technical indicator name.
const MetadataKeyIndicator = "technicalIndicator"

// conditionsByType lists the legal conditions per alert type.
var conditionsByType = map[AlertType][]AlertCondition{
	AlertTypePrice:     {ConditionAbove, ConditionBelow, ConditionCrossesUp, ConditionCrossesDown, ConditionChangePercent},
	AlertTypeSentiment: {ConditionAbove, ConditionBelow, ConditionCrossesUp, ConditionCrossesDown},
	AlertTypeRisk:      {ConditionAbove, ConditionBelow, ConditionCrossesUp, ConditionCrossesDown},
	AlertTypeVolume:    {ConditionAbove, ConditionBelow, ConditionChangePercent},
	AlertTypeTechnical: {ConditionAbove, ConditionBelow},
}

// ConditionAllowed reports whether the condition is legal for the alert type.
func ConditionAllowed(t AlertType, c AlertCondition) bool {
	for _, allowed := range conditionsByType[t] {
		if allowed == c {
			return true
		}
	}
	return false
}

// ValidChannel reports whether s names a known delivery channel.
func ValidChannel(s string) bool {
	switch Channel(s) {
	case ChannelEmail, ChannelPush, ChannelSMS:
		return true
	}
	return false
}

// AlertMetadata is a free-form string map stored as JSONB.
type AlertMetadata map[string]string

// Value implements driver.Valuer.
func (m AlertMetadata) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *AlertMetadata) Scan(src interface{}) error {
	if src == nil {
		*m = AlertMetadata{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported metadata type %T", src)
	}
	return json.Unmarshal(b, m)
}

// Alert is a user-owned rule pairing a market metric, a condition and a threshold.
//
// PreviousValue holds the value observed on the tick before CurrentValue; it is
// what makes crossing conditions evaluable. Both are null until the alert has
// been observed at least once (twice for PreviousValue).
type Alert struct {
	ID                 uuid.UUID           `db:"id" json:"id"`
	UserID             uuid.UUID           `db:"user_id" json:"userId"`
	Type               AlertType           `db:"type" json:"type"`
	Cryptocurrency     string              `db:"cryptocurrency" json:"cryptocurrency"`
	Condition          AlertCondition      `db:"condition" json:"condition"`
	Threshold          decimal.Decimal     `db:"threshold" json:"threshold"`
	Metadata           AlertMetadata       `db:"metadata" json:"metadata,omitempty"`
	NotificationMethod pq.StringArray      `db:"notification_method" json:"notificationMethod"`
	IsActive           bool                `db:"is_active" json:"isActive"`
	IsTriggered        bool                `db:"is_triggered" json:"isTriggered"`
	CurrentValue       decimal.NullDecimal `db:"current_value" json:"currentValue,omitempty"`
	PreviousValue      decimal.NullDecimal `db:"previous_value" json:"previousValue,omitempty"`
	LastChecked        *time.Time          `db:"last_checked" json:"lastChecked,omitempty"`
	TriggeredAt        *time.Time          `db:"triggered_at" json:"triggeredAt,omitempty"`
	LastNotifiedAt     *time.Time          `db:"last_notified_at" json:"lastNotifiedAt,omitempty"`
	Message            string              `db:"message" json:"message,omitempty"`
	Version            int64               `db:"version" json:"-"`
	CreatedAt          time.Time           `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time           `db:"updated_at" json:"updatedAt"`
}

// Channels returns the alert's subscribed channels as typed values.
func (a *Alert) Channels() []Channel {
	out := make([]Channel, 0, len(a.NotificationMethod))
	for _, s := range a.NotificationMethod {
		out = append(out, Channel(s))
	}
	return out
}

// Indicator returns the technical indicator name, empty for non-technical alerts.
func (a *Alert) Indicator() string {
	if a.Metadata == nil {
		return ""
	}
	return a.Metadata[MetadataKeyIndicator]
}

// AlertStats summarizes a user's alerts for the dashboard. All fields are
// derived by query, never maintained as counters.
type AlertStats struct {
	Total           int     `json:"total"`
	Active          int     `json:"active"`
	Triggered       int     `json:"triggered"`
	TriggeredLast24 int     `json:"triggeredLast24h"`
	SuccessRate     float64 `json:"deliverySuccessRate"`
}

// TriggerEvent is one qualifying evaluation of one alert. Test events come
// from the manual test-fire path and are audited separately.
type TriggerEvent struct {
	ID          uuid.UUID       `json:"id"`
	AlertID     uuid.UUID       `json:"alertId"`
	UserID      uuid.UUID       `json:"userId"`
	Type        AlertType       `json:"type"`
	Asset       string          `json:"cryptocurrency"`
	Message     string          `json:"message"`
	Value       decimal.Decimal `json:"value"`
	TriggeredAt time.Time       `json:"triggeredAt"`
	Test        bool            `json:"test"`
}
