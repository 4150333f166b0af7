package service

import (
	"fmt"
	"strings"

	"github.com/cryptosden/backend/internal/model"
	"github.com/shopspring/decimal"
)

// EvaluateCondition reports whether an alert condition holds for the freshly
// observed value. Threshold comparisons are strict: a value exactly equal to
// the threshold does not satisfy above or below, and a value landing exactly
// on the threshold does not complete a crossing.
//
// Crossing and change conditions need a previous observation; until one
// exists they never trigger.
func EvaluateCondition(cond model.AlertCondition, threshold, current decimal.Decimal, previous decimal.NullDecimal) bool {
	switch cond {
	case model.ConditionAbove:
		return current.GreaterThan(threshold)
	case model.ConditionBelow:
		return current.LessThan(threshold)
	case model.ConditionCrossesUp:
		if !previous.Valid {
			return false
		}
		return previous.Decimal.LessThanOrEqual(threshold) && current.GreaterThan(threshold)
	case model.ConditionCrossesDown:
		if !previous.Valid {
			return false
		}
		return previous.Decimal.GreaterThanOrEqual(threshold) && current.LessThan(threshold)
	case model.ConditionChangePercent:
		if !previous.Valid || previous.Decimal.IsZero() {
			return false
		}
		return ChangePercent(previous.Decimal, current).GreaterThanOrEqual(threshold)
	}
	return false
}

// ChangePercent returns the absolute percentage move from previous to current.
func ChangePercent(previous, current decimal.Decimal) decimal.Decimal {
	return current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Abs()
}

// TriggerMessage builds the human-readable message stored on the alert and
// carried into notifications, e.g. "Bitcoin price is above $50,000.00".
func TriggerMessage(a *model.Alert, current decimal.Decimal) string {
	asset := titleAsset(a.Cryptocurrency)
	metric := metricNoun(a.Type, a.Indicator())

	switch a.Condition {
	case model.ConditionAbove:
		return fmt.Sprintf("%s %s is above %s", asset, metric, formatValue(a.Type, a.Threshold))
	case model.ConditionBelow:
		return fmt.Sprintf("%s %s is below %s", asset, metric, formatValue(a.Type, a.Threshold))
	case model.ConditionCrossesUp:
		return fmt.Sprintf("%s %s crossed above %s", asset, metric, formatValue(a.Type, a.Threshold))
	case model.ConditionCrossesDown:
		return fmt.Sprintf("%s %s crossed below %s", asset, metric, formatValue(a.Type, a.Threshold))
	case model.ConditionChangePercent:
		pct := ChangePercent(a.PreviousValue.Decimal, current)
		return fmt.Sprintf("%s %s moved %s%% in one interval (threshold %s%%)",
			asset, metric, pct.StringFixed(2), a.Threshold.String())
	}
	return fmt.Sprintf("%s %s alert triggered at %s", asset, metric, formatValue(a.Type, current))
}

// metricNoun names the watched metric for messages.
func metricNoun(t model.AlertType, indicator string) string {
	switch t {
	case model.AlertTypePrice:
		return "price"
	case model.AlertTypeSentiment:
		return "sentiment score"
	case model.AlertTypeRisk:
		return "risk score"
	case model.AlertTypeVolume:
		return "trading volume"
	case model.AlertTypeTechnical:
		if indicator != "" {
			return indicator
		}
		return "indicator"
	}
	return string(t)
}

// formatValue renders a metric value for messages. Prices get a dollar sign
// and thousands separators; other metrics are plain numbers.
func formatValue(t model.AlertType, v decimal.Decimal) string {
	switch t {
	case model.AlertTypePrice:
		return "$" + groupThousands(v.StringFixed(2))
	case model.AlertTypeVolume:
		return groupThousands(v.StringFixed(0))
	default:
		return v.String()
	}
}

// groupThousands inserts commas into the integer part of a fixed decimal string.
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart := s
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}

func titleAsset(asset string) string {
	if asset == "" {
		return asset
	}
	return strings.ToUpper(asset[:1]) + asset[1:]
}
