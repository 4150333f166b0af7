package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHHMM(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    MinuteOfDay
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "07:30", want: 450},
		{in: "23:59", want: 1439},
		{in: "24:00", wantErr: true},
		{in: "9:5", wantErr: true},
		{in: "bogus", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseHHMM(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestWindowContains(t *testing.T) {
	t.Parallel()

	at := func(hhmm string) time.Time {
		parsed, err := time.Parse("15:04", hhmm)
		require.NoError(t, err)
		return time.Date(2025, 6, 1, parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)
	}

	tests := []struct {
		name       string
		start, end string
		at         string
		want       bool
	}{
		{name: "inside simple window", start: "09:00", end: "17:00", at: "12:00", want: true},
		{name: "start is inclusive", start: "09:00", end: "17:00", at: "09:00", want: true},
		{name: "end is exclusive", start: "09:00", end: "17:00", at: "17:00", want: false},
		{name: "outside simple window", start: "09:00", end: "17:00", at: "20:00", want: false},
		{name: "wrap: late evening", start: "22:00", end: "07:00", at: "23:30", want: true},
		{name: "wrap: early morning", start: "22:00", end: "07:00", at: "03:00", want: true},
		{name: "wrap: daytime excluded", start: "22:00", end: "07:00", at: "12:00", want: false},
		{name: "wrap: end exclusive", start: "22:00", end: "07:00", at: "07:00", want: false},
		{name: "degenerate window covers nothing", start: "08:00", end: "08:00", at: "08:00", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w, err := ParseWindow(tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, w.Contains(at(tt.at)))
		})
	}
}

func TestInLocation(t *testing.T) {
	t.Parallel()

	utc := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Unknown or empty timezone falls back to UTC.
	assert.Equal(t, utc, InLocation(utc, ""))
	assert.Equal(t, utc, InLocation(utc, "Not/AZone"))

	ny := InLocation(utc, "America/New_York")
	assert.Equal(t, 8, ny.Hour()) // EDT in June
	assert.True(t, ny.Equal(utc))
}
