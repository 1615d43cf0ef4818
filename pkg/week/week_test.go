package week

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOf(t *testing.T) {
	tests := []struct {
		name      string
		at        time.Time
		wantStart time.Time
	}{
		{
			name:      "monday maps to itself",
			at:        time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "mid week",
			at:        time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC),
			wantStart: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "sunday belongs to the preceding monday",
			at:        time.Date(2026, 8, 30, 23, 59, 59, 0, time.UTC),
			wantStart: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "next monday starts a new week",
			at:        time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Of(tt.at, 20)
			require.Equal(t, tt.wantStart, w.Start)
			require.Equal(t, tt.wantStart.AddDate(0, 0, 6).Add(24*time.Hour-time.Second), w.End)
			// Distribution falls on the Friday of the same week.
			require.Equal(t, time.Friday, w.Distribution.Weekday())
			require.Equal(t, 20, w.Distribution.Hour())
			require.True(t, w.Contains(tt.at))
		})
	}
}

func TestWindowContains(t *testing.T) {
	w := Of(time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC), 20)
	require.True(t, w.Contains(w.Start))
	require.True(t, w.Contains(w.End))
	require.False(t, w.Contains(w.Start.Add(-time.Second)))
	require.False(t, w.Contains(w.End.Add(time.Second)))
}

func TestOfNonUTCInput(t *testing.T) {
	loc := time.FixedZone("UTC+12", 12*3600)
	// Monday 02:00 in UTC+12 is still Sunday in UTC.
	at := time.Date(2026, 8, 31, 2, 0, 0, 0, loc)
	w := Of(at, 20)
	require.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), w.Start)
}
