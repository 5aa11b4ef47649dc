package utils

import (
	"testing"
	"time"

	"fieldops-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestNextSixAM(t *testing.T) {
	loc := time.FixedZone("Local", -6*60*60)
	want := time.Date(2024, 1, 2, 6, 0, 0, 0, loc)

	t.Run("Before six in the morning", func(t *testing.T) {
		now := time.Date(2024, 1, 1, 5, 0, 0, 0, loc)
		assert.True(t, want.Equal(NextSixAM(now)))
	})

	t.Run("Just before midnight", func(t *testing.T) {
		now := time.Date(2024, 1, 1, 23, 59, 0, 0, loc)
		assert.True(t, want.Equal(NextSixAM(now)))
	})

	t.Run("Exactly six", func(t *testing.T) {
		now := time.Date(2024, 1, 1, 6, 0, 0, 0, loc)
		assert.True(t, want.Equal(NextSixAM(now)))
	})

	t.Run("Month and year rollover", func(t *testing.T) {
		now := time.Date(2024, 12, 31, 14, 30, 0, 0, loc)
		assert.True(t, time.Date(2025, 1, 1, 6, 0, 0, 0, loc).Equal(NextSixAM(now)))
	})

	t.Run("Always strictly later, next calendar day, at 06:00:00.000", func(t *testing.T) {
		base := time.Date(2024, 2, 28, 0, 0, 0, 0, loc)
		for i := 0; i < 48; i++ {
			now := base.Add(time.Duration(i)*30*time.Minute + 123*time.Millisecond)
			got := NextSixAM(now)
			assert.True(t, got.After(now))
			assert.Equal(t, 6, got.Hour())
			assert.Equal(t, 0, got.Minute())
			assert.Equal(t, 0, got.Second())
			assert.Equal(t, 0, got.Nanosecond())
			assert.Equal(t, now.AddDate(0, 0, 1).YearDay(), got.YearDay())
			assert.Equal(t, loc, got.Location())
		}
	})
}

func TestIsStale(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, IsStale(now.Add(-5*time.Minute), now))
	assert.False(t, IsStale(now.Add(-15*time.Minute), now), "exactly at the threshold is not stale")
	assert.True(t, IsStale(now.Add(-15*time.Minute-time.Second), now))
	assert.True(t, IsStale(now.Add(-20*time.Minute), now))
}

func TestLastActivity(t *testing.T) {
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	s := &domain.WorkSession{StartTime: start}
	assert.Equal(t, start, LastActivity(s))

	ping := start.Add(2 * time.Hour)
	s.LatestLocation = &domain.Location{Timestamp: ping}
	assert.Equal(t, ping, LastActivity(s))
}
