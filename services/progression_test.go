package services

import (
	"testing"
	"time"

	"nestory-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateLevel(t *testing.T) {
	cases := []struct {
		points int
		level  int
	}{
		{0, 1},
		{50, 1},
		{99, 1},
		{100, 2},
		{250, 2},
		{399, 2},
		{400, 3},
		{900, 4},
		{-10, 1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.level, CalculateLevel(tc.points), "points=%d", tc.points)
	}
}

func TestCalculateLevelMonotonic(t *testing.T) {
	prev := 0
	for p := 0; p <= 2000; p += 10 {
		level := CalculateLevel(p)
		require.GreaterOrEqual(t, level, prev)
		prev = level
	}
}

func TestUpdateStreakFirstActivity(t *testing.T) {
	p := &models.UserProgress{}
	now := time.Now()

	UpdateStreak(p, now)

	assert.Equal(t, 1, p.CurrentStreak)
	assert.Equal(t, 1, p.LongestStreak)
	require.NotNil(t, p.LastActivityDate)
	assert.Equal(t, now, *p.LastActivityDate)
}

func TestUpdateStreakSameDay(t *testing.T) {
	p := &models.UserProgress{}
	now := time.Now()
	UpdateStreak(p, now)

	later := now.Add(3 * time.Hour)
	UpdateStreak(p, later)

	assert.Equal(t, 1, p.CurrentStreak)
	assert.Equal(t, 1, p.LongestStreak)
	assert.Equal(t, later, *p.LastActivityDate, "same-day activity still advances the clock")
}

func TestUpdateStreakConsecutiveDays(t *testing.T) {
	p := &models.UserProgress{}
	day := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		UpdateStreak(p, day.AddDate(0, 0, i))
	}

	assert.Equal(t, 5, p.CurrentStreak)
	assert.Equal(t, 5, p.LongestStreak)
}

func TestUpdateStreakGapResets(t *testing.T) {
	p := &models.UserProgress{}
	day := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

	UpdateStreak(p, day)
	UpdateStreak(p, day.AddDate(0, 0, 1))
	UpdateStreak(p, day.AddDate(0, 0, 2))
	require.Equal(t, 3, p.CurrentStreak)

	UpdateStreak(p, day.AddDate(0, 0, 5))

	assert.Equal(t, 1, p.CurrentStreak)
	assert.Equal(t, 3, p.LongestStreak, "longest streak survives the reset")
}
