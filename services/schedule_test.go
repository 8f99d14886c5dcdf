package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCurrentDay(t *testing.T) {
	start := date(2025, 3, 1)

	tests := []struct {
		name      string
		today     time.Time
		totalDays int
		want      int
	}{
		{"start date is day 1", start, 100, 1},
		{"later the same day", start.Add(23 * time.Hour), 100, 1},
		{"next day", date(2025, 3, 2), 100, 2},
		{"ten days in", date(2025, 3, 11), 100, 11},
		{"clamped at challenge end", date(2025, 9, 1), 100, 100},
		{"before start clamps to 1", date(2025, 2, 20), 100, 1},
		{"short challenge", date(2025, 3, 11), 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentDay(start, tt.today, tt.totalDays))
		})
	}
}

func TestCurrentDayMonotonic(t *testing.T) {
	start := date(2025, 3, 1)

	prev := 0
	for i := 0; i < 150; i++ {
		day := CurrentDay(start, start.AddDate(0, 0, i), 100)
		assert.GreaterOrEqual(t, day, prev)
		assert.GreaterOrEqual(t, day, 1)
		assert.LessOrEqual(t, day, 100)
		prev = day
	}
}

func TestCurrentUnit(t *testing.T) {
	tests := []struct {
		name           string
		totalCompleted int
		totalDays      int
		want           int
	}{
		{"nothing completed", 0, 100, 1},
		{"mid challenge", 41, 100, 42},
		{"last day", 99, 100, 100},
		{"fully completed stays at end", 100, 100, 100},
		{"over-completed stays at end", 150, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentUnit(tt.totalCompleted, tt.totalDays))
		})
	}
}

func TestCurrentUnitMonotonic(t *testing.T) {
	prev := 0
	for completed := 0; completed <= 120; completed++ {
		unit := CurrentUnit(completed, 100)
		assert.GreaterOrEqual(t, unit, prev)
		prev = unit
	}
}

func TestIsReviewUnit(t *testing.T) {
	assert.False(t, IsReviewUnit(5, 0), "zero interval disables review units")
	assert.False(t, IsReviewUnit(5, -1))

	assert.True(t, IsReviewUnit(7, 7))
	assert.True(t, IsReviewUnit(14, 7))
	assert.False(t, IsReviewUnit(8, 7))
	assert.True(t, IsReviewUnit(5, 5))
	assert.False(t, IsReviewUnit(1, 5))
}

func TestIsReviewDay(t *testing.T) {
	sunday := date(2025, 3, 2)
	monday := date(2025, 3, 3)

	assert.True(t, IsReviewDay(sunday, time.Sunday))
	assert.False(t, IsReviewDay(monday, time.Sunday))
	assert.True(t, IsReviewDay(monday, time.Monday))
}

func TestCurrentWeek(t *testing.T) {
	start := date(2025, 3, 1)

	tests := []struct {
		name  string
		today time.Time
		want  int
	}{
		{"first day", start, 1},
		{"day 7 still week 1", date(2025, 3, 7), 1},
		{"day 8 is week 2", date(2025, 3, 8), 2},
		{"day 15 is week 3", date(2025, 3, 15), 3},
		{"before start", date(2025, 2, 1), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentWeek(start, tt.today))
		})
	}
}
