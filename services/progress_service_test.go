package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattedmundson/crowd-hub/models"
)

func TestStreaks(t *testing.T) {
	tests := []struct {
		name        string
		days        []int
		wantCurrent int
		wantLongest int
	}{
		{"empty", nil, 0, 0},
		{"single day", []int{1}, 1, 1},
		{"contiguous run", []int{3, 4, 5, 6}, 4, 4},
		{"gap at day 4", []int{1, 2, 3, 5, 6, 7}, 3, 3},
		{"longer run before gap", []int{1, 2, 3, 4, 5, 9}, 1, 5},
		{"longer run after gap", []int{1, 4, 5, 6, 7}, 4, 4},
		{"unsorted input", []int{7, 5, 1, 6, 2, 3}, 3, 3},
		{"isolated days", []int{1, 3, 5, 7}, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, longest := Streaks(tt.days)
			assert.Equal(t, tt.wantCurrent, current, "current streak")
			assert.Equal(t, tt.wantLongest, longest, "longest streak")
			assert.GreaterOrEqual(t, longest, current, "longest must cover current")
		})
	}
}

func TestRecalculateWritesBackSnapshot(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db)
	challenge := createChallenge(t, db, 100)
	uc := createUserChallenge(t, db, user, challenge, date(2025, 3, 1))

	for _, day := range []int{1, 2, 3, 5, 6, 7} {
		createEntry(t, db, uc, day, "grateful")
	}

	svc := NewProgressService(db)
	progress, err := svc.Recalculate(uc.ID)
	require.NoError(t, err)

	assert.Equal(t, 6, progress.TotalCompleted)
	assert.Equal(t, 3, progress.CurrentStreak)
	assert.Equal(t, 3, progress.LongestStreak)
	assert.Equal(t, 7, progress.CurrentDay, "next day pointer is totalCompleted+1")
	assert.InDelta(t, 0.06, progress.CompletionRate, 1e-9)
	assert.False(t, progress.Completed)

	var stored models.UserChallenge
	require.NoError(t, db.First(&stored, "id = ?", uc.ID).Error)
	assert.Equal(t, 6, stored.TotalCompleted)
	assert.Equal(t, 3, stored.CurrentStreak)
	assert.Equal(t, 3, stored.LongestStreak)
	assert.Equal(t, 7, stored.CurrentDay)
	assert.NotNil(t, stored.LastEntryDate)
	assert.False(t, stored.Completed)
}

func TestRecalculateIdempotent(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db)
	challenge := createChallenge(t, db, 100)
	uc := createUserChallenge(t, db, user, challenge, date(2025, 3, 1))

	for _, day := range []int{2, 3, 9} {
		createEntry(t, db, uc, day, "entry")
	}

	svc := NewProgressService(db)
	first, err := svc.Recalculate(uc.ID)
	require.NoError(t, err)
	second, err := svc.Recalculate(uc.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRecalculateIgnoresHollowEntries(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db)
	challenge := createChallenge(t, db, 100)
	uc := createUserChallenge(t, db, user, challenge, date(2025, 3, 1))

	createEntry(t, db, uc, 1, "real entry")
	createEntry(t, db, uc, 2, "   ")
	require.NoError(t, db.Create(&models.ChallengeEntry{
		UserChallengeID: uc.ID,
		DayNumber:       3,
		ReviewNotes:     "notes alone don't count",
	}).Error)
	require.NoError(t, db.Create(&models.ChallengeEntry{
		UserChallengeID:  uc.ID,
		DayNumber:        4,
		CompletedOffline: true,
	}).Error)

	svc := NewProgressService(db)
	progress, err := svc.Recalculate(uc.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, progress.TotalCompleted, "only day 1 and the offline day count")
	assert.Equal(t, 1, progress.CurrentStreak)
}

func TestRecalculateCompletionRoundTrip(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db)
	challenge := createChallenge(t, db, 100)
	uc := createUserChallenge(t, db, user, challenge, date(2025, 3, 1))

	entry := createEntry(t, db, uc, 1, "written")

	svc := NewProgressService(db)
	progress, err := svc.Recalculate(uc.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.TotalCompleted)

	// Clearing the only field drops the day from the completed set
	require.NoError(t, db.Model(entry).Update("morning_entry", "  ").Error)
	progress, err = svc.Recalculate(uc.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, progress.TotalCompleted)
	assert.Equal(t, 0, progress.CurrentStreak)
	assert.Equal(t, 0, progress.LongestStreak)
}

func TestRecalculateFlipsCompletedFlag(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db)
	challenge := createChallenge(t, db, 3)
	uc := createUserChallenge(t, db, user, challenge, date(2025, 3, 1))

	createEntry(t, db, uc, 1, "one")
	createEntry(t, db, uc, 2, "two")

	svc := NewProgressService(db)
	progress, err := svc.Recalculate(uc.ID)
	require.NoError(t, err)
	assert.False(t, progress.Completed)

	createEntry(t, db, uc, 3, "three")
	progress, err = svc.Recalculate(uc.ID)
	require.NoError(t, err)
	assert.True(t, progress.Completed)
	assert.Equal(t, 3, progress.CurrentDay, "no advancement past the last day")
	assert.InDelta(t, 1.0, progress.CompletionRate, 1e-9)

	var stored models.UserChallenge
	require.NoError(t, db.First(&stored, "id = ?", uc.ID).Error)
	assert.True(t, stored.Completed)
}

func TestRecalculateSurvivesWriteBackFailure(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db)
	challenge := createChallenge(t, db, 100)
	uc := createUserChallenge(t, db, user, challenge, date(2025, 3, 1))

	createEntry(t, db, uc, 1, "one")
	createEntry(t, db, uc, 2, "two")

	// The entries stay readable but the snapshot row is gone, so the
	// write-back fails while the computed values still come back.
	require.NoError(t, db.Migrator().DropTable(&models.UserChallenge{}))

	svc := NewProgressService(db)
	progress, err := svc.recalculate(uc)
	require.NoError(t, err)
	assert.Equal(t, 2, progress.TotalCompleted)
	assert.Equal(t, 2, progress.CurrentStreak)
	assert.Equal(t, 2, progress.LongestStreak)
	assert.Equal(t, 3, progress.CurrentDay)
}

func TestGetCalendarData(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db)
	challenge := createChallenge(t, db, 100)
	uc := createUserChallenge(t, db, user, challenge, date(2025, 3, 1))

	createEntry(t, db, uc, 1, "done")
	createEntry(t, db, uc, 3, "done")

	svc := NewProgressService(db)
	svc.now = func() time.Time { return date(2025, 3, 5) }

	data, err := svc.GetCalendarData(uc.ID, "2025-03")
	require.NoError(t, err)

	require.Len(t, data.CalendarDays, 31)

	byDay := map[int]CalendarDay{}
	for _, d := range data.CalendarDays {
		byDay[d.DayNumber] = d
	}

	assert.Equal(t, DayStatusCompleted, byDay[1].Status)
	assert.Equal(t, DayStatusMissed, byDay[2].Status)
	assert.Equal(t, DayStatusCompleted, byDay[3].Status)
	assert.Equal(t, DayStatusToday, byDay[5].Status)
	assert.Equal(t, DayStatusFuture, byDay[6].Status)
	assert.True(t, byDay[1].HasMorning)

	assert.Equal(t, 2, data.Stats.TotalDaysCompleted)
	assert.Equal(t, 5, data.Stats.CurrentDay)
	assert.Equal(t, 96, data.Stats.DaysRemaining)
	assert.InDelta(t, 0.02, data.Stats.CompletionRate, 1e-9)
	assert.InDelta(t, 0.4, data.Stats.ProgressToDate, 1e-9)
}

func TestGetProgressStatsWeeklyBreakdown(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db)
	challenge := createChallenge(t, db, 100)
	uc := createUserChallenge(t, db, user, challenge, date(2025, 3, 1))

	for _, day := range []int{1, 2, 3, 4, 5, 8} {
		createEntry(t, db, uc, day, "done")
	}

	svc := NewProgressService(db)
	svc.now = func() time.Time { return date(2025, 3, 10) } // day 10

	stats, err := svc.GetProgressStats(uc.ID)
	require.NoError(t, err)

	require.Len(t, stats.Weekly, 2)
	assert.Equal(t, 5, stats.Weekly[0].DaysCompleted)
	assert.Equal(t, 7, stats.Weekly[0].TotalDays)
	assert.Equal(t, 1, stats.Weekly[1].DaysCompleted)
	assert.Equal(t, 3, stats.Weekly[1].TotalDays, "second week truncated at today")

	require.Len(t, stats.Monthly, 1)
	assert.Equal(t, "2025-03", stats.Monthly[0].Month)
	assert.Equal(t, 6, stats.Monthly[0].Count)

	assert.Equal(t, 10, stats.Overall.CurrentDay)
	assert.Equal(t, "2025-03-01", stats.Overall.StartDate)
}

func TestAchievements(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db)
	challenge := createChallenge(t, db, 100)
	uc := createUserChallenge(t, db, user, challenge, date(2025, 3, 1))

	require.NoError(t, db.Model(uc).Updates(map[string]interface{}{
		"current_streak": 4,
		"longest_streak": 8,
	}).Error)

	svc := NewProgressService(db)
	svc.now = func() time.Time { return date(2025, 3, 15) } // day 15

	achievements, err := svc.Achievements(uc.ID)
	require.NoError(t, err)

	ids := make(map[string]bool, len(achievements))
	for _, a := range achievements {
		ids[a.ID] = true
		assert.True(t, a.Unlocked)
	}

	assert.True(t, ids["day-1"])
	assert.True(t, ids["day-7"])
	assert.True(t, ids["day-14"])
	assert.False(t, ids["day-21"])
	assert.True(t, ids["streak-3"])
	assert.True(t, ids["streak-7"])
	assert.False(t, ids["streak-14"])
	assert.False(t, ids["consistency-master"])
	assert.False(t, ids["challenge-graduate"])
}
