package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattedmundson/crowd-hub/models"
)

func TestListChallengesFiltersInactive(t *testing.T) {
	db := testDB(t)
	createChallenge(t, db, 100)
	inactive := createChallenge(t, db, 30)
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	svc := NewChallengeService(db)

	visible, err := svc.ListChallenges(false)
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	all, err := svc.ListChallenges(true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStartChallenge(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db)
	challenge := createChallenge(t, db, 100)

	svc := NewChallengeService(db)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 14, 30, 0, 0, time.UTC) }

	uc, err := svc.StartChallenge(user.ID, challenge.ID, models.ScheduleMorning)
	require.NoError(t, err)

	assert.True(t, uc.StartDate.Equal(date(2025, 3, 1)), "start date is truncated to the day")
	assert.Equal(t, 1, uc.CurrentDay)
	assert.Equal(t, 5, uc.WeeklyGoal)
	assert.Equal(t, int(time.Sunday), uc.WeeklyReviewDay)
	assert.False(t, uc.Completed)
	require.NotNil(t, uc.Challenge)
	assert.Equal(t, challenge.ID, uc.Challenge.ID)
}

func TestStartChallengeRejectsDuplicateActive(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db)
	challenge := createChallenge(t, db, 100)

	svc := NewChallengeService(db)

	_, err := svc.StartChallenge(user.ID, challenge.ID, models.ScheduleMorning)
	require.NoError(t, err)

	_, err = svc.StartChallenge(user.ID, challenge.ID, models.ScheduleBoth)
	assert.ErrorIs(t, err, ErrChallengeAlreadyActive)
}

func TestStartChallengeAllowsRestartAfterCompletion(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db)
	challenge := createChallenge(t, db, 100)

	svc := NewChallengeService(db)

	first, err := svc.StartChallenge(user.ID, challenge.ID, models.ScheduleMorning)
	require.NoError(t, err)
	require.NoError(t, db.Model(first).Update("completed", true).Error)

	second, err := svc.StartChallenge(user.ID, challenge.ID, models.ScheduleMorning)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestStartChallengeValidation(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db)
	challenge := createChallenge(t, db, 100)

	svc := NewChallengeService(db)

	_, err := svc.StartChallenge(user.ID, challenge.ID, models.ScheduleType("twice-hourly"))
	require.Error(t, err)

	_, err = svc.StartChallenge(user.ID, uuid.New(), models.ScheduleMorning)
	require.Error(t, err, "unknown challenge")
}

func TestGetCurrentChallengeEmptyState(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db)

	svc := NewChallengeService(db)

	uc, err := svc.GetCurrentChallenge(user.ID)
	require.NoError(t, err)
	assert.Nil(t, uc, "no enrollment is an empty state, not an error")
}

func TestGetCurrentChallengeSkipsCompleted(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db)
	challenge := createChallenge(t, db, 100)
	done := createUserChallenge(t, db, user, challenge, date(2025, 1, 1))
	require.NoError(t, db.Model(done).Update("completed", true).Error)
	active := createUserChallenge(t, db, user, challenge, date(2025, 3, 1))

	svc := NewChallengeService(db)

	uc, err := svc.GetCurrentChallenge(user.ID)
	require.NoError(t, err)
	require.NotNil(t, uc)
	assert.Equal(t, active.ID, uc.ID)
	require.NotNil(t, uc.Challenge)
}

func TestGetTodaysContent(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db)
	challenge := createChallenge(t, db, 100)
	uc := createUserChallenge(t, db, user, challenge, date(2025, 3, 1))

	require.NoError(t, db.Create(&models.ChallengePrompt{
		ChallengeID:        challenge.ID,
		DayNumber:          5,
		ScriptureReference: "Philippians 4:6",
		MorningPrompt:      "Bring your requests with thanksgiving",
	}).Error)
	createEntry(t, db, uc, 1, "day one")

	svc := NewChallengeService(db)
	svc.now = func() time.Time { return date(2025, 3, 5) } // day 5

	content, err := svc.GetTodaysContent(uc.ID)
	require.NoError(t, err)

	assert.Equal(t, 5, content.DayNumber)
	assert.False(t, content.IsReviewDay)
	assert.Equal(t, 1, content.WeekNumber)
	require.NotNil(t, content.Prompt)
	assert.Equal(t, "Philippians 4:6", content.Prompt.ScriptureReference)
	require.NotNil(t, content.Entry)
	assert.Equal(t, 5, content.Entry.DayNumber)
	assert.Equal(t, uuid.Nil, content.Entry.ID, "no entry written yet today")
	require.NotNil(t, content.Progress)
	assert.Equal(t, 1, content.Progress.TotalCompleted)
}

func TestGetTodaysContentMissingPromptTolerated(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db)
	challenge := createChallenge(t, db, 100)
	uc := createUserChallenge(t, db, user, challenge, date(2025, 3, 1))

	svc := NewChallengeService(db)
	svc.now = func() time.Time { return date(2025, 3, 2) }

	content, err := svc.GetTodaysContent(uc.ID)
	require.NoError(t, err)
	assert.Nil(t, content.Prompt)
	assert.Equal(t, 2, content.DayNumber)
}

func TestGetTodaysContentReviewUnit(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db)
	challenge := createChallenge(t, db, 100)
	require.NoError(t, db.Model(challenge).Update("review_interval", 7).Error)
	uc := createUserChallenge(t, db, user, challenge, date(2025, 3, 1))

	svc := NewChallengeService(db)
	svc.now = func() time.Time { return date(2025, 3, 7) } // day 7

	content, err := svc.GetTodaysContent(uc.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, content.DayNumber)
	assert.True(t, content.IsReviewDay)
	assert.Nil(t, content.Prompt, "review days carry no prompt")
}

func TestGetTodaysContentWeeklySchedule(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db)
	challenge := createChallenge(t, db, 100)
	require.NoError(t, db.Model(challenge).Update("is_weekly", true).Error)
	uc := createUserChallenge(t, db, user, challenge, date(2025, 3, 1))

	createEntry(t, db, uc, 1, "one")
	createEntry(t, db, uc, 2, "two")
	_, err := NewProgressService(db).Recalculate(uc.ID)
	require.NoError(t, err)

	svc := NewChallengeService(db)
	// A Tuesday, far from the start date: unit comes from completions,
	// not the calendar.
	svc.now = func() time.Time { return date(2025, 4, 15) }

	content, err := svc.GetTodaysContent(uc.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, content.DayNumber, "next unit after two completions")
	assert.False(t, content.IsReviewDay, "weekly review day is Sunday by default")
}
