package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mattedmundson/crowd-hub/models"
)

// testDB opens an isolated in-memory database per test.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Challenge{},
		&models.ChallengePrompt{},
		&models.UserChallenge{},
		&models.ChallengeEntry{},
	))

	return db
}

func createUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := &models.User{
		Email:    fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		Password: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createChallenge(t *testing.T, db *gorm.DB, totalDays int) *models.Challenge {
	t.Helper()

	challenge := &models.Challenge{
		Title:     "100 Days of Gratitude",
		TotalDays: totalDays,
		Category:  "gratitude",
		IsActive:  true,
	}
	require.NoError(t, db.Create(challenge).Error)
	return challenge
}

func createUserChallenge(t *testing.T, db *gorm.DB, user *models.User, challenge *models.Challenge, startDate time.Time) *models.UserChallenge {
	t.Helper()

	uc := &models.UserChallenge{
		UserID:       user.ID,
		ChallengeID:  challenge.ID,
		StartDate:    startDate,
		ScheduleType: models.ScheduleBoth,
		WeeklyGoal:   5,
		CurrentDay:   1,
	}
	require.NoError(t, db.Create(uc).Error)

	require.NoError(t, db.Preload("Challenge").First(uc, "id = ?", uc.ID).Error)
	return uc
}

func createEntry(t *testing.T, db *gorm.DB, uc *models.UserChallenge, day int, morning string) *models.ChallengeEntry {
	t.Helper()

	entry := &models.ChallengeEntry{
		UserChallengeID: uc.ID,
		DayNumber:       day,
		MorningEntry:    morning,
	}
	require.NoError(t, db.Create(entry).Error)
	return entry
}
