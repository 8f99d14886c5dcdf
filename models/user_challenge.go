// models/user_challenge.go - A user's enrollment in a challenge
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Schedule types
type ScheduleType string

const (
	ScheduleMorning ScheduleType = "morning"
	ScheduleBoth    ScheduleType = "both"
)

func (s ScheduleType) Valid() bool {
	return s == ScheduleMorning || s == ScheduleBoth
}

// UserChallenge is one user's run through a challenge. The progress fields
// (CurrentDay, TotalCompleted, streaks, LastEntryDate, Completed) are a
// denormalized snapshot recomputed from challenge_entries on every save;
// the entries remain the source of truth.
type UserChallenge struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User        *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ChallengeID uuid.UUID  `gorm:"type:uuid;not null;index" json:"challenge_id"`
	Challenge   *Challenge `gorm:"foreignKey:ChallengeID" json:"challenge,omitempty"`

	StartDate    time.Time    `gorm:"type:date;not null" json:"start_date"`
	ScheduleType ScheduleType `gorm:"not null;size:10" json:"schedule_type"`

	// Weekly schedule settings. WeeklyReviewDay is a time.Weekday value
	// (0 = Sunday).
	WeeklyReviewDay int `gorm:"default:0" json:"weekly_review_day"`
	WeeklyGoal      int `gorm:"default:5" json:"weekly_goal"`

	// Progress snapshot
	CurrentDay     int        `gorm:"default:1" json:"current_day"`
	TotalCompleted int        `gorm:"default:0" json:"total_completed"`
	CurrentStreak  int        `gorm:"default:0" json:"current_streak"`
	LongestStreak  int        `gorm:"default:0" json:"longest_streak"`
	LastEntryDate  *time.Time `gorm:"type:date" json:"last_entry_date"`
	Completed      bool       `gorm:"default:false;index" json:"completed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Entries []ChallengeEntry `gorm:"foreignKey:UserChallengeID" json:"entries,omitempty"`
}

func (uc *UserChallenge) BeforeCreate(tx *gorm.DB) error {
	if uc.ID == uuid.Nil {
		uc.ID = uuid.New()
	}
	return nil
}

func (UserChallenge) TableName() string {
	return "user_challenges"
}
