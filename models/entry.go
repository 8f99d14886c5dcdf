// models/entry.go - Journal entry models
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EntryType selects which text field of an entry a save writes to.
type EntryType string

const (
	EntryGodMessage EntryType = "god_message"
	EntryMorning    EntryType = "morning"
	EntryEvening    EntryType = "evening"
)

// Column maps the entry type to its challenge_entries column.
func (t EntryType) Column() (string, error) {
	switch t {
	case EntryGodMessage:
		return "god_message", nil
	case EntryMorning:
		return "morning_entry", nil
	case EntryEvening:
		return "evening_entry", nil
	default:
		return "", fmt.Errorf("unknown entry type %q", string(t))
	}
}

// ChallengeEntry is the user-authored record for one day of a user challenge.
// At most one row exists per (user_challenge_id, day_number).
type ChallengeEntry struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserChallengeID  uuid.UUID      `gorm:"type:uuid;not null;index:idx_entries_challenge_day,unique" json:"user_challenge_id"`
	UserChallenge    *UserChallenge `gorm:"foreignKey:UserChallengeID" json:"user_challenge,omitempty"`
	DayNumber        int            `gorm:"not null;index:idx_entries_challenge_day,unique" json:"day_number"`
	GodMessage       string         `gorm:"type:text" json:"god_message"`
	MorningEntry     string         `gorm:"type:text" json:"morning_entry"`
	EveningEntry     string         `gorm:"type:text" json:"evening_entry"`
	CompletedOffline bool           `gorm:"default:false" json:"completed_offline"`
	ReviewNotes      string         `gorm:"type:text" json:"review_notes"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// IsCompleted reports whether this day counts as done: any text field with
// real content, or the practice was completed away from the device.
func (e *ChallengeEntry) IsCompleted() bool {
	return strings.TrimSpace(e.GodMessage) != "" ||
		strings.TrimSpace(e.MorningEntry) != "" ||
		strings.TrimSpace(e.EveningEntry) != "" ||
		e.CompletedOffline
}

func (e *ChallengeEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (ChallengeEntry) TableName() string {
	return "challenge_entries"
}
