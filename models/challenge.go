// models/challenge.go - Challenge catalog models
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Challenge is an admin-authored challenge template. The journaling core
// treats it as read-only.
type Challenge struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"not null;size:200" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	TotalDays   int       `gorm:"not null;default:100" json:"total_days"`
	Category    string    `gorm:"size:50;index" json:"category"`

	// IsWeekly selects completion-count day advancement with a weekday-based
	// review day. Plain daily challenges advance with the calendar and use
	// ReviewInterval (every Nth day, 0 = none) for reflection days.
	IsWeekly       bool `gorm:"default:false" json:"is_weekly"`
	ReviewInterval int  `gorm:"default:0" json:"review_interval"`

	IsActive  bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Prompts []ChallengePrompt `gorm:"foreignKey:ChallengeID" json:"prompts,omitempty"`
}

// ChallengePrompt holds the content for one day of a challenge.
type ChallengePrompt struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ChallengeID        uuid.UUID  `gorm:"type:uuid;not null;index:idx_prompts_challenge_day,unique" json:"challenge_id"`
	Challenge          *Challenge `gorm:"foreignKey:ChallengeID" json:"challenge,omitempty"`
	DayNumber          int        `gorm:"not null;index:idx_prompts_challenge_day,unique" json:"day_number"`
	ScriptureReference string     `gorm:"size:100" json:"scripture_reference"`
	ScriptureText      string     `gorm:"type:text" json:"scripture_text"`
	ContextText        string     `gorm:"type:text" json:"context_text"`
	MorningPrompt      string     `gorm:"type:text;not null" json:"morning_prompt"`
	EveningReflection  string     `gorm:"type:text" json:"evening_reflection"`
	CreatedAt          time.Time  `json:"created_at"`
}

func (c *Challenge) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (p *ChallengePrompt) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (Challenge) TableName() string {
	return "challenges"
}

func (ChallengePrompt) TableName() string {
	return "challenge_prompts"
}
