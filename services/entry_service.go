// services/entry_service.go - Entry saves and the weekly review
package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mattedmundson/crowd-hub/models"
	"github.com/mattedmundson/crowd-hub/utils"
)

// ErrChallengeCompleted is returned for writes against a finished
// enrollment. A completed challenge is read-only; starting over means a new
// enrollment.
var ErrChallengeCompleted = errors.New("challenge already completed")

type SaveEntryParams struct {
	UserChallengeID uuid.UUID        `json:"user_challenge_id"`
	DayNumber       int              `json:"day_number"`
	EntryType       models.EntryType `json:"entry_type"`
	Content         string           `json:"content"`
}

type WeeklyReviewEntry struct {
	DayNumber          int    `json:"day_number"`
	Date               string `json:"date"`
	MorningEntry       string `json:"morning_entry"`
	EveningEntry       string `json:"evening_entry"`
	ReviewNotes        string `json:"review_notes"`
	ScriptureReference string `json:"scripture_reference"`
	MorningPrompt      string `json:"morning_prompt"`
}

type EntryService struct {
	db       *gorm.DB
	progress *ProgressService
	now      func() time.Time
}

func NewEntryService(db *gorm.DB) *EntryService {
	return &EntryService{db: db, progress: NewProgressService(db), now: time.Now}
}

// SaveEntry writes one field of the day's entry, creating the row on first
// save. Whitespace-only content is accepted as a no-op so callers that
// pre-check don't have to. The progress snapshot is refreshed after the
// write.
func (s *EntryService) SaveEntry(p SaveEntryParams) (*models.ChallengeEntry, error) {
	column, err := p.EntryType.Column()
	if err != nil {
		return nil, err
	}

	uc, err := s.loadWritable(p.UserChallengeID)
	if err != nil {
		return nil, err
	}

	day := clampDay(p.DayNumber, uc.Challenge.TotalDays)

	if strings.TrimSpace(p.Content) == "" {
		return s.getEntry(uc.ID, day)
	}

	entry, err := s.upsert(uc.ID, day, map[string]interface{}{column: p.Content})
	if err != nil {
		return nil, err
	}

	if _, err := s.progress.recalculate(uc); err != nil {
		return nil, err
	}

	return entry, nil
}

// MarkOfflineComplete records that the day's practice happened away from
// the device. No text is required.
func (s *EntryService) MarkOfflineComplete(userChallengeID uuid.UUID, dayNumber int) (*models.ChallengeEntry, error) {
	uc, err := s.loadWritable(userChallengeID)
	if err != nil {
		return nil, err
	}

	day := clampDay(dayNumber, uc.Challenge.TotalDays)

	entry, err := s.upsert(uc.ID, day, map[string]interface{}{"completed_offline": true})
	if err != nil {
		return nil, err
	}

	if _, err := s.progress.recalculate(uc); err != nil {
		return nil, err
	}

	return entry, nil
}

// AddReviewNotes attaches reflection notes to a day. Notes never count
// toward completion, so the snapshot is not refreshed.
func (s *EntryService) AddReviewNotes(userChallengeID uuid.UUID, dayNumber int, notes string) (*models.ChallengeEntry, error) {
	uc, err := s.loadWritable(userChallengeID)
	if err != nil {
		return nil, err
	}

	day := clampDay(dayNumber, uc.Challenge.TotalDays)

	return s.upsert(uc.ID, day, map[string]interface{}{"review_notes": notes})
}

// GetEntry returns the entry for one day, or nil when the user hasn't
// written anything yet.
func (s *EntryService) GetEntry(userChallengeID uuid.UUID, dayNumber int) (*models.ChallengeEntry, error) {
	return s.getEntry(userChallengeID, dayNumber)
}

// GetWeeklyReview collects the week ending before weekEndDay: entries,
// their prompts and the calendar date of each day.
func (s *EntryService) GetWeeklyReview(userChallengeID uuid.UUID, weekEndDay int) ([]WeeklyReviewEntry, error) {
	var uc models.UserChallenge
	if err := s.db.First(&uc, "id = ?", userChallengeID).Error; err != nil {
		return nil, err
	}

	startDay := weekEndDay - 6
	if startDay < 1 {
		startDay = 1
	}

	var entries []models.ChallengeEntry
	if err := s.db.Where("user_challenge_id = ? AND day_number >= ? AND day_number < ?",
		uc.ID, startDay, weekEndDay).
		Order("day_number").Find(&entries).Error; err != nil {
		return nil, err
	}

	var prompts []models.ChallengePrompt
	if err := s.db.Where("challenge_id = ? AND day_number >= ? AND day_number < ?",
		uc.ChallengeID, startDay, weekEndDay).
		Order("day_number").Find(&prompts).Error; err != nil {
		return nil, err
	}

	entryByDay := make(map[int]*models.ChallengeEntry, len(entries))
	for i := range entries {
		entryByDay[entries[i].DayNumber] = &entries[i]
	}
	promptByDay := make(map[int]*models.ChallengePrompt, len(prompts))
	for i := range prompts {
		promptByDay[prompts[i].DayNumber] = &prompts[i]
	}

	review := make([]WeeklyReviewEntry, 0, weekEndDay-startDay)
	for day := startDay; day < weekEndDay; day++ {
		row := WeeklyReviewEntry{
			DayNumber: day,
			Date:      utils.FormatDate(uc.StartDate.AddDate(0, 0, day-1)),
		}
		if e := entryByDay[day]; e != nil {
			row.MorningEntry = e.MorningEntry
			row.EveningEntry = e.EveningEntry
			row.ReviewNotes = e.ReviewNotes
		}
		if p := promptByDay[day]; p != nil {
			row.ScriptureReference = p.ScriptureReference
			row.MorningPrompt = p.MorningPrompt
		}
		review = append(review, row)
	}

	return review, nil
}

// loadWritable fetches an enrollment and rejects writes once it has
// completed.
func (s *EntryService) loadWritable(userChallengeID uuid.UUID) (*models.UserChallenge, error) {
	var uc models.UserChallenge
	if err := s.db.Preload("Challenge").First(&uc, "id = ?", userChallengeID).Error; err != nil {
		return nil, err
	}
	if uc.Completed {
		return nil, ErrChallengeCompleted
	}
	return &uc, nil
}

func (s *EntryService) getEntry(userChallengeID uuid.UUID, dayNumber int) (*models.ChallengeEntry, error) {
	var entry models.ChallengeEntry
	err := s.db.Where("user_challenge_id = ? AND day_number = ?", userChallengeID, dayNumber).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// upsert applies updates to the (user challenge, day) entry, inserting the
// row on first write. The store has no native multi-column upsert here, so
// this is a fetch-then-write; the unique index on the pair decides the
// loser of a racing double insert.
func (s *EntryService) upsert(userChallengeID uuid.UUID, dayNumber int, updates map[string]interface{}) (*models.ChallengeEntry, error) {
	existing, err := s.getEntry(userChallengeID, dayNumber)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		updates["updated_at"] = s.now()
		if err := s.db.Model(existing).Updates(updates).Error; err != nil {
			return nil, err
		}
		return s.getEntry(userChallengeID, dayNumber)
	}

	entry := &models.ChallengeEntry{
		UserChallengeID: userChallengeID,
		DayNumber:       dayNumber,
	}
	applyEntryUpdates(entry, updates)
	if err := s.db.Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func applyEntryUpdates(entry *models.ChallengeEntry, updates map[string]interface{}) {
	for column, value := range updates {
		switch column {
		case "god_message":
			entry.GodMessage = value.(string)
		case "morning_entry":
			entry.MorningEntry = value.(string)
		case "evening_entry":
			entry.EveningEntry = value.(string)
		case "completed_offline":
			entry.CompletedOffline = value.(bool)
		case "review_notes":
			entry.ReviewNotes = value.(string)
		}
	}
}
