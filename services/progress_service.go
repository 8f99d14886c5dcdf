// services/progress_service.go - Progress aggregation and write-back
package services

import (
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mattedmundson/crowd-hub/models"
	"github.com/mattedmundson/crowd-hub/utils"
)

// Progress is the denormalized snapshot returned to callers and written
// back onto the user_challenges row.
type Progress struct {
	CurrentStreak  int     `json:"current_streak"`
	LongestStreak  int     `json:"longest_streak"`
	CompletionRate float64 `json:"completion_rate"`
	TotalCompleted int     `json:"total_completed"`
	CurrentDay     int     `json:"current_day"`
	TotalDays      int     `json:"total_days"`
	Completed      bool    `json:"completed"`
}

type ProgressService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{db: db, now: time.Now}
}

// Streaks computes the current and longest runs of consecutive day numbers.
// The slice need not be sorted or deduplicated. Current streak is the run
// ending at the highest completed day.
func Streaks(days []int) (current, longest int) {
	if len(days) == 0 {
		return 0, 0
	}

	sorted := make([]int, len(days))
	copy(sorted, days)
	sort.Ints(sorted)

	longest = 1
	run := 1
	for i := 1; i < len(sorted); i++ {
		switch {
		case sorted[i] == sorted[i-1]:
			continue
		case sorted[i] == sorted[i-1]+1:
			run++
		default:
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	current = 1
	for i := len(sorted) - 2; i >= 0; i-- {
		if sorted[i] == sorted[i+1] {
			continue
		}
		if sorted[i] != sorted[i+1]-1 {
			break
		}
		current++
	}

	return current, longest
}

// Recalculate recomputes the progress snapshot for a user challenge from
// its entries and writes it back.
func (s *ProgressService) Recalculate(userChallengeID uuid.UUID) (*Progress, error) {
	var uc models.UserChallenge
	if err := s.db.Preload("Challenge").First(&uc, "id = ?", userChallengeID).Error; err != nil {
		return nil, err
	}
	return s.recalculate(&uc)
}

// recalculate is the aggregator proper. It derives the snapshot purely from
// the persisted entries, so running it twice over unchanged entries yields
// identical results and concurrent write-backs converge once the last save
// lands. A failed write-back is logged and swallowed: the entries are the
// source of truth and the computed values are still returned.
func (s *ProgressService) recalculate(uc *models.UserChallenge) (*Progress, error) {
	totalDays := 0
	if uc.Challenge != nil {
		totalDays = uc.Challenge.TotalDays
	}

	var entries []models.ChallengeEntry
	if err := s.db.Where("user_challenge_id = ?", uc.ID).
		Order("day_number").Find(&entries).Error; err != nil {
		return nil, err
	}

	var completedDays []int
	var lastEntryAt *time.Time
	for i := range entries {
		if !entries[i].IsCompleted() {
			continue
		}
		completedDays = append(completedDays, entries[i].DayNumber)
		created := utils.DateOnly(entries[i].CreatedAt)
		lastEntryAt = &created
	}

	currentStreak, longestStreak := Streaks(completedDays)
	totalCompleted := len(completedDays)
	nextDay := CurrentUnit(totalCompleted, totalDays)
	completed := totalDays > 0 && totalCompleted >= totalDays

	completionRate := 0.0
	if totalDays > 0 {
		completionRate = float64(totalCompleted) / float64(totalDays)
	}

	updates := map[string]interface{}{
		"current_day":     nextDay,
		"total_completed": totalCompleted,
		"current_streak":  currentStreak,
		"longest_streak":  longestStreak,
		"last_entry_date": lastEntryAt,
		"completed":       completed,
	}

	if err := s.db.Model(&models.UserChallenge{}).
		Where("id = ?", uc.ID).Updates(updates).Error; err != nil {
		log.Printf("Failed to write back progress for user challenge %s: %v", uc.ID, err)
	}

	return &Progress{
		CurrentStreak:  currentStreak,
		LongestStreak:  longestStreak,
		CompletionRate: completionRate,
		TotalCompleted: totalCompleted,
		CurrentDay:     nextDay,
		TotalDays:      totalDays,
		Completed:      completed,
	}, nil
}
