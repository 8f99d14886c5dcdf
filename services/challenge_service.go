// services/challenge_service.go - Challenge catalog and daily content coordinator
package services

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mattedmundson/crowd-hub/models"
	"github.com/mattedmundson/crowd-hub/utils"
)

// ErrChallengeAlreadyActive is returned when a user starts a challenge they
// already have running.
var ErrChallengeAlreadyActive = errors.New("challenge already active")

// TodaysContent is everything the dashboard needs for one page load.
type TodaysContent struct {
	DayNumber   int                     `json:"day_number"`
	IsReviewDay bool                    `json:"is_review_day"`
	WeekNumber  int                     `json:"week_number"`
	Prompt      *models.ChallengePrompt `json:"prompt"`
	Entry       *models.ChallengeEntry  `json:"entry"`
	Progress    *Progress               `json:"progress"`
}

type ChallengeService struct {
	db       *gorm.DB
	progress *ProgressService
	now      func() time.Time
}

func NewChallengeService(db *gorm.DB) *ChallengeService {
	return &ChallengeService{db: db, progress: NewProgressService(db), now: time.Now}
}

// ListChallenges returns the challenge catalog, newest first. Regular users
// only see active challenges.
func (s *ChallengeService) ListChallenges(includeInactive bool) ([]models.Challenge, error) {
	var challenges []models.Challenge
	query := s.db.Order("created_at DESC")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	err := query.Find(&challenges).Error
	return challenges, err
}

// GetChallenge returns one challenge definition.
func (s *ChallengeService) GetChallenge(id uuid.UUID) (*models.Challenge, error) {
	var challenge models.Challenge
	if err := s.db.First(&challenge, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

// GetUserChallenge returns a user challenge with its definition preloaded.
func (s *ChallengeService) GetUserChallenge(id uuid.UUID) (*models.UserChallenge, error) {
	var uc models.UserChallenge
	if err := s.db.Preload("Challenge").First(&uc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &uc, nil
}

// GetCurrentChallenge returns the user's newest active enrollment, or nil
// when they have none. Absence is an empty state, not an error.
func (s *ChallengeService) GetCurrentChallenge(userID uuid.UUID) (*models.UserChallenge, error) {
	var uc models.UserChallenge
	err := s.db.Preload("Challenge").
		Where("user_id = ? AND completed = ?", userID, false).
		Order("start_date DESC").
		First(&uc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &uc, nil
}

// GetActiveChallenges returns all of the user's active enrollments.
func (s *ChallengeService) GetActiveChallenges(userID uuid.UUID) ([]models.UserChallenge, error) {
	var ucs []models.UserChallenge
	err := s.db.Preload("Challenge").
		Where("user_id = ? AND completed = ?", userID, false).
		Order("start_date DESC").
		Find(&ucs).Error
	return ucs, err
}

// StartChallenge enrolls a user in a challenge starting today. A second
// active enrollment in the same challenge is rejected; restarting after
// completion creates a fresh enrollment.
func (s *ChallengeService) StartChallenge(userID, challengeID uuid.UUID, scheduleType models.ScheduleType) (*models.UserChallenge, error) {
	if !scheduleType.Valid() {
		return nil, errors.New("invalid schedule type")
	}

	if _, err := s.GetChallenge(challengeID); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.UserChallenge{}).
		Where("user_id = ? AND challenge_id = ? AND completed = ?", userID, challengeID, false).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrChallengeAlreadyActive
	}

	uc := &models.UserChallenge{
		UserID:          userID,
		ChallengeID:     challengeID,
		StartDate:       utils.DateOnly(s.now()),
		ScheduleType:    scheduleType,
		WeeklyReviewDay: int(time.Sunday),
		WeeklyGoal:      5,
		CurrentDay:      1,
	}

	if err := s.db.Create(uc).Error; err != nil {
		return nil, err
	}

	if err := s.db.Preload("Challenge").First(uc, "id = ?", uc.ID).Error; err != nil {
		return nil, err
	}

	return uc, nil
}

// GetTodaysContent resolves today's day number, loads its prompt and any
// existing entry, and refreshes the progress snapshot. A missing prompt is
// logged and returned as nil rather than failing the page.
func (s *ChallengeService) GetTodaysContent(userChallengeID uuid.UUID) (*TodaysContent, error) {
	uc, err := s.GetUserChallenge(userChallengeID)
	if err != nil {
		return nil, err
	}

	challenge := uc.Challenge
	today := s.now()

	var dayNumber int
	var reviewDay bool
	if challenge.IsWeekly {
		dayNumber = CurrentUnit(uc.TotalCompleted, challenge.TotalDays)
		reviewDay = IsReviewDay(today, time.Weekday(uc.WeeklyReviewDay))
	} else {
		dayNumber = CurrentDay(uc.StartDate, today, challenge.TotalDays)
		reviewDay = IsReviewUnit(dayNumber, challenge.ReviewInterval)
	}

	var prompt *models.ChallengePrompt
	if !reviewDay {
		var p models.ChallengePrompt
		err := s.db.Where("challenge_id = ? AND day_number = ?", challenge.ID, dayNumber).
			First(&p).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			log.Printf("No prompt for challenge %s day %d", challenge.ID, dayNumber)
		case err != nil:
			log.Printf("Failed to fetch prompt for challenge %s day %d: %v", challenge.ID, dayNumber, err)
		default:
			prompt = &p
		}
	}

	entry := &models.ChallengeEntry{UserChallengeID: uc.ID, DayNumber: dayNumber}
	if !reviewDay {
		var e models.ChallengeEntry
		err := s.db.Where("user_challenge_id = ? AND day_number = ?", uc.ID, dayNumber).
			First(&e).Error
		if err == nil {
			entry = &e
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	progress, err := s.progress.recalculate(uc)
	if err != nil {
		return nil, err
	}

	return &TodaysContent{
		DayNumber:   dayNumber,
		IsReviewDay: reviewDay,
		WeekNumber:  CurrentWeek(uc.StartDate, today),
		Prompt:      prompt,
		Entry:       entry,
		Progress:    progress,
	}, nil
}
