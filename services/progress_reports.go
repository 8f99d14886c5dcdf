// services/progress_reports.go - Calendar, stats and milestone views of progress
package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mattedmundson/crowd-hub/models"
	"github.com/mattedmundson/crowd-hub/utils"
)

// Calendar day statuses
const (
	DayStatusCompleted = "completed"
	DayStatusMissed    = "missed"
	DayStatusToday     = "today"
	DayStatusFuture    = "future"
)

type CalendarDay struct {
	Date             string `json:"date"`
	DayNumber        int    `json:"day_number"`
	Status           string `json:"status"`
	HasMorning       bool   `json:"has_morning"`
	HasEvening       bool   `json:"has_evening"`
	CompletedOffline bool   `json:"completed_offline"`
}

type CalendarStats struct {
	TotalDaysCompleted int     `json:"total_days_completed"`
	CurrentStreak      int     `json:"current_streak"`
	LongestStreak      int     `json:"longest_streak"`
	CompletionRate     float64 `json:"completion_rate"`
	ProgressToDate     float64 `json:"progress_to_date"`
	CurrentDay         int     `json:"current_day"`
	DaysRemaining      int     `json:"days_remaining"`
}

type CalendarData struct {
	CalendarDays []CalendarDay `json:"calendar_data"`
	Stats        CalendarStats `json:"stats"`
}

type WeeklyStat struct {
	Week           int     `json:"week"`
	DaysCompleted  int     `json:"days_completed"`
	TotalDays      int     `json:"total_days"`
	CompletionRate float64 `json:"completion_rate"`
}

type MonthlyStat struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type OverallStats struct {
	CalendarStats
	StartDate    string              `json:"start_date"`
	ScheduleType models.ScheduleType `json:"schedule_type"`
}

type ProgressStats struct {
	Overall OverallStats  `json:"overall"`
	Weekly  []WeeklyStat  `json:"weekly"`
	Monthly []MonthlyStat `json:"monthly"`
}

type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Unlocked    bool   `json:"unlocked"`
	Icon        string `json:"icon"`
}

// GetCalendarData builds the month view for a user challenge. month is
// YYYY-MM; empty selects the start month early in the challenge and the
// current month later on.
func (s *ProgressService) GetCalendarData(userChallengeID uuid.UUID, month string) (*CalendarData, error) {
	var uc models.UserChallenge
	if err := s.db.Preload("Challenge").First(&uc, "id = ?", userChallengeID).Error; err != nil {
		return nil, err
	}

	totalDays := uc.Challenge.TotalDays
	today := utils.DateOnly(s.now())
	currentDay := CurrentDay(uc.StartDate, today, totalDays)

	var targetMonth time.Time
	if month != "" {
		var err error
		targetMonth, err = utils.ParseMonth(month)
		if err != nil {
			return nil, fmt.Errorf("invalid month %q: %w", month, err)
		}
	} else if currentDay <= 31 {
		targetMonth = uc.StartDate
	} else {
		targetMonth = today
	}

	var entries []models.ChallengeEntry
	if err := s.db.Where("user_challenge_id = ?", uc.ID).Find(&entries).Error; err != nil {
		return nil, err
	}

	byDay := make(map[int]*models.ChallengeEntry, len(entries))
	for i := range entries {
		byDay[entries[i].DayNumber] = &entries[i]
	}

	firstOfMonth := time.Date(targetMonth.Year(), targetMonth.Month(), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := firstOfMonth.AddDate(0, 1, -1).Day()

	calendarDays := make([]CalendarDay, 0, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(targetMonth.Year(), targetMonth.Month(), day, 0, 0, 0, 0, time.UTC)
		dayNumber := utils.DaysBetween(uc.StartDate, date) + 1
		if dayNumber < 1 || dayNumber > totalDays {
			continue
		}

		entry := byDay[dayNumber]
		hasEntry := entry != nil && entry.IsCompleted()

		var status string
		switch {
		case dayNumber > currentDay:
			status = DayStatusFuture
		case hasEntry:
			status = DayStatusCompleted
		case dayNumber == currentDay:
			status = DayStatusToday
		default:
			status = DayStatusMissed
		}

		cd := CalendarDay{
			Date:      utils.FormatDate(date),
			DayNumber: dayNumber,
			Status:    status,
		}
		if entry != nil {
			cd.HasMorning = entry.MorningEntry != ""
			cd.HasEvening = entry.EveningEntry != ""
			cd.CompletedOffline = entry.CompletedOffline
		}
		calendarDays = append(calendarDays, cd)
	}

	return &CalendarData{
		CalendarDays: calendarDays,
		Stats:        s.calendarStats(&uc, entries, currentDay, totalDays),
	}, nil
}

// GetProgressStats returns the overall numbers plus weekly and monthly
// breakdowns.
func (s *ProgressService) GetProgressStats(userChallengeID uuid.UUID) (*ProgressStats, error) {
	var uc models.UserChallenge
	if err := s.db.Preload("Challenge").First(&uc, "id = ?", userChallengeID).Error; err != nil {
		return nil, err
	}

	totalDays := uc.Challenge.TotalDays
	currentDay := CurrentDay(uc.StartDate, s.now(), totalDays)

	var entries []models.ChallengeEntry
	if err := s.db.Where("user_challenge_id = ?", uc.ID).
		Order("day_number").Find(&entries).Error; err != nil {
		return nil, err
	}

	var completedDays []int
	for i := range entries {
		if entries[i].IsCompleted() {
			completedDays = append(completedDays, entries[i].DayNumber)
		}
	}

	weekly := make([]WeeklyStat, 0, (currentDay+6)/7)
	for week := 1; week <= (currentDay+6)/7; week++ {
		weekStart := (week-1)*7 + 1
		weekEnd := week * 7
		if weekEnd > currentDay {
			weekEnd = currentDay
		}

		done := 0
		for _, d := range completedDays {
			if d >= weekStart && d <= weekEnd {
				done++
			}
		}

		total := weekEnd - weekStart + 1
		weekly = append(weekly, WeeklyStat{
			Week:           week,
			DaysCompleted:  done,
			TotalDays:      total,
			CompletionRate: float64(done) / float64(total),
		})
	}

	counts := make(map[string]int)
	for _, d := range completedDays {
		date := uc.StartDate.AddDate(0, 0, d-1)
		counts[date.Format("2006-01")]++
	}
	months := make([]MonthlyStat, 0, len(counts))
	for m, n := range counts {
		months = append(months, MonthlyStat{Month: m, Count: n})
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })

	return &ProgressStats{
		Overall: OverallStats{
			CalendarStats: s.calendarStats(&uc, entries, currentDay, totalDays),
			StartDate:     utils.FormatDate(uc.StartDate),
			ScheduleType:  uc.ScheduleType,
		},
		Weekly:  weekly,
		Monthly: months,
	}, nil
}

func (s *ProgressService) calendarStats(uc *models.UserChallenge, entries []models.ChallengeEntry, currentDay, totalDays int) CalendarStats {
	completed := 0
	for i := range entries {
		if entries[i].IsCompleted() {
			completed++
		}
	}

	completionRate := 0.0
	if totalDays > 0 {
		completionRate = float64(completed) / float64(totalDays)
	}
	progressToDate := 0.0
	if currentDay > 0 {
		progressToDate = float64(completed) / float64(currentDay)
	}

	remaining := totalDays - currentDay + 1
	if remaining < 0 {
		remaining = 0
	}

	return CalendarStats{
		TotalDaysCompleted: completed,
		CurrentStreak:      uc.CurrentStreak,
		LongestStreak:      uc.LongestStreak,
		CompletionRate:     completionRate,
		ProgressToDate:     progressToDate,
		CurrentDay:         currentDay,
		DaysRemaining:      remaining,
	}
}

// Achievements derives the milestone badge list from the stored snapshot.
func (s *ProgressService) Achievements(userChallengeID uuid.UUID) ([]Achievement, error) {
	var uc models.UserChallenge
	if err := s.db.Preload("Challenge").First(&uc, "id = ?", userChallengeID).Error; err != nil {
		return nil, err
	}

	totalDays := uc.Challenge.TotalDays
	currentDay := CurrentDay(uc.StartDate, s.now(), totalDays)

	achievements := []Achievement{}

	dayMilestones := []int{1, 7, 14, 21, 30, 50, 75, 100}
	for _, m := range dayMilestones {
		if m > totalDays || currentDay < m {
			continue
		}
		desc := fmt.Sprintf("Completed %d days of the challenge", m)
		icon := "📅"
		if m == 1 {
			desc = "Welcome to your journey!"
		}
		if m == totalDays {
			icon = "🏆"
		}
		achievements = append(achievements, Achievement{
			ID:          fmt.Sprintf("day-%d", m),
			Title:       fmt.Sprintf("%d Day%s", m, plural(m)),
			Description: desc,
			Type:        "milestone",
			Unlocked:    true,
			Icon:        icon,
		})
	}

	streakMilestones := []int{3, 7, 14, 21, 30}
	for _, m := range streakMilestones {
		if uc.LongestStreak < m {
			continue
		}
		achievements = append(achievements, Achievement{
			ID:          fmt.Sprintf("streak-%d", m),
			Title:       fmt.Sprintf("%d-Day Streak", m),
			Description: fmt.Sprintf("Maintained the practice for %d consecutive days", m),
			Type:        "streak",
			Unlocked:    true,
			Icon:        "🔥",
		})
	}

	if uc.CurrentStreak >= 30 {
		achievements = append(achievements, Achievement{
			ID:          "consistency-master",
			Title:       "Consistency Master",
			Description: "Current streak of 30+ days",
			Type:        "special",
			Unlocked:    true,
			Icon:        "⭐",
		})
	}

	if uc.Completed {
		achievements = append(achievements, Achievement{
			ID:          "challenge-graduate",
			Title:       "Challenge Graduate",
			Description: fmt.Sprintf("Completed the %d-day challenge", totalDays),
			Type:        "completion",
			Unlocked:    true,
			Icon:        "🎓",
		})
	}

	typePriority := map[string]int{"completion": 0, "special": 1, "milestone": 2, "streak": 3}
	sort.SliceStable(achievements, func(i, j int) bool {
		return typePriority[achievements[i].Type] < typePriority[achievements[j].Type]
	})

	return achievements, nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
