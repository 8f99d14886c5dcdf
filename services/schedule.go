// services/schedule.go - Day/week resolution for challenge schedules
//
// Two advancement models exist. Plain daily challenges move with the
// calendar: the start date is day 1 and every calendar day advances the
// day number. Weekly challenges advance on completion count instead, so a
// missed day never skips content forward.
package services

import (
	"time"

	"github.com/mattedmundson/crowd-hub/utils"
)

// clampDay forces a day number into [1, totalDays]. Out-of-range requests
// resolve to the nearest valid day, never an error.
func clampDay(day, totalDays int) int {
	if day < 1 {
		return 1
	}
	if totalDays > 0 && day > totalDays {
		return totalDays
	}
	return day
}

// CurrentDay resolves the calendar-driven day number: the start date itself
// is day 1.
func CurrentDay(startDate, today time.Time, totalDays int) int {
	return clampDay(utils.DaysBetween(startDate, today)+1, totalDays)
}

// CurrentUnit resolves the completion-driven day number: always the first
// day without a completed entry, capped at the challenge length.
func CurrentUnit(totalCompleted, totalDays int) int {
	return clampDay(totalCompleted+1, totalDays)
}

// IsReviewUnit reports whether a day number lands on a periodic review
// boundary. An interval of zero or less means the challenge has no review
// days.
func IsReviewUnit(dayNumber, reviewInterval int) bool {
	if reviewInterval <= 0 {
		return false
	}
	return dayNumber%reviewInterval == 0
}

// IsReviewDay reports whether today is the weekly review day.
func IsReviewDay(today time.Time, reviewWeekday time.Weekday) bool {
	return today.Weekday() == reviewWeekday
}

// CurrentWeek returns the 1-based week of the challenge: days 1-7 are week
// 1, days 8-14 week 2, and so on.
func CurrentWeek(startDate, today time.Time) int {
	days := utils.DaysBetween(startDate, today)
	if days < 0 {
		return 1
	}
	return days/7 + 1
}
