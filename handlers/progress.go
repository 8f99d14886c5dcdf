// handlers/progress.go
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mattedmundson/crowd-hub/utils"
)

// GetProgressStats returns overall, weekly and monthly progress figures
func GetProgressStats(c *fiber.Ctx) error {
	uc, err := requireOwnUserChallenge(c)
	if err != nil {
		return err
	}

	stats, err := progressService.GetProgressStats(uc.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch progress stats"})
	}

	return c.JSON(fiber.Map{"success": true, "stats": stats})
}

// GetCalendarData returns the month view of completed and missed days
func GetCalendarData(c *fiber.Ctx) error {
	month := c.Query("month", "")
	if month != "" {
		if _, err := utils.ParseMonth(month); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid month, expected YYYY-MM"})
		}
	}

	uc, err := requireOwnUserChallenge(c)
	if err != nil {
		return err
	}

	data, err := progressService.GetCalendarData(uc.ID, month)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch calendar data"})
	}

	return c.JSON(fiber.Map{"success": true, "calendar": data})
}

// GetAchievements returns the user's unlocked milestone badges
func GetAchievements(c *fiber.Ctx) error {
	uc, err := requireOwnUserChallenge(c)
	if err != nil {
		return err
	}

	achievements, err := progressService.Achievements(uc.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch achievements"})
	}

	return c.JSON(fiber.Map{"success": true, "achievements": achievements, "total": len(achievements)})
}
