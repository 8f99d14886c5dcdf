// handlers/entries.go
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mattedmundson/crowd-hub/middleware"
	"github.com/mattedmundson/crowd-hub/models"
	"github.com/mattedmundson/crowd-hub/services"
)

type SaveEntryRequest struct {
	UserChallengeID uuid.UUID        `json:"user_challenge_id"`
	DayNumber       int              `json:"day_number"`
	EntryType       models.EntryType `json:"entry_type"`
	Content         string           `json:"content"`
}

type MarkOfflineRequest struct {
	UserChallengeID uuid.UUID `json:"user_challenge_id"`
	DayNumber       int       `json:"day_number"`
}

type ReviewNotesRequest struct {
	UserChallengeID uuid.UUID `json:"user_challenge_id"`
	DayNumber       int       `json:"day_number"`
	Notes           string    `json:"notes"`
}

// SaveEntry upserts one field of a day's journal entry
func SaveEntry(c *fiber.Ctx) error {
	var req SaveEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if _, err := req.EntryType.Column(); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid entry type"})
	}

	if err := requireOwnership(c, req.UserChallengeID); err != nil {
		return err
	}

	entry, err := entryService.SaveEntry(services.SaveEntryParams{
		UserChallengeID: req.UserChallengeID,
		DayNumber:       req.DayNumber,
		EntryType:       req.EntryType,
		Content:         req.Content,
	})
	if err != nil {
		return entryError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "entry": entry})
}

// MarkOfflineComplete records a day completed away from the device
func MarkOfflineComplete(c *fiber.Ctx) error {
	var req MarkOfflineRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := requireOwnership(c, req.UserChallengeID); err != nil {
		return err
	}

	entry, err := entryService.MarkOfflineComplete(req.UserChallengeID, req.DayNumber)
	if err != nil {
		return entryError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "entry": entry})
}

// AddReviewNotes attaches reflection notes to a day's entry
func AddReviewNotes(c *fiber.Ctx) error {
	var req ReviewNotesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := requireOwnership(c, req.UserChallengeID); err != nil {
		return err
	}

	entry, err := entryService.AddReviewNotes(req.UserChallengeID, req.DayNumber, req.Notes)
	if err != nil {
		return entryError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "entry": entry})
}

// GetEntry returns the entry for one day of a user challenge
func GetEntry(c *fiber.Ctx) error {
	uc, err := requireOwnUserChallenge(c)
	if err != nil {
		return err
	}

	day, err := c.ParamsInt("day")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid day number"})
	}

	entry, err := entryService.GetEntry(uc.ID, day)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch entry"})
	}

	return c.JSON(fiber.Map{"success": true, "entry": entry})
}

// GetWeeklyReview returns the week of entries ending before the given day
func GetWeeklyReview(c *fiber.Ctx) error {
	uc, err := requireOwnUserChallenge(c)
	if err != nil {
		return err
	}

	weekEnd, err := c.ParamsInt("weekEnd")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid week end day"})
	}

	review, err := entryService.GetWeeklyReview(uc.ID, weekEnd)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch weekly review"})
	}

	return c.JSON(fiber.Map{"success": true, "entries": review})
}

// requireOwnership verifies the caller owns the user challenge named in a
// request body.
func requireOwnership(c *fiber.Ctx, userChallengeID uuid.UUID) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	uc, err := challengeService.GetUserChallenge(userChallengeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "User challenge not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch user challenge"})
	}

	if uc.UserID != userID {
		return c.Status(403).JSON(fiber.Map{"error": "Access denied"})
	}

	return nil
}

func entryError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrChallengeCompleted):
		return c.Status(409).JSON(fiber.Map{"error": "Challenge is already completed"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "User challenge not found"})
	default:
		return c.Status(500).JSON(fiber.Map{"error": "Failed to save entry"})
	}
}
