// handlers/challenges.go
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mattedmundson/crowd-hub/database"
	"github.com/mattedmundson/crowd-hub/middleware"
	"github.com/mattedmundson/crowd-hub/models"
	"github.com/mattedmundson/crowd-hub/services"
)

var (
	challengeService *services.ChallengeService
	entryService     *services.EntryService
	progressService  *services.ProgressService
)

// InitHandlers wires the handler package to the shared database connection.
func InitHandlers() {
	db := database.GetDB()
	challengeService = services.NewChallengeService(db)
	entryService = services.NewEntryService(db)
	progressService = services.NewProgressService(db)
}

type StartChallengeRequest struct {
	ChallengeID  uuid.UUID           `json:"challenge_id"`
	ScheduleType models.ScheduleType `json:"schedule_type"`
}

// GetChallenges returns the catalog of active challenges
func GetChallenges(c *fiber.Ctx) error {
	challenges, err := challengeService.ListChallenges(false)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch challenges"})
	}

	return c.JSON(fiber.Map{"success": true, "challenges": challenges, "total": len(challenges)})
}

// GetChallenge returns a single challenge definition
func GetChallenge(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid challenge ID"})
	}

	challenge, err := challengeService.GetChallenge(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "Challenge not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch challenge"})
	}

	return c.JSON(fiber.Map{"success": true, "challenge": challenge})
}

// StartChallenge enrolls the authenticated user in a challenge
func StartChallenge(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req StartChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	uc, err := challengeService.StartChallenge(userID, req.ChallengeID, req.ScheduleType)
	switch {
	case errors.Is(err, services.ErrChallengeAlreadyActive):
		return c.Status(409).JSON(fiber.Map{"error": "You already have this challenge active"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "Challenge not found"})
	case err != nil:
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "user_challenge": uc})
}

// GetCurrentChallenge returns the user's newest active enrollment
func GetCurrentChallenge(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	uc, err := challengeService.GetCurrentChallenge(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch current challenge"})
	}

	// No active challenge is an empty state, not an error
	return c.JSON(fiber.Map{"success": true, "user_challenge": uc})
}

// GetActiveChallenges returns all of the user's active enrollments
func GetActiveChallenges(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	ucs, err := challengeService.GetActiveChallenges(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch active challenges"})
	}

	return c.JSON(fiber.Map{"success": true, "user_challenges": ucs, "total": len(ucs)})
}

// GetTodaysContent returns the day number, prompt, entry and progress for
// one page load of the dashboard
func GetTodaysContent(c *fiber.Ctx) error {
	uc, err := requireOwnUserChallenge(c)
	if err != nil {
		return err
	}

	content, err := challengeService.GetTodaysContent(uc.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch today's content"})
	}

	return c.JSON(fiber.Map{"success": true, "content": content})
}

// requireOwnUserChallenge loads the :id user challenge and verifies the
// caller owns it (admins may read any).
func requireOwnUserChallenge(c *fiber.Ctx) (*models.UserChallenge, error) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return nil, c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, c.Status(400).JSON(fiber.Map{"error": "Invalid user challenge ID"})
	}

	uc, err := challengeService.GetUserChallenge(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, c.Status(404).JSON(fiber.Map{"error": "User challenge not found"})
	}
	if err != nil {
		return nil, c.Status(500).JSON(fiber.Map{"error": "Failed to fetch user challenge"})
	}

	role, _ := c.Locals("role").(string)
	if uc.UserID != userID && role != models.RoleAdmin {
		return nil, c.Status(403).JSON(fiber.Map{"error": "Access denied"})
	}

	return uc, nil
}
