// handlers/admin/challenges.go - Admin challenge and prompt management
package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mattedmundson/crowd-hub/database"
	"github.com/mattedmundson/crowd-hub/models"
	"github.com/mattedmundson/crowd-hub/scripture"
)

type ChallengeRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	TotalDays      int    `json:"total_days"`
	Category       string `json:"category"`
	IsWeekly       bool   `json:"is_weekly"`
	ReviewInterval int    `json:"review_interval"`
	IsActive       *bool  `json:"is_active"`
}

type PromptRequest struct {
	DayNumber          int    `json:"day_number"`
	ScriptureReference string `json:"scripture_reference"`
	ScriptureText      string `json:"scripture_text"`
	ContextText        string `json:"context_text"`
	MorningPrompt      string `json:"morning_prompt"`
	EveningReflection  string `json:"evening_reflection"`
}

// GetChallenges returns every challenge, inactive ones included
func GetChallenges(c *fiber.Ctx) error {
	db := database.GetDB()

	var challenges []models.Challenge
	if err := db.Order("created_at DESC").Find(&challenges).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch challenges"})
	}

	return c.JSON(fiber.Map{"challenges": challenges, "total": len(challenges)})
}

// CreateChallenge adds a new challenge to the catalog
func CreateChallenge(c *fiber.Ctx) error {
	var req ChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Title == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Title is required"})
	}
	if req.TotalDays <= 0 {
		req.TotalDays = 100
	}

	challenge := models.Challenge{
		Title:          req.Title,
		Description:    req.Description,
		TotalDays:      req.TotalDays,
		Category:       req.Category,
		IsWeekly:       req.IsWeekly,
		ReviewInterval: req.ReviewInterval,
		IsActive:       true,
	}
	if req.IsActive != nil {
		challenge.IsActive = *req.IsActive
	}

	db := database.GetDB()
	if err := db.Create(&challenge).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create challenge"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "challenge": challenge})
}

// UpdateChallenge edits a challenge definition
func UpdateChallenge(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid challenge ID"})
	}

	var req ChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	db := database.GetDB()

	var challenge models.Challenge
	if err := db.First(&challenge, "id = ?", id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Challenge not found"})
	}

	updates := map[string]interface{}{
		"title":           req.Title,
		"description":     req.Description,
		"category":        req.Category,
		"is_weekly":       req.IsWeekly,
		"review_interval": req.ReviewInterval,
	}
	if req.TotalDays > 0 {
		updates["total_days"] = req.TotalDays
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := db.Model(&challenge).Updates(updates).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update challenge"})
	}

	return c.JSON(fiber.Map{"success": true, "challenge": challenge})
}

// DeleteChallenge removes a challenge and its prompts
func DeleteChallenge(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid challenge ID"})
	}

	db := database.GetDB()

	var challenge models.Challenge
	if err := db.First(&challenge, "id = ?", id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Challenge not found"})
	}

	db.Where("challenge_id = ?", id).Delete(&models.ChallengePrompt{})
	if err := db.Delete(&challenge).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete challenge"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// GetPrompts returns all prompts for a challenge ordered by day
func GetPrompts(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid challenge ID"})
	}

	db := database.GetDB()

	var prompts []models.ChallengePrompt
	if err := db.Where("challenge_id = ?", id).Order("day_number").Find(&prompts).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch prompts"})
	}

	return c.JSON(fiber.Map{"prompts": prompts, "total": len(prompts)})
}

// CreatePrompt adds one day's prompt to a challenge
func CreatePrompt(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid challenge ID"})
	}

	var req PromptRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.DayNumber < 1 {
		return c.Status(400).JSON(fiber.Map{"error": "Day number must be positive"})
	}
	if req.MorningPrompt == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Morning prompt is required"})
	}

	// Normalize the scripture reference when it parses; keep the raw text
	// otherwise so odd references are not silently dropped.
	ref := req.ScriptureReference
	if normalized := scripture.NormalizeReference(ref); normalized != "" {
		ref = normalized
	}

	prompt := models.ChallengePrompt{
		ChallengeID:        id,
		DayNumber:          req.DayNumber,
		ScriptureReference: ref,
		ScriptureText:      scripture.Clean(req.ScriptureText),
		ContextText:        req.ContextText,
		MorningPrompt:      req.MorningPrompt,
		EveningReflection:  req.EveningReflection,
	}

	db := database.GetDB()
	if err := db.Create(&prompt).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create prompt (duplicate day?)"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "prompt": prompt})
}

// UpdatePrompt edits one prompt
func UpdatePrompt(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid prompt ID"})
	}

	var req PromptRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	db := database.GetDB()

	var prompt models.ChallengePrompt
	if err := db.First(&prompt, "id = ?", id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Prompt not found"})
	}

	ref := req.ScriptureReference
	if normalized := scripture.NormalizeReference(ref); normalized != "" {
		ref = normalized
	}

	updates := map[string]interface{}{
		"scripture_reference": ref,
		"scripture_text":      scripture.Clean(req.ScriptureText),
		"context_text":        req.ContextText,
		"evening_reflection":  req.EveningReflection,
	}
	if req.MorningPrompt != "" {
		updates["morning_prompt"] = req.MorningPrompt
	}
	if req.DayNumber > 0 {
		updates["day_number"] = req.DayNumber
	}

	if err := db.Model(&prompt).Updates(updates).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update prompt"})
	}

	return c.JSON(fiber.Map{"success": true, "prompt": prompt})
}

// DeletePrompt removes one prompt
func DeletePrompt(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid prompt ID"})
	}

	db := database.GetDB()

	if err := db.Delete(&models.ChallengePrompt{}, "id = ?", id).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete prompt"})
	}

	return c.JSON(fiber.Map{"success": true})
}
