// database/migrate.go - Database Migration Runner
package database

import (
	"log"

	"github.com/mattedmundson/crowd-hub/models"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.User{},
		&models.Challenge{},
		&models.ChallengePrompt{},
		&models.UserChallenge{},
		&models.ChallengeEntry{},
	); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	createIndexes()

	log.Println("✅ All migrations completed successfully")
}

// createIndexes creates indexes beyond what AutoMigrate derives from tags
func createIndexes() {
	db := GetDB()
	log.Println("Creating indexes...")

	// User indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_role ON users(role)")

	// Challenge indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_challenges_active ON challenges(is_active)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_challenges_created ON challenges(created_at DESC)")

	// Prompt lookup is always (challenge, day)
	db.Exec("CREATE INDEX IF NOT EXISTS idx_prompts_day ON challenge_prompts(challenge_id, day_number)")

	// User challenge indexes: duplicate-start check and newest-active lookup
	db.Exec("CREATE INDEX IF NOT EXISTS idx_user_challenges_active ON user_challenges(user_id, challenge_id, completed)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_user_challenges_start ON user_challenges(user_id, start_date DESC)")

	// Entry indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_entries_day ON challenge_entries(user_challenge_id, day_number)")

	log.Println("✅ Indexes created successfully")
}
