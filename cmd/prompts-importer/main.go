// cmd/prompts-importer - Imports challenge prompt content from a CSV export.
//
// Expected columns: DONE, DAY No, REF, SCRIPTURE, CONTEXT, PROMPT, REFLECTION.
// Rows without a day number are skipped. Existing prompts for a day are
// updated rather than duplicated, so re-running an import is safe.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mattedmundson/crowd-hub/models"
	"github.com/mattedmundson/crowd-hub/scripture"
)

func main() {
	csvPath := flag.String("file", "", "path to the prompts CSV")
	challengeID := flag.String("challenge", "", "challenge UUID to attach the prompts to")
	flag.Parse()

	if *csvPath == "" || *challengeID == "" {
		flag.Usage()
		os.Exit(1)
	}

	cid, err := uuid.Parse(*challengeID)
	if err != nil {
		log.Fatalf("Invalid challenge ID %q: %v", *challengeID, err)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL must be set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	var challenge models.Challenge
	if err := db.First(&challenge, "id = ?", cid).Error; err != nil {
		log.Fatalf("Challenge %s not found: %v", cid, err)
	}
	fmt.Printf("Importing prompts into %q (%d days)\n\n", challenge.Title, challenge.TotalDays)

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatal("Failed to open CSV file:", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		log.Fatal("Failed to parse CSV:", err)
	}
	if len(rows) < 2 {
		log.Fatal("CSV has no data rows")
	}

	cols := columnIndex(rows[0])

	imported, updated, skipped := 0, 0, 0
	for _, row := range rows[1:] {
		day, err := strconv.Atoi(strings.TrimSpace(cell(row, cols, "day no")))
		if err != nil || day < 1 || day > challenge.TotalDays {
			skipped++
			continue
		}

		prompt := models.ChallengePrompt{
			ChallengeID:       cid,
			DayNumber:         day,
			ScriptureText:     scripture.Clean(cell(row, cols, "scripture")),
			ContextText:       scripture.Clean(cell(row, cols, "context")),
			MorningPrompt:     scripture.Clean(cell(row, cols, "prompt")),
			EveningReflection: scripture.Clean(cell(row, cols, "reflection")),
		}

		prompt.ScriptureReference = scripture.NormalizeReference(cell(row, cols, "ref"))
		if prompt.ScriptureReference == "" && prompt.ScriptureText != "" {
			// Some sheets combine reference and verse in one cell
			if ref, text := scripture.SplitLine(prompt.ScriptureText); ref != "" {
				prompt.ScriptureReference = ref
				prompt.ScriptureText = text
			}
		}

		if prompt.MorningPrompt == "" {
			log.Printf("Skipping day %d: no prompt text", day)
			skipped++
			continue
		}

		var existing models.ChallengePrompt
		err = db.Where("challenge_id = ? AND day_number = ?", cid, day).First(&existing).Error
		if err == nil {
			prompt.ID = existing.ID
			prompt.CreatedAt = existing.CreatedAt
			if err := db.Save(&prompt).Error; err != nil {
				log.Printf("Failed to update day %d: %v", day, err)
				continue
			}
			updated++
			continue
		}

		if err := db.Create(&prompt).Error; err != nil {
			log.Printf("Failed to import day %d: %v", day, err)
			continue
		}
		imported++
	}

	fmt.Printf("\n✓ Import complete: %d created, %d updated, %d skipped\n", imported, updated, skipped)

	var count int64
	db.Model(&models.ChallengePrompt{}).Where("challenge_id = ?", cid).Count(&count)
	fmt.Printf("✓ Challenge now has %d prompts\n", count)
}

// columnIndex maps normalized header names to their positions. Header
// variants like "CONTEXT (CI: REFLECTION)" collapse to their first word.
func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if idx := strings.Index(name, "("); idx > 0 {
			name = strings.TrimSpace(name[:idx])
		}
		cols[name] = i
	}
	return cols
}

func cell(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}
