package main

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

type seedPlayer struct {
	ID   string
	Name string
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	// Connect directly to the primary database
	dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		log.Fatalf("Failed to open primary database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to primary database: %s", err)
	}

	log.Info("Successfully connected to the primary database.")

	// Create 4 dummy players to use in matches
	dummyPlayers := []seedPlayer{
		{ID: "player-1", Name: "Seeder Player A"},
		{ID: "player-2", Name: "Seeder Player B"},
		{ID: "player-3", Name: "Seeder Player C"},
		{ID: "player-4", Name: "Seeder Player D"},
	}

	for _, p := range dummyPlayers {
		_, err := db.Exec("INSERT OR IGNORE INTO profiles (id, name, email, level, created_at) VALUES (?, ?, ?, ?, ?)",
			p.ID, p.Name, strings.ToLower(strings.ReplaceAll(p.Name, " ", "."))+"@example.com", 4.0, time.Now().Unix())
		if err != nil {
			log.Fatalf("Failed to insert dummy player %s: %s", p.Name, err)
		}
	}
	log.Info("Ensured dummy players exist.")

	const batchSize = 100 // Insert 100 matches at a time
	const numMatches = 10000

	log.Info("Preparing to insert dummy matches...", "total", numMatches, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	valueStrings := make([]string, 0, batchSize)
	valueArgs := make([]interface{}, 0, batchSize*14)

	flush := func() {
		if len(valueStrings) == 0 {
			return
		}
		stmt := fmt.Sprintf(`INSERT INTO matches
			(id, organizer_id, club_name, city, scheduled_at, spots_available, status, organizer_team, winner, set1_a, set1_b, set2_a, set2_b, created_at)
			VALUES %s`, strings.Join(valueStrings, ","))
		if _, err := tx.Exec(stmt, valueArgs...); err != nil {
			tx.Rollback()
			log.Fatalf("Failed to insert match batch: %s", err)
		}
		valueStrings = valueStrings[:0]
		valueArgs = valueArgs[:0]
	}

	for i := 0; i < numMatches; i++ {
		matchTime := time.Now().Add(-time.Duration(rand.Intn(365*24)) * time.Hour)
		winner := "A"
		if rand.Intn(2) == 1 {
			winner = "B"
		}

		valueStrings = append(valueStrings, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		valueArgs = append(valueArgs,
			uuid.NewString(),
			dummyPlayers[0].ID,
			"Seeder Padel Club",
			"Lisbon",
			matchTime.Unix(),
			0,
			"completed",
			"A",
			winner,
			6, 4,
			6, rand.Intn(6),
			matchTime.Add(-48*time.Hour).Unix(),
		)

		if len(valueStrings) == batchSize {
			flush()
		}
	}
	flush()

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit seed transaction: %s", err)
	}

	log.Info("Seeding complete.", "matches", numMatches, "duration", time.Since(startTime))
}
