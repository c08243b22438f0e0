package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"meetup-service/internal/config"
	"meetup-service/internal/models"
	"meetup-service/internal/storage"
)

// Creates the schema for the durable backends and seeds a few sample events,
// so a fresh deployment has something on the dashboard.
func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment variables")
	}
	cfg := config.Load()

	var sqldb *sql.DB
	var db *bun.DB
	var err error

	switch cfg.Storage.Driver {
	case "postgres":
		sqldb, err = sql.Open("postgres", cfg.Storage.PostgresDSN)
		if err != nil {
			log.Fatalf("Failed to open PostgreSQL: %v", err)
		}
		db = bun.NewDB(sqldb, pgdialect.New())
	default:
		sqldb, err = sql.Open(sqliteshim.ShimName, cfg.Storage.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to open sqlite: %v", err)
		}
		db = bun.NewDB(sqldb, sqlitedialect.New())
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Creating tables...")
	if err := storage.CreateSchema(ctx, db); err != nil {
		log.Fatalf("❌ Failed to create schema: %v", err)
	}

	log.Println("Seeding sample data...")
	if err := seedData(ctx, db); err != nil {
		log.Fatalf("❌ Failed to seed data: %v", err)
	}

	log.Println("✅ Done.")
}

func seedData(ctx context.Context, db *bun.DB) error {
	nextMonth := time.Now().AddDate(0, 1, 0)

	events := []models.Event{
		{
			ID:          uuid.New().String(),
			Title:       "Intro to Rust",
			Description: "Ownership, borrowing and why the compiler is your friend.",
			Date:        nextMonth.Format(storage.DateLayout),
			Time:        "18:00",
			Technology:  "rust",
			Status:      storage.StatusPending,
			CreatedAt:   time.Now(),
		},
		{
			ID:                uuid.New().String(),
			Title:             "Go Concurrency Patterns",
			Description:       "Channels, worker pools and context cancellation in practice.",
			Date:              nextMonth.AddDate(0, 0, 7).Format(storage.DateLayout),
			Time:              "19:00",
			Technology:        "go",
			SendNotifications: true,
			Status:            storage.StatusPending,
			CreatedAt:         time.Now(),
		},
	}
	if _, err := db.NewInsert().Model(&events).Exec(ctx); err != nil {
		return err
	}

	rsvp := models.Rsvp{
		ID:        uuid.New().String(),
		EventID:   events[0].ID,
		Email:     "ada@example.com",
		Name:      "Ada",
		CreatedAt: time.Now(),
	}
	if _, err := db.NewInsert().Model(&rsvp).Exec(ctx); err != nil {
		return err
	}
	_, err := db.NewUpdate().
		Model((*models.Event)(nil)).
		Set("attendees = attendees + 1").
		Where("id = ?", rsvp.EventID).
		Exec(ctx)
	return err
}
