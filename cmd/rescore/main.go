// Command rescore recomputes every contact's score once and exits. Run it
// from cron after imports or scoring-rule changes.
package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/maisondor/whatsapp-crm/internal/config"
	"github.com/maisondor/whatsapp-crm/internal/pkg/distlock"
	"github.com/maisondor/whatsapp-crm/internal/repository/postgres"
	"github.com/maisondor/whatsapp-crm/internal/service/rescore"

	_ "github.com/lib/pq" // PostgreSQL driver
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	// One batch at a time. Overlapping runs from cron would double-write
	// every score row for no benefit.
	lock := distlock.New(nil, db, "rescore:all", 30*time.Minute)
	acquired, err := lock.Acquire(ctx)
	if err != nil {
		log.Fatalf("Failed to acquire rescore lock: %v", err)
	}
	if !acquired {
		log.Println("[rescore] another run is in progress, exiting")
		return
	}
	defer lock.Release(context.Background())

	svc := rescore.NewService(
		postgres.NewContactRepo(db),
		postgres.NewScoreRepo(db),
		cfg.Rescore.Workers,
	)

	start := time.Now()
	scored, failed, err := svc.RescoreAll(ctx)
	if err != nil {
		log.Fatalf("Rescore failed: %v", err)
	}
	log.Printf("[rescore] %d scored, %d failed in %s", scored, failed, time.Since(start).Round(time.Millisecond))
	if failed > 0 {
		os.Exit(1)
	}
}
