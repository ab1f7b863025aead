// Command import pulls contact CSVs from the configured S3 bucket and loads
// them through the normalizing intake path.
package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/maisondor/whatsapp-crm/internal/config"
	"github.com/maisondor/whatsapp-crm/internal/importer"
	"github.com/maisondor/whatsapp-crm/internal/repository/postgres"
	"github.com/maisondor/whatsapp-crm/internal/service/contact"

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
	if cfg.Importer.S3Bucket == "" {
		log.Fatal("importer.s3_bucket is not configured")
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Minute)
	defer cancel()

	src, err := importer.NewS3Source(ctx, importer.S3Config{
		Region:     cfg.Importer.S3Region,
		AWSProfile: cfg.Importer.AWSProfile,
		Bucket:     cfg.Importer.S3Bucket,
		Prefix:     cfg.Importer.S3Prefix,
	})
	if err != nil {
		log.Fatalf("Failed to create S3 source: %v", err)
	}

	imp := importer.New(contact.NewService(postgres.NewContactRepo(db)))

	keys, err := src.ListCSVKeys(ctx)
	if err != nil {
		log.Fatalf("Failed to list CSVs: %v", err)
	}
	if len(keys) == 0 {
		log.Println("[import] no CSV files found")
		return
	}

	for _, key := range keys {
		sum, err := imp.ImportObject(ctx, src, key)
		if err != nil {
			log.Printf("[import] %s: %v", key, err)
			continue
		}
		log.Printf("[import] %s: %d rows, %d imported, %d skipped, %d failed",
			key, sum.Rows, sum.Imported, sum.Skipped, sum.Failed)
	}
}
