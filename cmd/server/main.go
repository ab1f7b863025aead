package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maisondor/whatsapp-crm/internal/api"
	"github.com/maisondor/whatsapp-crm/internal/config"
	"github.com/maisondor/whatsapp-crm/internal/domain"
	"github.com/maisondor/whatsapp-crm/internal/message"
	"github.com/maisondor/whatsapp-crm/internal/n8n"
	"github.com/maisondor/whatsapp-crm/internal/repository/postgres"
	"github.com/maisondor/whatsapp-crm/internal/sending"
	"github.com/maisondor/whatsapp-crm/internal/service/audience"
	"github.com/maisondor/whatsapp-crm/internal/service/campaign"
	"github.com/maisondor/whatsapp-crm/internal/service/contact"
	"github.com/maisondor/whatsapp-crm/internal/service/rescore"
	"github.com/maisondor/whatsapp-crm/internal/whatsapp"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"
)

// audiencePipelineRepo joins the score and contact repositories into the
// audience pipeline's repository interface.
type audiencePipelineRepo struct {
	scores   *postgres.ScoreRepo
	contacts *postgres.ContactRepo
}

func (r audiencePipelineRepo) ContactIDsBySegment(ctx context.Context, segment domain.Segment, minScore float64) ([]string, error) {
	return r.scores.ContactIDsBySegment(ctx, segment, minScore)
}

func (r audiencePipelineRepo) CountBySegment(ctx context.Context, segment domain.Segment) (int, error) {
	return r.scores.CountBySegment(ctx, segment)
}

func (r audiencePipelineRepo) ContactsByIDs(ctx context.Context, ids []string) ([]domain.Contact, error) {
	return r.contacts.ByIDs(ctx, ids)
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Database
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	defer db.Close()

	// Redis (send quota)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	// Repositories
	contactRepo := postgres.NewContactRepo(db)
	scoreRepo := postgres.NewScoreRepo(db)
	campaignRepo := postgres.NewCampaignRepo(db)

	// Outbound transport
	bridge := whatsapp.NewClient(cfg.WhatsApp.BaseURL, cfg.WhatsApp.APIKey,
		time.Duration(cfg.WhatsApp.TimeoutSeconds)*time.Second)

	var notifier campaign.TriggerNotifier
	if cfg.N8N.WebhookURL != "" {
		notifier = n8n.NewClient(cfg.N8N.WebhookURL,
			time.Duration(cfg.N8N.TimeoutSeconds)*time.Second)
	}

	var limiter campaign.SendLimiter
	if cfg.Quota.DailySendLimit > 0 {
		limiter = sending.NewLimiter(redisClient, sending.QuotaConfig{
			DailyLimit: cfg.Quota.DailySendLimit,
		})
	}

	// Services
	contactSvc := contact.NewService(contactRepo)
	rescoreSvc := rescore.NewService(contactRepo, scoreRepo, cfg.Rescore.Workers)
	pipelineRepo := audiencePipelineRepo{scores: scoreRepo, contacts: contactRepo}
	audienceSvc := audience.NewService(pipelineRepo,
		audience.Config{EnforceOptIn: cfg.Audience.EnforceOptIn})
	campaignSvc := campaign.NewService(campaign.Deps{
		Repo:     campaignRepo,
		Audience: audienceSvc,
		Contacts: pipelineRepo,
		Scores:   scoreRepo,
		Renderer: message.NewRenderer(),
		Sender:   bridge,
		Notifier: notifier,
		Limiter:  limiter,
	})

	// HTTP
	handlers := &api.Handlers{
		Contacts:  contactSvc,
		Rescore:   rescoreSvc,
		Audience:  audienceSvc,
		Campaigns: campaignSvc,
	}
	router := api.SetupRoutes(handlers, nil)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		log.Printf("[server] listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-done

	log.Println("[server] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[server] shutdown error: %v", err)
	}
}
