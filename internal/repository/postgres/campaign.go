package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/maisondor/whatsapp-crm/internal/domain"
	"github.com/maisondor/whatsapp-crm/internal/service/campaign"
)

// CampaignRepo implements campaign.Repository against PostgreSQL. The filter
// spec is stored as a JSONB snapshot so a sent campaign keeps the exact
// filters it was sent with.
type CampaignRepo struct{ db *sql.DB }

// NewCampaignRepo creates a Postgres-backed campaign repository.
func NewCampaignRepo(db *sql.DB) *CampaignRepo { return &CampaignRepo{db: db} }

func (r *CampaignRepo) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	c := &domain.Campaign{}
	var filter []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, segment, filter, template_body, status,
		       sent_count, failed_count, sent_at, created_at, updated_at
		FROM crm_campaigns
		WHERE id = $1
	`, id).Scan(
		&c.ID, &c.Name, &c.Segment, &filter, &c.TemplateBody, &c.Status,
		&c.SentCount, &c.FailedCount, &c.SentAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, campaign.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	if err := json.Unmarshal(filter, &c.Filter); err != nil {
		return nil, fmt.Errorf("unmarshal filter: %w", err)
	}
	return c, nil
}

func (r *CampaignRepo) List(ctx context.Context) ([]domain.Campaign, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, segment, filter, template_body, status,
		       sent_count, failed_count, sent_at, created_at, updated_at
		FROM crm_campaigns
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var out []domain.Campaign
	for rows.Next() {
		var (
			c      domain.Campaign
			filter []byte
		)
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Segment, &filter, &c.TemplateBody, &c.Status,
			&c.SentCount, &c.FailedCount, &c.SentAt, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		if err := json.Unmarshal(filter, &c.Filter); err != nil {
			return nil, fmt.Errorf("unmarshal filter: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CampaignRepo) Create(ctx context.Context, c *domain.Campaign) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	filter, err := json.Marshal(c.Filter)
	if err != nil {
		return fmt.Errorf("marshal filter: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO crm_campaigns
			(id, name, segment, filter, template_body, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`, c.ID, c.Name, c.Segment, filter, c.TemplateBody, c.Status)
	if err != nil {
		return fmt.Errorf("create campaign: %w", err)
	}
	return nil
}

func (r *CampaignRepo) UpdateStatus(ctx context.Context, id string, status domain.CampaignStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE crm_campaigns SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return campaign.ErrNotFound
	}
	return nil
}

func (r *CampaignRepo) UpdateResult(ctx context.Context, id string, status domain.CampaignStatus, sent, failed int, sentAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE crm_campaigns
		SET status = $1, sent_count = $2, failed_count = $3, sent_at = $4, updated_at = NOW()
		WHERE id = $5
	`, status, sent, failed, sentAt, id)
	if err != nil {
		return fmt.Errorf("update result: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return campaign.ErrNotFound
	}
	return nil
}
