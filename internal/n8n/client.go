// Package n8n posts campaign events to the n8n workflow webhook. Delivery is
// best effort; workflow-side retries are out of scope here.
package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/maisondor/whatsapp-crm/internal/domain"
)

// Client triggers n8n workflows over their webhook URL.
type Client struct {
	webhookURL string
	httpClient *http.Client
}

// NewClient creates an n8n webhook client. timeout <= 0 defaults to 10 seconds.
func NewClient(webhookURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type campaignEvent struct {
	Event       string         `json:"event"`
	CampaignID  string         `json:"campaign_id"`
	Name        string         `json:"name"`
	Segment     domain.Segment `json:"segment"`
	SentCount   int            `json:"sent_count"`
	FailedCount int            `json:"failed_count"`
	SentAt      *time.Time     `json:"sent_at,omitempty"`
}

// CampaignSent notifies the workflow that a campaign finished sending.
func (c *Client) CampaignSent(ctx context.Context, campaign *domain.Campaign) error {
	payload, err := json.Marshal(campaignEvent{
		Event:       "campaign.sent",
		CampaignID:  campaign.ID,
		Name:        campaign.Name,
		Segment:     campaign.Segment,
		SentCount:   campaign.SentCount,
		FailedCount: campaign.FailedCount,
		SentAt:      campaign.SentAt,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("n8n webhook failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("n8n webhook returned %d", resp.StatusCode)
	}
	return nil
}
