package campaign

import (
	"context"
	"time"

	"github.com/maisondor/whatsapp-crm/internal/domain"
)

// Repository defines the data access contract for campaigns.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Get returns a single campaign. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*domain.Campaign, error)

	// List returns campaigns ordered by created_at DESC.
	List(ctx context.Context) ([]domain.Campaign, error)

	// Create inserts a new campaign.
	Create(ctx context.Context, c *domain.Campaign) error

	// UpdateStatus transitions a campaign's status without touching counters.
	UpdateStatus(ctx context.Context, id string, status domain.CampaignStatus) error

	// UpdateResult records a finished send: final status, delivery counters,
	// and the completion timestamp.
	UpdateResult(ctx context.Context, id string, status domain.CampaignStatus, sent, failed int, sentAt time.Time) error
}
