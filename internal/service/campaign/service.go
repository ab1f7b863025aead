package campaign

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maisondor/whatsapp-crm/internal/domain"
)

// AudienceResolver narrows a segment to the contacts a campaign may message.
type AudienceResolver interface {
	Resolve(ctx context.Context, segment domain.Segment, spec domain.CampaignFilterSpec) ([]string, error)
	Counts(ctx context.Context, segment domain.Segment, spec domain.CampaignFilterSpec) (domain.CampaignCounts, error)
}

// ContactLoader fetches full contact rows for a resolved audience.
type ContactLoader interface {
	ContactsByIDs(ctx context.Context, ids []string) ([]domain.Contact, error)
}

// ScoreLoader fetches current scores, keyed by contact id. Contacts without a
// score row are simply absent from the map.
type ScoreLoader interface {
	ByContactIDs(ctx context.Context, ids []string) (map[string]domain.Score, error)
}

// MessageSender delivers one message through the WhatsApp bridge.
type MessageSender interface {
	SendText(ctx context.Context, phone, body string) error
}

// TriggerNotifier tells the workflow engine a campaign finished sending.
type TriggerNotifier interface {
	CampaignSent(ctx context.Context, c *domain.Campaign) error
}

// SendLimiter enforces the daily outbound quota. Allow reserves n sends;
// Refund returns unused reservations after a partial failure.
type SendLimiter interface {
	Allow(ctx context.Context, n int) error
	Refund(ctx context.Context, n int) error
}

// Renderer personalizes a template body for a single recipient.
type Renderer interface {
	Render(body string, data map[string]interface{}) (string, error)
}

// Deps collects the service's collaborators. Notifier and Limiter may be nil
// when the deployment has no workflow webhook or no quota configured.
type Deps struct {
	Repo     Repository
	Audience AudienceResolver
	Contacts ContactLoader
	Scores   ScoreLoader
	Renderer Renderer
	Sender   MessageSender
	Notifier TriggerNotifier
	Limiter  SendLimiter
}

// Service implements campaign business logic. It coordinates between the
// repository layer and the outbound transport. All public methods are safe
// for concurrent use if the collaborators are concurrency-safe.
type Service struct {
	deps Deps
	now  func() time.Time
}

// NewService creates a campaign service from its collaborators.
func NewService(deps Deps) *Service {
	return &Service{deps: deps, now: time.Now}
}

// Get returns a single campaign.
func (s *Service) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	return s.deps.Repo.Get(ctx, id)
}

// List returns all campaigns, newest first.
func (s *Service) List(ctx context.Context) ([]domain.Campaign, error) {
	return s.deps.Repo.List(ctx)
}

// CreateInput holds the fields for creating a new campaign.
type CreateInput struct {
	Name         string                    `json:"name"`
	Segment      domain.Segment            `json:"segment"`
	Filter       domain.CampaignFilterSpec `json:"filter"`
	TemplateBody string                    `json:"template_body"`
}

// Create validates and persists a new campaign in draft status.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Campaign, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if input.TemplateBody == "" {
		return nil, fmt.Errorf("template body is required")
	}
	if !input.Segment.Valid() {
		return nil, fmt.Errorf("invalid segment %q", input.Segment)
	}

	now := s.now()
	c := &domain.Campaign{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Segment:      input.Segment,
		Filter:       input.Filter,
		TemplateBody: input.TemplateBody,
		Status:       domain.CampaignDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.deps.Repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Preview returns the three-stage audience counts for a campaign draft
// without sending anything.
func (s *Service) Preview(ctx context.Context, id string) (domain.CampaignCounts, error) {
	c, err := s.deps.Repo.Get(ctx, id)
	if err != nil {
		return domain.CampaignCounts{}, err
	}
	return s.deps.Audience.Counts(ctx, c.Segment, c.Filter)
}

// Send resolves the campaign's audience and delivers one message per contact
// through the bridge. The campaign transitions draft -> sending -> sent (or
// failed when nothing could be delivered). Returns sent and failed counts.
func (s *Service) Send(ctx context.Context, id string) (int, int, error) {
	c, err := s.deps.Repo.Get(ctx, id)
	if err != nil {
		return 0, 0, err
	}
	if c.Status == domain.CampaignSending || c.Status == domain.CampaignSent {
		return 0, 0, ErrAlreadySending
	}

	ids, err := s.deps.Audience.Resolve(ctx, c.Segment, c.Filter)
	if err != nil {
		return 0, 0, fmt.Errorf("resolve audience: %w", err)
	}
	if len(ids) == 0 {
		return 0, 0, ErrEmptyAudience
	}

	if s.deps.Limiter != nil {
		if err := s.deps.Limiter.Allow(ctx, len(ids)); err != nil {
			return 0, 0, err
		}
	}

	if err := s.deps.Repo.UpdateStatus(ctx, id, domain.CampaignSending); err != nil {
		return 0, 0, fmt.Errorf("transition to sending: %w", err)
	}

	sent, failed, err := s.deliver(ctx, c, ids)
	if err != nil {
		if rbErr := s.deps.Repo.UpdateStatus(ctx, id, domain.CampaignFailed); rbErr != nil {
			log.Printf("[campaign.Service] rollback failed: %v", rbErr)
		}
		return sent, failed, err
	}

	if s.deps.Limiter != nil && failed > 0 {
		if err := s.deps.Limiter.Refund(ctx, failed); err != nil {
			log.Printf("[campaign.Service] quota refund failed: %v", err)
		}
	}

	status := domain.CampaignSent
	if sent == 0 {
		status = domain.CampaignFailed
	}
	sentAt := s.now()
	if err := s.deps.Repo.UpdateResult(ctx, id, status, sent, failed, sentAt); err != nil {
		return sent, failed, fmt.Errorf("record result: %w", err)
	}

	c.Status = status
	c.SentCount = sent
	c.FailedCount = failed
	c.SentAt = &sentAt
	if s.deps.Notifier != nil {
		// Best effort; the campaign outcome is already recorded.
		if err := s.deps.Notifier.CampaignSent(ctx, c); err != nil {
			log.Printf("[campaign.Service] workflow notify failed: %v", err)
		}
	}

	log.Printf("[campaign.Service] Campaign %s: %d sent, %d failed", id, sent, failed)
	return sent, failed, nil
}

// deliver loads the audience rows and sends sequentially. The bridge applies
// its own pacing, so there is no fan-out here.
func (s *Service) deliver(ctx context.Context, c *domain.Campaign, ids []string) (int, int, error) {
	contacts, err := s.deps.Contacts.ContactsByIDs(ctx, ids)
	if err != nil {
		return 0, 0, fmt.Errorf("load contacts: %w", err)
	}
	scores, err := s.deps.Scores.ByContactIDs(ctx, ids)
	if err != nil {
		return 0, 0, fmt.Errorf("load scores: %w", err)
	}

	var sent, failed int
	for _, contact := range contacts {
		if err := ctx.Err(); err != nil {
			return sent, failed, err
		}

		body, err := s.deps.Renderer.Render(c.TemplateBody, renderData(contact, scores[contact.ID]))
		if err != nil {
			log.Printf("[campaign.Service] render for %s: %v", contact.ID, err)
			failed++
			continue
		}
		if err := s.deps.Sender.SendText(ctx, contact.Phone, body); err != nil {
			log.Printf("[campaign.Service] send to %s: %v", contact.ID, err)
			failed++
			continue
		}
		sent++
	}
	return sent, failed, nil
}

func renderData(c domain.Contact, score domain.Score) map[string]interface{} {
	firstName := c.FullName
	if i := strings.IndexByte(firstName, ' '); i > 0 {
		firstName = firstName[:i]
	}
	return map[string]interface{}{
		"name":       c.FullName,
		"first_name": firstName,
		"segment":    string(score.Segment),
		"score":      score.Score,
	}
}
