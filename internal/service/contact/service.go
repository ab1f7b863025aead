// Package contact implements contact intake and lookup.
//
// Every contact that enters the system passes through this service, which is
// where phone numbers get normalized to E.164 and birth dates to their
// canonical form. Rows without a usable phone number are rejected outright.
package contact

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maisondor/whatsapp-crm/internal/domain"
	"github.com/maisondor/whatsapp-crm/internal/normalize"
)

// Service implements contact business logic. It is safe for concurrent use
// if the underlying repository is concurrency-safe.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a contact service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Get returns a single contact.
func (s *Service) Get(ctx context.Context, id string) (*domain.Contact, error) {
	return s.repo.Get(ctx, id)
}

// List returns all contacts.
func (s *Service) List(ctx context.Context) ([]domain.Contact, error) {
	return s.repo.All(ctx)
}

// CreateInput holds the raw, un-normalized fields for a new contact.
type CreateInput struct {
	Phone          string   `json:"phone"`
	FullName       string   `json:"full_name"`
	Tags           []string `json:"tags"`
	DOB            string   `json:"dob"`
	TotalSpend     float64  `json:"total_spend"`
	LastPurchaseAt string   `json:"last_purchase_at"`
	InterestType   string   `json:"interest_type"`
	Source         string   `json:"source"`
	OptedIn        bool     `json:"opted_in"`
}

// Create normalizes and upserts a contact. The phone number runs through the
// full country-code fallback chain; an unusable number yields ErrInvalidPhone.
// An unparseable DOB is dropped rather than stored raw.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Contact, error) {
	phone, ok := normalize.PhoneWithFallback(input.Phone)
	if !ok {
		return nil, ErrInvalidPhone
	}

	dob := ""
	if raw := strings.TrimSpace(input.DOB); raw != "" {
		if normalized, ok := normalize.DOB(raw); ok {
			dob = normalized
		}
	}

	now := s.now()
	c := &domain.Contact{
		ID:             uuid.New().String(),
		Phone:          phone,
		FullName:       strings.TrimSpace(input.FullName),
		Tags:           input.Tags,
		DOB:            dob,
		TotalSpend:     input.TotalSpend,
		LastPurchaseAt: strings.TrimSpace(input.LastPurchaseAt),
		InterestType:   strings.TrimSpace(input.InterestType),
		Source:         strings.TrimSpace(input.Source),
		OptedIn:        input.OptedIn,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if err := s.repo.Upsert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
