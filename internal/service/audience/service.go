// Package audience implements the campaign filter pipeline: it narrows a
// scored segment down to the list of contact ids a campaign may actually
// message. Filters apply in a fixed order and only ever shrink the set; an
// empty result is a valid outcome, not an error.
package audience

import (
	"context"
	"strings"
	"time"

	"github.com/maisondor/whatsapp-crm/internal/domain"
	"github.com/maisondor/whatsapp-crm/internal/normalize"
)

// recentBuyerWindowDays is the hot-segment exclusion window: contacts who
// purchased this recently just converted and are not re-solicited unless the
// caller asks for a purchase-recency filter explicitly.
const recentBuyerWindowDays = 60

// Config carries the pipeline's policy switches.
type Config struct {
	// EnforceOptIn gates the final audience on the contact's opt-in flag.
	// Currently off in production: all contacts are treated as send-eligible.
	// Known compliance risk, kept switchable rather than removed.
	EnforceOptIn bool
}

// Service resolves campaign audiences. The pipeline itself is pure in-memory
// computation over rows the repository already fetched.
type Service struct {
	repo Repository
	cfg  Config
	now  func() time.Time
}

// NewService creates an audience service backed by the given repository.
func NewService(repo Repository, cfg Config) *Service {
	return &Service{repo: repo, cfg: cfg, now: time.Now}
}

// Resolve returns the contact ids in the segment that pass every filter in
// spec, including the segment-specific exclusion and (when enforced) the
// opt-in gate. Order is not significant to callers.
func (s *Service) Resolve(ctx context.Context, segment domain.Segment, spec domain.CampaignFilterSpec) ([]string, error) {
	contacts, err := s.filtered(ctx, segment, spec)
	if err != nil {
		return nil, err
	}
	if s.cfg.EnforceOptIn {
		contacts = keep(contacts, func(c domain.Contact) bool { return c.OptedIn })
	}
	ids := make([]string, 0, len(contacts))
	for _, c := range contacts {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

// Counts derives the three progressively narrowed preview numbers. They are
// recomputed from scratch on every call; there is no caching.
func (s *Service) Counts(ctx context.Context, segment domain.Segment, spec domain.CampaignFilterSpec) (domain.CampaignCounts, error) {
	if !segment.Valid() {
		return domain.CampaignCounts{}, ErrInvalidSegment
	}

	total, err := s.repo.CountBySegment(ctx, segment)
	if err != nil {
		return domain.CampaignCounts{}, err
	}

	contacts, err := s.filtered(ctx, segment, spec)
	if err != nil {
		return domain.CampaignCounts{}, err
	}
	afterFilters := len(contacts)

	sendable := afterFilters
	if s.cfg.EnforceOptIn {
		sendable = len(keep(contacts, func(c domain.Contact) bool { return c.OptedIn }))
	}

	return domain.CampaignCounts{
		SegmentTotal: total,
		AfterFilters: afterFilters,
		Sendable:     sendable,
	}, nil
}

// filtered runs pipeline stages 1-10: segment load, row load, then the
// in-memory filters in their fixed order, ending with the hot-segment
// recent-buyer exclusion.
func (s *Service) filtered(ctx context.Context, segment domain.Segment, spec domain.CampaignFilterSpec) ([]domain.Contact, error) {
	if !segment.Valid() {
		return nil, ErrInvalidSegment
	}

	minScore := 0.0
	if spec.MinScore != nil {
		minScore = *spec.MinScore
	}
	ids, err := s.repo.ContactIDsBySegment(ctx, segment, minScore)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	contacts, err := s.repo.ContactsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := s.now()

	contacts = filterPurchaseRecency(contacts, spec.PurchaseMode, spec.PurchaseDays, now)

	if spec.BirthdayWithinDays != nil {
		within := *spec.BirthdayWithinDays
		contacts = keep(contacts, func(c domain.Contact) bool {
			return normalize.BirthdayWithinDays(c.DOB, within, now)
		})
	}

	if spec.SpendMin != nil {
		contacts = keep(contacts, func(c domain.Contact) bool { return c.TotalSpend >= *spec.SpendMin })
	}
	if spec.SpendMax != nil {
		contacts = keep(contacts, func(c domain.Contact) bool { return c.TotalSpend <= *spec.SpendMax })
	}

	if len(spec.InterestTypes) > 0 {
		contacts = keep(contacts, func(c domain.Contact) bool {
			return interestMatches(c.InterestType, spec.InterestTypes)
		})
	}

	if len(spec.Sources) > 0 {
		contacts = keep(contacts, func(c domain.Contact) bool {
			for _, src := range spec.Sources {
				if c.Source == src {
					return true
				}
			}
			return false
		})
	}

	if len(spec.TagsAny) > 0 {
		contacts = keep(contacts, func(c domain.Contact) bool {
			for _, tag := range spec.TagsAny {
				if c.HasTag(tag) {
					return true
				}
			}
			return false
		})
	}

	contacts = filterUpdatedRecency(contacts, spec.UpdatedMode, spec.UpdatedDays, now)

	// Segment-specific exclusion: hot contacts who just bought are skipped,
	// but only when the caller expressed no purchase-recency preference.
	if segment == domain.SegmentHot && (spec.PurchaseMode == "" || spec.PurchaseMode == domain.RecencyAny) {
		contacts = keep(contacts, func(c domain.Contact) bool {
			// Missing or unparseable purchase dates are "not recent" here.
			return !normalize.ParseTimeValue(c.LastPurchaseAt).WithinDays(now, recentBuyerWindowDays)
		})
	}

	return contacts, nil
}

// filterPurchaseRecency applies the purchase-date stage. The asymmetry is
// deliberate: an unparseable date counts as "infinitely old" for olderThan
// (conservatively included) but never as "within" a window.
func filterPurchaseRecency(contacts []domain.Contact, mode domain.RecencyMode, days int, now time.Time) []domain.Contact {
	switch mode {
	case domain.RecencyNever:
		return keep(contacts, func(c domain.Contact) bool {
			return normalize.ParseTimeValue(c.LastPurchaseAt).Absent()
		})
	case domain.RecencyWithin:
		return keep(contacts, func(c domain.Contact) bool {
			return normalize.ParseTimeValue(c.LastPurchaseAt).WithinDays(now, days)
		})
	case domain.RecencyOlderThan:
		return keep(contacts, func(c domain.Contact) bool {
			v := normalize.ParseTimeValue(c.LastPurchaseAt)
			if !v.Parsed() {
				return true
			}
			return v.Time.Before(now.AddDate(0, 0, -days))
		})
	default:
		return contacts
	}
}

// filterUpdatedRecency applies within/olderThan semantics to the contact's
// updated_at. The repository owns updated_at, so a zero time stands in for
// "never updated" and is treated as oldest.
func filterUpdatedRecency(contacts []domain.Contact, mode domain.RecencyMode, days int, now time.Time) []domain.Contact {
	switch mode {
	case domain.RecencyWithin:
		return keep(contacts, func(c domain.Contact) bool {
			return !c.UpdatedAt.IsZero() && !c.UpdatedAt.Before(now.AddDate(0, 0, -days))
		})
	case domain.RecencyOlderThan:
		return keep(contacts, func(c domain.Contact) bool {
			return c.UpdatedAt.IsZero() || c.UpdatedAt.Before(now.AddDate(0, 0, -days))
		})
	default:
		return contacts
	}
}

// interestMatches implements the interest allow-list quirks: "unknown"
// matches contacts with no interest at all, and the legacy "fashion/other"
// entry matches either label.
func interestMatches(interest string, allow []string) bool {
	normalized := strings.ToLower(strings.TrimSpace(interest))
	for _, a := range allow {
		want := strings.ToLower(strings.TrimSpace(a))
		switch want {
		case "unknown":
			if normalized == "" {
				return true
			}
		case "fashion/other":
			if normalized == "fashion" || normalized == "other" {
				return true
			}
		}
		if normalized != "" && normalized == want {
			return true
		}
	}
	return false
}

func keep(contacts []domain.Contact, pred func(domain.Contact) bool) []domain.Contact {
	out := contacts[:0:0]
	for _, c := range contacts {
		if pred(c) {
			out = append(out, c)
		}
	}
	return out
}
