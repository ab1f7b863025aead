// Package scoring turns a contact's raw attributes into a numeric lead score,
// a hot/warm/cold segment, and an ordered audit trail of rule contributions.
// Compute is pure: no I/O, no errors, and malformed input always degrades to
// "no signal" rather than failing the contact.
package scoring

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/maisondor/whatsapp-crm/internal/domain"
	"github.com/maisondor/whatsapp-crm/internal/normalize"
)

// Compute scores a contact at the given reference time. Rules run in a fixed
// order and are independent; each contributes points and at most one reason.
// A rule that contributes nothing appends no reason.
func Compute(c domain.Contact, now time.Time) domain.Score {
	var total float64
	var reasons []domain.ScoreReason

	add := func(rule domain.RuleID, points float64, label string) {
		total += points
		reasons = append(reasons, domain.ScoreReason{RuleID: rule, Points: points, Label: label})
	}

	// 1. Recency tier: activity tags win over updated_at, first match only.
	switch {
	case c.HasTag("inquiry_7d") || c.HasTag("visited_7d"):
		add(domain.RuleRecency, 35, "Inquired or visited in the last 7 days")
	case c.HasTag("inquiry_30d") || c.HasTag("visited_30d"):
		add(domain.RuleRecency, 20, "Inquired or visited in the last 30 days")
	case !c.UpdatedAt.IsZero():
		days := now.Sub(c.UpdatedAt).Hours() / 24
		if days <= 7 {
			add(domain.RuleRecency, 25, "Profile updated in the last 7 days")
		} else if days <= 30 {
			add(domain.RuleRecency, 12, "Profile updated in the last 30 days")
		}
	}

	// 2. Interest type.
	switch interest := strings.ToLower(strings.TrimSpace(c.InterestType)); interest {
	case "":
	case "engagement":
		add(domain.RuleInterest, 25, "Interested in engagement pieces")
	case "wedding":
		add(domain.RuleInterest, 20, "Interested in wedding pieces")
	default:
		add(domain.RuleInterest, 10, fmt.Sprintf("Declared interest: %s", interest))
	}

	// 3. Purchase recency, only when the opaque timestamp actually parses.
	if age, ok := normalize.ParseTimeValue(c.LastPurchaseAt).AgeDays(now); ok {
		switch {
		case age <= 30:
			add(domain.RulePurchase, 15, "Purchased in the last 30 days")
		case age <= 90:
			add(domain.RulePurchase, 10, "Purchased in the last 90 days")
		case age <= 180:
			add(domain.RulePurchase, 5, "Purchased in the last 180 days")
		}
	}

	// 4. Spend tier, single highest matching threshold.
	spend := c.TotalSpend
	if math.IsNaN(spend) || spend < 0 {
		spend = 0
	}
	switch {
	case spend >= 20000:
		add(domain.RuleSpend, 25, "Lifetime spend over 20,000")
	case spend >= 10000:
		add(domain.RuleSpend, 20, "Lifetime spend over 10,000")
	case spend >= 7500:
		add(domain.RuleSpend, 15, "Lifetime spend over 7,500")
	case spend >= 5000:
		add(domain.RuleSpend, 12, "Lifetime spend over 5,000")
	case spend >= 2500:
		add(domain.RuleSpend, 8, "Lifetime spend over 2,500")
	case spend > 0:
		add(domain.RuleSpend, 6, "Has purchase history")
	}

	// 5. Source.
	switch source := strings.ToLower(strings.TrimSpace(c.Source)); source {
	case "referral", "vip", "repeat":
		add(domain.RuleSource, 10, fmt.Sprintf("High-intent source: %s", source))
	case "website", "instagram", "walkin":
		add(domain.RuleSource, 5, fmt.Sprintf("Known source: %s", source))
	}

	// 6. Tag bonuses, each independently additive.
	if c.HasTag("ring_size_known") {
		add(domain.RuleRingSize, 10, "Ring size on file")
	}
	if c.HasTag("requested_catalog") || c.HasTag("followed_up") {
		add(domain.RuleCatalog, 8, "Requested catalog or was followed up")
	}
	if c.HasTag("appointment_booked") {
		add(domain.RuleAppointment, 12, "Appointment booked")
	}

	return domain.Score{
		ContactID:  c.ID,
		Score:      total,
		Segment:    domain.SegmentForScore(total),
		Reasons:    reasons,
		ComputedAt: now,
	}
}

// RenderReasons flattens a reason list to display strings, preserving rule
// evaluation order.
func RenderReasons(reasons []domain.ScoreReason) []string {
	out := make([]string, 0, len(reasons))
	for _, r := range reasons {
		out = append(out, fmt.Sprintf("%s (+%g)", r.Label, r.Points))
	}
	return out
}
