package domain

import "time"

// Segment is the score-derived targeting tier of a contact.
type Segment string

const (
	SegmentHot  Segment = "hot"
	SegmentWarm Segment = "warm"
	SegmentCold Segment = "cold"
)

// Valid reports whether s is one of the known segments.
func (s Segment) Valid() bool {
	return s == SegmentHot || s == SegmentWarm || s == SegmentCold
}

// SegmentForScore maps a numeric score to its tier. The segment is a pure
// function of the score: >= 60 hot, >= 35 warm, otherwise cold.
func SegmentForScore(score float64) Segment {
	switch {
	case score >= 60:
		return SegmentHot
	case score >= 35:
		return SegmentWarm
	default:
		return SegmentCold
	}
}

// RuleID identifies a scoring rule. Reason entries carry the rule that
// produced them so the audit trail is structured, not just display text.
type RuleID string

const (
	RuleRecency     RuleID = "recency"
	RuleInterest    RuleID = "interest"
	RulePurchase    RuleID = "purchase_recency"
	RuleSpend       RuleID = "spend_tier"
	RuleSource      RuleID = "source"
	RuleRingSize    RuleID = "ring_size_known"
	RuleCatalog     RuleID = "catalog_followup"
	RuleAppointment RuleID = "appointment_booked"
)

// ScoreReason records one scoring rule's contribution, in evaluation order.
type ScoreReason struct {
	RuleID RuleID  `json:"rule_id"`
	Points float64 `json:"points"`
	Label  string  `json:"label"`
}

// Score is the derived scoring record for a contact, fully recomputed on every
// scoring run and upserted by contact id. It has no independent lifecycle.
type Score struct {
	ContactID  string        `json:"contact_id" db:"contact_id"`
	Score      float64       `json:"score" db:"score"`
	Segment    Segment       `json:"segment" db:"segment"`
	Reasons    []ScoreReason `json:"reasons" db:"reasons"`
	ComputedAt time.Time     `json:"computed_at" db:"computed_at"`
}
