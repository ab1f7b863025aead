package domain

import "time"

// RecencyMode selects how a date-recency filter treats a contact's timestamp.
type RecencyMode string

const (
	RecencyAny       RecencyMode = "any"
	RecencyNever     RecencyMode = "never"
	RecencyWithin    RecencyMode = "within"
	RecencyOlderThan RecencyMode = "olderThan"
)

// CampaignFilterSpec narrows a segment to a sendable audience. It is a
// request-scoped value object; every field is optional and an absent field
// means "no constraint for this dimension".
type CampaignFilterSpec struct {
	MinScore *float64 `json:"min_score,omitempty"`

	// Purchase recency. Mode "any" (or empty) applies no constraint but, for
	// the hot segment, leaving it unset keeps the recent-buyer exclusion on.
	PurchaseMode RecencyMode `json:"purchase_mode,omitempty"`
	PurchaseDays int         `json:"purchase_days,omitempty"`

	BirthdayWithinDays *int `json:"birthday_within_days,omitempty"`

	SpendMin *float64 `json:"spend_min,omitempty"`
	SpendMax *float64 `json:"spend_max,omitempty"`

	InterestTypes []string `json:"interest_types,omitempty"`
	Sources       []string `json:"sources,omitempty"`
	TagsAny       []string `json:"tags_any,omitempty"`

	UpdatedMode RecencyMode `json:"updated_mode,omitempty"`
	UpdatedDays int         `json:"updated_days,omitempty"`
}

// CampaignCounts is the three-stage audience preview shown before a send.
// Sendable <= AfterFilters <= SegmentTotal always holds.
type CampaignCounts struct {
	SegmentTotal int `json:"segment_total"`
	AfterFilters int `json:"after_filters"`
	Sendable     int `json:"sendable"`
}

// CampaignStatus enumerates the states a campaign can be in.
type CampaignStatus string

const (
	CampaignDraft   CampaignStatus = "draft"
	CampaignSending CampaignStatus = "sending"
	CampaignSent    CampaignStatus = "sent"
	CampaignFailed  CampaignStatus = "failed"
)

// Campaign is a WhatsApp marketing send targeting one segment.
type Campaign struct {
	ID           string             `json:"id" db:"id"`
	Name         string             `json:"name" db:"name"`
	Segment      Segment            `json:"segment" db:"segment"`
	Filter       CampaignFilterSpec `json:"filter" db:"filter"`
	TemplateBody string             `json:"template_body" db:"template_body"`
	Status       CampaignStatus     `json:"status" db:"status"`
	SentCount    int                `json:"sent_count" db:"sent_count"`
	FailedCount  int                `json:"failed_count" db:"failed_count"`
	SentAt       *time.Time         `json:"sent_at,omitempty" db:"sent_at"`
	CreatedAt    time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" db:"updated_at"`
}
