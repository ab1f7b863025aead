package domain

import "time"

// Contact represents a single customer or lead.
//
// Phone is always a non-empty E.164 number; rows that cannot be normalized to
// E.164 are rejected at import time. LastPurchaseAt is an opaque string carried
// over from upstream systems and is not guaranteed to parse as a timestamp.
type Contact struct {
	ID             string    `json:"id" db:"id"`
	Phone          string    `json:"phone" db:"phone"`
	FullName       string    `json:"full_name,omitempty" db:"full_name"`
	Tags           []string  `json:"tags" db:"tags"`
	DOB            string    `json:"dob,omitempty" db:"dob"` // canonical YYYY-MM-DD, empty when unknown
	TotalSpend     float64   `json:"total_spend" db:"total_spend"`
	LastPurchaseAt string    `json:"last_purchase_at,omitempty" db:"last_purchase_at"`
	InterestType   string    `json:"interest_type,omitempty" db:"interest_type"`
	Source         string    `json:"source,omitempty" db:"source"`
	OptedIn        bool      `json:"opted_in" db:"opted_in"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// HasTag reports whether the contact carries the given tag (exact match).
func (c Contact) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
