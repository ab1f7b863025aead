package importer

import "strings"

// CanonicalField is a normalized column name used across all import sources.
type CanonicalField string

const (
	FieldPhone        CanonicalField = "phone"
	FieldFullName     CanonicalField = "full_name"
	FieldTags         CanonicalField = "tags"
	FieldDOB          CanonicalField = "dob"
	FieldTotalSpend   CanonicalField = "total_spend"
	FieldLastPurchase CanonicalField = "last_purchase_at"
	FieldInterest     CanonicalField = "interest_type"
	FieldSource       CanonicalField = "source"
	FieldOptedIn      CanonicalField = "opted_in"
)

// columnAliases maps lowercase header names to canonical fields. When
// multiple raw headers mean the same thing, they all map here.
var columnAliases = map[string]CanonicalField{
	// Phone
	"phone":        FieldPhone,
	"phone_number": FieldPhone,
	"mobile":       FieldPhone,
	"whatsapp":     FieldPhone,
	"tel":          FieldPhone,
	"contact":      FieldPhone,

	// Name
	"name":          FieldFullName,
	"full_name":     FieldFullName,
	"fullname":      FieldFullName,
	"customer":      FieldFullName,
	"customer_name": FieldFullName,

	// Tags
	"tags":   FieldTags,
	"labels": FieldTags,

	// Date of birth
	"dob":           FieldDOB,
	"birthday":      FieldDOB,
	"birth_date":    FieldDOB,
	"birthdate":     FieldDOB,
	"date_of_birth": FieldDOB,

	// Spend
	"spend":          FieldTotalSpend,
	"total_spend":    FieldTotalSpend,
	"lifetime_spend": FieldTotalSpend,
	"ltv":            FieldTotalSpend,

	// Last purchase
	"last_purchase":      FieldLastPurchase,
	"last_purchase_at":   FieldLastPurchase,
	"last_purchase_date": FieldLastPurchase,
	"last_order":         FieldLastPurchase,

	// Interest
	"interest":      FieldInterest,
	"interest_type": FieldInterest,
	"looking_for":   FieldInterest,

	// Source
	"source":  FieldSource,
	"channel": FieldSource,

	// Opt-in
	"opted_in":  FieldOptedIn,
	"opt_in":    FieldOptedIn,
	"optin":     FieldOptedIn,
	"consent":   FieldOptedIn,
	"marketing": FieldOptedIn,
}

// mapHeader resolves a CSV header row to canonical column indexes. Unknown
// columns are ignored.
func mapHeader(header []string) map[CanonicalField]int {
	out := make(map[CanonicalField]int)
	for i, raw := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff")))
		if field, ok := columnAliases[key]; ok {
			if _, taken := out[field]; !taken {
				out[field] = i
			}
		}
	}
	return out
}
