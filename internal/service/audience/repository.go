package audience

import (
	"context"

	"github.com/maisondor/whatsapp-crm/internal/domain"
)

// Repository defines the data access the filter pipeline needs.
// Implementations must be safe for concurrent use.
type Repository interface {
	// ContactIDsBySegment returns the ids of contacts whose current score
	// record has the given segment and a score >= minScore (inclusive).
	ContactIDsBySegment(ctx context.Context, segment domain.Segment, minScore float64) ([]string, error)

	// CountBySegment returns how many contacts currently score into the
	// segment, ignoring all filters.
	CountBySegment(ctx context.Context, segment domain.Segment) (int, error)

	// ContactsByIDs loads full contact rows for the given ids. Unknown ids
	// are silently skipped.
	ContactsByIDs(ctx context.Context, ids []string) ([]domain.Contact, error)
}
