package contact

import (
	"context"

	"github.com/maisondor/whatsapp-crm/internal/domain"
)

// Repository defines the data access contract for contacts.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Get returns a single contact. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*domain.Contact, error)

	// All returns every contact, ordered by created_at DESC.
	All(ctx context.Context) ([]domain.Contact, error)

	// ByIDs loads contact rows for the given ids. Unknown ids are skipped.
	ByIDs(ctx context.Context, ids []string) ([]domain.Contact, error)

	// Upsert inserts a contact or, when the phone number already exists,
	// refreshes the existing row. The contact's ID is set to the stored row's
	// id either way.
	Upsert(ctx context.Context, c *domain.Contact) error
}
