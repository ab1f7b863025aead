// Package postgres contains the PostgreSQL implementations of the service
// repository interfaces. Schema management lives outside this codebase; the
// repos assume the crm_* tables exist.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/maisondor/whatsapp-crm/internal/domain"
	"github.com/maisondor/whatsapp-crm/internal/service/contact"
)

// ContactRepo implements contact.Repository against PostgreSQL.
type ContactRepo struct{ db *sql.DB }

// NewContactRepo creates a Postgres-backed contact repository.
func NewContactRepo(db *sql.DB) *ContactRepo { return &ContactRepo{db: db} }

const contactColumns = `id, phone, COALESCE(full_name,''), tags, COALESCE(dob,''),
	       total_spend, COALESCE(last_purchase_at,''), COALESCE(interest_type,''),
	       COALESCE(source,''), opted_in, created_at, updated_at`

func scanContact(row interface{ Scan(...interface{}) error }) (domain.Contact, error) {
	var c domain.Contact
	err := row.Scan(
		&c.ID, &c.Phone, &c.FullName, pq.Array(&c.Tags), &c.DOB,
		&c.TotalSpend, &c.LastPurchaseAt, &c.InterestType,
		&c.Source, &c.OptedIn, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func (r *ContactRepo) Get(ctx context.Context, id string) (*domain.Contact, error) {
	c, err := scanContact(r.db.QueryRowContext(ctx, `
		SELECT `+contactColumns+`
		FROM crm_contacts
		WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, contact.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return &c, nil
}

func (r *ContactRepo) All(ctx context.Context) ([]domain.Contact, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+contactColumns+`
		FROM crm_contacts
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()
	return collectContacts(rows)
}

func (r *ContactRepo) ByIDs(ctx context.Context, ids []string) ([]domain.Contact, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+contactColumns+`
		FROM crm_contacts
		WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("contacts by ids: %w", err)
	}
	defer rows.Close()
	return collectContacts(rows)
}

// Upsert keys on the phone number: re-importing a contact refreshes the
// existing row instead of duplicating it. The stored row's id is written back
// into c.
func (r *ContactRepo) Upsert(ctx context.Context, c *domain.Contact) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO crm_contacts
			(id, phone, full_name, tags, dob, total_spend, last_purchase_at,
			 interest_type, source, opted_in, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		ON CONFLICT (phone) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			tags = EXCLUDED.tags,
			dob = EXCLUDED.dob,
			total_spend = EXCLUDED.total_spend,
			last_purchase_at = EXCLUDED.last_purchase_at,
			interest_type = EXCLUDED.interest_type,
			source = EXCLUDED.source,
			opted_in = EXCLUDED.opted_in,
			updated_at = NOW()
		RETURNING id
	`, c.ID, c.Phone, c.FullName, pq.Array(c.Tags), c.DOB, c.TotalSpend,
		c.LastPurchaseAt, c.InterestType, c.Source, c.OptedIn).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("upsert contact: %w", err)
	}
	return nil
}

func collectContacts(rows *sql.Rows) ([]domain.Contact, error) {
	var out []domain.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
