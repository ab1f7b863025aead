package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
	"github.com/maisondor/whatsapp-crm/internal/domain"
)

// ScoreRepo stores one current score row per contact.
type ScoreRepo struct{ db *sql.DB }

// NewScoreRepo creates a Postgres-backed score repository.
func NewScoreRepo(db *sql.DB) *ScoreRepo { return &ScoreRepo{db: db} }

// Upsert writes the contact's current score, replacing any previous one.
// Reasons are stored as a JSONB array.
func (r *ScoreRepo) Upsert(ctx context.Context, s domain.Score) error {
	reasons, err := json.Marshal(s.Reasons)
	if err != nil {
		return fmt.Errorf("marshal reasons: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO crm_scores (contact_id, score, segment, reasons, computed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (contact_id) DO UPDATE SET
			score = EXCLUDED.score,
			segment = EXCLUDED.segment,
			reasons = EXCLUDED.reasons,
			computed_at = EXCLUDED.computed_at
	`, s.ContactID, s.Score, s.Segment, reasons, s.ComputedAt)
	if err != nil {
		return fmt.Errorf("upsert score: %w", err)
	}
	return nil
}

// GetByContact returns the contact's current score, or nil when the contact
// has never been scored.
func (r *ScoreRepo) GetByContact(ctx context.Context, contactID string) (*domain.Score, error) {
	var (
		s       domain.Score
		reasons []byte
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT contact_id, score, segment, reasons, computed_at
		FROM crm_scores
		WHERE contact_id = $1
	`, contactID).Scan(&s.ContactID, &s.Score, &s.Segment, &reasons, &s.ComputedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get score: %w", err)
	}
	if err := json.Unmarshal(reasons, &s.Reasons); err != nil {
		return nil, fmt.Errorf("unmarshal reasons: %w", err)
	}
	return &s, nil
}

// ByContactIDs loads current scores for the given contacts, keyed by contact
// id. Unscored contacts are absent from the map.
func (r *ScoreRepo) ByContactIDs(ctx context.Context, ids []string) (map[string]domain.Score, error) {
	if len(ids) == 0 {
		return map[string]domain.Score{}, nil
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT contact_id, score, segment, reasons, computed_at
		FROM crm_scores
		WHERE contact_id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("scores by contact ids: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Score, len(ids))
	for rows.Next() {
		var (
			s       domain.Score
			reasons []byte
		)
		if err := rows.Scan(&s.ContactID, &s.Score, &s.Segment, &reasons, &s.ComputedAt); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		if err := json.Unmarshal(reasons, &s.Reasons); err != nil {
			return nil, fmt.Errorf("unmarshal reasons: %w", err)
		}
		out[s.ContactID] = s
	}
	return out, rows.Err()
}

// ContactIDsBySegment returns the ids of contacts whose current score has the
// given segment and a score at or above minScore.
func (r *ScoreRepo) ContactIDsBySegment(ctx context.Context, segment domain.Segment, minScore float64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT contact_id
		FROM crm_scores
		WHERE segment = $1 AND score >= $2
	`, segment, minScore)
	if err != nil {
		return nil, fmt.Errorf("contact ids by segment: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// CountBySegment returns how many contacts currently score into the segment.
func (r *ScoreRepo) CountBySegment(ctx context.Context, segment domain.Segment) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM crm_scores WHERE segment = $1`,
		segment,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count by segment: %w", err)
	}
	return n, nil
}
