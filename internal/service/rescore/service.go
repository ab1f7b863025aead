// Package rescore recomputes lead scores. Scoring a contact is independent
// and side-effect-free, so a batch run fans out over a small worker pool and
// upserts each result keyed by contact id.
package rescore

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/maisondor/whatsapp-crm/internal/domain"
	"github.com/maisondor/whatsapp-crm/internal/scoring"
)

// ContactSource provides the contacts to score.
type ContactSource interface {
	Get(ctx context.Context, id string) (*domain.Contact, error)
	All(ctx context.Context) ([]domain.Contact, error)
}

// ScoreSink persists computed scores. Upsert is keyed by contact id.
type ScoreSink interface {
	Upsert(ctx context.Context, score domain.Score) error
}

const defaultWorkers = 8

// Service runs scoring batches.
type Service struct {
	contacts ContactSource
	scores   ScoreSink
	workers  int
	now      func() time.Time
}

// NewService creates a rescore service. workers <= 0 selects the default
// pool size.
func NewService(contacts ContactSource, scores ScoreSink, workers int) *Service {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Service{contacts: contacts, scores: scores, workers: workers, now: time.Now}
}

// RescoreContact recomputes and persists a single contact's score.
func (s *Service) RescoreContact(ctx context.Context, id string) (*domain.Score, error) {
	c, err := s.contacts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	score := scoring.Compute(*c, s.now())
	if err := s.scores.Upsert(ctx, score); err != nil {
		return nil, fmt.Errorf("upsert score: %w", err)
	}
	return &score, nil
}

// RescoreAll recomputes every contact's score. Contacts are processed
// concurrently in no particular order; each result is upserted as soon as it
// is computed. Returns the number of scored contacts and of failed upserts.
func (s *Service) RescoreAll(ctx context.Context) (int, int, error) {
	contacts, err := s.contacts.All(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("load contacts: %w", err)
	}
	if len(contacts) == 0 {
		return 0, 0, nil
	}

	now := s.now()
	jobs := make(chan domain.Contact)
	var scored, failed int64
	var wg sync.WaitGroup

	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				score := scoring.Compute(c, now)
				if err := s.scores.Upsert(ctx, score); err != nil {
					log.Printf("[rescore] upsert %s: %v", c.ID, err)
					atomic.AddInt64(&failed, 1)
					continue
				}
				atomic.AddInt64(&scored, 1)
			}
		}()
	}

	for _, c := range contacts {
		select {
		case jobs <- c:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return int(scored), int(failed), ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	return int(scored), int(failed), nil
}
