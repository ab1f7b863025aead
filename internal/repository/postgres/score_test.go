package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/maisondor/whatsapp-crm/internal/domain"
)

func TestScoreRepoUpsert(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO crm_scores").
		WithArgs("c1", 72.0, "hot", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewScoreRepo(db)
	err := repo.Upsert(context.Background(), domain.Score{
		ContactID: "c1",
		Score:     72,
		Segment:   domain.SegmentHot,
		Reasons: []domain.ScoreReason{
			{RuleID: domain.RuleRecency, Points: 35, Label: "Recent inquiry (+35)"},
		},
		ComputedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestScoreRepoGetByContactMissingIsNil(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM crm_scores").
		WithArgs("unscored").
		WillReturnRows(sqlmock.NewRows([]string{"contact_id", "score", "segment", "reasons", "computed_at"}))

	repo := NewScoreRepo(db)
	s, err := repo.GetByContact(context.Background(), "unscored")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if s != nil {
		t.Errorf("expected nil score for unscored contact, got %+v", s)
	}
}

func TestScoreRepoByContactIDs(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM crm_scores").
		WillReturnRows(sqlmock.NewRows([]string{"contact_id", "score", "segment", "reasons", "computed_at"}).
			AddRow("c1", 72.0, "hot", []byte(`[{"rule_id":"recency","points":35,"label":"Recent inquiry (+35)"}]`), now).
			AddRow("c2", 40.0, "warm", []byte(`[]`), now))

	repo := NewScoreRepo(db)
	scores, err := repo.ByContactIDs(context.Background(), []string{"c1", "c2", "c3"})
	if err != nil {
		t.Fatalf("by contact ids: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("expected 2 scores, got %d", len(scores))
	}
	if scores["c1"].Reasons[0].Points != 35 {
		t.Errorf("reasons not decoded: %+v", scores["c1"].Reasons)
	}
	if _, ok := scores["c3"]; ok {
		t.Error("unscored contact must be absent from the map")
	}
}

func TestScoreRepoCountBySegment(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT COUNT(.+) FROM crm_scores").
		WithArgs("warm").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(17))

	repo := NewScoreRepo(db)
	n, err := repo.CountBySegment(context.Background(), domain.SegmentWarm)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 17 {
		t.Errorf("count: got %d, want 17", n)
	}
}
