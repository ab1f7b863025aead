package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/maisondor/whatsapp-crm/internal/domain"
	"github.com/maisondor/whatsapp-crm/internal/service/campaign"
)

var campaignCols = []string{
	"id", "name", "segment", "filter", "template_body", "status",
	"sent_count", "failed_count", "sent_at", "created_at", "updated_at",
}

func TestCampaignRepoGetDecodesFilter(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM crm_campaigns").
		WithArgs("camp-1").
		WillReturnRows(sqlmock.NewRows(campaignCols).AddRow(
			"camp-1", "June VIP", "hot",
			[]byte(`{"min_score":70,"tags_any":["vip_event"]}`),
			"Hi {{first_name}}", "draft", 0, 0, nil, now, now,
		))

	repo := NewCampaignRepo(db)
	c, err := repo.Get(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if c.Filter.MinScore == nil || *c.Filter.MinScore != 70 {
		t.Errorf("filter min_score not decoded: %+v", c.Filter)
	}
	if len(c.Filter.TagsAny) != 1 || c.Filter.TagsAny[0] != "vip_event" {
		t.Errorf("filter tags_any not decoded: %+v", c.Filter)
	}
}

func TestCampaignRepoUpdateStatusNotFound(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectExec("UPDATE crm_campaigns").
		WithArgs("sending", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewCampaignRepo(db)
	err := repo.UpdateStatus(context.Background(), "missing", domain.CampaignSending)
	if !errors.Is(err, campaign.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCampaignRepoUpdateResult(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	sentAt := time.Now()
	mock.ExpectExec("UPDATE crm_campaigns").
		WithArgs("sent", 40, 2, sentAt, "camp-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewCampaignRepo(db)
	if err := repo.UpdateResult(context.Background(), "camp-1", domain.CampaignSent, 40, 2, sentAt); err != nil {
		t.Fatalf("update result: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCampaignRepoCreateSetsID(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO crm_campaigns").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewCampaignRepo(db)
	c := &domain.Campaign{Name: "June VIP", Segment: domain.SegmentHot, TemplateBody: "hi", Status: domain.CampaignDraft}
	if err := repo.Create(context.Background(), c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ID == "" {
		t.Error("create should assign an id")
	}
}
