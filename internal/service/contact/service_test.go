package contact

import (
	"context"
	"errors"
	"testing"

	"github.com/maisondor/whatsapp-crm/internal/domain"
)

type memRepo struct {
	byPhone map[string]*domain.Contact
}

func newMemRepo() *memRepo {
	return &memRepo{byPhone: make(map[string]*domain.Contact)}
}

func (m *memRepo) Get(_ context.Context, id string) (*domain.Contact, error) {
	for _, c := range m.byPhone {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memRepo) All(_ context.Context) ([]domain.Contact, error) {
	out := make([]domain.Contact, 0, len(m.byPhone))
	for _, c := range m.byPhone {
		out = append(out, *c)
	}
	return out, nil
}

func (m *memRepo) ByIDs(_ context.Context, ids []string) ([]domain.Contact, error) {
	var out []domain.Contact
	for _, id := range ids {
		if c, err := m.Get(context.Background(), id); err == nil {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memRepo) Upsert(_ context.Context, c *domain.Contact) error {
	if existing, ok := m.byPhone[c.Phone]; ok {
		c.ID = existing.ID
	}
	cp := *c
	m.byPhone[c.Phone] = &cp
	return nil
}

func TestCreateNormalizesPhone(t *testing.T) {
	svc := NewService(newMemRepo())

	// 8-digit local number falls back to the Hong Kong country code.
	c, err := svc.Create(context.Background(), CreateInput{Phone: "9123 4567", FullName: "Mei Chan"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Phone != "+85291234567" {
		t.Errorf("phone: got %s, want +85291234567", c.Phone)
	}
	if c.ID == "" {
		t.Error("id not assigned")
	}
	if c.Tags == nil {
		t.Error("tags should never be nil")
	}
}

func TestCreateRejectsUnusablePhone(t *testing.T) {
	svc := NewService(newMemRepo())
	if _, err := svc.Create(context.Background(), CreateInput{Phone: "not a number"}); !errors.Is(err, ErrInvalidPhone) {
		t.Fatalf("expected ErrInvalidPhone, got %v", err)
	}
}

func TestCreateNormalizesDOB(t *testing.T) {
	svc := NewService(newMemRepo())

	c, err := svc.Create(context.Background(), CreateInput{Phone: "+85291234567", DOB: "30/12/1990"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.DOB != "1990-12-30" {
		t.Errorf("dob: got %q, want 1990-12-30", c.DOB)
	}

	// Garbage DOB is dropped, not stored raw.
	c, err = svc.Create(context.Background(), CreateInput{Phone: "+85291234568", DOB: "winter 1990"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.DOB != "" {
		t.Errorf("unparseable dob should be empty, got %q", c.DOB)
	}
}

func TestCreateUpsertsByPhone(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	first, err := svc.Create(context.Background(), CreateInput{Phone: "+85291234567", FullName: "Mei"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := svc.Create(context.Background(), CreateInput{Phone: "91234567", FullName: "Mei Chan", TotalSpend: 5000})
	if err != nil {
		t.Fatalf("create again: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("same phone should keep one row: %s vs %s", first.ID, second.ID)
	}

	got, err := svc.Get(context.Background(), first.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.FullName != "Mei Chan" || got.TotalSpend != 5000 {
		t.Errorf("upsert did not refresh fields: %+v", got)
	}
}
