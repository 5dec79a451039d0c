package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type mockEntryRepo struct {
	entries map[uuid.UUID]*Entry
	// appointment reference counts by entry id
	refs     map[uuid.UUID]int
	failWith error
}

func newMockEntryRepo() *mockEntryRepo {
	return &mockEntryRepo{
		entries: make(map[uuid.UUID]*Entry),
		refs:    make(map[uuid.UUID]int),
	}
}

func (m *mockEntryRepo) Create(ctx context.Context, e *Entry) error {
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	m.entries[e.ID] = e
	return nil
}

func (m *mockEntryRepo) GetByID(ctx context.Context, id uuid.UUID) (*Entry, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	e, ok := m.entries[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return e, nil
}

func (m *mockEntryRepo) GetByName(ctx context.Context, name string) (*Entry, error) {
	for _, e := range m.entries {
		if strings.EqualFold(e.DisplayName, name) {
			return e, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockEntryRepo) Update(ctx context.Context, e *Entry) error {
	if _, ok := m.entries[e.ID]; !ok {
		return pgx.ErrNoRows
	}
	e.UpdatedAt = time.Now()
	m.entries[e.ID] = e
	return nil
}

func (m *mockEntryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.entries, id)
	return nil
}

func (m *mockEntryRepo) List(ctx context.Context, limit, offset int) ([]*Entry, int, error) {
	var all []*Entry
	for _, e := range m.entries {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].DisplayName < all[j].DisplayName })
	total := len(all)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *mockEntryRepo) CountAppointments(ctx context.Context, id uuid.UUID) (int, error) {
	return m.refs[id], nil
}

func TestCreate_RejectsDuplicateName(t *testing.T) {
	repo := newMockEntryRepo()
	svc := NewService("room", repo)

	if err := svc.Create(context.Background(), &Entry{DisplayName: "Room 1"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := svc.Create(context.Background(), &Entry{DisplayName: "room 1"})
	if err != ErrDuplicateName {
		t.Errorf("expected ErrDuplicateName for case-insensitive match, got %v", err)
	}
}

func TestCreate_RequiresDisplayName(t *testing.T) {
	svc := NewService("service", newMockEntryRepo())

	if err := svc.Create(context.Background(), &Entry{DisplayName: "   "}); err == nil {
		t.Error("expected error for blank display_name")
	}
}

func TestCreate_TrimsDisplayName(t *testing.T) {
	repo := newMockEntryRepo()
	svc := NewService("professional", repo)

	e := &Entry{DisplayName: "  Dra. Paula  "}
	if err := svc.Create(context.Background(), e); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if e.DisplayName != "Dra. Paula" {
		t.Errorf("display name = %q, want trimmed", e.DisplayName)
	}
}

func TestUpdate_AllowsKeepingOwnName(t *testing.T) {
	repo := newMockEntryRepo()
	svc := NewService("room", repo)

	e := &Entry{DisplayName: "Room 1"}
	if err := svc.Create(context.Background(), e); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Re-saving with the same name is not a duplicate.
	if err := svc.Update(context.Background(), &Entry{ID: e.ID, DisplayName: "Room 1"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUpdate_RejectsRenameToTakenName(t *testing.T) {
	repo := newMockEntryRepo()
	svc := NewService("room", repo)

	a := &Entry{DisplayName: "Room 1"}
	b := &Entry{DisplayName: "Room 2"}
	for _, e := range []*Entry{a, b} {
		if err := svc.Create(context.Background(), e); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	err := svc.Update(context.Background(), &Entry{ID: b.ID, DisplayName: "Room 1"})
	if err != ErrDuplicateName {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
}

func TestDelete_RefusedWhileReferenced(t *testing.T) {
	repo := newMockEntryRepo()
	svc := NewService("professional", repo)

	e := &Entry{DisplayName: "Dra. Paula"}
	if err := svc.Create(context.Background(), e); err != nil {
		t.Fatalf("Create: %v", err)
	}
	repo.refs[e.ID] = 3

	if err := svc.Delete(context.Background(), e.ID); err != ErrInUse {
		t.Errorf("expected ErrInUse, got %v", err)
	}
	if _, err := svc.Get(context.Background(), e.ID); err != nil {
		t.Error("entry should survive a refused delete")
	}
}

func TestDelete_Unreferenced(t *testing.T) {
	repo := newMockEntryRepo()
	svc := NewService("room", repo)

	e := &Entry{DisplayName: "Room 1"}
	if err := svc.Create(context.Background(), e); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(context.Background(), e.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), e.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc := NewService("room", newMockEntryRepo())

	if err := svc.Delete(context.Background(), uuid.New()); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGet_PropagatesRepoError(t *testing.T) {
	repo := newMockEntryRepo()
	repo.failWith = errors.New("connection refused")
	svc := NewService("room", repo)

	_, err := svc.Get(context.Background(), uuid.New())
	if errors.Is(err, ErrNotFound) {
		t.Fatal("a repo outage must not read as not-found")
	}
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("expected the repo error back, got %v", err)
	}
}
