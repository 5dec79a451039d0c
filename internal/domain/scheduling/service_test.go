package scheduling

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type mockApptRepo struct {
	appointments map[uuid.UUID]*Appointment
	failFind     error
	failCreate   error
	// failCreateAfter, when positive, fails Create once that many inserts
	// have succeeded.
	failCreateAfter int
	creates         int
}

func newMockApptRepo() *mockApptRepo {
	return &mockApptRepo{appointments: make(map[uuid.UUID]*Appointment)}
}

func (m *mockApptRepo) Create(_ context.Context, a *Appointment) error {
	if m.failCreate != nil {
		return m.failCreate
	}
	if m.failCreateAfter > 0 && m.creates >= m.failCreateAfter {
		return errors.New("insert failed")
	}
	m.creates++
	a.ID = uuid.New()
	if a.Status == "" {
		a.Status = StatusPending
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	m.appointments[a.ID] = &cp
	return nil
}

// CreateBatch mirrors the transactional contract: a failed insert removes
// every occurrence written before it.
func (m *mockApptRepo) CreateBatch(ctx context.Context, appts []*Appointment) error {
	var inserted []uuid.UUID
	for _, a := range appts {
		if err := m.Create(ctx, a); err != nil {
			for _, id := range inserted {
				delete(m.appointments, id)
			}
			return err
		}
		inserted = append(inserted, a.ID)
	}
	return nil
}

func (m *mockApptRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.appointments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (m *mockApptRepo) Update(_ context.Context, a *Appointment) error {
	if _, ok := m.appointments[a.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *a
	m.appointments[a.ID] = &cp
	return nil
}

func (m *mockApptRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	a, ok := m.appointments[id]
	if !ok {
		return pgx.ErrNoRows
	}
	a.Status = status
	return nil
}

func (m *mockApptRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.appointments, id)
	return nil
}

func (m *mockApptRepo) List(_ context.Context, f ListFilter, limit, offset int) ([]*Appointment, int, error) {
	var items []*Appointment
	for _, a := range m.appointments {
		if !f.Day.IsZero() {
			next := f.Day.AddDate(0, 0, 1)
			if a.AppointmentTime.Before(f.Day) || !a.AppointmentTime.Before(next) {
				continue
			}
		} else {
			if !f.From.IsZero() && a.AppointmentTime.Before(f.From) {
				continue
			}
			if !f.To.IsZero() && a.AppointmentTime.After(f.To) {
				continue
			}
		}
		if f.CustomerID != uuid.Nil && a.CustomerID != f.CustomerID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		cp := *a
		items = append(items, &cp)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].AppointmentTime.Before(items[j].AppointmentTime)
	})
	total := len(items)
	if offset > len(items) {
		offset = len(items)
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, total, nil
}

func (m *mockApptRepo) FindProfessionalConflicts(_ context.Context, professionalID uuid.UUID, start, end time.Time) ([]*Appointment, error) {
	if m.failFind != nil {
		return nil, m.failFind
	}
	return m.inWindow(start, end, func(a *Appointment) bool { return a.ProfessionalID == professionalID }), nil
}

func (m *mockApptRepo) FindRoomConflicts(_ context.Context, roomID uuid.UUID, start, end time.Time) ([]*Appointment, error) {
	if m.failFind != nil {
		return nil, m.failFind
	}
	return m.inWindow(start, end, func(a *Appointment) bool { return a.RoomID == roomID }), nil
}

func (m *mockApptRepo) inWindow(start, end time.Time, match func(*Appointment) bool) []*Appointment {
	var items []*Appointment
	for _, a := range m.appointments {
		if a.Status == StatusCancelled || !match(a) {
			continue
		}
		if a.AppointmentTime.Before(start) || a.AppointmentTime.After(end) {
			continue
		}
		cp := *a
		items = append(items, &cp)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].AppointmentTime.Before(items[j].AppointmentTime)
	})
	return items
}

func newTestService() (*Service, *mockApptRepo) {
	repo := newMockApptRepo()
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC) }
	return svc, repo
}

func validRequest() *CreateRequest {
	return &CreateRequest{
		CustomerID:     uuid.New(),
		ServiceID:      uuid.New(),
		ProfessionalID: uuid.New(),
		RoomID:         uuid.New(),
		Date:           "2025-06-10",
		Time:           "10:00",
	}
}

func seed(t *testing.T, repo *mockApptRepo, professionalID, roomID uuid.UUID, at time.Time, status string) *Appointment {
	t.Helper()
	a := &Appointment{
		CustomerID:      uuid.New(),
		ServiceID:       uuid.New(),
		ProfessionalID:  professionalID,
		RoomID:          roomID,
		AppointmentTime: at,
		Status:          status,
	}
	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return a
}

func TestService_Create_Single(t *testing.T) {
	svc, repo := newTestService()
	result, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(result.Appointments) != 1 {
		t.Fatalf("got %d appointments, want 1", len(result.Appointments))
	}
	a := result.Appointments[0]
	if a.Status != StatusPending {
		t.Errorf("status = %q, want pending", a.Status)
	}
	want := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	if !a.AppointmentTime.Equal(want) {
		t.Errorf("appointment_time = %v, want %v", a.AppointmentTime, want)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
	if len(repo.appointments) != 1 {
		t.Errorf("repo has %d appointments, want 1", len(repo.appointments))
	}
}

func TestService_Create_WeeklyRecurrence(t *testing.T) {
	svc, repo := newTestService()
	req := validRequest()
	req.Date = "2025-01-06"
	req.Recurrence = CadenceWeekly
	req.RecurrenceCount = 4

	result, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(result.Appointments) != 4 {
		t.Fatalf("got %d appointments, want 4", len(result.Appointments))
	}
	for i, a := range result.Appointments {
		if a.AppointmentTime.Weekday() != time.Monday {
			t.Errorf("occurrence %d on %v, want Monday", i, a.AppointmentTime.Weekday())
		}
	}
	if len(repo.appointments) != 4 {
		t.Errorf("repo has %d appointments, want 4", len(repo.appointments))
	}
}

func TestService_Create_SeriesIsAtomic(t *testing.T) {
	svc, repo := newTestService()
	repo.failCreateAfter = 2

	req := validRequest()
	req.Recurrence = CadenceWeekly
	req.RecurrenceCount = 4

	if _, err := svc.Create(context.Background(), req); err == nil {
		t.Fatal("expected error when an insert fails mid-series")
	}
	if len(repo.appointments) != 0 {
		t.Errorf("repo has %d appointments after a failed series, want 0", len(repo.appointments))
	}
}

func TestService_Create_ValidationFails(t *testing.T) {
	svc, repo := newTestService()
	req := validRequest()
	req.CustomerID = uuid.Nil
	req.Date = "2024-12-31" // in the past relative to the fixed clock

	_, err := svc.Create(context.Background(), req)
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if verrs["customer_id"] == "" || verrs["appointment_time"] == "" {
		t.Errorf("expected customer_id and appointment_time keys, got %v", verrs)
	}
	if len(repo.appointments) != 0 {
		t.Error("nothing should be booked on validation failure")
	}
}

func TestService_Create_WarnsButBooks(t *testing.T) {
	svc, repo := newTestService()
	req := validRequest()
	at := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

	seed(t, repo, req.ProfessionalID, uuid.New(), at.Add(30*time.Minute), StatusPending)

	result, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(result.Appointments) != 1 {
		t.Fatalf("conflict must not block booking; got %d appointments", len(result.Appointments))
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(result.Warnings), result.Warnings)
	}
	w := result.Warnings[0]
	if w.Resource != "professional" || w.Count != 1 {
		t.Errorf("warning = %+v", w)
	}
}

func TestService_Create_RoomAndProfessionalCheckedIndependently(t *testing.T) {
	svc, repo := newTestService()
	req := validRequest()
	at := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

	seed(t, repo, uuid.New(), req.RoomID, at, StatusPending)

	result, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Resource != "room" {
		t.Fatalf("expected a single room warning, got %v", result.Warnings)
	}
}

func TestService_Create_FailsClosedOnCheckError(t *testing.T) {
	svc, repo := newTestService()
	repo.failFind = errors.New("connection refused")

	_, err := svc.Create(context.Background(), validRequest())
	if err == nil {
		t.Fatal("expected error when availability cannot be verified")
	}
	if len(repo.appointments) != 0 {
		t.Error("nothing should be booked when the check fails")
	}
}

func TestService_CheckAvailability_ClosedWindow(t *testing.T) {
	svc, repo := newTestService()
	professionalID := uuid.New()
	at := time.Date(2025, 6, 10, 11, 0, 0, 0, time.UTC)

	// 10:00 sits on the closed lower bound of the window around 11:00;
	// 12:01 is one minute outside the upper bound.
	seed(t, repo, professionalID, uuid.New(), at.Add(-time.Hour), StatusPending)
	seed(t, repo, professionalID, uuid.New(), at.Add(time.Hour+time.Minute), StatusPending)

	avail, err := svc.CheckProfessionalAvailability(context.Background(), professionalID, at)
	if err != nil {
		t.Fatalf("CheckProfessionalAvailability: %v", err)
	}
	if avail.Count != 1 {
		t.Fatalf("count = %d, want 1", avail.Count)
	}
	if avail.Available() {
		t.Error("window with a conflict reported available")
	}
	if !avail.Conflicts[0].AppointmentTime.Equal(at.Add(-time.Hour)) {
		t.Errorf("conflict at %v, want %v", avail.Conflicts[0].AppointmentTime, at.Add(-time.Hour))
	}
}

func TestService_CheckAvailability_IgnoresCancelled(t *testing.T) {
	svc, repo := newTestService()
	roomID := uuid.New()
	at := time.Date(2025, 6, 10, 11, 0, 0, 0, time.UTC)

	seed(t, repo, uuid.New(), roomID, at, StatusCancelled)

	avail, err := svc.CheckRoomAvailability(context.Background(), roomID, at)
	if err != nil {
		t.Fatalf("CheckRoomAvailability: %v", err)
	}
	if !avail.Available() {
		t.Errorf("cancelled appointment should not conflict, count = %d", avail.Count)
	}
}

func TestService_UpdateStatus_AllTransitions(t *testing.T) {
	svc, repo := newTestService()
	statuses := []string{StatusPending, StatusCompleted, StatusCancelled, StatusRescheduled}

	for _, from := range statuses {
		for _, to := range statuses {
			if from == to {
				continue
			}
			a := seed(t, repo, uuid.New(), uuid.New(),
				time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC), from)
			updated, err := svc.UpdateStatus(context.Background(), a.ID, to)
			if err != nil {
				t.Fatalf("%s -> %s: %v", from, to, err)
			}
			if updated.Status != to {
				t.Errorf("%s -> %s: status = %q", from, to, updated.Status)
			}
		}
	}
}

func TestService_UpdateStatus_Invalid(t *testing.T) {
	svc, repo := newTestService()
	a := seed(t, repo, uuid.New(), uuid.New(),
		time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC), StatusPending)

	if _, err := svc.UpdateStatus(context.Background(), a.ID, "archived"); err == nil {
		t.Error("expected error for unknown status")
	}
	if _, err := svc.UpdateStatus(context.Background(), uuid.New(), StatusCompleted); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestService_Update_Reschedules(t *testing.T) {
	svc, repo := newTestService()
	a := seed(t, repo, uuid.New(), uuid.New(),
		time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC), StatusPending)

	req := &CreateRequest{
		CustomerID:     a.CustomerID,
		ServiceID:      a.ServiceID,
		ProfessionalID: a.ProfessionalID,
		RoomID:         a.RoomID,
		Date:           "2025-06-12",
		Time:           "15:00",
	}
	updated, err := svc.Update(context.Background(), a.ID, req)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	want := time.Date(2025, 6, 12, 15, 0, 0, 0, time.UTC)
	if !updated.AppointmentTime.Equal(want) {
		t.Errorf("appointment_time = %v, want %v", updated.AppointmentTime, want)
	}
	if len(repo.appointments) != 1 {
		t.Errorf("reschedule must not create rows, repo has %d", len(repo.appointments))
	}
}

func TestService_Update_NotFound(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Update(context.Background(), uuid.New(), validRequest())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestService_List_Filters(t *testing.T) {
	svc, repo := newTestService()
	customerID := uuid.New()
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	seed(t, repo, uuid.New(), uuid.New(), day.Add(10*time.Hour), StatusPending)
	target := seed(t, repo, uuid.New(), uuid.New(), day.Add(14*time.Hour), StatusPending)
	target.CustomerID = customerID
	repo.appointments[target.ID].CustomerID = customerID
	seed(t, repo, uuid.New(), uuid.New(), day.AddDate(0, 0, 1).Add(10*time.Hour), StatusPending)

	items, total, err := svc.List(context.Background(), ListFilter{Day: day}, 50, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("day filter: total = %d, len = %d, want 2", total, len(items))
	}

	items, _, err = svc.List(context.Background(), ListFilter{CustomerID: customerID}, 50, 0)
	if err != nil {
		t.Fatalf("List by customer: %v", err)
	}
	if len(items) != 1 || items[0].ID != target.ID {
		t.Errorf("customer filter returned %d items", len(items))
	}

	items, _, err = svc.List(context.Background(), ListFilter{
		From: day.Add(12 * time.Hour),
		To:   day.AddDate(0, 0, 2),
	}, 50, 0)
	if err != nil {
		t.Fatalf("List by range: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("range filter returned %d items, want 2", len(items))
	}
}

func TestService_Delete(t *testing.T) {
	svc, repo := newTestService()
	a := seed(t, repo, uuid.New(), uuid.New(),
		time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC), StatusPending)

	if err := svc.Delete(context.Background(), a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.Delete(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
}
