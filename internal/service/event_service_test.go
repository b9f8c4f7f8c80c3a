package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"labflow/internal/model"

	"github.com/google/uuid"
)

// Mock EventRepository
type mockEventRepo struct {
	events    map[uuid.UUID]*model.Event
	createErr error
	// insertion order, for assertions
	order []uuid.UUID
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[uuid.UUID]*model.Event)}
}

func (m *mockEventRepo) Create(ctx context.Context, event *model.Event) error {
	if m.createErr != nil {
		return m.createErr
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	copied := *event
	m.events[event.ID] = &copied
	m.order = append(m.order, event.ID)
	return nil
}

func (m *mockEventRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	copied := *e
	return &copied, nil
}

func (m *mockEventRepo) ListBetween(ctx context.Context, from, to time.Time) ([]model.Event, error) {
	var out []model.Event
	for _, id := range m.order {
		e := m.events[id]
		if !e.Date.Before(from) && !e.Date.After(to) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockEventRepo) Update(ctx context.Context, event *model.Event) error {
	copied := *event
	m.events[event.ID] = &copied
	return nil
}

func (m *mockEventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.events, id)
	return nil
}

func (m *mockEventRepo) DeleteSeries(ctx context.Context, seriesID uuid.UUID) error {
	for id, e := range m.events {
		if e.SeriesID != nil && *e.SeriesID == seriesID {
			delete(m.events, id)
		}
	}
	return nil
}

// fakeTxManager runs the function directly; rollback is simulated by the
// repo's createErr aborting the loop.
type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

func TestCreateEvent_Single(t *testing.T) {
	repo := newMockEventRepo()
	svc := NewEventService(repo, fakeTxManager{})

	created, err := svc.CreateEvent(context.Background(), CreateEventRequest{
		Title: "Entrega Dr. Gomez",
		Date:  "2024-03-15",
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("got %d events, want 1", len(created))
	}
	if created[0].IsRecurring || created[0].SeriesID != nil {
		t.Error("single event should not carry series fields")
	}
	if len(repo.events) != 1 {
		t.Errorf("repo holds %d events", len(repo.events))
	}
}

func TestCreateEvent_RecurringMaterializesTwelveMonths(t *testing.T) {
	repo := newMockEventRepo()
	svc := NewEventService(repo, fakeTxManager{})

	created, err := svc.CreateEvent(context.Background(), CreateEventRequest{
		Title:        "Pago de renta",
		Date:         "2024-01-15",
		IsRecurring:  true,
		RecurringDay: 15,
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if len(created) != 12 {
		t.Fatalf("day 15: got %d rows, want 12", len(created))
	}

	seriesID := created[0].SeriesID
	if seriesID == nil {
		t.Fatal("series ID not set")
	}
	for i, e := range created {
		if e.Date.Day() != 15 {
			t.Errorf("row %d: day %d, want 15", i, e.Date.Day())
		}
		if e.Date.Month() != time.Month(i+1) {
			t.Errorf("row %d: month %v", i, e.Date.Month())
		}
		if e.SeriesID == nil || *e.SeriesID != *seriesID {
			t.Errorf("row %d: series ID mismatch", i)
		}
	}
}

func TestCreateEvent_RecurringSkipsShortMonths(t *testing.T) {
	cases := []struct {
		day  int
		want int
	}{
		{29, 12}, // 2024 is a leap year, February 29 exists
		{30, 11}, // no February
		{31, 7},  // Jan, Mar, May, Jul, Aug, Oct, Dec
	}
	for _, c := range cases {
		repo := newMockEventRepo()
		svc := NewEventService(repo, fakeTxManager{})

		created, err := svc.CreateEvent(context.Background(), CreateEventRequest{
			Title:        "Cierre de mes",
			Date:         "2024-01-01",
			IsRecurring:  true,
			RecurringDay: c.day,
		})
		if err != nil {
			t.Fatalf("day %d: %v", c.day, err)
		}
		if len(created) != c.want {
			t.Errorf("day %d: got %d rows, want %d", c.day, len(created), c.want)
		}
		for _, e := range created {
			if e.Date.Day() != c.day {
				t.Errorf("day %d: materialized %v", c.day, e.Date)
			}
		}
	}
}

func TestCreateEvent_Day29NonLeapYear(t *testing.T) {
	repo := newMockEventRepo()
	svc := NewEventService(repo, fakeTxManager{})

	created, err := svc.CreateEvent(context.Background(), CreateEventRequest{
		Title:        "Cierre",
		Date:         "2023-01-01",
		IsRecurring:  true,
		RecurringDay: 29,
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if len(created) != 11 {
		t.Errorf("2023 day 29: got %d rows, want 11", len(created))
	}
	for _, e := range created {
		if e.Date.Month() == time.February {
			t.Error("February should be skipped in a non-leap year")
		}
	}
}

func TestCreateEvent_InvalidInput(t *testing.T) {
	svc := NewEventService(newMockEventRepo(), fakeTxManager{})

	if _, err := svc.CreateEvent(context.Background(), CreateEventRequest{Title: "x", Date: "15/01/2024"}); err == nil {
		t.Error("expected error for wrong date format")
	}
	if _, err := svc.CreateEvent(context.Background(), CreateEventRequest{Title: "x", Date: "2024-01-01", IsRecurring: true, RecurringDay: 0}); err == nil {
		t.Error("expected error for recurring_day 0")
	}
	if _, err := svc.CreateEvent(context.Background(), CreateEventRequest{Title: "x", Date: "2024-01-01", IsRecurring: true, RecurringDay: 32}); err == nil {
		t.Error("expected error for recurring_day 32")
	}
}

func TestListEvents_RejectsInvertedRange(t *testing.T) {
	svc := NewEventService(newMockEventRepo(), fakeTxManager{})
	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.ListEvents(context.Background(), from, to); err == nil {
		t.Error("expected error for inverted range")
	}
}

func TestDeleteEvent_WholeSeries(t *testing.T) {
	repo := newMockEventRepo()
	svc := NewEventService(repo, fakeTxManager{})

	created, err := svc.CreateEvent(context.Background(), CreateEventRequest{
		Title:        "Pago",
		Date:         "2024-01-10",
		IsRecurring:  true,
		RecurringDay: 10,
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	if err := svc.DeleteEvent(context.Background(), created[3].ID.String(), true); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	if len(repo.events) != 0 {
		t.Errorf("series delete left %d rows", len(repo.events))
	}
}

func TestDeleteEvent_SingleRowOfSeries(t *testing.T) {
	repo := newMockEventRepo()
	svc := NewEventService(repo, fakeTxManager{})

	created, _ := svc.CreateEvent(context.Background(), CreateEventRequest{
		Title:        "Pago",
		Date:         "2024-01-10",
		IsRecurring:  true,
		RecurringDay: 10,
	})

	if err := svc.DeleteEvent(context.Background(), created[0].ID.String(), false); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	if len(repo.events) != 11 {
		t.Errorf("single delete left %d rows, want 11", len(repo.events))
	}
}

func TestUpdateEvent_PartialFields(t *testing.T) {
	repo := newMockEventRepo()
	svc := NewEventService(repo, fakeTxManager{})

	created, _ := svc.CreateEvent(context.Background(), CreateEventRequest{
		Title: "Original", Date: "2024-05-01", IsImportant: false,
	})

	important := true
	updated, err := svc.UpdateEvent(context.Background(), created[0].ID.String(), UpdateEventRequest{
		IsImportant: &important,
	})
	if err != nil {
		t.Fatalf("UpdateEvent: %v", err)
	}
	if updated.Title != "Original" {
		t.Errorf("title changed: %q", updated.Title)
	}
	if !updated.IsImportant {
		t.Error("is_important not applied")
	}
}
