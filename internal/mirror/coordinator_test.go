package mirror

import (
	"context"
	"errors"
	"sync"
	"testing"

	"labflow/internal/sheet"
)

type mockNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (m *mockNotifier) Success(orderID, field, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.successes = append(m.successes, orderID+"/"+field)
}

func (m *mockNotifier) Error(orderID, field, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, message)
}

func newTestMirror(records ...sheet.Record) *Mirror {
	m := New()
	m.Replace(records)
	return m
}

func orderRecord(id, status string) sheet.Record {
	return sheet.Record{
		"ID Orden": id,
		"Estado":   status,
		"Costo":    float64(100),
	}
}

func TestUpdate_SuccessAppliesEverywhere(t *testing.T) {
	list := newTestMirror(orderRecord("ORD-0001", sheet.StatusRecepcion), orderRecord("ORD-0002", sheet.StatusDiseno))
	day := newTestMirror(orderRecord("ORD-0001", sheet.StatusRecepcion))
	notifier := &mockNotifier{}
	coord := NewCoordinator(notifier)

	calls := 0
	err := coord.Update(context.Background(), "ORD-0001", sheet.FieldStatus, sheet.StatusDiseno,
		func(ctx context.Context) error { calls++; return nil }, list, day)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if calls != 1 {
		t.Errorf("send called %d times, want 1", calls)
	}

	for _, m := range []*Mirror{list, day} {
		v, _ := m.Value("ORD-0001", sheet.FieldStatus)
		if v != sheet.StatusDiseno {
			t.Errorf("mirror value: got %v, want %s", v, sheet.StatusDiseno)
		}
	}
	// The untouched record keeps its value.
	if v, _ := list.Value("ORD-0002", sheet.FieldStatus); v != sheet.StatusDiseno {
		t.Errorf("unrelated record changed: %v", v)
	}
	if len(notifier.successes) != 1 || len(notifier.errors) != 0 {
		t.Errorf("notifications: %v / %v", notifier.successes, notifier.errors)
	}
}

func TestUpdate_FailureRollsBackEveryMirror(t *testing.T) {
	list := newTestMirror(orderRecord("ORD-0001", sheet.StatusRecepcion))
	day := newTestMirror(orderRecord("ORD-0001", sheet.StatusRecepcion))
	notifier := &mockNotifier{}
	coord := NewCoordinator(notifier)

	var seenDuringSend any
	sendErr := &sheet.RemoteError{Message: "row not found"}
	err := coord.Update(context.Background(), "ORD-0001", sheet.FieldStatus, sheet.StatusTerminado,
		func(ctx context.Context) error {
			// The optimistic value must already be visible while the
			// request is outstanding.
			seenDuringSend, _ = list.Value("ORD-0001", sheet.FieldStatus)
			return sendErr
		}, list, day)
	if !errors.Is(err, sheet.ErrRemoteRejected) {
		t.Fatalf("want the send error back, got %v", err)
	}

	if seenDuringSend != sheet.StatusTerminado {
		t.Errorf("optimistic value during send: got %v", seenDuringSend)
	}
	for _, m := range []*Mirror{list, day} {
		v, _ := m.Value("ORD-0001", sheet.FieldStatus)
		if v != sheet.StatusRecepcion {
			t.Errorf("rollback: got %v, want %s", v, sheet.StatusRecepcion)
		}
	}
	if len(notifier.errors) != 1 || notifier.errors[0] != "row not found" {
		t.Errorf("error notification: %v", notifier.errors)
	}
	if len(notifier.successes) != 0 {
		t.Errorf("unexpected success notification: %v", notifier.successes)
	}
}

func TestUpdate_TransportFailureUsesGenericMessage(t *testing.T) {
	list := newTestMirror(orderRecord("ORD-0001", sheet.StatusRecepcion))
	notifier := &mockNotifier{}
	coord := NewCoordinator(notifier)

	coord.Update(context.Background(), "ORD-0001", sheet.FieldStatus, sheet.StatusTerminado,
		func(ctx context.Context) error { return errors.New("dial tcp: timeout") }, list)

	if len(notifier.errors) != 1 || notifier.errors[0] != "No se pudo guardar el cambio" {
		t.Errorf("error notification: %v", notifier.errors)
	}
}

func TestUpdate_EqualValueIsNoOp(t *testing.T) {
	list := newTestMirror(orderRecord("ORD-0001", sheet.StatusRecepcion))
	notifier := &mockNotifier{}
	coord := NewCoordinator(notifier)

	calls := 0
	err := coord.Update(context.Background(), "ORD-0001", sheet.FieldStatus, sheet.StatusRecepcion,
		func(ctx context.Context) error { calls++; return nil }, list)
	if err != nil {
		t.Fatalf("no-op update errored: %v", err)
	}
	if calls != 0 {
		t.Errorf("send called %d times, want 0", calls)
	}
	if len(notifier.successes)+len(notifier.errors) != 0 {
		t.Errorf("no-op should not notify: %v / %v", notifier.successes, notifier.errors)
	}
}

func TestUpdate_ValidationErrors(t *testing.T) {
	list := newTestMirror(orderRecord("ORD-0001", sheet.StatusRecepcion))
	coord := NewCoordinator(&mockNotifier{})
	noSend := func(ctx context.Context) error { t.Fatal("send should not run"); return nil }

	cases := []struct {
		name, key, field string
		mirrors          []*Mirror
	}{
		{"empty key", "", sheet.FieldStatus, []*Mirror{list}},
		{"empty field", "ORD-0001", "", []*Mirror{list}},
		{"no mirrors", "ORD-0001", sheet.FieldStatus, nil},
		{"unknown record", "ORD-9999", sheet.FieldStatus, []*Mirror{list}},
	}
	for _, c := range cases {
		err := coord.Update(context.Background(), c.key, c.field, "x", noSend, c.mirrors...)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("%s: want ErrValidation, got %v", c.name, err)
		}
	}
}

func TestUpdate_RejectsOverlappingEdit(t *testing.T) {
	list := newTestMirror(orderRecord("ORD-0001", sheet.StatusRecepcion))
	coord := NewCoordinator(&mockNotifier{})

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- coord.Update(context.Background(), "ORD-0001", sheet.FieldStatus, sheet.StatusDiseno,
			func(ctx context.Context) error {
				close(entered)
				<-release
				return nil
			}, list)
	}()

	<-entered
	if !coord.InFlight("ORD-0001", sheet.FieldStatus) {
		t.Error("expected pair to be in flight")
	}

	err := coord.Update(context.Background(), "ORD-0001", sheet.FieldStatus, sheet.StatusFresado,
		func(ctx context.Context) error { return nil }, list)
	if !errors.Is(err, ErrUpdateInFlight) {
		t.Errorf("want ErrUpdateInFlight, got %v", err)
	}

	// A different field of the same record is not blocked.
	err = coord.Update(context.Background(), "ORD-0001", sheet.FieldCourier, "Luis",
		func(ctx context.Context) error { return nil }, list)
	if errors.Is(err, ErrUpdateInFlight) {
		t.Errorf("different field should not be blocked: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first update: %v", err)
	}
	if coord.InFlight("ORD-0001", sheet.FieldStatus) {
		t.Error("pair should be idle after settle")
	}
}
