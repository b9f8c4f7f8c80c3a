package mirror

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"labflow/internal/sheet"
)

var (
	// ErrValidation means the edit was rejected before any network call.
	ErrValidation = errors.New("invalid field edit")
	// ErrUpdateInFlight means an edit for the same (key, field) pair is
	// still awaiting its response. Overlapping edits are disallowed rather
	// than queued; the client re-enables the control once the first edit
	// settles.
	ErrUpdateInFlight = errors.New("an update for this field is already in flight")
)

// Notifier receives the user-visible outcome of every settled update.
type Notifier interface {
	Success(orderID, field, message string)
	Error(orderID, field, message string)
}

// RequestFunc performs the endpoint-specific remote mutation. Each call site
// supplies its own: the endpoints do not share a body shape or success flag.
type RequestFunc func(ctx context.Context) error

// Coordinator runs the optimistic field-update protocol: apply the new value
// to every mirror immediately, send the remote mutation, and on any failure
// restore the captured previous value everywhere.
//
// A (key, field) pair is either Idle or Pending. Pending rejects further
// edits for that pair; both outcomes return it to Idle.
type Coordinator struct {
	mu       sync.Mutex
	inflight map[[2]string]struct{}
	notifier Notifier
}

func NewCoordinator(notifier Notifier) *Coordinator {
	return &Coordinator{
		inflight: make(map[[2]string]struct{}),
		notifier: notifier,
	}
}

// InFlight reports whether an update for (key, field) is still pending.
func (c *Coordinator) InFlight(key, field string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.inflight[[2]string{key, field}]
	return ok
}

// Update mutates one field of one record. mirrors[0] is the primary
// collection and the source of the previous value; every mirror in the list
// reflects the optimistic value and, on failure, the rollback.
//
// Calling with a value equal to the current one is a no-op: no request, no
// notification.
func (c *Coordinator) Update(ctx context.Context, key, field string, newValue any, send RequestFunc, mirrors ...*Mirror) error {
	if key == "" {
		return fmt.Errorf("%w: record key is required", ErrValidation)
	}
	if field == "" {
		return fmt.Errorf("%w: field name is required", ErrValidation)
	}
	if len(mirrors) == 0 {
		return fmt.Errorf("%w: no local collection to update", ErrValidation)
	}

	primary := mirrors[0]
	previous, ok := primary.Value(key, field)
	if !ok {
		return fmt.Errorf("%w: unknown record %q", ErrValidation, key)
	}
	if fmt.Sprint(previous) == fmt.Sprint(newValue) {
		return nil
	}

	pair := [2]string{key, field}
	c.mu.Lock()
	if _, busy := c.inflight[pair]; busy {
		c.mu.Unlock()
		return ErrUpdateInFlight
	}
	c.inflight[pair] = struct{}{}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.inflight, pair)
		c.mu.Unlock()
	}()

	// Optimistic phase: every mirror shows the new value before the
	// endpoint has confirmed anything.
	for _, m := range mirrors {
		m.SetValue(key, field, newValue)
	}

	if err := send(ctx); err != nil {
		for _, m := range mirrors {
			m.SetValue(key, field, previous)
		}
		c.notifier.Error(key, field, failureMessage(err))
		return err
	}

	c.notifier.Success(key, field, fmt.Sprintf("%s actualizado", field))
	return nil
}

// failureMessage prefers the server-provided rejection message, falling back
// to a generic one for transport errors and malformed bodies.
func failureMessage(err error) string {
	var remote *sheet.RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		return remote.Message
	}
	return "No se pudo guardar el cambio"
}
