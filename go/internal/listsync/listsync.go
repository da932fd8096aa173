// Package listsync implements the fetch-list / mutate / re-fetch pattern
// shared by the wallet, gift code, product and task admin views. The
// displayed list is never patched locally: after every successful
// mutation the list is re-fetched so it always reflects backend truth.
package listsync

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/coinbazaar/coinbazaar/go/clients"
	"github.com/coinbazaar/coinbazaar/go/internal/notify"
)

// ErrInFlight is returned when a mutation for an entity is already
// pending. Rapid double-clicks hit this instead of the network.
var ErrInFlight = errors.New("operation already in flight for this entity")

// ErrDeclined is returned when the user refused the confirmation prompt
// for a destructive action. No network call is made.
var ErrDeclined = errors.New("action declined by user")

// Fetcher loads the authoritative list from the backend.
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// Mutation performs one mutating call and returns the backend's success
// message, if any.
type Mutation func(ctx context.Context) (message string, err error)

// ConfirmFunc asks the user to confirm a destructive action.
type ConfirmFunc func(action, entityID string) bool

// Store keeps one list in sync with its REST resource.
type Store[T any] struct {
	fetch    Fetcher[T]
	notifier notify.Notifier
	confirm  ConfirmFunc

	mu       sync.Mutex
	items    []T
	inFlight map[string]bool
}

// New creates a store. confirm may be nil, in which case destructive
// actions proceed without prompting (used by non-interactive callers).
func New[T any](fetch Fetcher[T], notifier notify.Notifier, confirm ConfirmFunc) *Store[T] {
	return &Store[T]{
		fetch:    fetch,
		notifier: notifier,
		confirm:  confirm,
		inFlight: make(map[string]bool),
	}
}

// Items returns a copy of the last fetched list.
func (s *Store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Refresh re-fetches the list. On failure the previous list is kept and
// the user is notified; there is no automatic retry.
func (s *Store[T]) Refresh(ctx context.Context) error {
	items, err := s.fetch(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("list refresh failed; keeping prior state")
		s.notifier.Error(clients.UserMessage(err))
		return err
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// Mutate runs op for the entity, guarding against duplicate concurrent
// submissions for the same id. On success the backend message (or a
// fallback) is surfaced and the list is re-fetched before the store is
// considered consistent. On failure the list is left untouched and the
// error message is shown.
func (s *Store[T]) Mutate(ctx context.Context, entityID string, op Mutation) error {
	return s.mutate(ctx, entityID, "", op)
}

// Delete is Mutate for destructive actions: the confirmation callback
// runs before any network call is issued.
func (s *Store[T]) Delete(ctx context.Context, entityID string, op Mutation) error {
	return s.mutate(ctx, entityID, "delete", op)
}

func (s *Store[T]) mutate(ctx context.Context, entityID, destructive string, op Mutation) error {
	if destructive != "" && s.confirm != nil && !s.confirm(destructive, entityID) {
		return ErrDeclined
	}

	s.mu.Lock()
	if s.inFlight[entityID] {
		s.mu.Unlock()
		log.Debug().Str("entity_id", entityID).Msg("ignoring duplicate submission")
		return ErrInFlight
	}
	s.inFlight[entityID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, entityID)
		s.mu.Unlock()
	}()

	message, err := op(ctx)
	if err != nil {
		s.notifier.Error(clients.UserMessage(err))
		return err
	}

	if message == "" {
		message = "Done"
	}
	s.notifier.Success(message)

	// Backend truth, not a local patch.
	return s.Refresh(ctx)
}

// InFlight reports whether a mutation for the entity is pending, for
// views that want to disable the corresponding button.
func (s *Store[T]) InFlight(entityID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight[entityID]
}
