package listsync_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/coinbazaar/coinbazaar/go/clients"
	"github.com/coinbazaar/coinbazaar/go/internal/listsync"
	"github.com/coinbazaar/coinbazaar/go/internal/models"
	"github.com/coinbazaar/coinbazaar/go/internal/notify"
)

type fakeBackend struct {
	mu       sync.Mutex
	requests []models.WalletRequest
	fetches  atomic.Int32
	fetchErr error
}

func (b *fakeBackend) fetch(ctx context.Context) ([]models.WalletRequest, error) {
	b.fetches.Add(1)
	if b.fetchErr != nil {
		return nil, b.fetchErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.WalletRequest, len(b.requests))
	copy(out, b.requests)
	return out, nil
}

func pending(ids ...string) []models.WalletRequest {
	out := make([]models.WalletRequest, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.WalletRequest{RequestID: id, Status: models.WalletRequested})
	}
	return out
}

func TestRefresh_ReplacesItems(t *testing.T) {
	backend := &fakeBackend{requests: pending("r1", "r2")}
	rec := &notify.Recorder{}
	store := listsync.New(backend.fetch, rec, nil)

	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if got := store.Items(); len(got) != 2 {
		t.Errorf("expected 2 items, got %d", len(got))
	}
}

func TestRefresh_FailureKeepsPriorState(t *testing.T) {
	backend := &fakeBackend{requests: pending("r1")}
	rec := &notify.Recorder{}
	store := listsync.New(backend.fetch, rec, nil)

	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	backend.fetchErr = errors.New("connection refused")
	if err := store.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	if got := store.Items(); len(got) != 1 || got[0].RequestID != "r1" {
		t.Errorf("prior list was lost: %+v", got)
	}
	if rec.LastError() == "" {
		t.Error("expected a user-visible error notification")
	}
}

func TestMutate_SuccessRefetchesAndNotifies(t *testing.T) {
	backend := &fakeBackend{requests: pending("r1", "r2")}
	rec := &notify.Recorder{}
	store := listsync.New(backend.fetch, rec, nil)
	store.Refresh(context.Background())
	before := backend.fetches.Load()

	err := store.Mutate(context.Background(), "r1", func(ctx context.Context) (string, error) {
		backend.mu.Lock()
		backend.requests = pending("r2")
		backend.mu.Unlock()
		return "Request Accepted", nil
	})
	if err != nil {
		t.Fatalf("Mutate failed: %v", err)
	}

	if backend.fetches.Load() != before+1 {
		t.Error("successful mutation must trigger exactly one re-fetch")
	}
	if got := store.Items(); len(got) != 1 || got[0].RequestID != "r2" {
		t.Errorf("list not refreshed from backend: %+v", got)
	}
	if len(rec.Successes) != 1 || rec.Successes[0] != "Request Accepted" {
		t.Errorf("expected success toast with backend message, got %v", rec.Successes)
	}
}

func TestMutate_FailureLeavesListAndShowsExactMessage(t *testing.T) {
	backend := &fakeBackend{requests: pending("r1")}
	rec := &notify.Recorder{}
	store := listsync.New(backend.fetch, rec, nil)
	store.Refresh(context.Background())
	before := backend.fetches.Load()

	err := store.Mutate(context.Background(), "r1", func(ctx context.Context) (string, error) {
		return "", &clients.APIError{StatusCode: 400, Message: "Name required"}
	})
	if err == nil {
		t.Fatal("expected mutation error")
	}

	if backend.fetches.Load() != before {
		t.Error("failed mutation must not re-fetch")
	}
	if rec.LastError() != "Name required" {
		t.Errorf("error toast = %q, want the exact backend message", rec.LastError())
	}
	if got := store.Items(); len(got) != 1 {
		t.Errorf("list changed on failure: %+v", got)
	}
}

func TestMutate_DuplicateSubmissionMakesOneCall(t *testing.T) {
	backend := &fakeBackend{requests: pending("r1")}
	rec := &notify.Recorder{}
	store := listsync.New(backend.fetch, rec, nil)
	store.Refresh(context.Background())

	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		store.Mutate(context.Background(), "r1", func(ctx context.Context) (string, error) {
			calls.Add(1)
			close(started)
			<-release
			return "ok", nil
		})
	}()

	<-started
	if !store.InFlight("r1") {
		t.Error("InFlight should report the pending mutation")
	}

	// Second click while the first is still in flight.
	err := store.Mutate(context.Background(), "r1", func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "ok", nil
	})
	if !errors.Is(err, listsync.ErrInFlight) {
		t.Errorf("expected ErrInFlight, got %v", err)
	}

	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("expected exactly one network call, got %d", calls.Load())
	}

	// A different entity is not blocked by r1's guard.
	if err := store.Mutate(context.Background(), "r2", func(ctx context.Context) (string, error) {
		return "ok", nil
	}); err != nil {
		t.Errorf("unrelated entity was blocked: %v", err)
	}
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	backend := &fakeBackend{requests: pending("r1")}
	rec := &notify.Recorder{}

	confirmed := false
	store := listsync.New(backend.fetch, rec, func(action, id string) bool {
		confirmed = true
		if action != "delete" || id != "r1" {
			t.Errorf("confirm called with %q %q", action, id)
		}
		return false
	})

	var calls atomic.Int32
	err := store.Delete(context.Background(), "r1", func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "", nil
	})
	if !errors.Is(err, listsync.ErrDeclined) {
		t.Errorf("expected ErrDeclined, got %v", err)
	}
	if !confirmed {
		t.Error("confirmation callback was not invoked")
	}
	if calls.Load() != 0 {
		t.Error("declined delete must not reach the network")
	}
}

func TestMutate_MissingTokenShortCircuits(t *testing.T) {
	backend := &fakeBackend{requests: pending("r1")}
	rec := &notify.Recorder{}
	store := listsync.New(backend.fetch, rec, nil)

	err := store.Mutate(context.Background(), "r1", func(ctx context.Context) (string, error) {
		return "", clients.ErrNoToken
	})
	if !errors.Is(err, clients.ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
	if rec.LastError() != clients.ErrNoToken.Error() {
		t.Errorf("error toast = %q, want the sign-in prompt", rec.LastError())
	}
}
