package countdown_test

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/coinbazaar/coinbazaar/go/internal/countdown"
	"github.com/coinbazaar/coinbazaar/go/internal/models"
)

func flex(t time.Time) models.FlexTime {
	return models.FlexTime{Time: t, Valid: true}
}

func item(id string, start, end time.Time) models.BetItem {
	return models.BetItem{ID: id, Name: id, StartTime: flex(start), EndTime: flex(end)}
}

func TestDecompose_ExactBoundaries(t *testing.T) {
	tests := []struct {
		seconds int64
		want    countdown.State
	}{
		{0, countdown.State{}},
		{59, countdown.State{Seconds: 59}},
		{60, countdown.State{Minutes: 1}},
		{3661, countdown.State{Hours: 1, Minutes: 1, Seconds: 1}},
		{86400, countdown.State{Days: 1}},
		// 90061000 ms: one day, one hour, one minute, one second.
		{90061, countdown.State{Days: 1, Hours: 1, Minutes: 1, Seconds: 1}},
	}

	for _, tt := range tests {
		if got := countdown.Decompose(tt.seconds); got != tt.want {
			t.Errorf("Decompose(%d) = %+v, want %+v", tt.seconds, got, tt.want)
		}
	}
}

func TestGrid_WaitingBeforeStart(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC))
	grid := countdown.NewGrid(clock)

	now := clock.Now()
	grid.SetItems([]models.BetItem{
		item("future", now.Add(time.Hour), now.Add(48*time.Hour)),
	})

	if _, ok := grid.StateFor("future"); ok {
		t.Error("item before start_time must report waiting regardless of end_time")
	}
}

func TestGrid_CountsDownAndFloorsAtZero(t *testing.T) {
	start := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(start)
	grid := countdown.NewGrid(clock)

	grid.SetItems([]models.BetItem{
		item("live", start, start.Add(3*time.Second)),
	})

	s, ok := grid.StateFor("live")
	if !ok || s.Seconds != 3 {
		t.Fatalf("initial state = %+v ok=%v, want 3s", s, ok)
	}

	// Remaining decreases by exactly one per tick.
	for want := 2; want >= 0; want-- {
		clock.Advance(time.Second)
		grid.Recompute()
		s, ok = grid.StateFor("live")
		if !ok || s.Seconds != want {
			t.Fatalf("after tick state = %+v ok=%v, want %ds", s, ok, want)
		}
	}

	// Once at zero it holds there, never negative or wrapping.
	for i := 0; i < 3; i++ {
		clock.Advance(time.Second)
		grid.Recompute()
		s, ok = grid.StateFor("live")
		if !ok || !s.Zero() {
			t.Fatalf("expired state = %+v ok=%v, want zero forever", s, ok)
		}
	}
}

func TestGrid_StartBoundaryDecomposition(t *testing.T) {
	start := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(start)
	grid := countdown.NewGrid(clock)

	// end - start = 90061000 ms.
	grid.SetItems([]models.BetItem{
		item("window", start, start.Add(90061000*time.Millisecond)),
	})

	s, ok := grid.StateFor("window")
	if !ok {
		t.Fatal("item at start_time should be counting")
	}
	want := countdown.State{Days: 1, Hours: 1, Minutes: 1, Seconds: 1}
	if s != want {
		t.Errorf("state = %+v, want %+v", s, want)
	}
}

func TestGrid_MalformedWindowStaysWaiting(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC))
	grid := countdown.NewGrid(clock)

	grid.SetItems([]models.BetItem{
		{ID: "broken", Name: "broken"}, // no parsable window
	})

	for i := 0; i < 5; i++ {
		clock.Advance(time.Second)
		grid.Recompute()
		if _, ok := grid.StateFor("broken"); ok {
			t.Fatal("item with malformed window must stay waiting")
		}
	}
}

func TestGrid_SelfCorrectsAfterSuspension(t *testing.T) {
	start := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(start)
	grid := countdown.NewGrid(clock)

	grid.SetItems([]models.BetItem{
		item("live", start, start.Add(time.Hour)),
	})

	// Simulate a backgrounded tab: a long gap with no ticks, then one tick.
	clock.Advance(10 * time.Minute)
	grid.Recompute()

	s, ok := grid.StateFor("live")
	if !ok {
		t.Fatal("item should be counting")
	}
	if s.Minutes != 50 || s.Seconds != 0 {
		t.Errorf("state after gap = %+v, want 50m0s (derived from wall clock)", s)
	}
}

func TestGrid_IndependentItems(t *testing.T) {
	start := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(start)
	grid := countdown.NewGrid(clock)

	grid.SetItems([]models.BetItem{
		item("a", start, start.Add(time.Minute)),
		item("b", start, start.Add(2*time.Minute)),
		item("waiting", start.Add(time.Hour), start.Add(2*time.Hour)),
	})

	states := grid.States()
	if len(states) != 2 {
		t.Fatalf("expected 2 counting items, got %d", len(states))
	}
	if states["a"].Minutes != 1 || states["b"].Minutes != 2 {
		t.Errorf("states = %+v, want independent per-item values", states)
	}
}
