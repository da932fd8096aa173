package ticker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/coinbazaar/coinbazaar/go/internal/models"
	"github.com/coinbazaar/coinbazaar/go/internal/ticker"
)

func winners(names ...string) []models.WinnerAnnouncement {
	out := make([]models.WinnerAnnouncement, 0, len(names))
	for _, n := range names {
		out = append(out, models.WinnerAnnouncement{UserName: n})
	}
	return out
}

func TestAdvance_CyclesBackToStart(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tk := ticker.New(clock, 3*time.Second)
	tk.SetItems(winners("a", "b", "c", "d", "e"))

	start := tk.Index()
	for i := 0; i < 5; i++ {
		tk.Advance()
	}
	if tk.Index() != start {
		t.Errorf("after N advances index = %d, want starting index %d", tk.Index(), start)
	}
}

func TestAdvance_EmptyListIsNoOp(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tk := ticker.New(clock, 3*time.Second)

	tk.Advance()
	tk.Advance()

	frame := tk.Snapshot()
	if frame.Current != nil || frame.Previous != nil {
		t.Error("empty ticker should render nothing")
	}
	if tk.Index() != 0 {
		t.Errorf("empty ticker index mutated to %d", tk.Index())
	}
}

func TestAdvance_SingleItem(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tk := ticker.New(clock, 3*time.Second)
	tk.SetItems(winners("only"))

	tk.Advance()
	frame := tk.Snapshot()
	if frame.Current == nil || frame.Current.UserName != "only" {
		t.Fatal("single item should stay current")
	}
	if frame.Previous == nil || frame.Previous.UserName != "only" {
		t.Error("single item cycle should point previous at the same entry")
	}
}

func TestSetItems_ShrinkClampsIndex(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tk := ticker.New(clock, 3*time.Second)
	tk.SetItems(winners("a", "b", "c", "d"))

	tk.Advance()
	tk.Advance()
	tk.Advance() // index 3

	tk.SetItems(winners("x", "y"))
	frame := tk.Snapshot()
	if frame.Current == nil {
		t.Fatal("ticker should still render after the list shrank")
	}
	if got := tk.Index(); got >= 2 {
		t.Errorf("index %d still beyond new length 2", got)
	}

	// Advancing after the shrink must also stay in bounds.
	for i := 0; i < 5; i++ {
		tk.Advance()
		if tk.Index() >= 2 {
			t.Fatalf("advance escaped bounds: index %d", tk.Index())
		}
	}
}

func TestSetItems_ShrinkToEmptyRendersNothing(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tk := ticker.New(clock, 3*time.Second)
	tk.SetItems(winners("a", "b"))
	tk.Advance()

	tk.SetItems(nil)
	frame := tk.Snapshot()
	if frame.Current != nil || frame.Previous != nil {
		t.Error("ticker should render nothing after list emptied")
	}
	tk.Advance() // must not panic or mutate
	if tk.Index() != 0 {
		t.Errorf("index mutated on empty list: %d", tk.Index())
	}
}

func TestRun_AdvancesOnClockAndStopsOnCancel(t *testing.T) {
	clock := clockwork.NewFakeClock()

	var mu sync.Mutex
	var frames []ticker.Frame
	tk := ticker.New(clock, 3*time.Second, ticker.WithFrameFunc(func(f ticker.Frame) {
		mu.Lock()
		frames = append(frames, f)
		mu.Unlock()
	}))
	tk.SetItems(winners("a", "b", "c"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		tk.Run(ctx)
		close(done)
	}()

	clock.BlockUntilContext(ctx, 1)
	clock.Advance(3 * time.Second)
	clock.BlockUntilContext(ctx, 1)
	clock.Advance(3 * time.Second)
	clock.BlockUntilContext(ctx, 1)

	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames after 2 ticks, got %d", len(frames))
	}
	if frames[0].Current.UserName != "b" || frames[0].Previous.UserName != "a" {
		t.Errorf("first frame = %+v, want b sliding in over a", frames[0])
	}
}

func TestSnapshot_FallbacksForMissingFields(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tk := ticker.New(clock, time.Second)
	tk.SetItems([]models.WinnerAnnouncement{{}})

	frame := tk.Snapshot()
	if frame.Current == nil {
		t.Fatal("expected a current entry")
	}
	if frame.Current.DisplayName() != "Anonymous" {
		t.Errorf("DisplayName fallback = %q", frame.Current.DisplayName())
	}
	if frame.Current.Image() != models.PlaceholderImage {
		t.Errorf("Image fallback = %q", frame.Current.Image())
	}
}
