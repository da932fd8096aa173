// Package countdown derives per-item remaining time for the bet item
// grid. One shared one-second tick drives every item; the state is pure
// derived display data recomputed from wall-clock time each tick, so it
// self-corrects after the process was suspended.
package countdown

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/coinbazaar/coinbazaar/go/internal/models"
)

// tickPeriod is the shared refresh interval for the whole grid.
const tickPeriod = time.Second

// State is the decomposed remaining time for one item.
type State struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// Zero reports whether the countdown has run out.
func (s State) Zero() bool {
	return s.Days == 0 && s.Hours == 0 && s.Minutes == 0 && s.Seconds == 0
}

// RemainingSeconds returns the whole seconds left until end, floored at
// zero so an expired item never reads negative.
func RemainingSeconds(now, end time.Time) int64 {
	diff := end.Sub(now)
	if diff <= 0 {
		return 0
	}
	return int64(diff / time.Second)
}

// Decompose splits whole seconds into days/hours/minutes/seconds.
func Decompose(seconds int64) State {
	return State{
		Days:    int(seconds / 86400),
		Hours:   int(seconds % 86400 / 3600),
		Minutes: int(seconds % 3600 / 60),
		Seconds: int(seconds % 60),
	}
}

// Grid computes countdown states for a set of bet items. Items whose
// window has not opened yet, or whose timestamps failed to parse, have no
// state entry; the view shows them as waiting to start.
type Grid struct {
	clock clockwork.Clock

	mu     sync.Mutex
	items  []models.BetItem
	states map[string]State
}

// NewGrid creates a grid driven by the given clock.
func NewGrid(clock clockwork.Clock) *Grid {
	return &Grid{
		clock:  clock,
		states: make(map[string]State),
	}
}

// SetItems replaces the tracked items and recomputes immediately so the
// first render does not wait a full tick. Items with broken windows are
// flagged once here rather than on every tick.
func (g *Grid) SetItems(items []models.BetItem) {
	g.mu.Lock()
	g.items = items
	g.mu.Unlock()

	for _, item := range items {
		if !item.WindowValid() {
			log.Warn().
				Str("item_id", item.ID).
				Str("name", item.Name).
				Msg("bet item has an unparsable bidding window; leaving it waiting")
		}
	}
	g.Recompute()
}

// Recompute recalculates every item's state from the current wall clock.
// Exported so tests and the view layer can force a refresh.
func (g *Grid) Recompute() {
	now := g.clock.Now()

	g.mu.Lock()
	defer g.mu.Unlock()

	states := make(map[string]State, len(g.items))
	for _, item := range g.items {
		if !item.WindowValid() {
			continue
		}
		if now.Before(item.StartTime.Time) {
			continue
		}
		states[item.ID] = Decompose(RemainingSeconds(now, item.EndTime.Time))
	}
	g.states = states
}

// StateFor returns the countdown for one item. ok is false while the item
// is waiting to start or has no usable window.
func (g *Grid) StateFor(id string) (State, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.states[id]
	return s, ok
}

// States returns a copy of all current countdown states keyed by item id.
func (g *Grid) States() map[string]State {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make(map[string]State, len(g.states))
	for id, s := range g.states {
		out[id] = s
	}
	return out
}

// Run recomputes the grid every second until ctx is cancelled.
func (g *Grid) Run(ctx context.Context) {
	timer := g.clock.NewTimer(tickPeriod)
	defer func() {
		if !timer.Stop() {
			select {
			case <-timer.Chan():
			default:
			}
		}
	}()

	log.Debug().Msg("countdown grid started")
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("countdown grid stopped")
			return
		case <-timer.Chan():
			g.Recompute()
			timer.Reset(tickPeriod)
		}
	}
}
