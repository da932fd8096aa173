// Package ticker implements the rotating winner announcement shown on the
// home page: one entry at a time from a list, auto-advancing on a fixed
// period, with the outgoing entry kept around for the slide transition.
package ticker

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/coinbazaar/coinbazaar/go/internal/models"
)

// Frame is what a renderer draws on each advance: the entry sliding in and
// the one sliding out. Previous is nil on the first frame and whenever the
// cycle was reset.
type Frame struct {
	Current  *models.WinnerAnnouncement
	Previous *models.WinnerAnnouncement
}

// Ticker cycles through winner announcements on a clock interval. It owns
// no network calls; the backing list is replaced from outside via
// SetItems. The cyclic index is recomputed against the list length on
// every advance, so a list that shrank between fetches can never be
// indexed out of range.
type Ticker struct {
	clock    clockwork.Clock
	interval time.Duration
	onFrame  func(Frame)

	mu       sync.Mutex
	items    []models.WinnerAnnouncement
	current  int
	previous int // -1 means no outgoing entry
}

// Option configures a Ticker.
type Option func(*Ticker)

// WithFrameFunc registers a callback invoked with the new frame after each
// advance. Called without the internal lock held.
func WithFrameFunc(fn func(Frame)) Option {
	return func(t *Ticker) { t.onFrame = fn }
}

// New creates a ticker that advances every interval on the given clock.
func New(clock clockwork.Clock, interval time.Duration, opts ...Option) *Ticker {
	t := &Ticker{
		clock:    clock,
		interval: interval,
		previous: -1,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetItems replaces the backing list. An index that no longer fits the new
// length resets to the top of the cycle; transitions to or from an empty
// list clear the outgoing entry so no stale announcement is drawn.
func (t *Ticker) SetItems(items []models.WinnerAnnouncement) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.items = items
	if len(items) == 0 {
		t.current = 0
		t.previous = -1
		return
	}
	if t.current >= len(items) {
		t.current = 0
		t.previous = -1
	}
	if t.previous >= len(items) {
		t.previous = -1
	}
}

// Advance moves the cycle forward one step. With an empty list it is a
// no-op; with a single item previous and current refer to the same entry
// and the renderer simply shows no transition.
func (t *Ticker) Advance() {
	t.mu.Lock()
	n := len(t.items)
	if n == 0 {
		t.mu.Unlock()
		return
	}
	if t.current >= n {
		// List shrank since the last advance; restart the cycle.
		t.current = 0
		t.previous = -1
	} else {
		t.previous = t.current
		t.current = (t.current + 1) % n
	}
	frame := t.frameLocked()
	onFrame := t.onFrame
	t.mu.Unlock()

	if onFrame != nil {
		onFrame(frame)
	}
}

// Snapshot returns the frame a renderer should currently draw. Both
// pointers are nil when the list is empty.
func (t *Ticker) Snapshot() Frame {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frameLocked()
}

// Index returns the current cycle position. Exposed for tests and debug
// output.
func (t *Ticker) Index() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

func (t *Ticker) frameLocked() Frame {
	var f Frame
	if len(t.items) == 0 {
		return f
	}
	cur := t.items[t.current]
	f.Current = &cur
	if t.previous >= 0 && t.previous < len(t.items) {
		prev := t.items[t.previous]
		f.Previous = &prev
	}
	return f
}

// Run advances the ticker on the configured interval until ctx is
// cancelled. The timer is stopped and drained on the way out so no tick
// fires after teardown.
func (t *Ticker) Run(ctx context.Context) {
	timer := t.clock.NewTimer(t.interval)
	defer stopAndDrainTimer(timer)

	log.Debug().Dur("interval", t.interval).Msg("announcement ticker started")
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("announcement ticker stopped")
			return
		case <-timer.Chan():
			t.Advance()
			timer.Reset(t.interval)
		}
	}
}

// stopAndDrainTimer safely stops a timer and drains its channel, following
// the pattern recommended in the time.Timer.Stop documentation.
func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}
