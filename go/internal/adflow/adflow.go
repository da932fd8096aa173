// Package adflow models the rewarded-ad round trip: the external ad
// widget completes exactly once (or never, which a timeout covers), then
// the backend credits coins after a fixed delay while the client shows a
// countdown.
package adflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/coinbazaar/coinbazaar/go/clients"
	"github.com/coinbazaar/coinbazaar/go/internal/envelope"
	"github.com/coinbazaar/coinbazaar/go/internal/models"
	"github.com/coinbazaar/coinbazaar/go/internal/notify"
)

// RewardDelay is how long the backend waits before crediting a watched
// ad; the client counts it down for the user.
const RewardDelay = 18 * time.Second

// ErrDailyLimit is returned once today's ad quota is used up.
var ErrDailyLimit = errors.New("daily ad limit reached")

// ErrWatchInProgress is returned while an earlier watch is still pending.
var ErrWatchInProgress = errors.New("an ad is already being watched")

// ErrWidgetTimeout is how a completion that never arrived is reported.
var ErrWidgetTimeout = errors.New("ad widget did not complete in time")

// Completion is a single-shot future for the host-controlled ad widget:
// it resolves exactly once, from the widget callback or from the timeout
// fallback, whichever comes first.
type Completion struct {
	once sync.Once
	ch   chan error
	done chan struct{}
}

// NewCompletion arms a completion with a timeout fallback on the given
// clock. If the widget never calls back, the completion resolves with
// ErrWidgetTimeout.
func NewCompletion(clock clockwork.Clock, timeout time.Duration) *Completion {
	c := &Completion{
		ch:   make(chan error, 1),
		done: make(chan struct{}),
	}
	timer := clock.NewTimer(timeout)
	go func() {
		select {
		case <-timer.Chan():
			c.resolve(ErrWidgetTimeout)
		case <-c.done:
			timer.Stop()
		}
	}()
	return c
}

// Resolve records the widget outcome. Later calls, including the timeout
// fallback, are no-ops.
func (c *Completion) Resolve(err error) {
	c.resolve(err)
}

func (c *Completion) resolve(err error) {
	c.once.Do(func() {
		c.ch <- err
		close(c.done)
	})
}

// Wait blocks until the completion resolves or ctx is cancelled.
func (c *Completion) Wait(ctx context.Context) error {
	select {
	case err := <-c.ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AdsAPI is the slice of the rewards client the flow needs.
type AdsAPI interface {
	AdStats(ctx context.Context) (*models.AdStats, error)
	WatchAd(ctx context.Context) (envelope.Ack, error)
}

// Flow drives the watch-ad sequence: guard the daily cap and concurrent
// watches, wait for the widget completion, report the view, count down
// the reward delay, then re-fetch stats so the displayed counter is
// backend truth.
type Flow struct {
	api      AdsAPI
	clock    clockwork.Clock
	notifier notify.Notifier

	mu       sync.Mutex
	watching bool
	stats    models.AdStats
}

// NewFlow creates a flow. Call Load before the first Watch so the daily
// cap reflects the server.
func NewFlow(api AdsAPI, clock clockwork.Clock, notifier notify.Notifier) *Flow {
	return &Flow{
		api:      api,
		clock:    clock,
		notifier: notifier,
	}
}

// Load fetches today's stats from the backend.
func (f *Flow) Load(ctx context.Context) error {
	stats, err := f.api.AdStats(ctx)
	if err != nil {
		f.notifier.Error(clients.UserMessage(err))
		return err
	}

	f.mu.Lock()
	f.stats = *stats
	f.mu.Unlock()
	return nil
}

// Stats returns the last known daily progress.
func (f *Flow) Stats() models.AdStats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats
}

// Watch runs one rewarded-ad view end to end: wait for the widget
// completion, report the view, then count down the reward delay. onTick,
// if non-nil, is called with the seconds remaining in the countdown.
func (f *Flow) Watch(ctx context.Context, completion *Completion, onTick func(secondsLeft int)) error {
	f.mu.Lock()
	if f.watching {
		f.mu.Unlock()
		return ErrWatchInProgress
	}
	if f.stats.MaxPerDay > 0 && f.stats.AdsWatchedToday >= f.stats.MaxPerDay {
		f.mu.Unlock()
		f.notifier.Error(ErrDailyLimit.Error())
		return ErrDailyLimit
	}
	f.watching = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.watching = false
		f.mu.Unlock()
	}()

	// The view is only reported once the widget actually finished; a
	// widget that errors out or times out earns nothing.
	if err := completion.Wait(ctx); err != nil {
		if ctx.Err() == nil {
			f.notifier.Error(err.Error())
		}
		return err
	}

	ack, err := f.api.WatchAd(ctx)
	if err != nil {
		f.notifier.Error(clients.UserMessage(err))
		return err
	}
	if !ack.OK() {
		msg := ack.Message
		if msg == "" {
			msg = "Ad watch failed"
		}
		f.notifier.Error(msg)
		return errors.New(msg)
	}

	// Count the reward delay down on the shared clock.
	remaining := int(RewardDelay / time.Second)
	timer := f.clock.NewTimer(time.Second)
	defer func() {
		if !timer.Stop() {
			select {
			case <-timer.Chan():
			default:
			}
		}
	}()
	for remaining > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.Chan():
			remaining--
			if onTick != nil {
				onTick(remaining)
			}
			if remaining > 0 {
				timer.Reset(time.Second)
			}
		}
	}

	f.notifier.Success("Coins added!")

	// Counter is backend truth; re-fetch rather than trusting a local bump.
	if err := f.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("stats refresh after ad watch failed")
		return err
	}
	return nil
}
