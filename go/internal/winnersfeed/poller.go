// Package winnersfeed keeps the announcement ticker supplied with recent
// winners, either by polling the REST endpoint or by consuming the live
// websocket stream.
package winnersfeed

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/coinbazaar/coinbazaar/go/internal/models"
)

// WinnersAPI is the slice of the rewards client the feed needs.
type WinnersAPI interface {
	Winners(ctx context.Context) ([]models.WinnerAnnouncement, error)
}

// Sink receives each fresh winners list. The ticker implements this.
type Sink interface {
	SetItems(items []models.WinnerAnnouncement)
}

const maxRetries = 3

// Poller re-fetches the winners list on a fixed interval and pushes every
// successful result into the sink. Transient fetch errors are retried
// with a short growing backoff before falling back to the regular
// interval.
type Poller struct {
	api      WinnersAPI
	sink     Sink
	clock    clockwork.Clock
	interval time.Duration
	wakeCh   chan struct{}
}

// NewPoller creates a poller that refreshes every interval.
func NewPoller(api WinnersAPI, sink Sink, clock clockwork.Clock, interval time.Duration) *Poller {
	return &Poller{
		api:      api,
		sink:     sink,
		clock:    clock,
		interval: interval,
		wakeCh:   make(chan struct{}, 1),
	}
}

// Wake nudges the poller to fetch now instead of waiting out the current
// interval, e.g. right after a bet resolves locally.
func (p *Poller) Wake() {
	select {
	case p.wakeCh <- struct{}{}:
	default:
	}
}

// Run polls until ctx is cancelled. A fetch completing after cancellation
// is discarded, so the sink is never updated past teardown.
func (p *Poller) Run(ctx context.Context) {
	timer := p.clock.NewTimer(0)
	defer func() {
		if !timer.Stop() {
			select {
			case <-timer.Chan():
			default:
			}
		}
	}()

	log.Info().Dur("interval", p.interval).Msg("winners poller started")
	retryCount := 0

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("winners poller stopped")
			return
		case <-timer.Chan():
		case <-p.wakeCh:
			log.Debug().Msg("winners poller woken early")
		}

		winners, err := p.api.Winners(ctx)
		if ctx.Err() != nil {
			// Stale completion after teardown; do not touch the sink.
			return
		}
		if err != nil {
			retryCount++
			wait := p.interval
			if retryCount <= maxRetries {
				wait = time.Second * time.Duration(retryCount)
			}
			log.Warn().Err(err).Int("retry", retryCount).Msg("winners fetch failed")
			timer.Reset(wait)
			continue
		}

		retryCount = 0
		p.sink.SetItems(winners)
		log.Debug().Int("count", len(winners)).Msg("winners list refreshed")
		timer.Reset(p.interval)
	}
}
