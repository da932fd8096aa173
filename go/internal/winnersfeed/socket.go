package winnersfeed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/coinbazaar/coinbazaar/go/internal/models"
)

// Event is one message on the winners websocket stream. The server sends
// the full current list on every resolution rather than a delta, which
// keeps the client free of merge logic.
type Event struct {
	Type    string                      `json:"type"`
	Winners []models.WinnerAnnouncement `json:"winners"`
}

// EventTypeWinners is the only event type the feed consumes today.
const EventTypeWinners = "winners"

const reconnectDelay = 5 * time.Second

// Socket consumes the live winners stream and pushes each update into the
// sink. It reconnects with a flat delay until ctx is cancelled.
type Socket struct {
	url    string
	sink   Sink
	dialer *websocket.Dialer
}

// NewSocket creates a live feed consumer for the given ws:// URL.
func NewSocket(url string, sink Sink) *Socket {
	return &Socket{
		url:    url,
		sink:   sink,
		dialer: websocket.DefaultDialer,
	}
}

// Run consumes the stream until ctx is cancelled.
func (s *Socket) Run(ctx context.Context) {
	for {
		if err := s.consume(ctx); err != nil && ctx.Err() == nil {
			log.Warn().Err(err).Str("url", s.url).Msg("winners stream dropped; reconnecting")
		}
		select {
		case <-ctx.Done():
			log.Info().Msg("winners stream stopped")
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (s *Socket) consume(ctx context.Context) error {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Unblock ReadMessage when the context is cancelled.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	log.Info().Str("url", s.url).Msg("winners stream connected")
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var event Event
		if err := json.Unmarshal(payload, &event); err != nil {
			log.Warn().Err(err).Msg("skipping undecodable winners event")
			continue
		}
		if event.Type != EventTypeWinners {
			continue
		}
		if ctx.Err() != nil {
			return nil
		}
		s.sink.SetItems(event.Winners)
	}
}
