package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coinbazaar/coinbazaar/go/clients/rewards_api_client"
	"github.com/coinbazaar/coinbazaar/go/internal/countdown"
	"github.com/coinbazaar/coinbazaar/go/internal/listsync"
	"github.com/coinbazaar/coinbazaar/go/internal/models"
	"github.com/coinbazaar/coinbazaar/go/internal/notify"
	"github.com/coinbazaar/coinbazaar/go/internal/ticker"
	"github.com/coinbazaar/coinbazaar/go/internal/token"
	"github.com/coinbazaar/coinbazaar/go/internal/winnersfeed"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	config, err := loadConfig(getEnv("CONFIG_PATH", "coinbazaar.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	tokens, err := token.NewFileStore(config.TokenPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", config.TokenPath).Msg("failed to open token store")
	}

	client := rewards_api_client.NewRewardsApiClient(config.API.BaseURL, tokens)
	clock := clockwork.NewRealClock()
	notifier := notify.LogNotifier{}

	// The home ticker rotates through recent winners; every frame is a
	// congratulation line.
	homeTicker := ticker.New(clock, config.RotateInterval(), ticker.WithFrameFunc(func(f ticker.Frame) {
		if f.Current == nil {
			return
		}
		log.Info().
			Str("winner", f.Current.DisplayName()).
			Str("product", f.Current.ProductName).
			Str("bet_code", f.Current.BetCode).
			Msg("congratulations")
	}))

	grid := countdown.NewGrid(clock)

	betItems := listsync.New[models.BetItem](client.BetItems, notifier, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	run := func(fn func(context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(ctx)
		}()
	}

	run(homeTicker.Run)
	run(grid.Run)

	// Winners arrive over the websocket when one is configured, otherwise
	// by polling the REST endpoint.
	if config.API.SocketURL != "" {
		socket := winnersfeed.NewSocket(config.API.SocketURL, homeTicker)
		run(socket.Run)
	} else {
		poller := winnersfeed.NewPoller(client, homeTicker, clock, config.PollInterval())
		run(poller.Run)
	}

	// Bet items refresh on the same cadence as the feed and drive the
	// countdown grid.
	run(func(ctx context.Context) {
		refreshBetItems(ctx, betItems, grid)
		timer := clock.NewTimer(config.PollInterval())
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.Chan():
				refreshBetItems(ctx, betItems, grid)
				timer.Reset(config.PollInterval())
			}
		}
	})

	log.Info().Str("api", config.API.BaseURL).Msg("client core running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutting down")
	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		log.Warn().Msg("shutdown timed out")
	}
}

func refreshBetItems(ctx context.Context, store *listsync.Store[models.BetItem], grid *countdown.Grid) {
	if err := store.Refresh(ctx); err != nil {
		return
	}
	items := store.Items()
	grid.SetItems(items)
	log.Debug().Int("count", len(items)).Msg("bet items refreshed")
}
