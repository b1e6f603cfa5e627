// Command server runs the HTTP/websocket front end around the search
// driver: a JSON API for playing and searching, plus a live stats feed.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/TR-Jackson/Chess/pkg/chess"
	"github.com/TR-Jackson/Chess/pkg/mcts"
	"github.com/TR-Jackson/Chess/pkg/server"
)

var (
	addr        = flag.String("addr", ":8080", "listen address")
	fen         = flag.String("fen", chess.StartposFEN, "starting position")
	rolloutPly  = flag.Int("rollout-depth", mcts.DefaultRolloutDepth, "rollout ply cutoff")
	exploration = flag.Float64("exploration", mcts.ExplorationParam, "UCT exploration constant")
	interval    = flag.Int("stats-interval", 100, "cycles between websocket stats payloads")
	pretty      = flag.Bool("pretty", false, "human-readable log output")
)

func main() {
	flag.Parse()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if *pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	pos, err := chess.ParseFEN(*fen)
	if err != nil {
		logger.Fatal().Err(err).Str("fen", *fen).Msg("bad starting position")
	}

	driver := mcts.NewSearchDriver(pos, mcts.DriverConfig{
		Exploration:  *exploration,
		RolloutDepth: *rolloutPly,
		Logger:       logger.With().Str("component", "driver").Logger(),
	})
	srv := server.New(driver, server.Config{
		Logger:        logger.With().Str("component", "http").Logger(),
		StatsInterval: *interval,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{Addr: *addr, Handler: srv}
	grp, ctx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		logger.Info().Str("addr", *addr).Msg("listening")
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	grp.Go(func() error {
		srv.RunHub(ctx.Done())
		return nil
	})
	grp.Go(func() error {
		<-ctx.Done()
		driver.Cancel()
		driver.Wait()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := grp.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
	logger.Info().Msg("shutdown complete")
}
