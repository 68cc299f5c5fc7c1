// Command cookieclicker runs the cookie factory game in the terminal.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/talgya/cookie-world/internal/catalog"
	"github.com/talgya/cookie-world/internal/config"
	"github.com/talgya/cookie-world/internal/console"
	"github.com/talgya/cookie-world/internal/engine"
	"github.com/talgya/cookie-world/internal/entropy"
	"github.com/talgya/cookie-world/internal/persistence"
)

func main() {
	if err := run(); err != nil {
		slog.Error("cookieclicker failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Logs go to stderr so they do not interleave with the game on stdout.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}

	opts := []engine.Option{}
	if cfg.Seed != 0 {
		opts = append(opts, engine.WithSource(entropy.NewSeeded(cfg.Seed)))
		slog.Info("using seeded randomness", "seed", cfg.Seed)
	}

	var conOpts []console.Option
	if cfg.JournalPath != "" {
		db, err := persistence.Open(cfg.JournalPath)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.SaveMeta("started_at", time.Now().UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("save meta: %w", err)
		}
		opts = append(opts, engine.WithJournal(db))
		conOpts = append(conOpts, console.WithHistory(db))
		slog.Info("journal opened", "path", cfg.JournalPath)
	}

	game := engine.NewGame(cat, opts...)

	sched := engine.NewScheduler(game)
	sched.Interval = cfg.TickInterval
	sched.SummaryEvery = cfg.SummaryEvery

	conOpts = append(conOpts, console.WithPrompt(console.IsInteractive(os.Stdin)))
	con := console.New(game, os.Stdin, os.Stdout, conOpts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sched.Run(gctx)
	})
	g.Go(func() error {
		// Leaving the command loop ends the game.
		defer cancel()
		return con.Run(gctx)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	stats := sched.Stats()
	slog.Info("game over", "ticks", stats.Ticks, "lucky_ticks", stats.Lucky, "failures", stats.Failures)
	return nil
}
