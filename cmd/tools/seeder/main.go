package main

import (
	"context"
	"flag"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/canteen-order/internal/app"
	"github.com/noah-isme/canteen-order/internal/config"
	"github.com/noah-isme/canteen-order/internal/lock"
	"github.com/noah-isme/canteen-order/internal/menu"
	"github.com/noah-isme/canteen-order/internal/obs"
)

func main() {
	force := flag.Bool("force", false, "seed even when the backend menu is not empty")
	timeout := flag.Duration("timeout", 30*time.Second, "overall deadline for the seeding run")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("tool", "seeder").Logger()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	deps, err := app.New(ctx, cfg, logger, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise dependencies")
	}
	defer func() { _ = deps.Close() }()

	var created int
	run := func(ctx context.Context) error {
		created, err = seedMenu(ctx, deps.MenuClient(), *force, logger)
		return err
	}
	if deps.Redis != nil {
		err = lock.Locker{Client: deps.Redis}.WithLock(ctx, lock.SeedKey, *timeout, run)
	} else {
		err = run(ctx)
	}
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.BackendURL).Msg("seed menu")
	}
	if cache := deps.MenuCache(); cache != nil && created > 0 {
		if err := cache.Invalidate(ctx); err != nil {
			logger.Warn().Err(err).Msg("invalidate menu cache")
		}
	}
}

func seedMenu(ctx context.Context, client *menu.Client, force bool, logger zerolog.Logger) (int, error) {
	existing, err := client.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 && !force {
		logger.Info().Int("items", len(existing)).Msg("menu already populated, nothing to do")
		return 0, nil
	}

	seed := menu.DefaultSeed()
	created, err := client.Seed(ctx, seed)
	if err != nil {
		logger.Warn().Err(err).Int("created", created).Int("total", len(seed)).Msg("some seed items failed")
		if created == 0 {
			return 0, err
		}
	}
	logger.Info().Int("created", created).Int("total", len(seed)).Msg("seeding completed")
	return created, nil
}
