package main

import (
	"atm-simulator/internal/config"
	"atm-simulator/internal/metrics"
	"atm-simulator/internal/repository"
	"atm-simulator/internal/services"
	"atm-simulator/internal/session"
	"atm-simulator/internal/terminal"
	"atm-simulator/internal/utils"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "atm: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if _, err := utils.Init(cfg.Environment, cfg.LogLevel, cfg.LogFormat, cfg.LogFile); err != nil {
		return err
	}
	defer utils.Sync()
	if cfg.EnvFileMissing() {
		utils.LogInfo("Main", "no .env file, using environment variables")
	}

	signalCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(signalCtx)
	defer cancel()

	backend, closeBackend, err := openBackend(ctx, cfg)
	if err != nil {
		utils.LogError("Main", "unable to open store", err)
		return err
	}
	defer closeBackend()

	store := repository.NewStore(backend)
	if err := store.Load(ctx); err != nil {
		return err
	}
	utils.LogSuccess("Main", "store loaded from %s (%d keys)", backend.Name(), store.Len())

	ledger := services.NewLedger(store,
		services.NewAuthService(cfg.BcryptCost),
		services.WithDailyReset(cfg.ResetDailyLimit),
	)
	collector := metrics.NewMetricsCollector()
	controller := session.NewController(ledger, collector)

	s := session.New()
	s.Status = terminal.StartupStatus(store.Len() == 0)
	utils.LogInfo("Main", "session %s started", s.ID)

	g, gctx := errgroup.WithContext(ctx)
	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			return collector.Serve(gctx, cfg.MetricsAddr)
		})
	}

	// The terminal blocks on stdin, which a signal cannot interrupt, so it
	// runs outside the group and is abandoned on shutdown.
	terminalDone := make(chan error, 1)
	go func() {
		terminalDone <- terminal.New(controller, os.Stdin, os.Stdout).Run(gctx, s)
	}()

	var runErr error
	select {
	case runErr = <-terminalDone:
	case <-gctx.Done():
		utils.LogInfo("Main", "shutting down")
	}
	cancel()

	if err := g.Wait(); err != nil && runErr == nil {
		utils.LogError("Main", "metrics server failed", err)
		runErr = err
	}
	if runErr != nil {
		utils.LogError("Main", "terminal stopped", runErr)
	}
	return runErr
}

func openBackend(ctx context.Context, cfg *config.Config) (repository.Backend, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		b, err := repository.NewPostgresBackend(ctx, cfg.DBURL)
		if err != nil {
			return nil, nil, err
		}
		return b, b.Close, nil
	case config.BackendRedis:
		b, err := repository.NewRedisBackend(ctx, cfg.RedisURL, cfg.RedisKey)
		if err != nil {
			return nil, nil, err
		}
		return b, func() { _ = b.Close() }, nil
	default:
		return repository.NewFileBackend(cfg.DataFile), func() {}, nil
	}
}
