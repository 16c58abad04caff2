package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/statloom/statloom/internal/app"
	"github.com/statloom/statloom/internal/config"
	"github.com/statloom/statloom/internal/observability"
	idgen "github.com/statloom/statloom/internal/platform/id"
	"github.com/statloom/statloom/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	var logger *logging.Logger
	if cfg.AppEnv == config.EnvDev {
		logger = logging.NewConsole(cfg.LogLevel)
	} else {
		logger = logging.NewJSON(cfg.LogLevel)
	}
	if runID, idErr := idgen.NewRandomGenerator().NewID(); idErr == nil {
		logger = logger.With("run_id", runID)
	}
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}

	stopPyroscope, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}

	pprofSrv, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		logger.Error("start pprof server", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	harvester, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("build harvester", "error", err)
		os.Exit(1)
	}

	runErr := harvester.Run(ctx)
	harvester.Close()

	if err := observability.StopPprofServer(pprofSrv, logger, 5*time.Second); err != nil {
		logger.Warn("stop pprof server", "error", err)
	}
	if err := stopPyroscope(); err != nil {
		logger.Warn("stop pyroscope", "error", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := shutdownUptrace(shutdownCtx); err != nil {
		logger.Warn("shutdown uptrace", "error", err)
	}
	cancel()

	if runErr != nil {
		logger.Error("harvest run failed", "error", runErr)
		_ = logger.Sync()
		os.Exit(1)
	}

	logger.Info("harvest run complete")
}
