// Command replay rebuilds the flat CSV artifacts from warehoused payloads
// without touching the live feeds.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/statloom/statloom/internal/app"
	"github.com/statloom/statloom/internal/config"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	replayer, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("build replayer", "error", err)
		os.Exit(1)
	}

	replayErr := replayer.Replay(ctx)
	replayer.Close()

	if replayErr != nil {
		logger.Error("replay failed", "error", replayErr)
		_ = logger.Sync()
		os.Exit(1)
	}

	logger.Info("replay complete")
}
