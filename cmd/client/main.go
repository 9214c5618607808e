package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/carshowroom/internal/client/cli"
	"github.com/dmitrijs2005/carshowroom/internal/client/config"
	"github.com/dmitrijs2005/carshowroom/internal/logging"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.NewTextLogger(os.Stderr, slog.LevelWarn)

	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg, logger)

	if err != nil {
		logger.Error(ctx, "failed to start", "error", err)
		stop()
		os.Exit(1)
	}

	app.Run(ctx)

}
