package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/carshowroom/internal/logging"
	"github.com/dmitrijs2005/carshowroom/internal/server"
	"github.com/dmitrijs2005/carshowroom/internal/server/config"
)

func main() {

	ctx := context.Background()
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg, logger)

	if err != nil {
		logger.Error(ctx, "failed to start", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)

}
