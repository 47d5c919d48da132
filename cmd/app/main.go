package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"voyage/config"
	"voyage/di"
	"voyage/helper"
	"voyage/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("failed to run database migrations")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := di.InitializeService()

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		app.Consumer.Run(ctx)
	}()

	app.HTTP.Serve(ctx)

	wg.Wait()
}
