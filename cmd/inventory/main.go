package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"

	"ticketing/internal/app"
	"ticketing/internal/config"
	"ticketing/internal/observability"
)

func main() {
	cfg, err := config.LoadInventory()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}
	log.Init(logLevel(cfg.LogLevel))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	traceProvider, err := observability.ConfigureTraceProvider(ctx, "inventory", cfg.OTLPEndpoint)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = traceProvider.Shutdown(context.Background())
	}()

	repo, closeRepo, err := app.NewInventoryStorage(cfg.Storage)
	if err != nil {
		panic(err)
	}
	defer closeRepo()

	inventoryApp := app.NewInventoryApp(app.InventoryDeps{
		HTTPAddr: cfg.HTTPAddr,
		Repo:     repo,
	})

	if err := inventoryApp.Run(ctx); err != nil {
		panic(err)
	}
}

func logLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}
