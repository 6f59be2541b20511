package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/sirupsen/logrus"

	"ticketing/internal/app"
	"ticketing/internal/config"
	"ticketing/internal/infrastructure/clients"
	"ticketing/internal/observability"
)

func main() {
	cfg, err := config.LoadOrder()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}
	log.Init(logLevel(cfg.LogLevel))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	traceProvider, err := observability.ConfigureTraceProvider(ctx, "order", cfg.OTLPEndpoint)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = traceProvider.Shutdown(context.Background())
	}()

	watermillLogger := watermill.NewStdLogger(false, false)

	orders, closeOrders, err := app.NewOrdersStorage(cfg.Storage)
	if err != nil {
		panic(err)
	}
	defer closeOrders()

	newSubscriber, closeSubscribers, err := app.NewBusSubscriberConstructor(cfg.Bus, watermillLogger)
	if err != nil {
		panic(err)
	}
	defer closeSubscribers()

	poisonQueuePublisher, closePublisher, err := app.NewBusPublisher(cfg.Bus, watermillLogger)
	if err != nil {
		panic(err)
	}
	defer closePublisher()

	orderApp, err := app.NewOrderApp(app.OrderDeps{
		HTTPAddr:             cfg.HTTPAddr,
		Orders:               orders,
		Inventory:            clients.NewInventoryClient(cfg.InventoryURL, &http.Client{}),
		NewSubscriber:        newSubscriber,
		PoisonQueuePublisher: poisonQueuePublisher,
		Partitions:           cfg.Bus.BookingPartitions(),
		DecrementTimeout:     cfg.InventoryDecrementTimeout,
		WatermillLogger:      watermillLogger,
	})
	if err != nil {
		panic(err)
	}

	if err := orderApp.Run(ctx); err != nil {
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
