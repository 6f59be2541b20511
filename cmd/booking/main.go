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
	cfg, err := config.LoadBooking()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}
	log.Init(logLevel(cfg.LogLevel))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	traceProvider, err := observability.ConfigureTraceProvider(ctx, "booking", cfg.OTLPEndpoint)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = traceProvider.Shutdown(context.Background())
	}()

	watermillLogger := watermill.NewStdLogger(false, false)

	customers, closeCustomers, err := app.NewCustomersStorage(cfg.Storage)
	if err != nil {
		panic(err)
	}
	defer closeCustomers()

	publisher, closePublisher, err := app.NewBusPublisher(cfg.Bus, watermillLogger)
	if err != nil {
		panic(err)
	}
	defer closePublisher()

	bookingApp, err := app.NewBookingApp(app.BookingDeps{
		HTTPAddr:        cfg.HTTPAddr,
		Customers:       customers,
		Inventory:       clients.NewInventoryClient(cfg.InventoryURL, &http.Client{}),
		Publisher:       publisher,
		Partitions:      cfg.Bus.BookingPartitions(),
		ReadTimeout:     cfg.InventoryReadTimeout,
		WatermillLogger: watermillLogger,
	})
	if err != nil {
		panic(err)
	}

	if err := bookingApp.Run(ctx); err != nil {
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
