package message

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"ticketing/internal/interfaces/message/events"
)

// NewRouter wires the booking record handlers. Records failing with a poison error go
// to the poison queue instead of being retried; everything else is retried and,
// if still failing, nacked for redelivery.
func NewRouter(
	watermillLogger watermill.LoggerAdapter,
	poisonQueuePublisher message.Publisher,
	eventHandler *events.Handler,
	eventProcessorConfig cqrs.EventProcessorConfig,
	partitions int,
) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		return nil, err
	}

	if err := initMiddlewares(watermillLogger, router, poisonQueuePublisher); err != nil {
		return nil, err
	}

	eventProcessor, err := cqrs.NewEventProcessorWithConfig(router, eventProcessorConfig)
	if err != nil {
		return nil, err
	}

	err = eventProcessor.AddHandlers(
		events.Partitioned(eventHandler.FulfillBookingHandler(), partitions)...,
	)
	if err != nil {
		return nil, err
	}

	return router, nil
}

func initMiddlewares(
	watermillLogger watermill.LoggerAdapter,
	router *message.Router,
	poisonQueuePublisher message.Publisher,
) error {
	poisonQueue, err := middleware.PoisonQueueWithFilter(
		poisonQueuePublisher,
		events.PoisonQueueTopic,
		events.IsPoisonMessage,
	)
	if err != nil {
		return err
	}

	router.AddMiddleware(events.TracingMiddleware)
	router.AddMiddleware(middleware.Recoverer)
	router.AddMiddleware(events.CorrelationIDMiddleware)
	router.AddMiddleware(events.LoggingMiddleware)
	router.AddMiddleware(events.MetricsMiddleware)

	router.AddMiddleware(middleware.Retry{
		MaxRetries:      10,
		InitialInterval: time.Millisecond * 100,
		MaxInterval:     time.Second,
		Multiplier:      2,
		Logger:          watermillLogger,
	}.Middleware)

	// poison records are moved aside before retrying
	router.AddMiddleware(poisonQueue)

	return nil
}
