package events

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"

	"ticketing/internal/entities"
)

var marshaler = cqrs.JSONMarshaler{
	GenerateName: cqrs.StructName,
}

// NewEventBus publishes events to their per-event topic. Every event carries its
// partition key in metadata; with partitions > 1 the key also selects the stream.
func NewEventBus(
	pub message.Publisher,
	partitions int,
	logger watermill.LoggerAdapter,
) (*cqrs.EventBus, error) {
	return cqrs.NewEventBusWithConfig(
		pub,
		cqrs.EventBusConfig{
			GeneratePublishTopic: func(params cqrs.GenerateEventPublishTopicParams) (string, error) {
				event, ok := params.Event.(entities.Event)
				if !ok {
					return "", fmt.Errorf("invalid event type: %T doesn't implement entities.Event", params.Event)
				}

				return PartitionedTopic(
					EventTopic(params.EventName),
					Partition(event.PartitionKey(), partitions),
					partitions,
				), nil
			},
			OnPublish: func(params cqrs.OnEventSendParams) error {
				event, ok := params.Event.(entities.Event)
				if !ok {
					return fmt.Errorf("invalid event type: %T doesn't implement entities.Event", params.Event)
				}

				params.Message.Metadata.Set(PartitionKeyMetadata, event.PartitionKey())
				return nil
			},
			Marshaler: marshaler,
			Logger:    logger,
		},
	)
}
