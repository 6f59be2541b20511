package events

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
)

// SubscriberConstructor builds the subscriber for a single handler. consumerGroup is
// unique per handler.
type SubscriberConstructor func(consumerGroup string) (message.Subscriber, error)

// partitionedHandler pins a handler to one partition of its event topic.
type partitionedHandler struct {
	cqrs.EventHandler
	name      string
	partition int
}

func (h partitionedHandler) HandlerName() string {
	return h.name
}

// Partitioned returns one handler per partition. Each consumes its own stream, so
// records sharing a partition key are handled one at a time and in order.
func Partitioned(handler cqrs.EventHandler, partitions int) []cqrs.EventHandler {
	if partitions < 2 {
		return []cqrs.EventHandler{handler}
	}

	handlers := make([]cqrs.EventHandler, 0, partitions)
	for p := 0; p < partitions; p++ {
		handlers = append(handlers, partitionedHandler{
			EventHandler: handler,
			name:         PartitionedTopic(handler.HandlerName(), p, partitions),
			partition:    p,
		})
	}

	return handlers
}

func NewEventProcessorConfig(
	serviceName string,
	partitions int,
	newSubscriber SubscriberConstructor,
	watermillLogger watermill.LoggerAdapter,
) cqrs.EventProcessorConfig {
	return cqrs.EventProcessorConfig{
		GenerateSubscribeTopic: func(params cqrs.EventProcessorGenerateSubscribeTopicParams) (string, error) {
			topic := EventTopic(params.EventName)
			if h, ok := params.EventHandler.(partitionedHandler); ok {
				return PartitionedTopic(topic, h.partition, partitions), nil
			}

			return topic, nil
		},
		SubscriberConstructor: func(params cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
			return newSubscriber("svc-" + serviceName + "." + params.HandlerName)
		},
		Marshaler: marshaler,
		Logger:    watermillLogger,
	}
}
