package event_publisher

import (
	"github.com/Shopify/sarama"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

// kafkaMarshaler keys Kafka records by the partition key set on publish, so all
// records of one key share a partition and keep their order.
func kafkaMarshaler(partitionKeyMetadata string) kafka.MarshalerUnmarshaler {
	return kafka.NewWithPartitioningMarshaler(func(topic string, msg *message.Message) (string, error) {
		return msg.Metadata.Get(partitionKeyMetadata), nil
	})
}

func NewKafkaPublisher(
	wlogger watermill.LoggerAdapter,
	brokers []string,
	partitionKeyMetadata string,
) (message.Publisher, error) {
	cfg := kafka.DefaultSaramaSyncPublisherConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll

	return kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:               brokers,
			Marshaler:             kafkaMarshaler(partitionKeyMetadata),
			OverwriteSaramaConfig: cfg,
		},
		wlogger,
	)
}

func NewKafkaSubscriber(
	wlogger watermill.LoggerAdapter,
	brokers []string,
	partitionKeyMetadata string,
	consumerGroup string,
) (message.Subscriber, error) {
	cfg := kafka.DefaultSaramaSubscriberConfig()
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	return kafka.NewSubscriber(
		kafka.SubscriberConfig{
			Brokers:               brokers,
			Unmarshaler:           kafkaMarshaler(partitionKeyMetadata),
			ConsumerGroup:         consumerGroup,
			OverwriteSaramaConfig: cfg,
		},
		wlogger,
	)
}
