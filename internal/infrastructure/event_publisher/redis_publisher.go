package event_publisher

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
)

func NewRedisPublisher(
	wlogger watermill.LoggerAdapter,
	redisClient *redis.Client,
) (message.Publisher, error) {
	return redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: redisClient,
	}, wlogger)
}

// NewRedisSubscriber joins consumerGroup; consumers in one group compete for the
// stream entries and unacked entries are claimed back after the claim interval.
func NewRedisSubscriber(
	wlogger watermill.LoggerAdapter,
	redisClient *redis.Client,
	consumerGroup string,
) (message.Subscriber, error) {
	return redisstream.NewSubscriber(redisstream.SubscriberConfig{
		Client:        redisClient,
		ConsumerGroup: consumerGroup,
	}, wlogger)
}
