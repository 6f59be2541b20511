package events

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

const (
	// PartitionKeyMetadata carries the ordering key of a published event.
	PartitionKeyMetadata = "partition_key"

	PoisonQueueTopic = "PoisonQueue"
)

func EventTopic(eventName string) string {
	return "events." + eventName
}

// PartitionedTopic names the stream holding one partition of topic. With fewer than
// two partitions the topic is used as is.
func PartitionedTopic(topic string, partition, partitions int) string {
	if partitions < 2 {
		return topic
	}
	return fmt.Sprintf("%s.p%d", topic, partition)
}

// Partition maps a key to one of partitions. Equal keys always land on the same
// partition, so their records are consumed in publication order.
func Partition(key string, partitions int) int {
	if partitions < 2 {
		return 0
	}
	return int(xxhash.Sum64String(key) % uint64(partitions))
}
