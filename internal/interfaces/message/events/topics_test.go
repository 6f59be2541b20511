package events_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"ticketing/internal/interfaces/message/events"
)

func TestPartition(t *testing.T) {
	const partitions = 4

	seen := map[int]bool{}
	for i := 0; i < 100; i++ {
		key := strconv.Itoa(i)

		p := events.Partition(key, partitions)
		assert.GreaterOrEqual(t, p, 0)
		assert.Less(t, p, partitions)
		assert.Equal(t, p, events.Partition(key, partitions), "partition must be stable for key %s", key)

		seen[p] = true
	}
	assert.Len(t, seen, partitions)

	assert.Equal(t, 0, events.Partition("42", 1))
	assert.Equal(t, 0, events.Partition("42", 0))
}

func TestPartitionedTopic(t *testing.T) {
	assert.Equal(t, "events.BookingMade_v1", events.EventTopic("BookingMade_v1"))
	assert.Equal(t, "events.BookingMade_v1.p3", events.PartitionedTopic("events.BookingMade_v1", 3, 4))
	assert.Equal(t, "events.BookingMade_v1", events.PartitionedTopic("events.BookingMade_v1", 0, 1))
}
