package kafka

import (
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducerPartitionsByKey(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"}, "orbio-events")
	defer p.Close()

	balancer, ok := p.writer.Balancer.(*kafkago.Hash)
	require.True(t, ok, "expected a key-hash balancer, got %T", p.writer.Balancer)

	partitions := []int{0, 1, 2, 3, 4, 5}
	key := []byte("order-6f1c2a")
	first := balancer.Balance(kafkago.Message{Key: key}, partitions...)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, balancer.Balance(kafkago.Message{Key: key}, partitions...))
	}
}
