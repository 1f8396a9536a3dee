package events

import (
	"context"

	"orbio/pkg/kafka"
	"orbio/pkg/rabbitmq"
)

// RabbitPublisher publishes events on the RabbitMQ exchange, routed by event type.
type RabbitPublisher struct {
	Client *rabbitmq.Client
}

func (p RabbitPublisher) Publish(ctx context.Context, ev Event) error {
	return p.Client.PublishJSON(ctx, ev.Type, ev)
}

// KafkaPublisher publishes events keyed by resource so one resource's events stay ordered.
type KafkaPublisher struct {
	Producer *kafka.Producer
}

func (p KafkaPublisher) Publish(ctx context.Context, ev Event) error {
	return p.Producer.PublishJSON(ctx, ev.Resource+"-"+ev.ResourceID, ev)
}
