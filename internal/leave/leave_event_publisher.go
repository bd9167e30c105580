package leave

import (
	"context"
	"encoding/json"

	"github.com/mdvohra/LMS-app/internal/events"

	"github.com/segmentio/kafka-go"
)

type EventPublisher interface {
	PublishLeaveApplied(ctx context.Context, event events.LeaveAppliedEvent) error
	PublishLeaveDecided(ctx context.Context, event events.LeaveDecidedEvent) error
}

// NoopEventPublisher is used when no broker is configured.
type NoopEventPublisher struct{}

func (NoopEventPublisher) PublishLeaveApplied(context.Context, events.LeaveAppliedEvent) error {
	return nil
}

func (NoopEventPublisher) PublishLeaveDecided(context.Context, events.LeaveDecidedEvent) error {
	return nil
}

type kafkaEventPublisher struct {
	writer *kafka.Writer
}

func NewKafkaEventPublisher(writer *kafka.Writer) EventPublisher {
	return &kafkaEventPublisher{writer: writer}
}

func (p *kafkaEventPublisher) PublishLeaveApplied(ctx context.Context, event events.LeaveAppliedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: events.LeaveAppliedTopic,
		Key:   []byte(event.ApplicationID),
		Value: payload,
	})
}

func (p *kafkaEventPublisher) PublishLeaveDecided(ctx context.Context, event events.LeaveDecidedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: events.LeaveDecidedTopic,
		Key:   []byte(event.ApplicationID),
		Value: payload,
	})
}
