package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
)

// Topics for the meetup domain event stream. All publishing is best-effort;
// consumers are external (analytics, audit).
const (
	TopicEventCreated = "meetup.events.created"
	TopicEventUpdated = "meetup.events.updated"
	TopicEventDeleted = "meetup.events.deleted"
	TopicRsvpCreated  = "meetup.rsvps.created"
	TopicRsvpDeleted  = "meetup.rsvps.deleted"
)

func Topics() []string {
	return []string{
		TopicEventCreated,
		TopicEventUpdated,
		TopicEventDeleted,
		TopicRsvpCreated,
		TopicRsvpDeleted,
	}
}

type Producer struct {
	Writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{Writer: writer}
}

// Publish marshals the payload and streams it to the given topic, keyed so
// that messages for one entity stay ordered.
func (p *Producer) Publish(topic, key string, payload interface{}) error {
	msgBytes, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Topic: topic,
			Key:   []byte(key),
			Value: msgBytes,
		},
	)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
