package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// Topics carrying booking notifications.
const (
	TopicBookingCreated = "assoc.booking.created"
	TopicBookingStatus  = "assoc.booking.status"
	TopicBookingDeleted = "assoc.booking.deleted"
)

// RequiredTopics lists every topic the booking service publishes to.
func RequiredTopics() []string {
	return []string{TopicBookingCreated, TopicBookingStatus, TopicBookingDeleted}
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

// Publish writes one message to the given topic.
func (p *Producer) Publish(topic string, key string, value []byte) error {
	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Topic: topic,
			Key:   []byte(key),
			Value: value,
		},
	)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
