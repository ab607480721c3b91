package notification

import (
	"encoding/json"
	"ms-booking/internal/kafka"
	"ms-booking/internal/models"
	"time"
)

// Sink receives booking notifications. Delivery is best-effort: callers log
// a failed Send and move on, the booking transaction never waits on it.
type Sink interface {
	Send(notification models.BookingNotification) error
}

// KafkaSink publishes notifications for the notifier worker to consume.
type KafkaSink struct {
	Producer *kafka.Producer
}

func NewKafkaSink(producer *kafka.Producer) *KafkaSink {
	return &KafkaSink{Producer: producer}
}

func (s *KafkaSink) Send(notification models.BookingNotification) error {
	if notification.OccurredAt.IsZero() {
		notification.OccurredAt = time.Now()
	}

	value, err := json.Marshal(notification)
	if err != nil {
		return err
	}

	topic := kafka.TopicBookingStatus
	switch notification.Status {
	case models.StatusPending:
		topic = kafka.TopicBookingCreated
	case "deleted":
		topic = kafka.TopicBookingDeleted
	}

	return s.Producer.Publish(topic, notification.BookingID, value)
}
