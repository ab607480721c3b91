package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ms-booking/internal/config"
	"ms-booking/internal/kafka"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
	"ms-booking/internal/notification"
)

// Notification worker: consumes booking notifications from Kafka and sends
// the member-facing message. Delivery failures are logged and the message is
// dropped; notifications are best-effort by contract.
func main() {
	logger := logger.NewLogger()
	defer logger.Close()

	logger.Info("APP", "Starting Notification Worker")

	if err := godotenv.Load(); err != nil {
		logger.Warn("CONFIG", ".env file not found, using environment variables")
	}

	cfg := config.Load()

	var notifier notification.Notifier
	if cfg.Email.SMTPHost != "" {
		notifier = notification.NewSMTP(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.SMTPUsername, cfg.Email.SMTPPassword)
		logger.Info("NOTIFY", fmt.Sprintf("SMTP notifier configured for %s:%s", cfg.Email.SMTPHost, cfg.Email.SMTPPort))
	} else {
		notifier = notification.NewConsole()
		logger.Warn("NOTIFY", "SMTP_HOST not set, falling back to console notifier")
	}

	handle := func(n models.BookingNotification) {
		if err := notifier.Notify(n); err != nil {
			logger.Error("NOTIFY", fmt.Sprintf("failed to notify member %s for booking %s: %v", n.UserID, n.BookingID, err))
			return
		}
		logger.Info("NOTIFY", fmt.Sprintf("notified member %s: booking %s is %q", n.UserID, n.BookingID, n.Status))
	}

	consumers := make([]*kafka.Consumer, 0, len(kafka.RequiredTopics()))
	for _, topic := range kafka.RequiredTopics() {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, topic, cfg.Kafka.GroupID)
		consumers = append(consumers, consumer)
		go consumer.Start(handle)
		logger.Info("KAFKA", fmt.Sprintf("consuming %s", topic))
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("APP", "Shutdown signal received")
	for _, consumer := range consumers {
		_ = consumer.Close()
	}
}
