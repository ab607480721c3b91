package notification

import (
	"fmt"
	"log"
	"ms-booking/internal/models"
	"net/smtp"
	"time"
)

// Notifier turns a booking notification into a member-facing message.
// Implementations may deliver over any channel; the worker picks one at
// startup.
type Notifier interface {
	Notify(notification models.BookingNotification) error
}

// ConsoleNotifier logs notifications instead of delivering them. Used when
// no SMTP host is configured.
type ConsoleNotifier struct{}

func NewConsole() *ConsoleNotifier {
	return &ConsoleNotifier{}
}

func (c *ConsoleNotifier) Notify(n models.BookingNotification) error {
	log.Printf("[notify] booking %s for member %s is now %q (%s)", n.BookingID, n.UserID, n.Status, HumanPeriod(n.PeriodStart, n.PeriodEnd))
	return nil
}

// SMTPNotifier sends the notification as a plain-text email.
type SMTPNotifier struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func NewSMTP(host, port, username, password string) *SMTPNotifier {
	return &SMTPNotifier{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     username,
	}
}

func (s *SMTPNotifier) Notify(n models.BookingNotification) error {
	subject := fmt.Sprintf("Votre réservation %s", n.Status)
	body := fmt.Sprintf(
		"Bonjour,\r\n\r\nVotre réservation %s (%s) est désormais « %s ».\r\nPériode : %s\r\n\r\nL'équipe de l'association",
		n.BookingID, n.ActivityCategory, n.Status, HumanPeriod(n.PeriodStart, n.PeriodEnd),
	)

	to := n.Email
	if to == "" {
		return fmt.Errorf("notification for booking %s carries no recipient address", n.BookingID)
	}
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", s.From, to, subject, body))

	auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
	return smtp.SendMail(s.Host+":"+s.Port, auth, s.From, []string{to}, msg)
}

// HumanPeriod formats a booking period for member-facing messages.
func HumanPeriod(start, end time.Time) string {
	return fmt.Sprintf("%s — %s", start.Format("2006-01-02"), end.Format("2006-01-02"))
}
