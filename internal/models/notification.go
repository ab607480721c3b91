package models

import "time"

// BookingNotification is the payload published to Kafka whenever a booking
// is created, changes status, or is deleted. The notifier worker turns it
// into a member-facing email; delivery is best-effort.
type BookingNotification struct {
	BookingID        string    `json:"bookingId"`
	UserID           string    `json:"userId"`
	Email            string    `json:"email,omitempty"`
	ActivityID       string    `json:"activityId"`
	ActivityCategory string    `json:"activityCategory"`
	Status           string    `json:"status"`
	PeriodStart      time.Time `json:"periodStart"`
	PeriodEnd        time.Time `json:"periodEnd"`
	OccurredAt       time.Time `json:"occurredAt"`
}
