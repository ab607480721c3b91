package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Booking statuses. Status values are stored in French to match the
// member-facing vocabulary; matching on update is case-insensitive.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmé"
	StatusCancelled = "annulé"
	StatusCompleted = "terminé"
)

// Activity model discriminators for the polymorphic activity reference.
const (
	ActivityModelHouse = "House"
	ActivityModelEvent = "Event"
)

// Activity categories. "Sejour Maison" routes through the house admission
// path; every other category is event-backed.
const (
	CategoryHouseStay = "Sejour Maison"
	CategoryTrip      = "Voyage"
	CategoryExcursion = "Excursion"
	CategoryClub      = "Club"
	CategoryEvent     = "Évènement"
	CategoryActivity  = "Activité"
)

// Participant types for differentiated event pricing.
const (
	ParticipantChild   = "child"
	ParticipantCojoint = "cojoint"
)

type Booking struct {
	bun.BaseModel `bun:"table:bookings"`

	ID               string    `bun:"id,pk" json:"id"`
	UserID           string    `bun:"user_id,notnull" json:"userId"`
	ActivityID       string    `bun:"activity_id,notnull" json:"activityId"`
	ActivityModel    string    `bun:"activity_model,notnull" json:"activityModel"`
	ActivityCategory string    `bun:"activity_category,notnull" json:"activityCategory"`
	PeriodStart      time.Time `bun:"period_start,notnull" json:"periodStart"`
	PeriodEnd        time.Time `bun:"period_end,notnull" json:"periodEnd"`
	Status           string    `bun:"status,notnull,default:'pending'" json:"status"`
	Voucher          []byte    `bun:"voucher,nullzero" json:"voucher,omitempty"`
	CreatedAt        time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt        time.Time `bun:"updated_at,nullzero" json:"updatedAt"`

	Participants []Participant `bun:"rel:has-many,join:id=booking_id" json:"participants,omitempty"`
}

// IsHouseStay reports whether the booking goes through the house
// admission/calendar path.
func (b *Booking) IsHouseStay() bool {
	return b.ActivityCategory == CategoryHouseStay
}

type Participant struct {
	bun.BaseModel `bun:"table:booking_participants"`

	ID        int64  `bun:"id,pk,autoincrement" json:"id"`
	BookingID string `bun:"booking_id,notnull" json:"bookingId"`
	FirstName string `bun:"first_name,notnull" json:"firstName"`
	LastName  string `bun:"last_name,notnull" json:"lastName"`
	Age       int    `bun:"age,notnull" json:"age"`
	Type      string `bun:"type,notnull" json:"type"`
}

// BookingFilter narrows ledger list queries. Zero-value fields are ignored.
type BookingFilter struct {
	UserID           string
	ActivityID       string
	ActivityModel    string
	ActivityCategory string
	Status           string
}
