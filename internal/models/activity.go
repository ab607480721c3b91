package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID                  string    `bun:"id,pk" json:"id"`
	Name                string    `bun:"name,notnull" json:"name"`
	Description         string    `bun:"description,nullzero" json:"description,omitempty"`
	StartDate           time.Time `bun:"start_date,notnull" json:"startDate"`
	EndDate             time.Time `bun:"end_date,notnull" json:"endDate"`
	MaxParticipants     int       `bun:"max_participants,notnull" json:"maxParticipants"`
	CurrentParticipants int       `bun:"current_participants,notnull,default:0" json:"currentParticipants"`
	ChildPresence       bool      `bun:"child_presence,nullzero" json:"childPresence"`
	ChildPrice          float64   `bun:"child_price,nullzero" json:"childPrice"`
	NumberOfChildren    int       `bun:"number_of_children,nullzero" json:"numberOfChildren"`
	CojoinPresence      bool      `bun:"cojoin_presence,nullzero" json:"cojoinPresence"`
	CojoinPrice         float64   `bun:"cojoin_price,nullzero" json:"cojoinPrice"`
	NumberOfCompanions  int       `bun:"number_of_companions,nullzero" json:"numberOfCompanions"`
	CreatedAt           time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

type House struct {
	bun.BaseModel `bun:"table:houses"`

	ID            string    `bun:"id,pk" json:"id"`
	Name          string    `bun:"name,notnull" json:"name"`
	Description   string    `bun:"description,nullzero" json:"description,omitempty"`
	PricePerNight float64   `bun:"price_per_night,nullzero" json:"pricePerNight"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

// HouseUnavailableDate is one blocked calendar day for a house. The
// (house_id, date) pair is unique so repeated blocking keeps set semantics.
// Dates are stored as ISO day strings (2006-01-02).
type HouseUnavailableDate struct {
	bun.BaseModel `bun:"table:house_unavailable_dates"`

	HouseID string `bun:"house_id,pk" json:"houseId"`
	Date    string `bun:"date,pk" json:"date"`
}
