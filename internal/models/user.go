package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Member approval statuses in the adherent directory.
const (
	MemberPending  = "pending"
	MemberApproved = "approved"
)

type User struct {
	bun.BaseModel `bun:"table:users"`

	ID        string    `bun:"id,pk" json:"id"`
	Email     string    `bun:"email,unique,notnull" json:"email"`
	FullName  string    `bun:"full_name,notnull" json:"fullName"`
	Status    string    `bun:"status,notnull,default:'pending'" json:"status"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}
