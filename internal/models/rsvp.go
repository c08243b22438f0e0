package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Rsvp records a named attendee's intent to attend an event. The eventId
// reference is not enforced at the storage layer.
type Rsvp struct {
	bun.BaseModel `bun:"table:rsvps"`

	ID        string    `bun:"id,pk" json:"id"`
	EventID   string    `bun:"event_id,notnull" json:"eventId"`
	Email     string    `bun:"email,notnull" json:"email"`
	Name      string    `bun:"name,notnull" json:"name"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
}

type InsertRsvp struct {
	EventID string `json:"eventId" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Name    string `json:"name" validate:"required"`
}
