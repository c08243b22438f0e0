package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Event is a scheduled coding meetup open for RSVPs. Date and time are kept
// as the client-supplied text ("2006-01-02" / "15:04"); ordering and stats
// parse them on demand.
type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID                string    `bun:"id,pk" json:"id"`
	Title             string    `bun:"title,notnull" json:"title"`
	Description       string    `bun:"description,notnull" json:"description"`
	Date              string    `bun:"date,notnull" json:"date"`
	Time              string    `bun:"time,notnull" json:"time"`
	Technology        string    `bun:"technology,notnull" json:"technology"`
	SendNotifications bool      `bun:"send_notifications" json:"sendNotifications"`
	Attendees         int       `bun:"attendees" json:"attendees"`
	Status            string    `bun:"status" json:"status"`
	CreatedAt         time.Time `bun:"created_at,notnull" json:"createdAt"`
}

// InsertEvent is the creation payload. ID, attendees, status and createdAt
// are server-assigned regardless of what the client sends.
type InsertEvent struct {
	Title             string `json:"title" validate:"required"`
	Description       string `json:"description" validate:"required"`
	Date              string `json:"date" validate:"required"`
	Time              string `json:"time" validate:"required"`
	Technology        string `json:"technology" validate:"required"`
	SendNotifications *bool  `json:"sendNotifications"`
}

// EventUpdate is a partial update: nil fields are left untouched, set fields
// overwrite the stored value.
type EventUpdate struct {
	Title             *string `json:"title"`
	Description       *string `json:"description"`
	Date              *string `json:"date"`
	Time              *string `json:"time"`
	Technology        *string `json:"technology"`
	SendNotifications *bool   `json:"sendNotifications"`
	Attendees         *int    `json:"attendees"`
	Status            *string `json:"status"`
}

// Apply merges the update into the event.
func (u EventUpdate) Apply(e *Event) {
	if u.Title != nil {
		e.Title = *u.Title
	}
	if u.Description != nil {
		e.Description = *u.Description
	}
	if u.Date != nil {
		e.Date = *u.Date
	}
	if u.Time != nil {
		e.Time = *u.Time
	}
	if u.Technology != nil {
		e.Technology = *u.Technology
	}
	if u.SendNotifications != nil {
		e.SendNotifications = *u.SendNotifications
	}
	if u.Attendees != nil {
		e.Attendees = *u.Attendees
	}
	if u.Status != nil {
		e.Status = *u.Status
	}
}
