package storage

import (
	"strings"
	"time"

	"meetup-service/internal/models"
)

// Store is the repository for all entity state. Absence is signalled with a
// nil pointer or a false flag, never an error; errors are reserved for
// backend failures (the in-memory store never produces one).
type Store interface {
	// Users
	GetUser(id string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	CreateUser(insert models.InsertUser) (*models.User, error)

	// Events
	GetAllEvents() ([]models.Event, error)
	GetEvent(id string) (*models.Event, error)
	CreateEvent(insert models.InsertEvent) (*models.Event, error)
	UpdateEvent(id string, update models.EventUpdate) (*models.Event, error)
	DeleteEvent(id string) (bool, error)
	SearchEvents(query string) ([]models.Event, error)

	// RSVPs
	CreateRsvp(insert models.InsertRsvp) (*models.Rsvp, error)
	GetRsvp(id string) (*models.Rsvp, error)
	GetRsvpsByEvent(eventID string) ([]models.Rsvp, error)
	DeleteRsvp(id string) (bool, error)

	// Health and maintenance
	Close() error
	HealthCheck() error
}

// StatusPending is forced onto every newly created event.
const StatusPending = "pending"

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var startLayouts = []string{
	DateLayout + " " + TimeLayout,
	DateLayout + " " + TimeLayout + ":05",
}

// EventStart parses an event's date+time into a timestamp. The second return
// is false when the text fields are not parseable; callers then fall back to
// the raw string so ordering stays deterministic.
func EventStart(e models.Event) (time.Time, bool) {
	combined := e.Date + " " + e.Time
	for _, layout := range startLayouts {
		if ts, err := time.Parse(layout, combined); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// EventStartKey is the composite sort key for list-all-events ordering.
func EventStartKey(e models.Event) string {
	if ts, ok := EventStart(e); ok {
		return ts.Format(time.RFC3339)
	}
	return e.Date + " " + e.Time
}

// MatchesQuery reports whether the query is a case-insensitive substring of
// the event's title, description or technology.
func MatchesQuery(e models.Event, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(e.Title), q) ||
		strings.Contains(strings.ToLower(e.Description), q) ||
		strings.Contains(strings.ToLower(e.Technology), q)
}
