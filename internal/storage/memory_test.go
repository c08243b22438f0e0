package storage_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetup-service/internal/models"
	"meetup-service/internal/storage"
)

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func insertEvent(title, date, timeStr, tech string) models.InsertEvent {
	return models.InsertEvent{
		Title:       title,
		Description: "desc for " + title,
		Date:        date,
		Time:        timeStr,
		Technology:  tech,
	}
}

func TestCreateEventForcesDefaults(t *testing.T) {
	store := storage.NewMemStorage()

	event, err := store.CreateEvent(insertEvent("Intro to Rust", "2025-03-01", "18:00", "rust"))
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, 0, event.Attendees)
	assert.Equal(t, storage.StatusPending, event.Status)
	assert.False(t, event.SendNotifications)
	assert.False(t, event.CreatedAt.IsZero())

	// sendNotifications is honored when supplied.
	insert := insertEvent("Go Night", "2025-03-02", "19:00", "go")
	insert.SendNotifications = boolPtr(true)
	event2, err := store.CreateEvent(insert)
	require.NoError(t, err)
	assert.True(t, event2.SendNotifications)
}

func TestAttendeeBookkeeping(t *testing.T) {
	store := storage.NewMemStorage()

	event, err := store.CreateEvent(insertEvent("Go Night", "2025-04-01", "19:00", "go"))
	require.NoError(t, err)

	r1, err := store.CreateRsvp(models.InsertRsvp{EventID: event.ID, Email: "ada@example.com", Name: "Ada"})
	require.NoError(t, err)
	_, err = store.CreateRsvp(models.InsertRsvp{EventID: event.ID, Email: "bob@example.com", Name: "Bob"})
	require.NoError(t, err)

	got, err := store.GetEvent(event.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Attendees)

	deleted, err := store.DeleteRsvp(r1.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	got, _ = store.GetEvent(event.ID)
	assert.Equal(t, 1, got.Attendees)

	// Deleting the same RSVP again fails and changes nothing.
	deleted, err = store.DeleteRsvp(r1.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
	got, _ = store.GetEvent(event.ID)
	assert.Equal(t, 1, got.Attendees)
}

func TestAttendeeCountFlooredAtZero(t *testing.T) {
	store := storage.NewMemStorage()

	event, _ := store.CreateEvent(insertEvent("Go Night", "2025-04-01", "19:00", "go"))
	rsvp, _ := store.CreateRsvp(models.InsertRsvp{EventID: event.ID, Email: "ada@example.com", Name: "Ada"})

	// Force the count to zero from the outside, then delete the RSVP.
	zero := 0
	_, err := store.UpdateEvent(event.ID, models.EventUpdate{Attendees: &zero})
	require.NoError(t, err)

	deleted, err := store.DeleteRsvp(rsvp.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	got, _ := store.GetEvent(event.ID)
	assert.Equal(t, 0, got.Attendees)
}

func TestRsvpAgainstUnknownEvent(t *testing.T) {
	store := storage.NewMemStorage()

	rsvp, err := store.CreateRsvp(models.InsertRsvp{EventID: uuid.New().String(), Email: "ada@example.com", Name: "Ada"})
	require.NoError(t, err)
	assert.NotEmpty(t, rsvp.ID)

	// The RSVP is stored and queryable even though no event exists.
	rsvps, err := store.GetRsvpsByEvent(rsvp.EventID)
	require.NoError(t, err)
	assert.Len(t, rsvps, 1)
}

func TestDeleteRsvpAfterEventGone(t *testing.T) {
	store := storage.NewMemStorage()

	event, _ := store.CreateEvent(insertEvent("Go Night", "2025-04-01", "19:00", "go"))
	rsvp, _ := store.CreateRsvp(models.InsertRsvp{EventID: event.ID, Email: "ada@example.com", Name: "Ada"})

	deleted, err := store.DeleteEvent(event.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	// Orphaned RSVPs stay queryable until explicitly deleted.
	rsvps, _ := store.GetRsvpsByEvent(event.ID)
	assert.Len(t, rsvps, 1)

	deleted, err = store.DeleteRsvp(rsvp.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestGetAllEventsOrdering(t *testing.T) {
	store := storage.NewMemStorage()

	_, _ = store.CreateEvent(insertEvent("third", "2025-05-01", "19:00", "go"))
	_, _ = store.CreateEvent(insertEvent("first", "2025-03-01", "09:00", "go"))
	_, _ = store.CreateEvent(insertEvent("second", "2025-03-01", "18:30", "go"))

	events, err := store.GetAllEvents()
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "first", events[0].Title)
	assert.Equal(t, "second", events[1].Title)
	assert.Equal(t, "third", events[2].Title)
}

func TestSearchEvents(t *testing.T) {
	store := storage.NewMemStorage()

	_, _ = store.CreateEvent(models.InsertEvent{
		Title: "Intro to Rust", Description: "systems programming night", Date: "2025-03-01", Time: "18:00", Technology: "rust",
	})
	_, _ = store.CreateEvent(models.InsertEvent{
		Title: "Go Meetup", Description: "channels and goroutines", Date: "2025-03-02", Time: "19:00", Technology: "go",
	})

	byTitle, err := store.SearchEvents("RUST")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "Intro to Rust", byTitle[0].Title)

	byDescription, _ := store.SearchEvents("goroutine")
	assert.Len(t, byDescription, 1)

	byTechnology, _ := store.SearchEvents("go")
	assert.Len(t, byTechnology, 1)

	none, _ := store.SearchEvents("elixir")
	assert.Empty(t, none)

	// Pattern characters carry no wildcard meaning here.
	none, _ = store.SearchEvents("go_meetup")
	assert.Empty(t, none)
}

func TestUpdateEventPartial(t *testing.T) {
	store := storage.NewMemStorage()

	unknown, err := store.UpdateEvent(uuid.New().String(), models.EventUpdate{Title: strPtr("nope")})
	require.NoError(t, err)
	assert.Nil(t, unknown)

	event, _ := store.CreateEvent(insertEvent("Go Night", "2025-04-01", "19:00", "go"))

	updated, err := store.UpdateEvent(event.ID, models.EventUpdate{
		Title:  strPtr("Go Evening"),
		Status: strPtr("confirmed"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Go Evening", updated.Title)
	assert.Equal(t, "confirmed", updated.Status)
	// Untouched fields are preserved.
	assert.Equal(t, event.Description, updated.Description)
	assert.Equal(t, event.Date, updated.Date)
	assert.Equal(t, event.Time, updated.Time)
	assert.Equal(t, event.CreatedAt, updated.CreatedAt)
}

func TestDeleteEventUnknown(t *testing.T) {
	store := storage.NewMemStorage()

	event, _ := store.CreateEvent(insertEvent("Go Night", "2025-04-01", "19:00", "go"))

	deleted, err := store.DeleteEvent(uuid.New().String())
	require.NoError(t, err)
	assert.False(t, deleted)

	// Other records are untouched.
	got, _ := store.GetEvent(event.ID)
	require.NotNil(t, got)
}

func TestUsers(t *testing.T) {
	store := storage.NewMemStorage()

	user, err := store.CreateUser(models.InsertUser{Username: "ada", Password: "hunter2"})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)

	byID, err := store.GetUser(user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "ada", byID.Username)

	byName, err := store.GetUserByUsername("ada")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, user.ID, byName.ID)

	missing, err := store.GetUserByUsername("grace")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
