package rsvps_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetup-service/internal/models"
	"meetup-service/internal/rsvps"
	"meetup-service/internal/rsvps/qr"
	"meetup-service/internal/storage"
)

type recordingMailer struct {
	sent []string
	fail bool
}

func (m *recordingMailer) SendEventConfirmation(to, eventTitle, eventDate, eventTime string, qrPNG []byte) error {
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.sent = append(m.sent, to)
	return nil
}

func notifyingEvent(t *testing.T, store storage.Store, notify bool) *models.Event {
	t.Helper()
	event, err := store.CreateEvent(models.InsertEvent{
		Title:             "Intro to Rust",
		Description:       "d",
		Date:              "2025-03-01",
		Time:              "18:00",
		Technology:        "rust",
		SendNotifications: &notify,
	})
	require.NoError(t, err)
	return event
}

func TestCreateRsvpSendsConfirmation(t *testing.T) {
	store := storage.NewMemStorage()
	mailer := &recordingMailer{}

	svc := rsvps.NewRsvpService(store)
	svc.Mailer = mailer
	svc.QR = qr.NewGenerator("test-secret")

	event := notifyingEvent(t, store, true)

	rsvp, err := svc.CreateRsvp(models.InsertRsvp{EventID: event.ID, Email: "ada@example.com", Name: "Ada"})
	require.NoError(t, err)
	assert.NotEmpty(t, rsvp.ID)
	assert.Equal(t, []string{"ada@example.com"}, mailer.sent)

	got, _ := store.GetEvent(event.ID)
	assert.Equal(t, 1, got.Attendees)
}

func TestCreateRsvpSkipsConfirmationWhenDisabled(t *testing.T) {
	store := storage.NewMemStorage()
	mailer := &recordingMailer{}

	svc := rsvps.NewRsvpService(store)
	svc.Mailer = mailer

	event := notifyingEvent(t, store, false)

	_, err := svc.CreateRsvp(models.InsertRsvp{EventID: event.ID, Email: "ada@example.com", Name: "Ada"})
	require.NoError(t, err)
	assert.Empty(t, mailer.sent)
}

func TestCreateRsvpSkipsConfirmationWhenEventUnknown(t *testing.T) {
	store := storage.NewMemStorage()
	mailer := &recordingMailer{}

	svc := rsvps.NewRsvpService(store)
	svc.Mailer = mailer

	rsvp, err := svc.CreateRsvp(models.InsertRsvp{EventID: uuid.New().String(), Email: "ada@example.com", Name: "Ada"})
	require.NoError(t, err)
	assert.NotEmpty(t, rsvp.ID)
	assert.Empty(t, mailer.sent)
}

func TestCreateRsvpSurvivesMailFailure(t *testing.T) {
	store := storage.NewMemStorage()
	mailer := &recordingMailer{fail: true}

	svc := rsvps.NewRsvpService(store)
	svc.Mailer = mailer

	event := notifyingEvent(t, store, true)

	rsvp, err := svc.CreateRsvp(models.InsertRsvp{EventID: event.ID, Email: "ada@example.com", Name: "Ada"})
	require.NoError(t, err)
	assert.NotEmpty(t, rsvp.ID)

	// The write stands even though delivery failed.
	got, _ := store.GetEvent(event.ID)
	assert.Equal(t, 1, got.Attendees)
}

func TestDeleteRsvp(t *testing.T) {
	store := storage.NewMemStorage()
	svc := rsvps.NewRsvpService(store)

	event := notifyingEvent(t, store, false)
	rsvp, _ := svc.CreateRsvp(models.InsertRsvp{EventID: event.ID, Email: "ada@example.com", Name: "Ada"})

	deleted, err := svc.DeleteRsvp(rsvp.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.DeleteRsvp(rsvp.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestGetRsvpQR(t *testing.T) {
	store := storage.NewMemStorage()
	svc := rsvps.NewRsvpService(store)
	svc.QR = qr.NewGenerator("test-secret")

	event := notifyingEvent(t, store, false)
	rsvp, _ := svc.CreateRsvp(models.InsertRsvp{EventID: event.ID, Email: "ada@example.com", Name: "Ada"})

	png, err := svc.GetRsvpQR(rsvp.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, png)

	missing, err := svc.GetRsvpQR(uuid.New().String())
	require.NoError(t, err)
	assert.Nil(t, missing)
}
