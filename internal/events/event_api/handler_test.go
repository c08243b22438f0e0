package event_api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetup-service/internal/events"
	"meetup-service/internal/events/event_api"
	"meetup-service/internal/models"
	"meetup-service/internal/storage"
)

func newTestRouter(store storage.Store) chi.Router {
	svc := events.NewEventService(store)
	handler := event_api.NewHandler(svc, nil, nil)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", handler.GetStats)
		r.Route("/events", func(r chi.Router) {
			r.Get("/", handler.ListEvents)
			r.Post("/", handler.CreateEvent)
			r.Get("/search/{query}", handler.SearchEvents)
			r.Get("/{eventID}", handler.GetEvent)
			r.Patch("/{eventID}", handler.UpdateEvent)
			r.Delete("/{eventID}", handler.DeleteEvent)
		})
	})
	return r
}

func doJSON(t *testing.T, r chi.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateEventEndpoint(t *testing.T) {
	r := newTestRouter(storage.NewMemStorage())

	rec := doJSON(t, r, http.MethodPost, "/api/events", map[string]interface{}{
		"title":             "Intro to Rust",
		"description":       "ownership and borrowing",
		"date":              "2025-03-01",
		"time":              "18:00",
		"technology":        "rust",
		"sendNotifications": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var event models.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &event))
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, 0, event.Attendees)
	assert.Equal(t, "pending", event.Status)
	assert.True(t, event.SendNotifications)
}

func TestCreateEventValidation(t *testing.T) {
	store := storage.NewMemStorage()
	r := newTestRouter(store)

	// Missing required fields never reaches the store.
	rec := doJSON(t, r, http.MethodPost, "/api/events", map[string]interface{}{
		"title": "incomplete",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	all, _ := store.GetAllEvents()
	assert.Empty(t, all)
}

func TestGetEventEndpoint(t *testing.T) {
	store := storage.NewMemStorage()
	r := newTestRouter(store)

	event, _ := store.CreateEvent(models.InsertEvent{
		Title: "Go Night", Description: "d", Date: "2025-04-01", Time: "19:00", Technology: "go",
	})

	rec := doJSON(t, r, http.MethodGet, "/api/events/"+event.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/events/"+uuid.New().String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListEventsOrdered(t *testing.T) {
	store := storage.NewMemStorage()
	r := newTestRouter(store)

	_, _ = store.CreateEvent(models.InsertEvent{Title: "second", Description: "d", Date: "2025-04-02", Time: "19:00", Technology: "go"})
	_, _ = store.CreateEvent(models.InsertEvent{Title: "first", Description: "d", Date: "2025-04-01", Time: "09:00", Technology: "go"})

	rec := doJSON(t, r, http.MethodGet, "/api/events", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []models.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Title)
}

func TestUpdateEventEndpoint(t *testing.T) {
	store := storage.NewMemStorage()
	r := newTestRouter(store)

	event, _ := store.CreateEvent(models.InsertEvent{
		Title: "Go Night", Description: "d", Date: "2025-04-01", Time: "19:00", Technology: "go",
	})

	rec := doJSON(t, r, http.MethodPatch, "/api/events/"+event.ID, map[string]interface{}{
		"status": "confirmed",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "confirmed", updated.Status)
	assert.Equal(t, "Go Night", updated.Title)

	rec = doJSON(t, r, http.MethodPatch, "/api/events/"+uuid.New().String(), map[string]interface{}{
		"status": "confirmed",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteEventEndpoint(t *testing.T) {
	store := storage.NewMemStorage()
	r := newTestRouter(store)

	event, _ := store.CreateEvent(models.InsertEvent{
		Title: "Go Night", Description: "d", Date: "2025-04-01", Time: "19:00", Technology: "go",
	})

	rec := doJSON(t, r, http.MethodDelete, "/api/events/"+event.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, r, http.MethodDelete, "/api/events/"+event.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchEventsEndpoint(t *testing.T) {
	store := storage.NewMemStorage()
	r := newTestRouter(store)

	_, _ = store.CreateEvent(models.InsertEvent{
		Title: "Intro to Rust", Description: "systems night", Date: "2025-03-01", Time: "18:00", Technology: "rust",
	})

	rec := doJSON(t, r, http.MethodGet, "/api/events/search/rust", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var matches []models.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &matches))
	assert.Len(t, matches, 1)
}

func TestStatsEndpointEmptyStore(t *testing.T) {
	r := newTestRouter(storage.NewMemStorage())

	rec := doJSON(t, r, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"totalEvents":0,"totalAttendees":0,"thisMonth":0,"upcoming":0}`,
		rec.Body.String())
}

func TestStatsEndpointCountsAttendees(t *testing.T) {
	store := storage.NewMemStorage()
	r := newTestRouter(store)

	event, _ := store.CreateEvent(models.InsertEvent{
		Title: "Go Night", Description: "d", Date: "2099-04-01", Time: "19:00", Technology: "go",
	})
	_, _ = store.CreateRsvp(models.InsertRsvp{EventID: event.ID, Email: "ada@example.com", Name: "Ada"})

	rec := doJSON(t, r, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats models.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalEvents)
	assert.Equal(t, 1, stats.TotalAttendees)
	assert.Equal(t, 1, stats.Upcoming)
}
