package event_api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"meetup-service/internal/cache"
	"meetup-service/internal/events"
	"meetup-service/internal/logger"
	"meetup-service/internal/models"
	"meetup-service/internal/utils"
)

type Handler struct {
	EventService *events.EventService
	Cache        *cache.Cache // nil when caching is disabled
	Logger       *logger.Logger
	validate     *validator.Validate
}

func NewHandler(svc *events.EventService, c *cache.Cache, log *logger.Logger) *Handler {
	return &Handler{
		EventService: svc,
		Cache:        c,
		Logger:       log,
		validate:     validator.New(),
	}
}

// ListEvents serves GET /api/events, cached when Redis is wired.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	if h.Cache != nil {
		if body, hit := h.Cache.Get(r.Context(), cache.KeyEvents); hit {
			utils.WriteRawJSON(w, http.StatusOK, body)
			return
		}
	}

	eventList, err := h.EventService.GetAllEvents()
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch events")
		return
	}

	body, err := json.Marshal(eventList)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch events")
		return
	}
	if h.Cache != nil {
		h.Cache.Set(r.Context(), cache.KeyEvents, body)
	}
	utils.WriteRawJSON(w, http.StatusOK, body)
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "eventID")
	event, err := h.EventService.GetEvent(id)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch event")
		return
	}
	if event == nil {
		utils.WriteError(w, http.StatusNotFound, "Event not found")
		return
	}
	utils.WriteJSON(w, http.StatusOK, event)
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var insert models.InsertEvent
	if err := json.NewDecoder(r.Body).Decode(&insert); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid event data")
		return
	}
	if err := h.validate.Struct(insert); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid event data")
		return
	}

	event, err := h.EventService.CreateEvent(insert)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to create event")
		return
	}
	h.Logger.LogEvent("CREATE", event.ID, event.Title)
	utils.WriteJSON(w, http.StatusCreated, event)
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "eventID")

	var update models.EventUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid event data")
		return
	}

	event, err := h.EventService.UpdateEvent(id, update)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to update event")
		return
	}
	if event == nil {
		utils.WriteError(w, http.StatusNotFound, "Event not found")
		return
	}
	h.Logger.LogEvent("UPDATE", event.ID, event.Title)
	utils.WriteJSON(w, http.StatusOK, event)
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "eventID")
	deleted, err := h.EventService.DeleteEvent(id)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to delete event")
		return
	}
	if !deleted {
		utils.WriteError(w, http.StatusNotFound, "Event not found")
		return
	}
	h.Logger.LogEvent("DELETE", id, "event removed")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SearchEvents(w http.ResponseWriter, r *http.Request) {
	query := chi.URLParam(r, "query")
	matches, err := h.EventService.SearchEvents(query)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to search events")
		return
	}
	utils.WriteJSON(w, http.StatusOK, matches)
}

// GetStats serves GET /api/stats, cached when Redis is wired.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	if h.Cache != nil {
		if body, hit := h.Cache.Get(r.Context(), cache.KeyStats); hit {
			utils.WriteRawJSON(w, http.StatusOK, body)
			return
		}
	}

	stats, err := h.EventService.Stats(time.Now())
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}

	body, err := json.Marshal(stats)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}
	if h.Cache != nil {
		h.Cache.Set(r.Context(), cache.KeyStats, body)
	}
	utils.WriteRawJSON(w, http.StatusOK, body)
}
