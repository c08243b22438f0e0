package rsvp_api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"meetup-service/internal/logger"
	"meetup-service/internal/models"
	"meetup-service/internal/rsvps"
	"meetup-service/internal/utils"
)

type Handler struct {
	RsvpService *rsvps.RsvpService
	Logger      *logger.Logger
	validate    *validator.Validate
}

func NewHandler(svc *rsvps.RsvpService, log *logger.Logger) *Handler {
	return &Handler{
		RsvpService: svc,
		Logger:      log,
		validate:    validator.New(),
	}
}

func (h *Handler) CreateRsvp(w http.ResponseWriter, r *http.Request) {
	var insert models.InsertRsvp
	if err := json.NewDecoder(r.Body).Decode(&insert); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid RSVP data")
		return
	}
	if err := h.validate.Struct(insert); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid RSVP data")
		return
	}

	rsvp, err := h.RsvpService.CreateRsvp(insert)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to create RSVP")
		return
	}
	h.Logger.LogRsvp("CREATE", rsvp.ID, rsvp.Email)
	utils.WriteJSON(w, http.StatusCreated, rsvp)
}

func (h *Handler) ListRsvpsByEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	rsvpList, err := h.RsvpService.GetRsvpsByEvent(eventID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch RSVPs")
		return
	}
	utils.WriteJSON(w, http.StatusOK, rsvpList)
}

func (h *Handler) DeleteRsvp(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "rsvpID")
	deleted, err := h.RsvpService.DeleteRsvp(id)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to delete RSVP")
		return
	}
	if !deleted {
		utils.WriteError(w, http.StatusNotFound, "RSVP not found")
		return
	}
	h.Logger.LogRsvp("DELETE", id, "rsvp removed")
	w.WriteHeader(http.StatusNoContent)
}

// GetRsvpQR serves the check-in code as a PNG.
func (h *Handler) GetRsvpQR(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "rsvpID")
	png, err := h.RsvpService.GetRsvpQR(id)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}
	if png == nil {
		utils.WriteError(w, http.StatusNotFound, "RSVP not found")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
