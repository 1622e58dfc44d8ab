// internal/alerts/handlers.go

package alerts

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/damilolaoke/carelink-backend/internal/auth"
	"github.com/damilolaoke/carelink-backend/internal/common/utils"
)

// Handler handles alert HTTP requests
type Handler struct {
	service Service
	hub     *Hub
}

// NewHandler creates a new alerts handler
func NewHandler(service Service, hub *Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

func (h *Handler) AddContact(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	input, ok := decodeContactInput(w, r)
	if !ok {
		return
	}

	contact, err := h.service.AddContact(r.Context(), userID, input)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Caregiver account not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add contact")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, contact)
}

func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	contacts, err := h.service.ListContacts(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list contacts")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"contacts": contacts})
}

func (h *Handler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	contactID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	input, ok := decodeContactInput(w, r)
	if !ok {
		return
	}

	contact, err := h.service.UpdateContact(r.Context(), userID, contactID, input)
	if err != nil {
		switch {
		case errors.Is(err, ErrContactNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "Contact not found")
		case errors.Is(err, ErrUserNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "Caregiver account not found")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update contact")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, contact)
}

func (h *Handler) RemoveContact(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	contactID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	removed, err := h.service.RemoveContact(r.Context(), userID, contactID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to remove contact")
		return
	}
	if !removed {
		utils.RespondWithError(w, http.StatusNotFound, "Contact not found")
		return
	}

	utils.MessageResponse(w, http.StatusOK, "Contact removed")
}

func (h *Handler) TriggerAlert(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	username, _ := auth.GetUsernameFromContext(r.Context())

	var req TriggerAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	alert, err := h.service.TriggerAlert(r.Context(), userID, username, req.Message)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to trigger alert")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, alert)
}

func (h *Handler) ResolveAlert(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	alertID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid alert ID")
		return
	}

	alert, err := h.service.ResolveAlert(r.Context(), alertID, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlertNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "Alert not found")
		case errors.Is(err, ErrNotPermitted):
			utils.RespondWithError(w, http.StatusForbidden, "Not permitted to resolve this alert")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to resolve alert")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, alert)
}

func (h *Handler) AlertHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	alerts, err := h.service.AlertHistory(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load alert history")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"alerts": alerts})
}

// AlertFeed upgrades the connection to a websocket and streams alert
// events for the authenticated user
func (h *Handler) AlertFeed(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	h.hub.ServeWS(w, r, userID)
}

func decodeContactInput(w http.ResponseWriter, r *http.Request) (*ContactInput, bool) {
	var input ContactInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	if err := utils.ValidateStruct(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return &input, true
}
