package match

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/damilolaoke/carelink-backend/internal/auth"
	"github.com/damilolaoke/carelink-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CheckProfile handles GET /match/profile/check
func (h *Handler) CheckProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	exists, err := h.service.HasProfile(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check match profile")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"has_profile": exists})
}

// GetProfile handles GET /match/profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		if err == ErrProfileNotFound {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get match profile")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, profile)
}

// CreateProfile handles POST /match/profile
func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	in, ok := h.decodeProfileInput(w, r)
	if !ok {
		return
	}

	if err := h.service.CreateProfile(r.Context(), userID, in); err != nil {
		if err == ErrProfileExists {
			utils.RespondWithError(w, http.StatusConflict, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create match profile")
		return
	}

	utils.MessageResponse(w, http.StatusCreated, "Match profile created")
}

// UpdateProfile handles PUT /match/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	in, ok := h.decodeProfileInput(w, r)
	if !ok {
		return
	}

	if err := h.service.UpdateProfile(r.Context(), userID, in); err != nil {
		if err == ErrProfileNotFound {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update match profile")
		return
	}

	utils.MessageResponse(w, http.StatusOK, "Match profile updated")
}

// PotentialMatches handles GET /match/potential
func (h *Handler) PotentialMatches(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	matches, err := h.service.PotentialMatches(r.Context(), userID)
	if err != nil {
		if err == ErrProfileNotFound {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get potential matches")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"matches": matches})
}

// Like handles POST /match/like/{userId}
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	userID, targetID, ok := h.interactionParams(w, r)
	if !ok {
		return
	}

	result, err := h.service.Like(r.Context(), userID, targetID)
	if err != nil {
		if err == ErrSelfInteraction {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to record like")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}

// Skip handles POST /match/skip/{userId}
func (h *Handler) Skip(w http.ResponseWriter, r *http.Request) {
	userID, targetID, ok := h.interactionParams(w, r)
	if !ok {
		return
	}

	if err := h.service.Skip(r.Context(), userID, targetID); err != nil {
		if err == ErrSelfInteraction {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to record skip")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) decodeProfileInput(w http.ResponseWriter, r *http.Request) (*ProfileInput, bool) {
	var in ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return nil, false
	}
	if err := utils.ValidateStruct(&in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return &in, true
}

func (h *Handler) interactionParams(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return 0, 0, false
	}

	targetID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return 0, 0, false
	}

	return userID, targetID, true
}
