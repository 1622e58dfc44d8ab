package social

import (
	"context"
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

// SendFriendRequest handles POST /friends/invite/{publicId}
func (h *Handler) SendFriendRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	publicID := mux.Vars(r)["publicId"]

	requestID, err := h.service.SendFriendRequest(r.Context(), userID, publicID)
	if err != nil {
		switch err {
		case ErrUserNotFound:
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case ErrSelfRequest:
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case ErrAlreadyFriends, ErrRequestPending, ErrRequestRejected:
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to send friend request")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Friend request sent",
		"request_id": requestID,
	})
}

// PendingRequests handles GET /friends/requests
func (h *Handler) PendingRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	requests, err := h.service.PendingRequests(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get friend requests")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, requests)
}

// AcceptRequest handles PATCH /friends/requests/{id}/accept
func (h *Handler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	h.respondToRequest(w, r, h.service.AcceptFriendRequest, "Friend request accepted")
}

// RejectRequest handles PATCH /friends/requests/{id}/reject
func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.respondToRequest(w, r, h.service.RejectFriendRequest, "Friend request rejected")
}

func (h *Handler) respondToRequest(w http.ResponseWriter, r *http.Request, action func(context.Context, int64, int64) error, message string) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	requestID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request ID")
		return
	}

	if err := action(r.Context(), userID, requestID); err != nil {
		if err == ErrRequestNotFound {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update friend request")
		return
	}

	utils.MessageResponse(w, http.StatusOK, message)
}

// CancelRequest handles DELETE /friends/requests/{id}
func (h *Handler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	requestID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request ID")
		return
	}

	removed, err := h.service.CancelFriendRequest(r.Context(), requestID, userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to cancel friend request")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

// ListFriends handles GET /friends
func (h *Handler) ListFriends(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	friends, err := h.service.Friends(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get friends")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"friends": friends})
}

// RemoveFriend handles DELETE /friends/{friendId}
func (h *Handler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	friendID, err := strconv.ParseInt(mux.Vars(r)["friendId"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid friend ID")
		return
	}

	removed, err := h.service.RemoveFriend(r.Context(), userID, friendID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to remove friend")
		return
	}
	if !removed {
		utils.RespondWithError(w, http.StatusNotFound, "friendship not found")
		return
	}

	utils.MessageResponse(w, http.StatusOK, "Friend removed")
}
