package social

import (
	"github.com/gorilla/mux"

	"github.com/damilolaoke/carelink-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Friend requests
	api.HandleFunc("/friends/invite/{publicId}", handler.SendFriendRequest).Methods("POST")
	api.HandleFunc("/friends/requests", handler.PendingRequests).Methods("GET")
	api.HandleFunc("/friends/requests/{id}/accept", handler.AcceptRequest).Methods("PATCH")
	api.HandleFunc("/friends/requests/{id}/reject", handler.RejectRequest).Methods("PATCH")
	api.HandleFunc("/friends/requests/{id}", handler.CancelRequest).Methods("DELETE")

	// Friendships
	api.HandleFunc("/friends", handler.ListFriends).Methods("GET")
	api.HandleFunc("/friends/{friendId}", handler.RemoveFriend).Methods("DELETE")
}
