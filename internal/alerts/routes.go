// internal/alerts/routes.go

package alerts

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/damilolaoke/carelink-backend/internal/auth"
)

// RegisterRoutes registers alert routes with the router
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/alerts").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/contacts", handler.AddContact).Methods(http.MethodPost)
	api.HandleFunc("/contacts", handler.ListContacts).Methods(http.MethodGet)
	api.HandleFunc("/contacts/{id}", handler.UpdateContact).Methods(http.MethodPut)
	api.HandleFunc("/contacts/{id}", handler.RemoveContact).Methods(http.MethodDelete)

	api.HandleFunc("/trigger", handler.TriggerAlert).Methods(http.MethodPost)
	api.HandleFunc("/{id}/resolve", handler.ResolveAlert).Methods(http.MethodPatch)
	api.HandleFunc("/history", handler.AlertHistory).Methods(http.MethodGet)

	api.HandleFunc("/feed", handler.AlertFeed).Methods(http.MethodGet)
}
