// internal/profile/routes.go

package profile

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/damilolaoke/carelink-backend/internal/auth"
)

// RegisterRoutes registers profile routes with the router
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/profile", handler.GetProfile).Methods(http.MethodGet)
	api.HandleFunc("/profile", handler.UpdateProfile).Methods(http.MethodPut)
	api.HandleFunc("/profile/avatar", handler.UploadAvatar).Methods(http.MethodPost)
	api.HandleFunc("/users/{publicId}", handler.GetPublicProfile).Methods(http.MethodGet)
}
