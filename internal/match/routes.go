package match

import (
	"github.com/gorilla/mux"

	"github.com/damilolaoke/carelink-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/match").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Profile
	api.HandleFunc("/profile/check", handler.CheckProfile).Methods("GET")
	api.HandleFunc("/profile", handler.GetProfile).Methods("GET")
	api.HandleFunc("/profile", handler.CreateProfile).Methods("POST")
	api.HandleFunc("/profile", handler.UpdateProfile).Methods("PUT")

	// Matching
	api.HandleFunc("/potential", handler.PotentialMatches).Methods("GET")
	api.HandleFunc("/like/{userId}", handler.Like).Methods("POST")
	api.HandleFunc("/skip/{userId}", handler.Skip).Methods("POST")
}
