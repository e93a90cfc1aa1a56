package routes

import (
	"paircall_server/controllers"
	"paircall_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up routes for match operations under /api/match
func RegisterMatchRoutes(r *mux.Router, matchService *services.MatchService) {
	controller := controllers.NewMatchController(matchService)

	matchRouter := r.PathPrefix("/api/match").Subrouter()
	matchRouter.HandleFunc("", controller.GetMatch).Methods("GET")
	matchRouter.HandleFunc("", controller.ReleaseMatch).Methods("DELETE")
}
