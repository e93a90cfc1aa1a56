package routes

import (
	"paircall_server/controllers"
	"paircall_server/services"

	"github.com/gorilla/mux"
)

// RegisterQueueRoutes sets up routes for queue operations under /api/queue
func RegisterQueueRoutes(r *mux.Router, matchService *services.MatchService) {
	controller := controllers.NewQueueController(matchService)

	queueRouter := r.PathPrefix("/api/queue").Subrouter()
	queueRouter.HandleFunc("/join", controller.JoinQueue).Methods("POST")
	queueRouter.HandleFunc("/leave", controller.LeaveQueue).Methods("POST")
}
