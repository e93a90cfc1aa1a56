package routes

import (
	"paircall_server/controllers"
	"paircall_server/services"

	"github.com/gorilla/mux"
)

// RegisterTokenRoutes sets up the token issuance route under /api/token
func RegisterTokenRoutes(r *mux.Router, tokenService *services.TokenService) {
	controller := controllers.NewTokenController(tokenService)

	r.HandleFunc("/api/token", controller.IssueToken).Methods("POST")
}
