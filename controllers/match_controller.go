package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"paircall_server/services"
)

// MatchController handles HTTP requests for match lookup and release
type MatchController struct {
	MatchService *services.MatchService
}

// NewMatchController creates a new MatchController instance
func NewMatchController(matchService *services.MatchService) *MatchController {
	return &MatchController{MatchService: matchService}
}

// GetMatch returns the current match for a user, if any. Clients use
// this to re-check after a reconnect instead of waiting on the socket.
func (mc *MatchController) GetMatch(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, `{"error": "userId is required"}`, http.StatusBadRequest)
		return
	}

	match, err := mc.MatchService.FindMatchFor(r.Context(), userID)
	if err != nil {
		http.Error(w, `{"error": "Failed to fetch match"}`, http.StatusInternalServerError)
		return
	}
	if match == nil {
		http.Error(w, `{"error": "No match found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(match)
}

// ReleaseMatch deletes the user's match record after the call ends.
// Both sides call this; the second call finds nothing and still gets a
// 200.
func (mc *MatchController) ReleaseMatch(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.UserID == "" {
		http.Error(w, `{"error": "userId is required"}`, http.StatusBadRequest)
		return
	}

	if err := mc.MatchService.ReleaseMatch(r.Context(), request.UserID); err != nil {
		log.Printf("❌ Release match failed for %s: %v", request.UserID, err)
		http.Error(w, `{"error": "Failed to release match"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "released"})
}
