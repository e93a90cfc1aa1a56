package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"paircall_server/services"
)

// QueueController handles HTTP requests for joining and leaving the
// matchmaking queue
type QueueController struct {
	MatchService *services.MatchService
}

// NewQueueController creates a new QueueController instance
func NewQueueController(matchService *services.MatchService) *QueueController {
	return &QueueController{MatchService: matchService}
}

// JoinQueue enqueues a user and triggers a match attempt. When the
// attempt itself resolves a pairing the match is returned inline;
// otherwise the client waits for the matchFound socket event.
func (qc *QueueController) JoinQueue(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID         string   `json:"userId"`
		RecentContacts []string `json:"recentContacts"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.UserID == "" {
		http.Error(w, `{"error": "userId is required"}`, http.StatusBadRequest)
		return
	}

	match, err := qc.MatchService.Enqueue(r.Context(), request.UserID, request.RecentContacts)
	if err != nil {
		log.Printf("❌ Join queue failed for %s: %v", request.UserID, err)
		if errors.Is(err, services.ErrReservedUserID) {
			http.Error(w, `{"error": "Invalid userId"}`, http.StatusBadRequest)
			return
		}
		if errors.Is(err, services.ErrTooMuchContention) {
			http.Error(w, `{"error": "Queue is busy, try again"}`, http.StatusServiceUnavailable)
			return
		}
		http.Error(w, `{"error": "Failed to join queue"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	response := map[string]interface{}{"status": "queued"}
	if match != nil {
		response["status"] = "matched"
		response["match"] = match
	}
	json.NewEncoder(w).Encode(response)
}

// LeaveQueue removes a user from the queue (cancellation)
func (qc *QueueController) LeaveQueue(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.UserID == "" {
		http.Error(w, `{"error": "userId is required"}`, http.StatusBadRequest)
		return
	}

	if err := qc.MatchService.Dequeue(r.Context(), request.UserID); err != nil {
		log.Printf("❌ Leave queue failed for %s: %v", request.UserID, err)
		if errors.Is(err, services.ErrReservedUserID) {
			http.Error(w, `{"error": "Invalid userId"}`, http.StatusBadRequest)
			return
		}
		http.Error(w, `{"error": "Failed to leave queue"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "left"})
}
