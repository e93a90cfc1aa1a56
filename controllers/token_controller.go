package controllers

import (
	"encoding/json"
	"net/http"

	"paircall_server/services"
)

// TokenController handles join-token issuance for matched users
type TokenController struct {
	TokenService *services.TokenService
}

// NewTokenController creates a new TokenController instance
func NewTokenController(tokenService *services.TokenService) *TokenController {
	return &TokenController{TokenService: tokenService}
}

// IssueToken returns a signed channel join token. In unsecured mode
// (no app certificate configured) the token is empty and the client
// joins the channel without one.
func (tc *TokenController) IssueToken(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ChannelName string `json:"channelName"`
		UID         uint32 `json:"uid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.ChannelName == "" {
		http.Error(w, `{"error": "channelName is required"}`, http.StatusBadRequest)
		return
	}

	token := tc.TokenService.BuildToken(request.ChannelName, request.UID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"token":       token,
		"appId":       tc.TokenService.AppID,
		"channelName": request.ChannelName,
		"uid":         request.UID,
	})
}
