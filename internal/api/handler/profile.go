package handler

import (
	"encoding/json"
	"net/http"

	"github.com/wavebreak/wavebreak-site/internal/api/middleware"
	"github.com/wavebreak/wavebreak-site/internal/api/request"
	"github.com/wavebreak/wavebreak-site/internal/api/response"
	"github.com/wavebreak/wavebreak-site/internal/services/profile"
)

// ProfileHandler handles the username claim endpoint
type ProfileHandler struct {
	profileService *profile.Service
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *profile.Service) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// ClaimUsername handles PUT /api/username
func (h *ProfileHandler) ClaimUsername(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.MustGetPlayerID(r.Context())

	var req request.ClaimUsernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	prof, err := h.profileService.ClaimUsername(r.Context(), playerID, req.Username)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ClaimUsernameResponse{
		Success:  true,
		Username: prof.Username,
	})
}
