package handler

import (
	"encoding/json"
	"net/http"

	"github.com/wavebreak/wavebreak-site/internal/api/request"
	"github.com/wavebreak/wavebreak-site/internal/api/response"
	"github.com/wavebreak/wavebreak-site/internal/model"
	"github.com/wavebreak/wavebreak-site/internal/services/stats"
)

// ScoresHandler handles score submission and the per-player summary
type ScoresHandler struct {
	statsService *stats.Service
}

// NewScoresHandler creates a new scores handler
func NewScoresHandler(statsService *stats.Service) *ScoresHandler {
	return &ScoresHandler{
		statsService: statsService,
	}
}

// Submit handles POST /api/scores
// Called by the game client at the end of a run, identified by the
// player id in the body rather than a session.
func (h *ScoresHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("playerId is required"))
		return
	}
	if req.Score < 0 || req.ZombiesKilled < 0 || req.WorldsSaved < 0 || req.PlaytimeSeconds < 0 {
		WriteError(w, NewInvalidRequestError("score values must not be negative"))
		return
	}

	_, updated, err := h.statsService.SubmitScore(r.Context(), model.PlayerID(req.PlayerID), stats.Submission{
		WavesSurvived:   req.Score,
		ZombiesKilled:   req.ZombiesKilled,
		WorldsSaved:     req.WorldsSaved,
		PlaytimeSeconds: req.PlaytimeSeconds,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SubmitScoreResponse{
		Success: true,
		Updated: updated,
	})
}

// Get handles GET /api/scores?player_id=
func (h *ScoresHandler) Get(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("player_id")
	if playerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}

	summary, err := h.statsService.PlayerSummary(r.Context(), model.PlayerID(playerID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerSummaryFromService(summary))
}
