package handler

import (
	"net/http"
	"strconv"

	"github.com/wavebreak/wavebreak-site/internal/api/response"
	"github.com/wavebreak/wavebreak-site/internal/services/stats"
	"github.com/wavebreak/wavebreak-site/internal/storage"
)

// LeaderboardHandler handles the public leaderboard endpoint
type LeaderboardHandler struct {
	statsService *stats.Service
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(statsService *stats.Service) *LeaderboardHandler {
	return &LeaderboardHandler{
		statsService: statsService,
	}
}

// Get handles GET /api/leaderboard?sort=&limit=
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	sortBy := storage.StatsSortKey(r.URL.Query().Get("sort"))

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			WriteError(w, NewInvalidRequestError("limit must be a number"))
			return
		}
		limit = n
	}

	entries, err := h.statsService.Leaderboard(r.Context(), sortBy, limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardFromService(entries))
}
