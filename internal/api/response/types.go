package response

import (
	"time"

	"github.com/wavebreak/wavebreak-site/internal/model"
	"github.com/wavebreak/wavebreak-site/internal/services/stats"
)

// IssueCodeResponse is the response for a verification code request
type IssueCodeResponse struct {
	Code string `json:"code"`
}

// RedeemCodeResponse is the response for a successful code redemption
type RedeemCodeResponse struct {
	Success  bool   `json:"success"`
	PlayerID string `json:"player_id"`
}

// ClaimUsernameResponse is the response for a successful username claim
type ClaimUsernameResponse struct {
	Success  bool   `json:"success"`
	Username string `json:"username"`
}

// SubmitScoreResponse is the response for a score submission
type SubmitScoreResponse struct {
	Success bool `json:"success"`
	Updated bool `json:"updated"`
}

// PlayerStats represents a player's aggregate counters in API responses
type PlayerStats struct {
	PlayerID             string    `json:"player_id"`
	WavesKilled          int       `json:"waves_killed"`
	ZombiesKilled        int       `json:"zombies_killed"`
	WorldsSaved          int       `json:"worlds_saved"`
	TotalPlaytimeSeconds int       `json:"total_playtime_seconds"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// PlayerStatsFromModel converts a model.PlayerStats to a response PlayerStats
func PlayerStatsFromModel(s *model.PlayerStats) PlayerStats {
	return PlayerStats{
		PlayerID:             string(s.PlayerID),
		WavesKilled:          s.WavesKilled,
		ZombiesKilled:        s.ZombiesKilled,
		WorldsSaved:          s.WorldsSaved,
		TotalPlaytimeSeconds: s.TotalPlaytimeSeconds,
		UpdatedAt:            s.UpdatedAt,
	}
}

// Match represents a single completed run in API responses
type Match struct {
	WavesSurvived int       `json:"waves_survived"`
	ZombiesKilled int       `json:"zombies_killed"`
	PlayedAt      time.Time `json:"played_at"`
}

// MatchFromModel converts a model.Match to a response Match
func MatchFromModel(m *model.Match) Match {
	return Match{
		WavesSurvived: m.WavesSurvived,
		ZombiesKilled: m.ZombiesKilled,
		PlayedAt:      m.PlayedAt,
	}
}

// PlayerSummaryResponse is a player's stats plus their recent matches
type PlayerSummaryResponse struct {
	Stats         PlayerStats `json:"stats"`
	RecentMatches []Match     `json:"recent_matches"`
}

// PlayerSummaryFromService converts a stats.Summary
func PlayerSummaryFromService(s *stats.Summary) PlayerSummaryResponse {
	matches := make([]Match, len(s.RecentMatches))
	for i, m := range s.RecentMatches {
		matches[i] = MatchFromModel(m)
	}
	return PlayerSummaryResponse{
		Stats:         PlayerStatsFromModel(s.Stats),
		RecentMatches: matches,
	}
}

// LeaderboardEntry is one ranked leaderboard row. Username is empty
// when the player has not claimed one.
type LeaderboardEntry struct {
	Rank     int         `json:"rank"`
	PlayerID string      `json:"player_id"`
	Username string      `json:"username,omitempty"`
	Stats    PlayerStats `json:"stats"`
}

// LeaderboardResponse is the response for a leaderboard listing
type LeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// LeaderboardFromService converts ranked stats.LeaderboardEntry rows
func LeaderboardFromService(entries []*stats.LeaderboardEntry) LeaderboardResponse {
	out := make([]LeaderboardEntry, len(entries))
	for i, e := range entries {
		out[i] = LeaderboardEntry{
			Rank:     e.Rank,
			PlayerID: string(e.PlayerID),
			Username: e.Username,
			Stats:    PlayerStatsFromModel(e.Stats),
		}
	}
	return LeaderboardResponse{Entries: out}
}
