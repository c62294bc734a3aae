// Package stats aggregates gameplay results: score submission from the
// game client, per-player summaries, and the public leaderboard.
package stats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wavebreak/wavebreak-site/internal/dependencies/clock"
	"github.com/wavebreak/wavebreak-site/internal/model"
	"github.com/wavebreak/wavebreak-site/internal/storage"
)

const (
	// DefaultLeaderboardLimit is the number of entries returned when the
	// caller does not ask for a specific count.
	DefaultLeaderboardLimit = 100
	// MaxLeaderboardLimit caps requested leaderboard sizes.
	MaxLeaderboardLimit = 100

	recentMatchCount = 3
)

// ErrInvalidSortKey indicates an unknown leaderboard sort column
var ErrInvalidSortKey = errors.New("invalid leaderboard sort key")

// Submission is one completed run reported by the game client.
type Submission struct {
	WavesSurvived   int
	ZombiesKilled   int
	WorldsSaved     int
	PlaytimeSeconds int
}

// Summary is a player's aggregate stats plus their most recent matches.
type Summary struct {
	Stats         *model.PlayerStats
	RecentMatches []*model.Match
}

// LeaderboardEntry is one ranked row of the public leaderboard.
type LeaderboardEntry struct {
	Rank     int
	PlayerID model.PlayerID
	Username string
	Stats    *model.PlayerStats
}

// Service aggregates and serves player statistics
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new stats Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// SubmitScore folds a completed run into the player's aggregate
// counters and appends it to their match history. WavesKilled keeps the
// best single-run value; the other counters accumulate. Returns the
// updated stats and whether the best wave count improved.
func (s *Service) SubmitScore(ctx context.Context, playerID model.PlayerID, sub Submission) (*model.PlayerStats, bool, error) {
	stats, err := s.storage.GetPlayerStats(ctx, playerID)
	if errors.Is(err, model.ErrStatsNotFound) {
		stats = &model.PlayerStats{PlayerID: playerID}
	} else if err != nil {
		return nil, false, fmt.Errorf("failed to load player stats: %w", err)
	}

	improved := sub.WavesSurvived > stats.WavesKilled
	if improved {
		stats.WavesKilled = sub.WavesSurvived
	}
	stats.ZombiesKilled += sub.ZombiesKilled
	stats.WorldsSaved += sub.WorldsSaved
	stats.TotalPlaytimeSeconds += sub.PlaytimeSeconds
	stats.UpdatedAt = s.clock.Now()

	if err := s.storage.UpsertPlayerStats(ctx, stats); err != nil {
		return nil, false, fmt.Errorf("failed to save player stats: %w", err)
	}

	// Best-effort: the aggregate update already succeeded.
	match := &model.Match{
		PlayerID:      playerID,
		WavesSurvived: sub.WavesSurvived,
		ZombiesKilled: sub.ZombiesKilled,
		PlayedAt:      s.clock.Now(),
	}
	if err := s.storage.RecordMatch(ctx, match); err != nil {
		s.logger.Warn("failed to record match",
			slog.String("player_id", string(playerID)),
			slog.String("error", err.Error()))
	}

	return stats, improved, nil
}

// PlayerSummary returns the player's aggregate stats and their three
// most recent matches.
func (s *Service) PlayerSummary(ctx context.Context, playerID model.PlayerID) (*Summary, error) {
	stats, err := s.storage.GetPlayerStats(ctx, playerID)
	if err != nil {
		return nil, err
	}

	matches, err := s.storage.RecentMatches(ctx, playerID, recentMatchCount)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent matches: %w", err)
	}

	return &Summary{Stats: stats, RecentMatches: matches}, nil
}

// Leaderboard returns up to limit ranked entries ordered by sortBy
// descending. Players without a claimed username are listed with an
// empty Username.
func (s *Service) Leaderboard(ctx context.Context, sortBy storage.StatsSortKey, limit int) ([]*LeaderboardEntry, error) {
	if sortBy == "" {
		sortBy = storage.SortByWaves
	}
	if !sortBy.Valid() {
		return nil, ErrInvalidSortKey
	}
	if limit <= 0 || limit > MaxLeaderboardLimit {
		limit = DefaultLeaderboardLimit
	}

	top, err := s.storage.ListTopStats(ctx, sortBy, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list top stats: %w", err)
	}

	ids := make([]model.PlayerID, len(top))
	for i, st := range top {
		ids[i] = st.PlayerID
	}
	profiles, err := s.storage.ListProfiles(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	names := make(map[model.PlayerID]string, len(profiles))
	for _, p := range profiles {
		names[p.PlayerID] = p.Username
	}

	entries := make([]*LeaderboardEntry, len(top))
	for i, st := range top {
		entries[i] = &LeaderboardEntry{
			Rank:     i + 1,
			PlayerID: st.PlayerID,
			Username: names[st.PlayerID],
			Stats:    st,
		}
	}
	return entries, nil
}
