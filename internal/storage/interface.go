package storage

import (
	"context"

	"github.com/wavebreak/wavebreak-site/internal/model"
)

// StatsSortKey selects the counter a leaderboard listing is ordered by.
type StatsSortKey string

// Valid leaderboard sort keys
const (
	SortByWaves    StatsSortKey = "waves_killed"
	SortByZombies  StatsSortKey = "zombies_killed"
	SortByWorlds   StatsSortKey = "worlds_saved"
	SortByPlaytime StatsSortKey = "total_playtime_seconds"
)

// Valid reports whether k names a known sort key.
func (k StatsSortKey) Valid() bool {
	switch k {
	case SortByWaves, SortByZombies, SortByWorlds, SortByPlaytime:
		return true
	}
	return false
}

// Storage defines the interface for data persistence
type Storage interface {
	// Player stats operations
	GetPlayerStats(ctx context.Context, id model.PlayerID) (*model.PlayerStats, error)
	CreatePlayerStats(ctx context.Context, id model.PlayerID) error
	UpsertPlayerStats(ctx context.Context, stats *model.PlayerStats) error
	ListTopStats(ctx context.Context, sortBy StatsSortKey, limit int) ([]*model.PlayerStats, error)

	// Match history operations
	RecordMatch(ctx context.Context, match *model.Match) error
	RecentMatches(ctx context.Context, id model.PlayerID, limit int) ([]*model.Match, error)

	// Verification code operations
	CreateVerificationCode(ctx context.Context, code *model.VerificationCode) error
	GetUnusedCode(ctx context.Context, code string) (*model.VerificationCode, error)
	MarkCodeUsed(ctx context.Context, code string) error
	// InvalidateCodes marks every unused code for the player as used.
	InvalidateCodes(ctx context.Context, id model.PlayerID) error
	// SupersedeAndCreateCode marks every unused code for the owning
	// player as used and inserts the new code as one guarded
	// operation, so at most one unused code exists per player.
	SupersedeAndCreateCode(ctx context.Context, code *model.VerificationCode) error

	// Profile operations
	GetProfile(ctx context.Context, id model.PlayerID) (*model.Profile, error)
	// FindUsernameHolder returns the profile holding username, excluding
	// the given player's own profile.
	FindUsernameHolder(ctx context.Context, username string, excluding model.PlayerID) (*model.Profile, error)
	CreateProfile(ctx context.Context, profile *model.Profile) error
	UpdateProfileUsername(ctx context.Context, id model.PlayerID, username string) error
	ListProfiles(ctx context.Context, ids []model.PlayerID) ([]*model.Profile, error)

	// Account operations (local identity provider)
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, id string) (*model.Account, error)
}
