package redis

import (
	"fmt"

	"github.com/wavebreak/wavebreak-site/internal/model"
	"github.com/wavebreak/wavebreak-site/internal/storage"
)

// Key prefix for all site data
const keyPrefix = "wavebreak"

// Key generation functions for each entity type

// statsKey returns the Redis key for a PlayerStats row
func statsKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:stats:%s", keyPrefix, id)
}

// matchesKey returns the Redis key for a player's match history list
func matchesKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:matches:%s", keyPrefix, id)
}

// codeKey returns the Redis key for a player's VerificationCode row.
// Keyed per player so a code value collision between two players never
// overwrites the earlier row.
func codeKey(id model.PlayerID, code string) string {
	return fmt.Sprintf("%s:vcode:%s:%s", keyPrefix, id, code)
}

// codeIndexKey returns the Redis key mapping a code value to the player
// holding its latest unused issuance
func codeIndexKey(code string) string {
	return fmt.Sprintf("%s:idx:code:%s", keyPrefix, code)
}

// unusedCodesKey returns the Redis key for the SET of a player's unused codes
func unusedCodesKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:idx:unused_codes:%s", keyPrefix, id)
}

// profileKey returns the Redis key for a Profile
func profileKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:profile:%s", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// accountKey returns the Redis key for an Account
func accountKey(id string) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, id)
}

// leaderboardKey returns the Redis key for the ZSET ordered by the given stat
func leaderboardKey(sortBy storage.StatsSortKey) string {
	return fmt.Sprintf("%s:leaderboard:%s", keyPrefix, sortBy)
}
