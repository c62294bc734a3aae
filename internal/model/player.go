package model

import "time"

// PlayerID is the opaque identifier minted by the game client on first
// launch. It is stable per install and is the join key across stats,
// profile, and verification records.
type PlayerID string

// PlayerStats holds a player's aggregate counters, one row per player.
// WavesKilled is the best single-run wave count; ZombiesKilled and the
// other counters are lifetime totals.
type PlayerStats struct {
	PlayerID             PlayerID
	WavesKilled          int
	ZombiesKilled        int
	WorldsSaved          int
	TotalPlaytimeSeconds int
	UpdatedAt            time.Time
}

// Match is a single completed run, appended to the player's history on
// score submission.
type Match struct {
	PlayerID      PlayerID
	WavesSurvived int
	ZombiesKilled int
	PlayedAt      time.Time
}

// Profile binds a player install to a claimed display name and the
// backing authentication account created on first claim.
type Profile struct {
	ID        string // backing account id
	PlayerID  PlayerID
	Username  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Account is a backing authentication identity as stored by the local
// identity provider. The email and password are synthesized and never
// shown to the player.
type Account struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash
	Confirmed    bool
	CreatedAt    time.Time
}
