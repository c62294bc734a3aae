// Package postgres implements the storage interface against PostgreSQL.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wavebreak/wavebreak-site/internal/model"
	"github.com/wavebreak/wavebreak-site/internal/storage"
)

//go:embed migrations/001_initial.sql
var migrationSQL string

// db is the subset of pgxpool.Pool the storage uses. pgxmock's pool
// satisfies it, which is how the unit tests run without a server.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Storage is a PostgreSQL-backed implementation of the storage interface
type Storage struct {
	pool db
}

// New connects to the database at dsn and returns a Storage backed by a
// pgx connection pool.
func New(ctx context.Context, dsn string) (*Storage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Storage{pool: pool}, nil
}

// NewWithDB creates a Storage with an existing pool (for testing)
func NewWithDB(pool db) *Storage {
	return &Storage{pool: pool}
}

// Close closes the connection pool if the Storage owns one.
func (s *Storage) Close() {
	if pool, ok := s.pool.(*pgxpool.Pool); ok {
		pool.Close()
	}
}

// Migrate applies the embedded schema migration.
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, migrationSQL); err != nil {
		return fmt.Errorf("failed to run database migration: %w", err)
	}
	return nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player stats operations

func (s *Storage) GetPlayerStats(ctx context.Context, id model.PlayerID) (*model.PlayerStats, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT player_id, waves_killed, zombies_killed, worlds_saved,
		       total_playtime_seconds, updated_at
		FROM player_stats
		WHERE player_id = $1
	`, string(id))

	stats, err := scanStats(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrStatsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player stats: %w", err)
	}
	return stats, nil
}

func (s *Storage) CreatePlayerStats(ctx context.Context, id model.PlayerID) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO player_stats (player_id)
		VALUES ($1)
		ON CONFLICT (player_id) DO NOTHING
	`, string(id))
	if err != nil {
		return fmt.Errorf("failed to create player stats: %w", err)
	}
	return nil
}

func (s *Storage) UpsertPlayerStats(ctx context.Context, stats *model.PlayerStats) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO player_stats (
			player_id, waves_killed, zombies_killed, worlds_saved,
			total_playtime_seconds, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (player_id) DO UPDATE SET
			waves_killed = EXCLUDED.waves_killed,
			zombies_killed = EXCLUDED.zombies_killed,
			worlds_saved = EXCLUDED.worlds_saved,
			total_playtime_seconds = EXCLUDED.total_playtime_seconds,
			updated_at = EXCLUDED.updated_at
	`,
		string(stats.PlayerID),
		stats.WavesKilled,
		stats.ZombiesKilled,
		stats.WorldsSaved,
		stats.TotalPlaytimeSeconds,
		stats.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert player stats: %w", err)
	}
	return nil
}

func (s *Storage) ListTopStats(ctx context.Context, sortBy storage.StatsSortKey, limit int) ([]*model.PlayerStats, error) {
	if !sortBy.Valid() {
		sortBy = storage.SortByWaves
	}

	// sortBy is validated against the enum above; it is never user input
	// interpolated raw.
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT player_id, waves_killed, zombies_killed, worlds_saved,
		       total_playtime_seconds, updated_at
		FROM player_stats
		ORDER BY %s DESC
		LIMIT $1
	`, sortBy), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list top stats: %w", err)
	}
	defer rows.Close()

	var out []*model.PlayerStats
	for rows.Next() {
		stats, err := scanStats(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		out = append(out, stats)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stats rows: %w", err)
	}
	return out, nil
}

func scanStats(row pgx.Row) (*model.PlayerStats, error) {
	var stats model.PlayerStats
	var playerID string
	err := row.Scan(
		&playerID,
		&stats.WavesKilled,
		&stats.ZombiesKilled,
		&stats.WorldsSaved,
		&stats.TotalPlaytimeSeconds,
		&stats.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	stats.PlayerID = model.PlayerID(playerID)
	return &stats, nil
}

// Match history operations

func (s *Storage) RecordMatch(ctx context.Context, match *model.Match) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO player_matches (player_id, waves_survived, zombies_killed, played_at)
		VALUES ($1, $2, $3, $4)
	`,
		string(match.PlayerID),
		match.WavesSurvived,
		match.ZombiesKilled,
		match.PlayedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record match: %w", err)
	}
	return nil
}

func (s *Storage) RecentMatches(ctx context.Context, id model.PlayerID, limit int) ([]*model.Match, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT player_id, waves_survived, zombies_killed, played_at
		FROM player_matches
		WHERE player_id = $1
		ORDER BY played_at DESC
		LIMIT $2
	`, string(id), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent matches: %w", err)
	}
	defer rows.Close()

	var out []*model.Match
	for rows.Next() {
		var match model.Match
		var playerID string
		if err := rows.Scan(&playerID, &match.WavesSurvived, &match.ZombiesKilled, &match.PlayedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		match.PlayerID = model.PlayerID(playerID)
		out = append(out, &match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate match rows: %w", err)
	}
	return out, nil
}

// Verification code operations

func (s *Storage) CreateVerificationCode(ctx context.Context, code *model.VerificationCode) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO verification_codes (player_id, code, used, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		string(code.PlayerID),
		code.Code,
		code.Used,
		code.ExpiresAt,
		code.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create verification code: %w", err)
	}
	return nil
}

func (s *Storage) GetUnusedCode(ctx context.Context, code string) (*model.VerificationCode, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT player_id, code, used, expires_at, created_at
		FROM verification_codes
		WHERE code = $1 AND NOT used
		ORDER BY created_at DESC
		LIMIT 1
	`, code)

	var vc model.VerificationCode
	var playerID string
	err := row.Scan(&playerID, &vc.Code, &vc.Used, &vc.ExpiresAt, &vc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrCodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get verification code: %w", err)
	}
	vc.PlayerID = model.PlayerID(playerID)
	return &vc, nil
}

func (s *Storage) MarkCodeUsed(ctx context.Context, code string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE verification_codes SET used = TRUE WHERE code = $1
	`, code)
	if err != nil {
		return fmt.Errorf("failed to mark code used: %w", err)
	}
	return nil
}

func (s *Storage) InvalidateCodes(ctx context.Context, id model.PlayerID) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE verification_codes SET used = TRUE WHERE player_id = $1 AND NOT used
	`, string(id))
	if err != nil {
		return fmt.Errorf("failed to invalidate codes: %w", err)
	}
	return nil
}

func (s *Storage) SupersedeAndCreateCode(ctx context.Context, code *model.VerificationCode) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		UPDATE verification_codes SET used = TRUE WHERE player_id = $1 AND NOT used
	`, string(code.PlayerID)); err != nil {
		return fmt.Errorf("failed to invalidate codes: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO verification_codes (player_id, code, used, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		string(code.PlayerID),
		code.Code,
		code.Used,
		code.ExpiresAt,
		code.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to create verification code: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Profile operations

func (s *Storage) GetProfile(ctx context.Context, id model.PlayerID) (*model.Profile, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, player_id, username, created_at, updated_at
		FROM profiles
		WHERE player_id = $1
	`, string(id))

	profile, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

func (s *Storage) FindUsernameHolder(ctx context.Context, username string, excluding model.PlayerID) (*model.Profile, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, player_id, username, created_at, updated_at
		FROM profiles
		WHERE username = $1 AND player_id <> $2
	`, username, string(excluding))

	profile, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find username holder: %w", err)
	}
	return profile, nil
}

func (s *Storage) CreateProfile(ctx context.Context, profile *model.Profile) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO profiles (id, player_id, username, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		profile.ID,
		string(profile.PlayerID),
		profile.Username,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (s *Storage) UpdateProfileUsername(ctx context.Context, id model.PlayerID, username string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE profiles SET username = $1, updated_at = NOW() WHERE player_id = $2
	`, username, string(id))
	if err != nil {
		return fmt.Errorf("failed to update username: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProfileNotFound
	}
	return nil
}

func (s *Storage) ListProfiles(ctx context.Context, ids []model.PlayerID) ([]*model.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	playerIDs := make([]string, len(ids))
	for i, id := range ids {
		playerIDs[i] = string(id)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, player_id, username, created_at, updated_at
		FROM profiles
		WHERE player_id = ANY($1)
	`, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var out []*model.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		out = append(out, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profile rows: %w", err)
	}
	return out, nil
}

func scanProfile(row pgx.Row) (*model.Profile, error) {
	var profile model.Profile
	var playerID string
	err := row.Scan(&profile.ID, &playerID, &profile.Username, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return nil, err
	}
	profile.PlayerID = model.PlayerID(playerID)
	return &profile, nil
}

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO accounts (id, email, password_hash, confirmed, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.Confirmed,
		account.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, confirmed, created_at
		FROM accounts
		WHERE id = $1
	`, id)

	var account model.Account
	err := row.Scan(&account.ID, &account.Email, &account.PasswordHash, &account.Confirmed, &account.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}
