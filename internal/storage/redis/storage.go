package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wavebreak/wavebreak-site/internal/model"
	"github.com/wavebreak/wavebreak-site/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{client: client, cfg: cfg}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{client: client, cfg: cfg}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player stats operations

func (s *Storage) GetPlayerStats(ctx context.Context, id model.PlayerID) (*model.PlayerStats, error) {
	data, err := s.client.Get(ctx, statsKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrStatsNotFound
		}
		return nil, err
	}

	var stats model.PlayerStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *Storage) CreatePlayerStats(ctx context.Context, id model.PlayerID) error {
	_, err := s.GetPlayerStats(ctx, id)
	if err == nil {
		return nil // already exists
	}
	if !errors.Is(err, model.ErrStatsNotFound) {
		return err
	}
	return s.UpsertPlayerStats(ctx, &model.PlayerStats{PlayerID: id})
}

func (s *Storage) UpsertPlayerStats(ctx context.Context, stats *model.PlayerStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	member := string(stats.PlayerID)

	// Pipeline the row write with the leaderboard index updates
	pipe := s.client.Pipeline()
	pipe.Set(ctx, statsKey(stats.PlayerID), data, 0)
	pipe.ZAdd(ctx, leaderboardKey(storage.SortByWaves), redis.Z{Score: float64(stats.WavesKilled), Member: member})
	pipe.ZAdd(ctx, leaderboardKey(storage.SortByZombies), redis.Z{Score: float64(stats.ZombiesKilled), Member: member})
	pipe.ZAdd(ctx, leaderboardKey(storage.SortByWorlds), redis.Z{Score: float64(stats.WorldsSaved), Member: member})
	pipe.ZAdd(ctx, leaderboardKey(storage.SortByPlaytime), redis.Z{Score: float64(stats.TotalPlaytimeSeconds), Member: member})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListTopStats(ctx context.Context, sortBy storage.StatsSortKey, limit int) ([]*model.PlayerStats, error) {
	stop := int64(limit) - 1
	if limit <= 0 {
		stop = -1
	}

	ids, err := s.client.ZRevRange(ctx, leaderboardKey(sortBy), 0, stop).Result()
	if err != nil {
		return nil, err
	}

	out := make([]*model.PlayerStats, 0, len(ids))
	for _, id := range ids {
		stats, err := s.GetPlayerStats(ctx, model.PlayerID(id))
		if err != nil {
			if errors.Is(err, model.ErrStatsNotFound) {
				continue // index entry with no row; skip
			}
			return nil, err
		}
		out = append(out, stats)
	}
	return out, nil
}

// Match history operations

func (s *Storage) RecordMatch(ctx context.Context, match *model.Match) error {
	data, err := json.Marshal(match)
	if err != nil {
		return err
	}

	key := matchesKey(match.PlayerID)

	pipe := s.client.Pipeline()
	pipe.LPush(ctx, key, data)
	if s.cfg.MatchHistoryMax > 0 {
		pipe.LTrim(ctx, key, 0, int64(s.cfg.MatchHistoryMax)-1)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) RecentMatches(ctx context.Context, id model.PlayerID, limit int) ([]*model.Match, error) {
	stop := int64(limit) - 1
	if limit <= 0 {
		stop = -1
	}

	rows, err := s.client.LRange(ctx, matchesKey(id), 0, stop).Result()
	if err != nil {
		return nil, err
	}

	out := make([]*model.Match, 0, len(rows))
	for _, row := range rows {
		var match model.Match
		if err := json.Unmarshal([]byte(row), &match); err != nil {
			return nil, err
		}
		out = append(out, &match)
	}
	return out, nil
}

// Verification code operations

func (s *Storage) CreateVerificationCode(ctx context.Context, code *model.VerificationCode) error {
	data, err := json.Marshal(code)
	if err != nil {
		return err
	}

	// Pipeline the row write with the per-player unused set and the
	// code value index. The index tracks the latest issuance of a code
	// value; earlier rows stay under their own player's key.
	pipe := s.client.Pipeline()
	pipe.Set(ctx, codeKey(code.PlayerID, code.Code), data, 0)
	pipe.SAdd(ctx, unusedCodesKey(code.PlayerID), code.Code)
	pipe.Set(ctx, codeIndexKey(code.Code), string(code.PlayerID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

// getCode reads a player's code row regardless of its used flag
func (s *Storage) getCode(ctx context.Context, id model.PlayerID, code string) (*model.VerificationCode, error) {
	data, err := s.client.Get(ctx, codeKey(id, code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrCodeNotFound
		}
		return nil, err
	}

	var vc model.VerificationCode
	if err := json.Unmarshal(data, &vc); err != nil {
		return nil, err
	}
	return &vc, nil
}

func (s *Storage) GetUnusedCode(ctx context.Context, code string) (*model.VerificationCode, error) {
	holder, err := s.client.Get(ctx, codeIndexKey(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrCodeNotFound
		}
		return nil, err
	}

	vc, err := s.getCode(ctx, model.PlayerID(holder), code)
	if err != nil {
		return nil, err
	}
	if vc.Used {
		return nil, model.ErrCodeNotFound
	}
	return vc, nil
}

func (s *Storage) MarkCodeUsed(ctx context.Context, code string) error {
	holder, err := s.client.Get(ctx, codeIndexKey(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil // nothing to mark
		}
		return err
	}
	return s.markCodeUsed(ctx, model.PlayerID(holder), code)
}

// markCodeUsed rewrites the player's row as used, drops it from the
// unused set, and clears the code index if it still points at this
// player. A collided code reissued to another player keeps its index.
func (s *Storage) markCodeUsed(ctx context.Context, id model.PlayerID, code string) error {
	vc, err := s.getCode(ctx, id, code)
	if err != nil {
		if errors.Is(err, model.ErrCodeNotFound) {
			return nil
		}
		return err
	}
	vc.Used = true

	updated, err := json.Marshal(vc)
	if err != nil {
		return err
	}

	holder, err := s.client.Get(ctx, codeIndexKey(code)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, codeKey(id, code), updated, 0)
	pipe.SRem(ctx, unusedCodesKey(id), code)
	if model.PlayerID(holder) == id {
		pipe.Del(ctx, codeIndexKey(code))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) InvalidateCodes(ctx context.Context, id model.PlayerID) error {
	codes, err := s.client.SMembers(ctx, unusedCodesKey(id)).Result()
	if err != nil {
		return err
	}

	for _, code := range codes {
		if err := s.markCodeUsed(ctx, id, code); err != nil {
			return err
		}
	}
	return nil
}

func (s *Storage) SupersedeAndCreateCode(ctx context.Context, code *model.VerificationCode) error {
	// Read the rows to supersede first, then apply every write in a
	// single transactional pipeline.
	prior, err := s.client.SMembers(ctx, unusedCodesKey(code.PlayerID)).Result()
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	for _, old := range prior {
		vc, err := s.getCode(ctx, code.PlayerID, old)
		if err != nil {
			if errors.Is(err, model.ErrCodeNotFound) {
				continue
			}
			return err
		}
		vc.Used = true

		updated, err := json.Marshal(vc)
		if err != nil {
			return err
		}

		holder, err := s.client.Get(ctx, codeIndexKey(old)).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		pipe.Set(ctx, codeKey(code.PlayerID, old), updated, 0)
		if model.PlayerID(holder) == code.PlayerID {
			pipe.Del(ctx, codeIndexKey(old))
		}
	}
	pipe.Del(ctx, unusedCodesKey(code.PlayerID))

	data, err := json.Marshal(code)
	if err != nil {
		return err
	}
	pipe.Set(ctx, codeKey(code.PlayerID, code.Code), data, 0)
	pipe.SAdd(ctx, unusedCodesKey(code.PlayerID), code.Code)
	pipe.Set(ctx, codeIndexKey(code.Code), string(code.PlayerID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

// Profile operations

func (s *Storage) GetProfile(ctx context.Context, id model.PlayerID) (*model.Profile, error) {
	data, err := s.client.Get(ctx, profileKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrProfileNotFound
		}
		return nil, err
	}

	var profile model.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *Storage) FindUsernameHolder(ctx context.Context, username string, excluding model.PlayerID) (*model.Profile, error) {
	holder, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrProfileNotFound
		}
		return nil, err
	}

	if model.PlayerID(holder) == excluding {
		return nil, model.ErrProfileNotFound
	}
	return s.GetProfile(ctx, model.PlayerID(holder))
}

func (s *Storage) CreateProfile(ctx context.Context, profile *model.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	// Pipeline the row write with the username index
	pipe := s.client.Pipeline()
	pipe.Set(ctx, profileKey(profile.PlayerID), data, 0)
	pipe.Set(ctx, usernameIndexKey(profile.Username), string(profile.PlayerID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) UpdateProfileUsername(ctx context.Context, id model.PlayerID, username string) error {
	profile, err := s.GetProfile(ctx, id)
	if err != nil {
		return err
	}

	oldUsername := profile.Username
	profile.Username = username

	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, profileKey(id), data, 0)
	if oldUsername != "" && oldUsername != username {
		pipe.Del(ctx, usernameIndexKey(oldUsername))
	}
	pipe.Set(ctx, usernameIndexKey(username), string(id), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListProfiles(ctx context.Context, ids []model.PlayerID) ([]*model.Profile, error) {
	out := make([]*model.Profile, 0, len(ids))
	for _, id := range ids {
		profile, err := s.GetProfile(ctx, id)
		if err != nil {
			if errors.Is(err, model.ErrProfileNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, profile)
	}
	return out, nil
}

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, accountKey(account.ID), data, 0).Err()
}

func (s *Storage) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	data, err := s.client.Get(ctx, accountKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	var account model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}
