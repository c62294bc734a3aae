package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wavebreak/wavebreak-site/internal/model"
	"github.com/wavebreak/wavebreak-site/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	stats    map[model.PlayerID]*model.PlayerStats
	matches  map[model.PlayerID][]*model.Match
	codes    []*model.VerificationCode
	profiles map[model.PlayerID]*model.Profile
	accounts map[string]*model.Account
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		stats:    make(map[model.PlayerID]*model.PlayerStats),
		matches:  make(map[model.PlayerID][]*model.Match),
		profiles: make(map[model.PlayerID]*model.Profile),
		accounts: make(map[string]*model.Account),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player stats operations

func (s *Storage) GetPlayerStats(ctx context.Context, id model.PlayerID) (*model.PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats, ok := s.stats[id]
	if !ok {
		return nil, model.ErrStatsNotFound
	}
	cp := *stats
	return &cp, nil
}

func (s *Storage) CreatePlayerStats(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stats[id]; !ok {
		s.stats[id] = &model.PlayerStats{PlayerID: id}
	}
	return nil
}

func (s *Storage) UpsertPlayerStats(ctx context.Context, stats *model.PlayerStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *stats
	s.stats[stats.PlayerID] = &cp
	return nil
}

func (s *Storage) ListTopStats(ctx context.Context, sortBy storage.StatsSortKey, limit int) ([]*model.PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*model.PlayerStats, 0, len(s.stats))
	for _, st := range s.stats {
		cp := *st
		all = append(all, &cp)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return statValue(all[i], sortBy) > statValue(all[j], sortBy)
	})

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func statValue(s *model.PlayerStats, key storage.StatsSortKey) int {
	switch key {
	case storage.SortByZombies:
		return s.ZombiesKilled
	case storage.SortByWorlds:
		return s.WorldsSaved
	case storage.SortByPlaytime:
		return s.TotalPlaytimeSeconds
	default:
		return s.WavesKilled
	}
}

// Match history operations

func (s *Storage) RecordMatch(ctx context.Context, match *model.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *match
	s.matches[match.PlayerID] = append(s.matches[match.PlayerID], &cp)
	return nil
}

func (s *Storage) RecentMatches(ctx context.Context, id model.PlayerID, limit int) ([]*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.matches[id]
	out := make([]*model.Match, 0, limit)
	// Most recent first
	for i := len(history) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		cp := *history[i]
		out = append(out, &cp)
	}
	return out, nil
}

// Verification code operations

func (s *Storage) CreateVerificationCode(ctx context.Context, code *model.VerificationCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *code
	s.codes = append(s.codes, &cp)
	return nil
}

func (s *Storage) GetUnusedCode(ctx context.Context, code string) (*model.VerificationCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.codes {
		if c.Code == code && !c.Used {
			cp := *c
			return &cp, nil
		}
	}
	return nil, model.ErrCodeNotFound
}

func (s *Storage) MarkCodeUsed(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.codes {
		if c.Code == code {
			c.Used = true
		}
	}
	return nil
}

func (s *Storage) InvalidateCodes(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.codes {
		if c.PlayerID == id && !c.Used {
			c.Used = true
		}
	}
	return nil
}

func (s *Storage) SupersedeAndCreateCode(ctx context.Context, code *model.VerificationCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Invalidate and insert under the same critical section so the
	// player never has two unused codes at once.
	for _, c := range s.codes {
		if c.PlayerID == code.PlayerID && !c.Used {
			c.Used = true
		}
	}
	cp := *code
	s.codes = append(s.codes, &cp)
	return nil
}

// Profile operations

func (s *Storage) GetProfile(ctx context.Context, id model.PlayerID) (*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[id]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	cp := *profile
	return &cp, nil
}

func (s *Storage) FindUsernameHolder(ctx context.Context, username string, excluding model.PlayerID) (*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.profiles {
		if p.Username == username && p.PlayerID != excluding {
			cp := *p
			return &cp, nil
		}
	}
	return nil, model.ErrProfileNotFound
}

func (s *Storage) CreateProfile(ctx context.Context, profile *model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *profile
	s.profiles[profile.PlayerID] = &cp
	return nil
}

func (s *Storage) UpdateProfileUsername(ctx context.Context, id model.PlayerID, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[id]
	if !ok {
		return model.ErrProfileNotFound
	}
	profile.Username = username
	return nil
}

func (s *Storage) ListProfiles(ctx context.Context, ids []model.PlayerID) ([]*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Profile, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.profiles[id]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *account
	s.accounts[account.ID] = &cp
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	cp := *account
	return &cp, nil
}
