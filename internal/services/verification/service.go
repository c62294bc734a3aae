// Package verification implements the device verification workflow: a
// game install requests a one-time numeric code, the player transcribes
// it into the site, and redeeming it mints a player session.
package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/wavebreak/wavebreak-site/internal/dependencies/clock"
	"github.com/wavebreak/wavebreak-site/internal/dependencies/random"
	"github.com/wavebreak/wavebreak-site/internal/model"
	"github.com/wavebreak/wavebreak-site/internal/session"
	"github.com/wavebreak/wavebreak-site/internal/storage"
)

// Errors
var (
	ErrInvalidCode = errors.New("invalid or unknown verification code")
	ErrCodeExpired = errors.New("verification code has expired")
)

// Service issues and redeems verification codes
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new verification Service
func New(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// Issue creates a fresh verification code for the player. Any prior
// unused codes for the player are superseded (marked used). A stats row
// is created lazily on the player's first verification request.
func (s *Service) Issue(ctx context.Context, playerID model.PlayerID) (string, error) {
	_, err := s.storage.GetPlayerStats(ctx, playerID)
	if errors.Is(err, model.ErrStatsNotFound) {
		if err := s.storage.CreatePlayerStats(ctx, playerID); err != nil {
			return "", fmt.Errorf("failed to create player stats: %w", err)
		}
	} else if err != nil {
		return "", fmt.Errorf("failed to look up player stats: %w", err)
	}

	code := s.generateCode()
	vc := &model.VerificationCode{
		PlayerID:  playerID,
		Code:      code,
		Used:      false,
		CreatedAt: s.clock.Now(),
	}
	// Supersede prior unused codes and insert the new one as a single
	// storage operation, so concurrent issues cannot leave the player
	// with two live codes.
	if err := s.storage.SupersedeAndCreateCode(ctx, vc); err != nil {
		return "", fmt.Errorf("failed to store verification code: %w", err)
	}

	return code, nil
}

// Redeem exchanges an unused code for a player session. The session is
// not persisted server-side; the caller serializes it into the
// player_session cookie.
func (s *Service) Redeem(ctx context.Context, code string) (*session.Session, error) {
	vc, err := s.storage.GetUnusedCode(ctx, code)
	if err != nil {
		if errors.Is(err, model.ErrCodeNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("failed to look up verification code: %w", err)
	}

	if vc.Expired(s.clock.Now()) {
		return nil, ErrCodeExpired
	}

	if err := s.storage.MarkCodeUsed(ctx, code); err != nil {
		return nil, fmt.Errorf("failed to mark code used: %w", err)
	}

	return &session.Session{
		Token:    uuid.NewString(),
		PlayerID: vc.PlayerID,
	}, nil
}

// generateCode produces a 6-digit numeric code. Codes are not
// guaranteed unique across outstanding codes.
func (s *Service) generateCode() string {
	return strconv.Itoa(100000 + s.random.Intn(900000))
}
