// Package profile manages player profiles and the one-time username
// claim a verified player makes after redeeming a code.
package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wavebreak/wavebreak-site/internal/dependencies/clock"
	"github.com/wavebreak/wavebreak-site/internal/identity"
	"github.com/wavebreak/wavebreak-site/internal/model"
	"github.com/wavebreak/wavebreak-site/internal/storage"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 20
)

// Errors
var (
	ErrInvalidUsername = errors.New("username must be between 3 and 20 characters")
	ErrUsernameTaken   = errors.New("username is already taken")
)

// Service manages player profiles
type Service struct {
	storage  storage.Storage
	identity identity.Provider
	clock    clock.Clock
	logger   *slog.Logger
}

// New creates a new profile Service
func New(storage storage.Storage, identity identity.Provider, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage:  storage,
		identity: identity,
		clock:    clock,
		logger:   logger,
	}
}

// Get returns the player's profile, or model.ErrProfileNotFound.
func (s *Service) Get(ctx context.Context, playerID model.PlayerID) (*model.Profile, error) {
	return s.storage.GetProfile(ctx, playerID)
}

// ClaimUsername sets the player's display name. The first claim
// provisions a backing identity account; later claims rename the
// existing profile. The same player may re-claim the username they
// already hold.
func (s *Service) ClaimUsername(ctx context.Context, playerID model.PlayerID, username string) (*model.Profile, error) {
	if len(username) < usernameMinLen || len(username) > usernameMaxLen {
		return nil, ErrInvalidUsername
	}

	holder, err := s.storage.FindUsernameHolder(ctx, username, playerID)
	if err != nil && !errors.Is(err, model.ErrProfileNotFound) {
		return nil, fmt.Errorf("failed to check username availability: %w", err)
	}
	if holder != nil {
		return nil, ErrUsernameTaken
	}

	existing, err := s.storage.GetProfile(ctx, playerID)
	if err != nil && !errors.Is(err, model.ErrProfileNotFound) {
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	}

	if existing != nil {
		if err := s.storage.UpdateProfileUsername(ctx, playerID, username); err != nil {
			return nil, fmt.Errorf("failed to update username: %w", err)
		}
		existing.Username = username
		existing.UpdatedAt = s.clock.Now()
		return existing, nil
	}

	// First claim: provision an identity account, then the profile.
	// The account is not rolled back if the profile insert fails; a
	// retried claim provisions a fresh one.
	email, password := identity.GenerateCredentials()
	accountID, err := s.identity.CreateConfirmedAccount(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity account: %w", err)
	}

	now := s.clock.Now()
	prof := &model.Profile{
		ID:        accountID,
		PlayerID:  playerID,
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.storage.CreateProfile(ctx, prof); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return prof, nil
}
