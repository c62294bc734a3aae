package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/wavebreak/wavebreak-site/internal/dependencies/clock"
	"github.com/wavebreak/wavebreak-site/internal/model"
	"github.com/wavebreak/wavebreak-site/internal/storage"
)

// LocalProvider stores accounts in the site's own datastore for
// deployments without a managed identity provider.
type LocalProvider struct {
	storage storage.Storage
	clock   clock.Clock
}

// NewLocalProvider creates a LocalProvider backed by the given storage
func NewLocalProvider(storage storage.Storage, clock clock.Clock) *LocalProvider {
	return &LocalProvider{storage: storage, clock: clock}
}

var _ Provider = (*LocalProvider)(nil)

// CreateConfirmedAccount hashes the password, stores a confirmed
// account row, and returns its id.
func (p *LocalProvider) CreateConfirmedAccount(ctx context.Context, email, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	account := &model.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Confirmed:    true,
		CreatedAt:    p.clock.Now(),
	}

	if err := p.storage.CreateAccount(ctx, account); err != nil {
		return "", fmt.Errorf("failed to store account: %w", err)
	}
	return account.ID, nil
}
