// Package identity creates the backing authentication accounts behind
// claimed profiles. Accounts are throwaway: the email and password are
// synthesized and the player never sees them.
package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Provider creates confirmed authentication accounts
type Provider interface {
	// CreateConfirmedAccount creates a pre-confirmed account and
	// returns its id.
	CreateConfirmedAccount(ctx context.Context, email, password string) (string, error)
}

// GenerateCredentials returns a random local-only email address and a
// random password for a throwaway backing account.
func GenerateCredentials() (email, password string) {
	return fmt.Sprintf("player_%s@game.local", uuid.NewString()), uuid.NewString()
}
