// Package factory wires the application's services, storage, and
// dependencies from configuration.
package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/wavebreak/wavebreak-site/internal/dependencies/clock"
	"github.com/wavebreak/wavebreak-site/internal/dependencies/random"
	"github.com/wavebreak/wavebreak-site/internal/identity"
	"github.com/wavebreak/wavebreak-site/internal/services/profile"
	"github.com/wavebreak/wavebreak-site/internal/services/stats"
	"github.com/wavebreak/wavebreak-site/internal/services/verification"
	"github.com/wavebreak/wavebreak-site/internal/session"
	"github.com/wavebreak/wavebreak-site/internal/storage"
	"github.com/wavebreak/wavebreak-site/internal/storage/memory"
	"github.com/wavebreak/wavebreak-site/internal/storage/postgres"
	redisstorage "github.com/wavebreak/wavebreak-site/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// Identity provider constants
const (
	IdentityProviderLocal = "local"
	IdentityProviderHTTP  = "http"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Session cookie codec
	SessionCodec *session.Codec

	// Services
	VerificationService *verification.Service
	ProfileService      *profile.Service
	StatsService        *stats.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis", or
	// "postgres"). If empty, defaults to "memory".
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresDSN is the connection string (required if StorageType is "postgres")
	PostgresDSN string
	// IdentityProvider selects the account backend ("local" or "http")
	// If empty, defaults to "local".
	IdentityProvider string
	// IdentityURL is the base URL of the external identity service
	// (required if IdentityProvider is "http")
	IdentityURL string
	// IdentityServiceKey authenticates admin calls to the identity service
	IdentityServiceKey string
	// SessionSecret signs session cookies. Empty disables signing
	// (local development only).
	SessionSecret string
	// SecureCookies sets the Secure flag on session cookies
	SecureCookies bool
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	case StorageTypePostgres:
		if cfg.PostgresDSN == "" {
			return nil, errors.New("PostgresDSN required when StorageType is postgres")
		}
		pgStore, err := postgres.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := pgStore.Migrate(ctx); err != nil {
			return nil, err
		}
		store = pgStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis', or 'postgres'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Create identity provider
	var provider identity.Provider
	switch cfg.IdentityProvider {
	case "", IdentityProviderLocal:
		provider = identity.NewLocalProvider(store, clk)
	case IdentityProviderHTTP:
		if cfg.IdentityURL == "" {
			return nil, errors.New("IdentityURL required when IdentityProvider is http")
		}
		provider = identity.NewHTTPProvider(cfg.IdentityURL, cfg.IdentityServiceKey)
	default:
		return nil, errors.New("invalid IdentityProvider: must be 'local' or 'http'")
	}

	codec := session.NewCodec(cfg.SessionSecret, cfg.SecureCookies)

	return newWithDependencies(store, clk, rnd, provider, codec, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, provider identity.Provider, codec *session.Codec, logger *slog.Logger) *App {
	// Create services
	verificationService := verification.New(store, clk, rnd, logger)
	profileService := profile.New(store, provider, clk, logger)
	statsService := stats.New(store, clk, logger)

	return &App{
		Storage:             store,
		Clock:               clk,
		Random:              rnd,
		SessionCodec:        codec,
		VerificationService: verificationService,
		ProfileService:      profileService,
		StatsService:        statsService,
	}
}
