package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wavebreak/wavebreak-site/internal/api/handler"
	"github.com/wavebreak/wavebreak-site/internal/api/middleware"
	"github.com/wavebreak/wavebreak-site/internal/services/profile"
	"github.com/wavebreak/wavebreak-site/internal/services/stats"
	"github.com/wavebreak/wavebreak-site/internal/services/verification"
	"github.com/wavebreak/wavebreak-site/internal/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger              *slog.Logger
	VerificationService *verification.Service
	ProfileService      *profile.Service
	StatsService        *stats.Service
	SessionCodec        *session.Codec
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	verificationHandler := handler.NewVerificationHandler(cfg.VerificationService, cfg.SessionCodec)
	profileHandler := handler.NewProfileHandler(cfg.ProfileService)
	scoresHandler := handler.NewScoresHandler(cfg.StatsService)
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.StatsService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.SessionCodec)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Verification routes (called before a session exists)
	api.HandleFunc("/verification", verificationHandler.Issue).Methods(http.MethodPost)
	api.HandleFunc("/verify", verificationHandler.Redeem).Methods(http.MethodPost)

	// Username claim requires a session cookie
	username := api.PathPrefix("/username").Subrouter()
	username.Use(authMiddleware)
	username.HandleFunc("", profileHandler.ClaimUsername).Methods(http.MethodPut)

	// Score routes (the game client submits with its player id)
	api.HandleFunc("/scores", scoresHandler.Submit).Methods(http.MethodPost)
	api.HandleFunc("/scores", scoresHandler.Get).Methods(http.MethodGet)

	// Public leaderboard
	api.HandleFunc("/leaderboard", leaderboardHandler.Get).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
