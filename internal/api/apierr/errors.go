package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wavebreak/wavebreak-site/internal/model"
	"github.com/wavebreak/wavebreak-site/internal/services/profile"
	"github.com/wavebreak/wavebreak-site/internal/services/stats"
	"github.com/wavebreak/wavebreak-site/internal/services/verification"
	"github.com/wavebreak/wavebreak-site/internal/session"
)

// ErrorResponse is the wire shape of every API error. The game client
// and page scripts read the flat error string.
type ErrorResponse struct {
	Error string `json:"error"`
}

// httpError combines an HTTP status code with a client-facing message
type httpError struct {
	status  int
	message string
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.message})
}

// toHTTPError converts an error to an httpError. Unrecognized errors
// become opaque 500s; the raw error is logged upstream, never sent to
// the client.
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Verification errors
	case errors.Is(err, verification.ErrInvalidCode):
		return &httpError{http.StatusBadRequest, "Invalid or already used code"}
	case errors.Is(err, verification.ErrCodeExpired):
		return &httpError{http.StatusBadRequest, "Code has expired"}

	// Profile errors
	case errors.Is(err, profile.ErrInvalidUsername):
		return &httpError{http.StatusBadRequest, "Username must be between 3 and 20 characters"}
	case errors.Is(err, profile.ErrUsernameTaken):
		return &httpError{http.StatusBadRequest, "Username is already taken"}

	// Stats errors
	case errors.Is(err, stats.ErrInvalidSortKey):
		return &httpError{http.StatusBadRequest, "Invalid sort key"}

	// Session errors
	case errors.Is(err, session.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, "Not authenticated"}

	// Model errors
	case errors.Is(err, model.ErrStatsNotFound):
		return &httpError{http.StatusNotFound, "Player not found"}
	case errors.Is(err, model.ErrProfileNotFound):
		return &httpError{http.StatusNotFound, "Profile not found"}

	default:
		return &httpError{http.StatusInternalServerError, "Internal server error"}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, message}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, "Not authenticated"}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, "Internal server error"}
}
