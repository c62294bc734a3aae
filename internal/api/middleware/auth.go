package middleware

import (
	"context"
	"net/http"

	"github.com/wavebreak/wavebreak-site/internal/api/apierr"
	"github.com/wavebreak/wavebreak-site/internal/model"
	"github.com/wavebreak/wavebreak-site/internal/session"
)

type contextKey string

const sessionContextKey contextKey = "session"

// Auth creates authentication middleware that requires a valid
// player_session cookie.
func Auth(codec *session.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := codec.FromRequest(r)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession returns the session from the request context
func GetSession(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionContextKey).(*session.Session)
	return sess
}

// MustGetPlayerID returns the authenticated player id or panics
func MustGetPlayerID(ctx context.Context) model.PlayerID {
	sess := GetSession(ctx)
	if sess == nil {
		panic("no session in context - auth middleware not applied?")
	}
	return sess.PlayerID
}
