// Package session implements the client-held player session cookie.
//
// Sessions are not persisted server-side: the cookie itself carries the
// token and player id, signed so the player id cannot be forged. The
// cookie is deliberately not HttpOnly because the site's page scripts
// read it.
package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/wavebreak/wavebreak-site/internal/model"
)

// CookieName is the name of the player session cookie
const CookieName = "player_session"

// MaxAge is the cookie lifetime: 1 week
const MaxAge = 7 * 24 * time.Hour

// ErrInvalidSession indicates a missing, malformed, or tampered cookie
var ErrInvalidSession = errors.New("invalid session cookie")

// Session is the payload carried in the cookie
type Session struct {
	Token    string         `json:"token"`
	PlayerID model.PlayerID `json:"player_id"`
}

// Codec encodes and decodes session cookies. When a secret is set the
// payload is HMAC-SHA256 signed; with an empty secret cookies are
// unsigned (local development only).
type Codec struct {
	secret []byte
	secure bool
}

// NewCodec creates a Codec. secure controls the cookie's Secure flag
// and should be true in production deployments.
func NewCodec(secret string, secure bool) *Codec {
	var key []byte
	if secret != "" {
		key = []byte(secret)
	}
	return &Codec{secret: key, secure: secure}
}

// Cookie serializes the session into the player_session cookie.
func (c *Codec) Cookie(s *Session) (*http.Cookie, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}

	value := base64.RawURLEncoding.EncodeToString(payload)
	if c.secret != nil {
		value = value + "." + c.sign(value)
	}

	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(MaxAge.Seconds()),
		HttpOnly: false, // page scripts read the session
		SameSite: http.SameSiteLaxMode,
		Secure:   c.secure,
	}, nil
}

// SetCookie writes the session cookie on the response.
func (c *Codec) SetCookie(w http.ResponseWriter, s *Session) error {
	cookie, err := c.Cookie(s)
	if err != nil {
		return err
	}
	http.SetCookie(w, cookie)
	return nil
}

// Decode parses and verifies a cookie value. Returns ErrInvalidSession
// on any malformed, unsigned, or tampered value.
func (c *Codec) Decode(value string) (*Session, error) {
	encoded := value
	if c.secret != nil {
		parts := strings.SplitN(value, ".", 2)
		if len(parts) != 2 {
			return nil, ErrInvalidSession
		}
		encoded = parts[0]
		if !hmac.Equal([]byte(c.sign(encoded)), []byte(parts[1])) {
			return nil, ErrInvalidSession
		}
	}

	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidSession
	}

	var s Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, ErrInvalidSession
	}
	if s.PlayerID == "" {
		return nil, ErrInvalidSession
	}
	return &s, nil
}

// FromRequest decodes the session from the request's cookie.
func (c *Codec) FromRequest(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, ErrInvalidSession
	}
	return c.Decode(cookie.Value)
}

func (c *Codec) sign(encoded string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(encoded))
	return hex.EncodeToString(mac.Sum(nil))
}
