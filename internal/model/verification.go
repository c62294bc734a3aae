package model

import "time"

// VerificationCode is a short-lived, single-use numeric credential
// proving control of a game install. Codes are never deleted; superseded
// and redeemed codes are marked used and kept as an audit trail.
type VerificationCode struct {
	PlayerID  PlayerID
	Code      string
	Used      bool
	ExpiresAt *time.Time // nil means no expiry
	CreatedAt time.Time
}

// Expired reports whether the code has an expiry in the past relative to now.
func (c *VerificationCode) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}
