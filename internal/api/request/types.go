package request

// IssueCodeRequest is the request body for requesting a verification code
type IssueCodeRequest struct {
	PlayerID string `json:"playerId"`
}

// RedeemCodeRequest is the request body for redeeming a verification code
type RedeemCodeRequest struct {
	Code string `json:"code"`
}

// ClaimUsernameRequest is the request body for claiming a username
type ClaimUsernameRequest struct {
	Username string `json:"username"`
}

// SubmitScoreRequest is the request body for submitting a completed run.
// Score is the wave reached; the extra counters are optional.
type SubmitScoreRequest struct {
	PlayerID        string `json:"playerId"`
	Score           int    `json:"score"`
	ZombiesKilled   int    `json:"zombiesKilled"`
	WorldsSaved     int    `json:"worldsSaved,omitempty"`
	PlaytimeSeconds int    `json:"playtimeSeconds,omitempty"`
}
