package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"error": err.Error()})
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case IssueResult:
		o.printIssueResult(v)
	case RedeemResult:
		o.printRedeemResult(v)
	case UsernameResult:
		o.printUsernameResult(v)
	case SubmitResult:
		o.printSubmitResult(v)
	case PlayerSummary:
		o.printPlayerSummary(v)
	case Leaderboard:
		o.printLeaderboard(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// IssueResult response type (matches API)
type IssueResult struct {
	Code string `json:"code"`
}

// RedeemResult response type
type RedeemResult struct {
	Success  bool   `json:"success"`
	PlayerID string `json:"player_id"`
}

// UsernameResult response type
type UsernameResult struct {
	Success  bool   `json:"success"`
	Username string `json:"username"`
}

// SubmitResult response type
type SubmitResult struct {
	Success bool `json:"success"`
	Updated bool `json:"updated"`
}

// PlayerStats response type
type PlayerStats struct {
	PlayerID             string    `json:"player_id"`
	WavesKilled          int       `json:"waves_killed"`
	ZombiesKilled        int       `json:"zombies_killed"`
	WorldsSaved          int       `json:"worlds_saved"`
	TotalPlaytimeSeconds int       `json:"total_playtime_seconds"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Match response type
type Match struct {
	WavesSurvived int       `json:"waves_survived"`
	ZombiesKilled int       `json:"zombies_killed"`
	PlayedAt      time.Time `json:"played_at"`
}

// PlayerSummary response type
type PlayerSummary struct {
	Stats         PlayerStats `json:"stats"`
	RecentMatches []Match     `json:"recent_matches"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	Rank     int         `json:"rank"`
	PlayerID string      `json:"player_id"`
	Username string      `json:"username,omitempty"`
	Stats    PlayerStats `json:"stats"`
}

// Leaderboard response type
type Leaderboard struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printIssueResult(r IssueResult) {
	fmt.Printf("Verification code: %s\n", r.Code)
}

func (o *Output) printRedeemResult(r RedeemResult) {
	fmt.Printf("Verified player: %s\n", r.PlayerID)
}

func (o *Output) printUsernameResult(r UsernameResult) {
	fmt.Printf("Username set: %s\n", r.Username)
}

func (o *Output) printSubmitResult(r SubmitResult) {
	if r.Updated {
		fmt.Println("Score submitted: new best wave!")
	} else {
		fmt.Println("Score submitted")
	}
}

func (o *Output) printStats(s PlayerStats) {
	fmt.Printf("Player: %s\n", s.PlayerID)
	fmt.Printf("Best Waves: %d\n", s.WavesKilled)
	fmt.Printf("Zombies Killed: %d\n", s.ZombiesKilled)
	fmt.Printf("Worlds Saved: %d\n", s.WorldsSaved)
	fmt.Printf("Playtime: %s\n", (time.Duration(s.TotalPlaytimeSeconds) * time.Second).String())
}

func (o *Output) printPlayerSummary(p PlayerSummary) {
	o.printStats(p.Stats)
	if len(p.RecentMatches) > 0 {
		fmt.Printf("Recent Matches (%d):\n", len(p.RecentMatches))
		for _, m := range p.RecentMatches {
			fmt.Printf("  - wave %d, %d zombies (%s)\n",
				m.WavesSurvived, m.ZombiesKilled, m.PlayedAt.Format(time.RFC3339))
		}
	}
}

func (o *Output) printLeaderboard(l Leaderboard) {
	fmt.Printf("Leaderboard (%d entries):\n", len(l.Entries))
	for _, e := range l.Entries {
		name := e.Username
		if name == "" {
			name = e.PlayerID
		}
		fmt.Printf("  %3d. %-20s waves %d, zombies %d\n",
			e.Rank, name, e.Stats.WavesKilled, e.Stats.ZombiesKilled)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
