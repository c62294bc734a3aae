package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/wavebreak/wavebreak-site/internal/model"
	"github.com/wavebreak/wavebreak-site/internal/services/profile"
	"github.com/wavebreak/wavebreak-site/internal/services/stats"
	"github.com/wavebreak/wavebreak-site/internal/services/verification"
	"github.com/wavebreak/wavebreak-site/internal/storage"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// Test: full verification flow from code issue to claimed username
func (s *IntegrationSuite) TestVerificationFlow() {
	// Step 1: the game client requests a code
	s.app.MockRandom.QueueIntn(123456 - 100000)
	code, err := s.app.VerificationService.Issue(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal("123456", code)

	// Step 2: the player redeems the code on the site
	sess, err := s.app.VerificationService.Redeem(s.ctx, code)
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), sess.PlayerID)

	// Step 3: redeeming again fails
	_, err = s.app.VerificationService.Redeem(s.ctx, code)
	s.ErrorIs(err, verification.ErrInvalidCode)

	// Step 4: the verified player claims a username
	prof, err := s.app.ProfileService.ClaimUsername(s.ctx, sess.PlayerID, "wavebreaker")
	s.Require().NoError(err)
	s.Equal("wavebreaker", prof.Username)

	// Step 5: another player cannot take the same name
	_, err = s.app.ProfileService.ClaimUsername(s.ctx, "player-2", "wavebreaker")
	s.ErrorIs(err, profile.ErrUsernameTaken)
}

// Test: issuing a second code supersedes the first
func (s *IntegrationSuite) TestReissueSupersedesCode() {
	s.app.MockRandom.QueueIntn(111111 - 100000)
	first, err := s.app.VerificationService.Issue(s.ctx, "player-1")
	s.Require().NoError(err)

	s.app.MockRandom.QueueIntn(222222 - 100000)
	second, err := s.app.VerificationService.Issue(s.ctx, "player-1")
	s.Require().NoError(err)

	_, err = s.app.VerificationService.Redeem(s.ctx, first)
	s.ErrorIs(err, verification.ErrInvalidCode)

	sess, err := s.app.VerificationService.Redeem(s.ctx, second)
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), sess.PlayerID)
}

// Test: scores flow from submission to leaderboard with claimed names
func (s *IntegrationSuite) TestScoresAndLeaderboardFlow() {
	_, _, err := s.app.StatsService.SubmitScore(s.ctx, "player-1", stats.Submission{WavesSurvived: 10, ZombiesKilled: 100})
	s.Require().NoError(err)
	_, _, err = s.app.StatsService.SubmitScore(s.ctx, "player-2", stats.Submission{WavesSurvived: 20, ZombiesKilled: 50})
	s.Require().NoError(err)

	_, err = s.app.ProfileService.ClaimUsername(s.ctx, "player-2", "champ")
	s.Require().NoError(err)

	entries, err := s.app.StatsService.Leaderboard(s.ctx, storage.SortByWaves, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal("champ", entries[0].Username)
	s.Empty(entries[1].Username)

	summary, err := s.app.StatsService.PlayerSummary(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(10, summary.Stats.WavesKilled)
	s.Len(summary.RecentMatches, 1)
}

// Test: session cookie round trip through the codec
func (s *IntegrationSuite) TestSessionCookieRoundTrip() {
	s.app.MockRandom.QueueIntn(123456 - 100000)
	code, err := s.app.VerificationService.Issue(s.ctx, "player-1")
	s.Require().NoError(err)

	sess, err := s.app.VerificationService.Redeem(s.ctx, code)
	s.Require().NoError(err)

	cookie, err := s.app.SessionCodec.Cookie(sess)
	s.Require().NoError(err)

	decoded, err := s.app.SessionCodec.Decode(cookie.Value)
	s.Require().NoError(err)
	s.Equal(sess.PlayerID, decoded.PlayerID)
	s.Equal(sess.Token, decoded.Token)
}
