package verification

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/wavebreak/wavebreak-site/internal/dependencies/mocks"
	"github.com/wavebreak/wavebreak-site/internal/dependencies/random"
	"github.com/wavebreak/wavebreak-site/internal/model"
	"github.com/wavebreak/wavebreak-site/internal/storage/memory"
	"github.com/wavebreak/wavebreak-site/internal/testutil"
)

type VerificationServiceTestSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
}

func TestVerificationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(VerificationServiceTestSuite))
}

func (s *VerificationServiceTestSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.service = New(s.storage, s.clock, s.random, testutil.NopLogger())
}

func (s *VerificationServiceTestSuite) TestIssue() {
	s.random.QueueIntn(123456 - 100000)

	code, err := s.service.Issue(context.Background(), "player-1")
	s.Require().NoError(err)
	s.Equal("123456", code)

	// First issue creates a zeroed stats row
	stats, err := s.storage.GetPlayerStats(context.Background(), "player-1")
	s.Require().NoError(err)
	s.Equal(0, stats.WavesKilled)

	vc, err := s.storage.GetUnusedCode(context.Background(), "123456")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), vc.PlayerID)
	s.False(vc.Used)
}

func (s *VerificationServiceTestSuite) TestIssueCodeBounds() {
	s.random.QueueIntn(0)
	code, err := s.service.Issue(context.Background(), "player-1")
	s.Require().NoError(err)
	s.Equal("100000", code)

	s.random.QueueIntn(899999)
	code, err = s.service.Issue(context.Background(), "player-1")
	s.Require().NoError(err)
	s.Equal("999999", code)
}

func (s *VerificationServiceTestSuite) TestIssueInvalidatesPriorCodes() {
	s.random.QueueIntn(111111 - 100000)
	first, err := s.service.Issue(context.Background(), "player-1")
	s.Require().NoError(err)

	s.random.QueueIntn(222222 - 100000)
	second, err := s.service.Issue(context.Background(), "player-1")
	s.Require().NoError(err)

	_, err = s.storage.GetUnusedCode(context.Background(), first)
	s.ErrorIs(err, model.ErrCodeNotFound)

	_, err = s.storage.GetUnusedCode(context.Background(), second)
	s.NoError(err)
}

func (s *VerificationServiceTestSuite) TestIssueDoesNotTouchOtherPlayers() {
	s.random.QueueIntn(111111 - 100000)
	otherCode, err := s.service.Issue(context.Background(), "player-2")
	s.Require().NoError(err)

	s.random.QueueIntn(222222 - 100000)
	_, err = s.service.Issue(context.Background(), "player-1")
	s.Require().NoError(err)

	_, err = s.storage.GetUnusedCode(context.Background(), otherCode)
	s.NoError(err)
}

func (s *VerificationServiceTestSuite) TestRedeem() {
	s.random.QueueIntn(123456 - 100000)
	code, err := s.service.Issue(context.Background(), "player-1")
	s.Require().NoError(err)

	sess, err := s.service.Redeem(context.Background(), code)
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), sess.PlayerID)
	s.NotEmpty(sess.Token)
}

func (s *VerificationServiceTestSuite) TestRedeemUnknownCode() {
	_, err := s.service.Redeem(context.Background(), "000000")
	s.ErrorIs(err, ErrInvalidCode)
}

func (s *VerificationServiceTestSuite) TestRedeemTwiceFails() {
	s.random.QueueIntn(123456 - 100000)
	code, err := s.service.Issue(context.Background(), "player-1")
	s.Require().NoError(err)

	_, err = s.service.Redeem(context.Background(), code)
	s.Require().NoError(err)

	_, err = s.service.Redeem(context.Background(), code)
	s.ErrorIs(err, ErrInvalidCode)
}

func (s *VerificationServiceTestSuite) TestRedeemExpiredCode() {
	expires := s.clock.Now().Add(-time.Minute)
	vc := &model.VerificationCode{
		PlayerID:  "player-1",
		Code:      "123456",
		ExpiresAt: &expires,
		CreatedAt: s.clock.Now().Add(-time.Hour),
	}
	s.Require().NoError(s.storage.CreateVerificationCode(context.Background(), vc))

	_, err := s.service.Redeem(context.Background(), "123456")
	s.ErrorIs(err, ErrCodeExpired)

	// The expired code is left unused in storage
	stored, err := s.storage.GetUnusedCode(context.Background(), "123456")
	s.Require().NoError(err)
	s.False(stored.Used)
}

func (s *VerificationServiceTestSuite) TestRedeemFreshSessionTokens() {
	s.random.QueueIntn(111111 - 100000)
	first, err := s.service.Issue(context.Background(), "player-1")
	s.Require().NoError(err)
	sess1, err := s.service.Redeem(context.Background(), first)
	s.Require().NoError(err)

	s.random.QueueIntn(222222 - 100000)
	second, err := s.service.Issue(context.Background(), "player-1")
	s.Require().NoError(err)
	sess2, err := s.service.Redeem(context.Background(), second)
	s.Require().NoError(err)

	s.NotEqual(sess1.Token, sess2.Token)
}

func (s *VerificationServiceTestSuite) TestConcurrentIssueLeavesOneLiveCode() {
	// Real randomness here; MockRandom's queue is not safe to share
	// across goroutines
	svc := New(s.storage, s.clock, random.New(), testutil.NopLogger())

	codes := make([]string, 20)
	var wg sync.WaitGroup
	for i := range codes {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			code, err := svc.Issue(context.Background(), "player-1")
			if err == nil {
				codes[n] = code
			}
		}(i)
	}
	wg.Wait()

	// However the issues interleaved, exactly one code is redeemable
	live := 0
	for _, code := range codes {
		if _, err := svc.Redeem(context.Background(), code); err == nil {
			live++
		}
	}
	s.Equal(1, live)
}

func TestGenerateCodeRange(t *testing.T) {
	rnd := mocks.NewMockRandom()
	svc := New(memory.New(), mocks.NewMockClock(time.Now()), rnd, testutil.NopLogger())

	for _, n := range []int{0, 1, 449999, 899999} {
		rnd.QueueIntn(n)
		code := svc.generateCode()
		require.Len(t, code, 6)
		assert.GreaterOrEqual(t, code, "100000")
		assert.LessOrEqual(t, code, "999999")
	}
}
