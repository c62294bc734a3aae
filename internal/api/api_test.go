package api_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavebreak/wavebreak-site/internal/api"
	"github.com/wavebreak/wavebreak-site/internal/api/response"
	"github.com/wavebreak/wavebreak-site/internal/factory"
	"github.com/wavebreak/wavebreak-site/internal/session"
	"github.com/wavebreak/wavebreak-site/internal/storage/memory"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	storage *memory.Storage
	codec   *session.Codec
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(t.Context(), factory.Config{SessionSecret: "test-secret"})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:              logger,
		VerificationService: app.VerificationService,
		ProfileService:      app.ProfileService,
		StatsService:        app.StatsService,
		SessionCodec:        app.SessionCodec,
	})

	return &testServer{
		handler: router,
		storage: app.Storage.(*memory.Storage),
		codec:   app.SessionCodec,
	}
}

func (ts *testServer) request(method, path string, body any, cookie string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookie})
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// issueAndRedeem runs the full issue/redeem flow and returns the
// session cookie value set on the redeem response.
func (ts *testServer) issueAndRedeem(t *testing.T, playerID string) string {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/verification", map[string]string{"playerId": playerID}, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var issued response.IssueCodeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &issued))

	rr = ts.request(http.MethodPost, "/api/verify", map[string]string{"code": issued.Code}, "")
	require.Equal(t, http.StatusOK, rr.Code)

	for _, c := range rr.Result().Cookies() {
		if c.Name == session.CookieName {
			return c.Value
		}
	}
	t.Fatal("redeem did not set a session cookie")
	return ""
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestIssueCode(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/verification", map[string]string{"playerId": "player-1"}, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.IssueCodeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Code, 6)
}

func TestIssueCodeMissingPlayerID(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/verification", map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "playerId")
}

func TestRedeemCode(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/verification", map[string]string{"playerId": "player-1"}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var issued response.IssueCodeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &issued))

	rr = ts.request(http.MethodPost, "/api/verify", map[string]string{"code": issued.Code}, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var redeemed response.RedeemCodeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &redeemed))
	assert.True(t, redeemed.Success)
	assert.Equal(t, "player-1", redeemed.PlayerID)

	// The cookie decodes to the same player
	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)
	sess, err := ts.codec.Decode(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, "player-1", string(sess.PlayerID))
}

func TestRedeemUnknownCode(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/verify", map[string]string{"code": "000000"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRedeemCodeTwice(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/verification", map[string]string{"playerId": "player-1"}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var issued response.IssueCodeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &issued))

	rr = ts.request(http.MethodPost, "/api/verify", map[string]string{"code": issued.Code}, "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/verify", map[string]string{"code": issued.Code}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestReissueInvalidatesPriorCode(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/verification", map[string]string{"playerId": "player-1"}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var first response.IssueCodeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &first))

	rr = ts.request(http.MethodPost, "/api/verification", map[string]string{"playerId": "player-1"}, "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/verify", map[string]string{"code": first.Code}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestClaimUsername(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.issueAndRedeem(t, "player-1")

	rr := ts.request(http.MethodPut, "/api/username", map[string]string{"username": "wavebreaker"}, cookie)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.ClaimUsernameResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "wavebreaker", resp.Username)
}

func TestClaimUsernameRequiresSession(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPut, "/api/username", map[string]string{"username": "wavebreaker"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestClaimUsernameTamperedCookie(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.issueAndRedeem(t, "player-1")

	// Flip a character in the signed payload
	tampered := cookie
	if cookie[0] == 'A' {
		tampered = "B" + cookie[1:]
	} else {
		tampered = "A" + cookie[1:]
	}

	rr := ts.request(http.MethodPut, "/api/username", map[string]string{"username": "wavebreaker"}, tampered)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestClaimUsernameLengthValidation(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.issueAndRedeem(t, "player-1")

	rr := ts.request(http.MethodPut, "/api/username", map[string]string{"username": "ab"}, cookie)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodPut, "/api/username", map[string]string{"username": strings.Repeat("a", 21)}, cookie)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestClaimUsernameConflict(t *testing.T) {
	ts := newTestServer(t)

	cookie1 := ts.issueAndRedeem(t, "player-1")
	rr := ts.request(http.MethodPut, "/api/username", map[string]string{"username": "wavebreaker"}, cookie1)
	require.Equal(t, http.StatusOK, rr.Code)

	cookie2 := ts.issueAndRedeem(t, "player-2")
	rr = ts.request(http.MethodPut, "/api/username", map[string]string{"username": "wavebreaker"}, cookie2)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "taken")

	// The holder can re-claim their own name
	rr = ts.request(http.MethodPut, "/api/username", map[string]string{"username": "wavebreaker"}, cookie1)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSubmitScore(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]any{"playerId": "player-1", "score": 5, "zombiesKilled": 42}
	rr := ts.request(http.MethodPost, "/api/scores", body, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.SubmitScoreResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Updated)

	// A lower score does not beat the record but still accumulates
	body = map[string]any{"playerId": "player-1", "score": 3, "zombiesKilled": 10}
	rr = ts.request(http.MethodPost, "/api/scores", body, "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Updated)

	rr = ts.request(http.MethodGet, "/api/scores?player_id=player-1", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var summary response.PlayerSummaryResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
	assert.Equal(t, 5, summary.Stats.WavesKilled)
	assert.Equal(t, 52, summary.Stats.ZombiesKilled)
	assert.Len(t, summary.RecentMatches, 2)
}

func TestGetScoresUnknownPlayer(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/scores?player_id=nobody", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLeaderboard(t *testing.T) {
	ts := newTestServer(t)

	for i, id := range []string{"player-1", "player-2", "player-3"} {
		body := map[string]any{"playerId": id, "score": (i + 1) * 10}
		rr := ts.request(http.MethodPost, "/api/scores", body, "")
		require.Equal(t, http.StatusOK, rr.Code)
	}

	cookie := ts.issueAndRedeem(t, "player-3")
	rr := ts.request(http.MethodPut, "/api/username", map[string]string{"username": "champ"}, cookie)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, "/api/leaderboard", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.LeaderboardResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Entries, 3)
	assert.Equal(t, 1, resp.Entries[0].Rank)
	assert.Equal(t, "player-3", resp.Entries[0].PlayerID)
	assert.Equal(t, "champ", resp.Entries[0].Username)
	assert.Equal(t, 30, resp.Entries[0].Stats.WavesKilled)
}

func TestLeaderboardInvalidSort(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/leaderboard?sort=password_hash", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestErrorShape(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/verify", map[string]string{"code": "000000"}, "")
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["error"])
}
