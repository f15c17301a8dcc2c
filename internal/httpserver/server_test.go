package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordrush/internal/config"
	"github.com/robalobadob/wordrush/internal/daily"
	"github.com/robalobadob/wordrush/internal/db"
	"github.com/robalobadob/wordrush/internal/game/gametest"
	"github.com/robalobadob/wordrush/internal/kv"
	"github.com/robalobadob/wordrush/internal/words"
)

type harness struct {
	t     *testing.T
	srv   *Server
	clock *gametest.Clock
}

// newHarness starts a server on a fake clock at 09:00 UTC with a one hour
// token TTL. opts adjust the config before the server is built.
func newHarness(t *testing.T, opts ...func(*config.Config)) *harness {
	t.Helper()
	sqlDB, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(sqlDB))

	pool := words.NewPool([]string{"KALEM", "KİTAP"})
	pool.SetRand(func(int) int { return 0 })
	clock := gametest.NewClock(time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC))

	cfg := config.Config{
		JWTSecret:    "test-secret",
		TokenTTL:     time.Hour,
		CookieName:   "wr_player",
		ClientOrigin: "http://example.test",
		TimeZone:     daily.DefaultTimeZone,
		FallbackWord: daily.FallbackWord,
	}
	for _, o := range opts {
		o(&cfg)
	}

	srv := New(Deps{
		Config:  cfg,
		Store:   kv.NewSQLite(sqlDB),
		Results: daily.NewStore(sqlDB),
		Pool:    pool,
		Daily:   map[string]string{"2026-10-17": "KİTAP", "2026-10-18": "ELMAS"},
		Clock:   clock,
	})
	t.Cleanup(srv.Close)
	return &harness{t: t, srv: srv, clock: clock}
}

// do sends a request as the player holding token ("" for a new visitor).
func (h *harness) do(method, path, body, token string) *httptest.ResponseRecorder {
	h.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.srv.Router().ServeHTTP(rec, req)
	return rec
}

// join returns a token for a fresh player.
func (h *harness) join() string {
	h.t.Helper()
	rec := h.do(http.MethodGet, "/rush/state", "", "")
	tok := rec.Header().Get(TokenHeader)
	require.NotEmpty(h.t, tok)
	return tok
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestNotFoundIsJSON(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not_found","path":"/nope"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodOptions, "/rush/guess", "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://example.test", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestDebugWords(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/debug/words", "", "")
	assert.JSONEq(t, `{"words":2,"daily":2}`, rec.Body.String())
}

func TestNewVisitorGetsTokenCookie(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/rush/state", "", "")
	require.NotEmpty(t, rec.Header().Get(TokenHeader))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "wr_player", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
}

func TestKnownTokenIsNotReissued(t *testing.T) {
	h := newHarness(t)
	tok := h.join()
	rec := h.do(http.MethodGet, "/rush/state", "", tok)
	assert.Empty(t, rec.Header().Get(TokenHeader))
}

func TestCookieIdentifiesPlayer(t *testing.T) {
	h := newHarness(t)
	tok := h.join()
	h.do(http.MethodPost, "/rush/guess", `{"guess":"kalem"}`, tok)

	req := httptest.NewRequest(http.MethodGet, "/rush/state", nil)
	req.AddCookie(&http.Cookie{Name: "wr_player", Value: tok})
	rec := httptest.NewRecorder()
	h.srv.Router().ServeHTTP(rec, req)
	assert.EqualValues(t, 10, decode[map[string]any](t, rec)["score"])
}

func TestInvalidTokenMintsNewPlayer(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/rush/state", "", "not-a-token")
	assert.NotEmpty(t, rec.Header().Get(TokenHeader))
}

func TestExpiredTokenMintsNewPlayer(t *testing.T) {
	h := newHarness(t)
	tok := h.join()
	h.clock.Set(h.clock.Now().Add(2 * time.Hour))
	rec := h.do(http.MethodGet, "/rush/state", "", tok)
	assert.NotEmpty(t, rec.Header().Get(TokenHeader))
}

type rushView struct {
	Phase       string   `json:"phase"`
	TimeLeft    int      `json:"timeLeft"`
	Score       int      `json:"score"`
	SolvedCount int      `json:"solvedCount"`
	SolvedWords []string `json:"solvedWords"`
	Started     bool     `json:"started"`
	History     []struct {
		Guess string `json:"guess"`
	} `json:"history"`
}

func TestRushFlow(t *testing.T) {
	h := newHarness(t)
	tok := h.join()

	st := decode[rushView](t, h.do(http.MethodGet, "/rush/state", "", tok))
	assert.Equal(t, "idle", st.Phase)
	assert.Equal(t, 90, st.TimeLeft)
	assert.False(t, st.Started)

	rec := h.do(http.MethodPost, "/rush/guess", `{"guess":"kalem"}`, tok)
	require.Equal(t, http.StatusOK, rec.Code)
	st = decode[rushView](t, rec)
	assert.Equal(t, "running", st.Phase)
	assert.Equal(t, 10, st.Score)
	assert.Equal(t, 110, st.TimeLeft)
	assert.Equal(t, []string{"KALEM"}, st.SolvedWords)
	assert.Empty(t, st.History)

	h.clock.Advance(3 * time.Second)
	st = decode[rushView](t, h.do(http.MethodGet, "/rush/state", "", tok))
	assert.Equal(t, 107, st.TimeLeft)

	st = decode[rushView](t, h.do(http.MethodPost, "/rush/new", "", tok))
	assert.Equal(t, "idle", st.Phase)
	assert.Zero(t, st.Score)
	assert.Equal(t, 90, st.TimeLeft)
}

func TestRushRejectedGuessReturnsSnapshot(t *testing.T) {
	h := newHarness(t)
	tok := h.join()
	before := h.do(http.MethodGet, "/rush/state", "", tok).Body.String()

	rec := h.do(http.MethodPost, "/rush/guess", `{"guess":"ab"}`, tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, before, rec.Body.String())
}

func TestBadJSON(t *testing.T) {
	h := newHarness(t)
	tok := h.join()
	for _, path := range []string{"/rush/guess", "/daily/guess"} {
		rec := h.do(http.MethodPost, path, `{"guess":`, tok)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.JSONEq(t, `{"error":"bad_json"}`, rec.Body.String(), path)
	}
}

func TestPlayersAreIsolated(t *testing.T) {
	h := newHarness(t)
	a, b := h.join(), h.join()
	h.do(http.MethodPost, "/rush/guess", `{"guess":"kalem"}`, a)

	assert.Equal(t, 10, decode[rushView](t, h.do(http.MethodGet, "/rush/state", "", a)).Score)
	assert.Zero(t, decode[rushView](t, h.do(http.MethodGet, "/rush/state", "", b)).Score)
}

func TestDailyAnswerHiddenUntilLocked(t *testing.T) {
	h := newHarness(t)
	tok := h.join()

	st := decode[map[string]any](t, h.do(http.MethodGet, "/daily/state", "", tok))
	assert.Equal(t, "2026-10-17", st["date"])
	assert.NotContains(t, st, "answer")

	st = decode[map[string]any](t, h.do(http.MethodPost, "/daily/guess", `{"guess":"kalem"}`, tok))
	assert.NotContains(t, st, "answer")
	assert.EqualValues(t, 1, st["attemptsUsed"])

	st = decode[map[string]any](t, h.do(http.MethodPost, "/daily/guess", `{"guess":"kitap"}`, tok))
	assert.Equal(t, "KİTAP", st["answer"])
	assert.Equal(t, true, st["isSolved"])
	assert.EqualValues(t, 1, st["streak"])
}

type lbView struct {
	Date   string        `json:"date"`
	Played bool          `json:"played"`
	Top    []daily.LBRow `json:"top"`
}

func TestDailyWinLandsOnLeaderboard(t *testing.T) {
	h := newHarness(t)
	fast, slow, idle := h.join(), h.join(), h.join()

	h.do(http.MethodPost, "/daily/guess", `{"guess":"kalem"}`, slow)
	h.do(http.MethodPost, "/daily/guess", `{"guess":"kitap"}`, slow)
	h.do(http.MethodPost, "/daily/guess", `{"guess":"kitap"}`, fast)

	lb := decode[lbView](t, h.do(http.MethodGet, "/daily/leaderboard", "", fast))
	assert.Equal(t, "2026-10-17", lb.Date)
	assert.True(t, lb.Played)
	require.Len(t, lb.Top, 2)
	assert.Equal(t, 1, lb.Top[0].Guesses)
	assert.Equal(t, 2, lb.Top[1].Guesses)

	lb = decode[lbView](t, h.do(http.MethodGet, "/daily/leaderboard", "", idle))
	assert.False(t, lb.Played)

	lb = decode[lbView](t, h.do(http.MethodGet, "/daily/leaderboard?date=2026-10-18", "", fast))
	assert.Empty(t, lb.Top)
}

func TestLeaderboardRejectsBadDate(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/daily/leaderboard?date=yesterday", "", h.join())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func withTokenTTL(d time.Duration) func(*config.Config) {
	return func(c *config.Config) { c.TokenTTL = d }
}

func TestDailyRollsOverAtLocalMidnight(t *testing.T) {
	h := newHarness(t, withTokenTTL(48*time.Hour))
	tok := h.join()
	h.do(http.MethodPost, "/daily/guess", `{"guess":"kitap"}`, tok)

	// 21:00 UTC is midnight in Istanbul.
	h.clock.Set(time.Date(2026, time.October, 17, 21, 0, 0, 0, time.UTC))
	st := decode[map[string]any](t, h.do(http.MethodGet, "/daily/state", "", tok))
	assert.Equal(t, "2026-10-18", st["date"])
	assert.Equal(t, false, st["isLocked"])
	assert.EqualValues(t, 1, st["streak"])
}

func TestTokenRenewedPastHalfLife(t *testing.T) {
	h := newHarness(t)
	tok := h.join()
	h.do(http.MethodPost, "/daily/guess", `{"guess":"kalem"}`, tok)

	h.clock.Set(h.clock.Now().Add(40 * time.Minute))
	rec := h.do(http.MethodGet, "/daily/state", "", tok)
	renewed := rec.Header().Get(TokenHeader)
	require.NotEmpty(t, renewed)
	assert.NotEqual(t, tok, renewed)
	assert.EqualValues(t, 1, decode[map[string]any](t, rec)["attemptsUsed"])

	rec = h.do(http.MethodGet, "/daily/state", "", renewed)
	assert.Empty(t, rec.Header().Get(TokenHeader))
	assert.EqualValues(t, 1, decode[map[string]any](t, rec)["attemptsUsed"])

	// The old token would have expired by now.
	h.clock.Set(h.clock.Now().Add(30 * time.Minute))
	rec = h.do(http.MethodGet, "/daily/state", "", renewed)
	assert.EqualValues(t, 1, decode[map[string]any](t, rec)["attemptsUsed"])
}

func TestIdlePlayersAreEvicted(t *testing.T) {
	h := newHarness(t, withTokenTTL(48*time.Hour), func(c *config.Config) {
		c.PlayerIdleTTL = time.Hour
	})
	idle := h.join()
	h.do(http.MethodPost, "/daily/guess", `{"guess":"kitap"}`, idle)

	h.clock.Set(h.clock.Now().Add(30 * time.Minute))
	active := h.join()
	assert.Len(t, h.srv.players.byID, 2)

	h.clock.Set(h.clock.Now().Add(45 * time.Minute))
	h.do(http.MethodGet, "/rush/state", "", active)
	assert.Len(t, h.srv.players.byID, 1)

	// The evicted player's board comes back from the store.
	st := decode[map[string]any](t, h.do(http.MethodGet, "/daily/state", "", idle))
	assert.Equal(t, true, st["isSolved"])
	assert.EqualValues(t, 1, st["streak"])
	assert.Len(t, h.srv.players.byID, 2)

	lb := decode[lbView](t, h.do(http.MethodGet, "/daily/leaderboard", "", idle))
	assert.Len(t, lb.Top, 1)
}
