// internal/httpserver/player.go
//
// Anonymous player identity. Every caller gets a random player ID carried in
// an HS256 token, either as a cookie or as "Authorization: Bearer <token>".
// A missing or invalid token mints a fresh identity, so nobody is ever
// turned away. Each player owns one rush session and one daily session whose
// preferences live under "<playerID>/" in the shared key-value store.

package httpserver

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordrush/internal/daily"
	"github.com/robalobadob/wordrush/internal/kv"
	"github.com/robalobadob/wordrush/internal/rush"
)

// TokenHeader echoes a newly minted or renewed token for clients that do not
// keep cookies.
const TokenHeader = "X-Player-Token"

const resultTimeout = 2 * time.Second

type ctxPlayerKey struct{}

// sweepEvery bounds how often playerFor scans the registry for idle players.
const sweepEvery = time.Minute

type player struct {
	id       string
	rush     *rush.Session
	daily    *daily.Session
	lastSeen time.Time
}

// players is the in-memory registry of live sessions. Entries untouched for
// longer than Config.PlayerIdleTTL are dropped; their state lives on in the
// preference store.
type players struct {
	mu        sync.Mutex
	byID      map[string]*player
	lastSweep time.Time
}

func (s *Server) playerFor(id string) *player {
	now := s.clock.Now()
	s.players.mu.Lock()
	defer s.players.mu.Unlock()
	s.sweepLocked(now)
	if p, ok := s.players.byID[id]; ok {
		p.lastSeen = now
		return p
	}

	prefs := kv.NewPrefs(kv.WithPrefix(s.store, id+"/"))
	p := &player{
		id:       id,
		rush:     rush.New(s.pool, prefs, s.clock),
		daily:    daily.New(prefs, s.clock, daily.Options{TimeZone: s.cfg.TimeZone, FallbackWord: s.cfg.FallbackWord}),
		lastSeen: now,
	}
	p.daily.SetDailyMap(s.table)
	p.daily.Subscribe(func(st daily.State) { s.recordResult(id, st) })
	p.daily.InitToday()

	s.players.byID[id] = p
	log.Debug().Str("player", id).Msg("player session created")
	return p
}

// sweepLocked evicts idle players. The caller holds s.players.mu.
func (s *Server) sweepLocked(now time.Time) {
	if now.Sub(s.players.lastSweep) < sweepEvery {
		return
	}
	s.players.lastSweep = now
	for id, p := range s.players.byID {
		if now.Sub(p.lastSeen) < s.cfg.PlayerIdleTTL {
			continue
		}
		p.rush.Close()
		delete(s.players.byID, id)
		log.Debug().Str("player", id).Msg("idle player evicted")
	}
}

// recordResult stores a solved daily board on the leaderboard. Replays of an
// already solved board are ignored by the store.
func (s *Server) recordResult(playerID string, st daily.State) {
	if !st.Solved || s.results == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), resultTimeout)
	defer cancel()
	err := s.results.InsertResult(ctx, daily.Result{
		PlayerID: playerID,
		Date:     st.Date,
		Answer:   st.Answer,
		Guesses:  st.AttemptsUsed,
	})
	if err != nil {
		log.Warn().Err(err).Str("player", playerID).Str("date", st.Date).Msg("insert daily result")
	}
}

// withPlayer resolves the caller's player and stores it in the request
// context, minting or renewing the token when needed.
func (s *Server) withPlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, exp, ok := s.parseToken(bearerOrCookie(r, s.cfg.CookieName))
		if !ok {
			id = uuid.NewString()
		}
		// Tokens past half their lifetime are renewed so active players keep
		// their identity.
		if !ok || exp.Sub(s.clock.Now()) < s.cfg.TokenTTL/2 {
			tok, exp, err := s.signToken(id)
			if err != nil {
				log.Error().Err(err).Msg("sign player token")
				http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
				return
			}
			s.setPlayerCookie(w, tok, exp)
			w.Header().Set(TokenHeader, tok)
		}
		ctx := context.WithValue(r.Context(), ctxPlayerKey{}, s.playerFor(id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func playerFrom(r *http.Request) *player {
	p, _ := r.Context().Value(ctxPlayerKey{}).(*player)
	return p
}

// signToken creates an HS256 token whose subject is the player ID.
func (s *Server) signToken(id string) (string, time.Time, error) {
	now := s.clock.Now()
	exp := now.Add(s.cfg.TokenTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString([]byte(s.cfg.JWTSecret))
	return ss, exp, err
}

// parseToken returns the player ID and expiry of a valid token.
func (s *Server) parseToken(tok string) (string, time.Time, bool) {
	if tok == "" {
		return "", time.Time{}, false
	}
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.clock.Now),
		jwt.WithExpirationRequired())
	if err != nil || !t.Valid {
		return "", time.Time{}, false
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", time.Time{}, false
	}
	return claims.Subject, claims.ExpiresAt.Time, true
}

func (s *Server) setPlayerCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.cfg.Production {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a bearer token from the Authorization header or
// the player cookie.
func bearerOrCookie(r *http.Request, cookie string) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(cookie); err == nil {
		return c.Value
	}
	return ""
}
