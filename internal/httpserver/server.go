// internal/httpserver/server.go
//
// HTTP host for the game engine.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     request logging).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Rush endpoints under /rush and daily endpoints under /daily, both
//     bound to the caller's anonymous player.
//
// Engine calls never fail. A rejected guess answers 200 with the unchanged
// snapshot; only malformed requests get an error status.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordrush/internal/config"
	"github.com/robalobadob/wordrush/internal/daily"
	"github.com/robalobadob/wordrush/internal/game"
	"github.com/robalobadob/wordrush/internal/kv"
	"github.com/robalobadob/wordrush/internal/words"
)

// Deps are the collaborators a Server is built from.
type Deps struct {
	Config  config.Config
	Store   kv.Store          // per-player preferences
	Results *daily.Store      // daily leaderboard; nil disables it
	Pool    *words.Pool       // rush answers
	Daily   map[string]string // date → daily answer
	Clock   game.Clock        // SystemClock when nil
}

// Server bundles the router and every live player session.
type Server struct {
	r       *chi.Mux
	cfg     config.Config
	store   kv.Store
	results *daily.Store
	pool    *words.Pool
	table   map[string]string
	clock   game.Clock
	loc     *time.Location
	players players
}

// Defaults for a zero Config.
const (
	defaultTokenTTL = 180 * 24 * time.Hour
	defaultIdleTTL  = 24 * time.Hour
)

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	if d.Clock == nil {
		d.Clock = game.SystemClock()
	}
	if d.Store == nil {
		d.Store = kv.NewMemory()
	}
	if d.Pool == nil {
		d.Pool = words.NewPool(nil)
	}
	if d.Config.TokenTTL <= 0 {
		d.Config.TokenTTL = defaultTokenTTL
	}
	if d.Config.PlayerIdleTTL <= 0 {
		d.Config.PlayerIdleTTL = defaultIdleTTL
	}
	s := &Server{
		r:       chi.NewRouter(),
		cfg:     d.Config,
		store:   d.Store,
		results: d.Results,
		pool:    d.Pool,
		table:   d.Daily,
		clock:   d.Clock,
		loc:     daily.Location(d.Config.TimeZone),
		players: players{byID: map[string]*player{}},
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(requestLogger)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(s.cors)

	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"service": "wordrush",
			"endpoints": []string{
				"/health",
				"POST /rush/new", "POST /rush/guess", "GET /rush/state",
				"GET /daily/state", "POST /daily/guess", "GET /daily/leaderboard",
			},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]bool{"ok": true})
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]int{"words": s.pool.Len(), "daily": len(s.table)})
	})

	s.r.Group(func(r chi.Router) {
		r.Use(s.withPlayer)
		s.mountRush(r)
		s.mountDaily(r)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Start serves HTTP on addr until ctx is cancelled, then shuts down
// gracefully and stops every session timer.
func (s *Server) Start(ctx context.Context, addr string) error {
	hs := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()

	select {
	case err := <-errc:
		s.Close()
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := hs.Shutdown(shutdownCtx)
	s.Close()
	if err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close stops every rush session's timers.
func (s *Server) Close() {
	s.players.mu.Lock()
	defer s.players.mu.Unlock()
	for _, p := range s.players.byID {
		p.rush.Close()
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", TokenHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger writes one debug line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("id", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

// ------------------------------- helpers -----------------------------------

type guessReq struct {
	Guess string `json:"guess"`
}

// decodeGuess reads a guess body, answering 400 on malformed JSON.
func decodeGuess(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, map[string]string{"error": "bad_json"})
		return "", false
	}
	return req.Guess, true
}

func writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}
