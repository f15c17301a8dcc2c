// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily mode:
//   - GET  /daily/state       → today's board, rolling over at local midnight
//   - POST /daily/guess       → submit a guess for today's board
//   - GET  /daily/leaderboard → fewest-guess winners for today (or ?date=)
//
// The answer stays hidden until the board locks.

package httpserver

import (
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordrush/internal/daily"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type dailyRes struct {
	daily.State
	Answer string `json:"answer,omitempty"`
}

func newDailyRes(st daily.State) dailyRes {
	res := dailyRes{State: st}
	if st.Locked {
		res.Answer = st.Answer
	}
	return res
}

func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/state", s.handleDailyState)
		r.Post("/guess", s.handleDailyGuess)
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

func (s *Server) handleDailyState(w http.ResponseWriter, r *http.Request) {
	p := playerFrom(r)
	p.daily.RolloverIfNeeded()
	writeJSON(w, newDailyRes(p.daily.Snapshot()))
}

func (s *Server) handleDailyGuess(w http.ResponseWriter, r *http.Request) {
	guess, ok := decodeGuess(w, r)
	if !ok {
		return
	}
	p := playerFrom(r)
	p.daily.RolloverIfNeeded()
	p.daily.SubmitGuess(guess)
	writeJSON(w, newDailyRes(p.daily.Snapshot()))
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date   string        `json:"date"`
	Played bool          `json:"played"`
	Top    []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default
// today) and whether the caller has a result on it.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.results == nil {
		w.WriteHeader(http.StatusNotImplemented)
		writeJSON(w, map[string]string{"error": "leaderboard_disabled"})
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(s.clock.Now(), s.loc)
	}
	if !datePattern.MatchString(date) {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, map[string]string{"error": "bad_date"})
		return
	}

	rows, err := s.results.Leaderboard(r.Context(), date, 20)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("leaderboard")
		w.WriteHeader(http.StatusInternalServerError)
		writeJSON(w, map[string]string{"error": "server_error"})
		return
	}
	played, err := s.results.AlreadyPlayed(r.Context(), playerFrom(r).id, date)
	if err != nil {
		log.Warn().Err(err).Str("date", date).Msg("already played")
	}
	writeJSON(w, lbRes{Date: date, Played: played, Top: rows})
}
