package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) mountRush(r chi.Router) {
	r.Route("/rush", func(r chi.Router) {
		r.Post("/new", s.handleRushNew)
		r.Post("/guess", s.handleRushGuess)
		r.Get("/state", s.handleRushState)
	})
}

// handleRushNew discards the current run and starts an idle one.
func (s *Server) handleRushNew(w http.ResponseWriter, r *http.Request) {
	p := playerFrom(r)
	p.rush.StartNewGame()
	writeJSON(w, p.rush.Snapshot())
}

// handleRushGuess submits one guess. The first accepted guess starts the
// countdown.
func (s *Server) handleRushGuess(w http.ResponseWriter, r *http.Request) {
	guess, ok := decodeGuess(w, r)
	if !ok {
		return
	}
	p := playerFrom(r)
	p.rush.SubmitGuess(guess)
	writeJSON(w, p.rush.Snapshot())
}

func (s *Server) handleRushState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, playerFrom(r).rush.Snapshot())
}
