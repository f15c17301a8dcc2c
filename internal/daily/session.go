// internal/daily/session.go
//
// Classic mode: one shared answer per calendar date, MaxAttempts guesses,
// and a win streak that survives restarts.
//
// Continuity rules (dates are YYYY-MM-DD in the configured zone):
//   - InitToday resets the streak when the last win is neither today nor
//     yesterday. No recorded win at all never resets it.
//   - A win makes the streak streak+1 when the last win was yesterday, else 1.
//   - Running out of attempts resets the streak to 0.
//
// Every accepted guess rewrites the per-date record, so a restart resumes
// the board exactly. A record whose answer differs from the table's current
// answer for that date is discarded.

package daily

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordrush/internal/game"
	"github.com/robalobadob/wordrush/internal/kv"
	"github.com/robalobadob/wordrush/internal/words"
)

// Persisted keys.
const (
	KeyStreak      = "wr_daily_streak"
	KeyLastWin     = "wr_daily_lastwin"
	KeyStatePrefix = "wr_daily_state_"
)

// Phase is the board state for the session date.
type Phase string

const (
	Unlocked  Phase = "unlocked"
	Solved    Phase = "solved"
	Exhausted Phase = "exhausted"
)

// Record is the persisted board for one date.
type Record struct {
	Date         string          `json:"date"`
	Answer       string          `json:"answer"`
	Guesses      []string        `json:"guesses"`
	Grid         [][]game.Status `json:"grid"`
	AttemptsUsed int             `json:"attemptsUsed"`
	IsSolved     bool            `json:"isSolved"`
	IsLocked     bool            `json:"isLocked"`
}

// history rebuilds the guess history, reporting false for an inconsistent
// record.
func (r Record) history() ([]game.GuessRecord, bool) {
	if len(r.Guesses) != len(r.Grid) || r.AttemptsUsed != len(r.Guesses) || len(r.Guesses) > game.MaxAttempts {
		return nil, false
	}
	out := make([]game.GuessRecord, len(r.Guesses))
	for i, g := range r.Guesses {
		out[i] = game.GuessRecord{Guess: g, Statuses: append([]game.Status(nil), r.Grid[i]...)}
	}
	return out, true
}

// State is a read-only snapshot of a Session.
type State struct {
	Phase        Phase              `json:"phase"`
	Date         string             `json:"date"`
	Answer       string             `json:"-"`
	History      []game.GuessRecord `json:"history"`
	AttemptsUsed int                `json:"attemptsUsed"`
	MaxAttempts  int                `json:"maxAttempts"`
	Solved       bool               `json:"isSolved"`
	Locked       bool               `json:"isLocked"`
	Streak       int                `json:"streak"`
	LastWin      string             `json:"lastWin,omitempty"`
}

// Options configures a Session.
type Options struct {
	TimeZone     string // IANA zone; DefaultTimeZone when empty
	FallbackWord string // FallbackWord when empty
}

// Session is the daily board for one player.
type Session struct {
	mu       sync.Mutex
	prefs    *kv.Prefs
	clock    game.Clock
	loc      *time.Location
	fallback string
	table    map[string]string

	date    string
	answer  string
	history []game.GuessRecord
	solved  bool
	locked  bool
	streak  int
	lastWin string

	observers game.Observers[State]
}

// New returns a session with the persisted streak loaded. Call InitToday
// before the first guess.
func New(prefs *kv.Prefs, clock game.Clock, opts Options) *Session {
	if clock == nil {
		clock = game.SystemClock()
	}
	fallback := words.Normalize(opts.FallbackWord)
	if !words.Complete(fallback) {
		fallback = FallbackWord
	}
	return &Session{
		prefs:    prefs,
		clock:    clock,
		loc:      Location(opts.TimeZone),
		fallback: fallback,
		table:    map[string]string{},
		streak:   prefs.Int(KeyStreak),
		lastWin:  prefs.String(KeyLastWin),
	}
}

// SetDailyMap replaces the date→answer table. It takes effect on the next
// InitToday.
func (s *Session) SetDailyMap(m map[string]string) {
	table := make(map[string]string, len(m))
	for k, v := range m {
		table[k] = v
	}
	s.mu.Lock()
	s.table = table
	s.mu.Unlock()
}

// Today returns the current date key in the session's zone.
func (s *Session) Today() string {
	return DateKey(s.clock.Now(), s.loc)
}

// InitToday binds the session to today's date: streak continuity check,
// answer resolution, and resume of a matching saved board.
func (s *Session) InitToday() {
	today := s.Today()
	s.update(func() bool {
		s.initLocked(today)
		return true
	})
}

// RolloverIfNeeded re-runs InitToday when the calendar date has changed
// since the last initialization, and reports whether it did.
func (s *Session) RolloverIfNeeded() bool {
	today := s.Today()
	s.mu.Lock()
	same := s.date == today
	s.mu.Unlock()
	if same {
		return false
	}
	s.InitToday()
	return true
}

// SubmitGuess applies one guess. Input that does not normalize to a full
// word, and any guess on a locked board, is ignored.
func (s *Session) SubmitGuess(raw string) {
	s.update(func() bool {
		if s.locked || s.date == "" {
			return false
		}
		guess := words.Normalize(raw)
		if !words.Complete(guess) {
			return false
		}

		statuses := game.Evaluate(guess, s.answer)
		s.history = append(s.history, game.GuessRecord{Guess: guess, Statuses: statuses})

		switch {
		case guess == s.answer:
			s.solved = true
			s.locked = true
			s.bumpStreakLocked()
		case len(s.history) >= game.MaxAttempts:
			s.locked = true
			s.streak = 0
			s.prefs.SetInt(KeyStreak, 0)
		}

		s.prefs.SetJSON(KeyStatePrefix+s.date, s.recordLocked())
		return true
	})
}

// CanSubmit reports whether SubmitGuess would accept raw.
func (s *Session) CanSubmit(raw string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.locked && s.date != "" && words.Complete(raw)
}

// Snapshot returns the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every change. The
// returned function unregisters it.
func (s *Session) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	id := s.observers.Add(fn)
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.observers.Remove(id)
		s.mu.Unlock()
	}
}

func (s *Session) update(fn func() bool) {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return
	}
	snap := s.snapshotLocked()
	obs := s.observers.List()
	s.mu.Unlock()
	game.Notify(obs, snap)
}

func (s *Session) initLocked(today string) {
	s.date = today
	s.streak = s.prefs.Int(KeyStreak)
	s.lastWin = s.prefs.String(KeyLastWin)
	if s.lastWin != "" && s.lastWin != today && s.lastWin != PrevDay(today) {
		log.Debug().Str("lastWin", s.lastWin).Str("today", today).Msg("daily: streak broken")
		s.streak = 0
		s.prefs.SetInt(KeyStreak, 0)
	}

	answer, ok := s.table[today]
	if !ok {
		answer = s.fallback
	}
	s.answer = answer

	s.history, s.solved, s.locked = nil, false, false
	var rec Record
	if !s.prefs.JSON(KeyStatePrefix+today, &rec) || rec.Answer != answer {
		return
	}
	h, ok := rec.history()
	if !ok {
		log.Warn().Str("date", today).Msg("daily: inconsistent saved board; starting fresh")
		return
	}
	s.history = h
	s.solved = rec.IsSolved
	s.locked = rec.IsLocked
}

func (s *Session) bumpStreakLocked() {
	if s.lastWin == PrevDay(s.date) {
		s.streak++
	} else {
		s.streak = 1
	}
	s.lastWin = s.date
	s.prefs.SetInt(KeyStreak, s.streak)
	s.prefs.SetString(KeyLastWin, s.lastWin)
}

func (s *Session) recordLocked() Record {
	rec := Record{
		Date:         s.date,
		Answer:       s.answer,
		Guesses:      make([]string, len(s.history)),
		Grid:         make([][]game.Status, len(s.history)),
		AttemptsUsed: len(s.history),
		IsSolved:     s.solved,
		IsLocked:     s.locked,
	}
	for i, h := range s.history {
		rec.Guesses[i] = h.Guess
		rec.Grid[i] = h.Statuses
	}
	return rec
}

func (s *Session) snapshotLocked() State {
	phase := Unlocked
	switch {
	case s.solved:
		phase = Solved
	case s.locked:
		phase = Exhausted
	}
	return State{
		Phase:        phase,
		Date:         s.date,
		Answer:       s.answer,
		History:      game.CloneHistory(s.history),
		AttemptsUsed: len(s.history),
		MaxAttempts:  game.MaxAttempts,
		Solved:       s.solved,
		Locked:       s.locked,
		Streak:       s.streak,
		LastWin:      s.lastWin,
	}
}
