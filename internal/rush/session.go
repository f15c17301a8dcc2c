// internal/rush/session.go
//
// Rush mode: a timed, endless sequence of words.
//
// States:
//   - idle:    fresh game, clock not running (Started=false).
//   - running: first accepted guess started the 1s countdown.
//   - over:    the clock reached zero; nothing mutates the game any more.
//
// Round rules:
//   - exact match: SolvedCount++, Score += SolvedCount*PointsPerSolve,
//     TimeLeft += BonusTime, next word.
//   - MaxAttempts misses: RevealWord shows the missed answer for
//     RevealDuration, next word (no bonus).
//
// The countdown and the reveal are one-shot timers re-armed by their own
// callbacks; every callback carries the generation it was armed for and is
// ignored once StartNewGame or Close moved the session on.

package rush

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordrush/internal/game"
	"github.com/robalobadob/wordrush/internal/kv"
	"github.com/robalobadob/wordrush/internal/words"
)

const (
	StartTime      = 90 // seconds on the clock at the start of a game
	BonusTime      = 20 // seconds added per solved word
	PointsPerSolve = 10
	RevealDuration = 5 * time.Second
	TickInterval   = time.Second

	// KeyHighScore is the persisted best score.
	KeyHighScore = "wordrush_highscore"
)

// Phase is the game-level state.
type Phase string

const (
	Idle    Phase = "idle"
	Running Phase = "running"
	Over    Phase = "over"
)

// State is a read-only snapshot of a Session.
type State struct {
	Phase        Phase              `json:"phase"`
	Answer       string             `json:"-"`
	History      []game.GuessRecord `json:"history"`
	AttemptsUsed int                `json:"attemptsUsed"`
	MaxAttempts  int                `json:"maxAttempts"`
	TimeLeft     int                `json:"timeLeft"`
	Score        int                `json:"score"`
	HighScore    int                `json:"highScore"`
	SolvedWords  []string           `json:"solvedWords"`
	SolvedCount  int                `json:"solvedCount"`
	Started      bool               `json:"started"`
	Over         bool               `json:"isGameOver"`
	RevealWord   string             `json:"revealWord,omitempty"`
}

// Session is one rush game; StartNewGame recycles it for the next game.
type Session struct {
	mu    sync.Mutex
	pool  *words.Pool
	prefs *kv.Prefs
	clock game.Clock

	gen       uint64 // bumped on StartNewGame/Close; stale ticks compare it
	ticker    game.Timer
	revealSeq uint64
	reveal    game.Timer
	lastWord  string

	answer      string
	history     []game.GuessRecord
	timeLeft    int
	score       int
	highScore   int
	solvedWords []string
	solvedCount int
	started     bool
	over        bool
	revealWord  string

	observers game.Observers[State]
}

// New returns a session with a fresh, idle game.
func New(pool *words.Pool, prefs *kv.Prefs, clock game.Clock) *Session {
	if clock == nil {
		clock = game.SystemClock()
	}
	s := &Session{pool: pool, prefs: prefs, clock: clock}
	s.StartNewGame()
	return s
}

// StartNewGame cancels any running timers and resets every field.
func (s *Session) StartNewGame() {
	s.update(func() bool {
		s.stopTimersLocked()
		s.gen++
		s.revealWord = ""
		s.started = false
		s.over = false
		s.timeLeft = StartTime
		s.score = 0
		s.highScore = s.prefs.Int(KeyHighScore)
		s.solvedWords = nil
		s.solvedCount = 0
		s.nextWordLocked()
		return true
	})
}

// SubmitGuess applies one guess. Input that does not normalize to a full
// word, and any guess after the game is over, is ignored.
func (s *Session) SubmitGuess(raw string) {
	s.update(func() bool {
		if s.over {
			return false
		}
		guess := words.Normalize(raw)
		if !words.Complete(guess) {
			return false
		}
		s.ensureStartedLocked()

		answer := s.answer
		statuses := game.Evaluate(guess, answer)
		s.history = append(s.history, game.GuessRecord{Guess: guess, Statuses: statuses})

		switch {
		case guess == answer:
			s.solvedCount++
			s.score += s.solvedCount * PointsPerSolve
			s.solvedWords = append(s.solvedWords, answer)
			s.timeLeft += BonusTime
			log.Debug().Str("word", answer).Int("score", s.score).Msg("rush: solved")
			s.nextWordLocked()
		case len(s.history) >= game.MaxAttempts:
			s.showRevealLocked(answer)
			s.nextWordLocked()
		}
		return true
	})
}

// CanSubmit reports whether SubmitGuess would accept raw.
func (s *Session) CanSubmit(raw string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.over && words.Complete(raw)
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

// Close stops the timers. The session stays readable.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimersLocked()
	s.gen++
}

// update runs fn under the lock and, if fn reports a change, notifies the
// observers after unlocking.
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

func (s *Session) snapshotLocked() State {
	phase := Idle
	switch {
	case s.over:
		phase = Over
	case s.started:
		phase = Running
	}
	return State{
		Phase:        phase,
		Answer:       s.answer,
		History:      game.CloneHistory(s.history),
		AttemptsUsed: len(s.history),
		MaxAttempts:  game.MaxAttempts,
		TimeLeft:     s.timeLeft,
		Score:        s.score,
		HighScore:    s.highScore,
		SolvedWords:  append([]string{}, s.solvedWords...),
		SolvedCount:  s.solvedCount,
		Started:      s.started,
		Over:         s.over,
		RevealWord:   s.revealWord,
	}
}

// nextWordLocked starts a new round; score, clock, and solved words carry over.
func (s *Session) nextWordLocked() {
	s.answer = s.pool.Pick(s.lastWord)
	s.lastWord = s.answer
	s.history = nil
}

func (s *Session) ensureStartedLocked() {
	if s.started {
		return
	}
	s.started = true
	s.scheduleTickLocked(s.gen)
}

func (s *Session) scheduleTickLocked(gen uint64) {
	s.ticker = s.clock.AfterFunc(TickInterval, func() { s.tick(gen) })
}

func (s *Session) tick(gen uint64) {
	s.update(func() bool {
		if gen != s.gen || s.over {
			return false
		}
		s.timeLeft = max(0, s.timeLeft-1)
		if s.timeLeft == 0 {
			s.gameOverLocked()
		} else {
			s.scheduleTickLocked(gen)
		}
		return true
	})
}

func (s *Session) gameOverLocked() {
	s.over = true
	s.started = false
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	if s.score > s.highScore {
		s.highScore = s.score
		s.prefs.SetInt(KeyHighScore, s.highScore)
	}
	log.Debug().Int("score", s.score).Int("highScore", s.highScore).Msg("rush: game over")
}

// showRevealLocked displays word until RevealDuration passes or a newer
// reveal replaces it.
func (s *Session) showRevealLocked(word string) {
	if s.reveal != nil {
		s.reveal.Stop()
	}
	s.revealSeq++
	seq := s.revealSeq
	s.revealWord = word
	s.reveal = s.clock.AfterFunc(RevealDuration, func() {
		s.update(func() bool {
			if seq != s.revealSeq {
				return false
			}
			s.revealWord = ""
			s.reveal = nil
			return true
		})
	})
}

func (s *Session) stopTimersLocked() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	if s.reveal != nil {
		s.reveal.Stop()
		s.reveal = nil
	}
	s.revealSeq++
}
