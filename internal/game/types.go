// internal/game/types.go
//
// Core type definitions shared by both game modes.
// Defines:
//   - Status: per-letter result of a guess (correct/present/absent).
//   - GuessRecord: one evaluated guess, appended to a session's history.
//   - Board dimensions and the mode-independent constants.

package game

// Board dimensions.
const (
	WordLength  = 5 // letters per word
	MaxAttempts = 6 // guesses per word
)

// Status represents the evaluation result for a single letter in a guess.
// Possible values:
//   - "correct": letter is in the answer at the same position.
//   - "present": letter is in the answer at another, unclaimed position.
//   - "absent":  otherwise.
type Status string

const (
	Correct Status = "correct"
	Present Status = "present"
	Absent  Status = "absent"
)

// GuessRecord is a normalized guess together with its status vector.
// Records are never mutated after they are appended to a history.
type GuessRecord struct {
	Guess    string   `json:"guess"`
	Statuses []Status `json:"statuses"`
}

// Solved reports whether the record is an exact match.
func (r GuessRecord) Solved() bool { return Solved(r.Statuses) }

// CloneHistory returns a copy of h that shares no slices with it.
func CloneHistory(h []GuessRecord) []GuessRecord {
	out := make([]GuessRecord, len(h))
	for i, rec := range h {
		out[i] = GuessRecord{
			Guess:    rec.Guess,
			Statuses: append([]Status(nil), rec.Statuses...),
		}
	}
	return out
}
