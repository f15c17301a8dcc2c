// internal/game/engine.go
//
// Guess evaluation shared by the rush and daily sessions.
//
// Notes:
//   - Inputs are expected to be normalized by words.Normalize.
//   - Letters are compared as runes so Turkish letters (Ç, Ğ, İ, Ö, Ş, Ü)
//     occupy a single position.
package game

// Evaluate implements the two-pass letter-frequency scoring algorithm.
//
// Pass 1:
//   - Mark exact matches as Correct; those answer positions are claimed.
//   - Count the remaining (unclaimed) answer letters.
//
// Pass 2, left to right:
//   - For each non-correct guess letter: if there is remaining count for that
//     letter, mark Present and decrement the count; otherwise mark Absent.
//
// A doubled guess letter matching a single unclaimed answer letter therefore
// yields one Present (leftmost) and one Absent.
func Evaluate(guess, answer string) []Status {
	ans := []rune(answer)
	g := []rune(guess)
	n := len(ans)
	res := make([]Status, n)

	// Letter frequency for the unclaimed answer positions.
	counts := make(map[rune]int, n)

	// First pass: mark correct tiles and collect counts for the rest.
	for i := 0; i < n; i++ {
		if i < len(g) && g[i] == ans[i] {
			res[i] = Correct
		} else {
			counts[ans[i]]++
		}
	}

	// Second pass: resolve present/absent for the remaining tiles.
	for i := 0; i < n; i++ {
		if res[i] == Correct {
			continue
		}
		if i < len(g) && counts[g[i]] > 0 {
			res[i] = Present
			counts[g[i]]--
		} else {
			res[i] = Absent
		}
	}
	return res
}

// Solved returns true if statuses is non-empty and every entry is Correct.
func Solved(statuses []Status) bool {
	if len(statuses) == 0 {
		return false
	}
	for _, s := range statuses {
		if s != Correct {
			return false
		}
	}
	return true
}
