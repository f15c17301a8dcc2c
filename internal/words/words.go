// internal/words/words.go
//
// Word pool for rush mode.
//
// Responsibilities:
//   - Hold a deduplicated set of candidate answers (SetWords).
//   - Pick a uniformly random answer while avoiding an immediate repeat (Pick).
//   - Fall back to a small built-in list while no external pool is supplied.
//
// A single Pool is shared read-only by every rush session of the process,
// so it is safe for concurrent use.

package words

import (
	"math/rand/v2"
	"sync"
)

// Fallback is the built-in rush list used while the pool is empty.
var Fallback = []string{"KİTAP", "YAZAR", "KALEM", "SİYAH", "BEYAZ", "TATLI", "ÜCRET", "ÇİÇEK", "ŞEKER"}

// Pool is a set of candidate answers with avoid-repeat selection.
type Pool struct {
	mu    sync.RWMutex
	words []string        // unique words, in first-seen order
	intn  func(n int) int // uniform in [0, n)
}

// NewPool returns a pool seeded with list (which may be empty).
func NewPool(list []string) *Pool {
	p := &Pool{intn: rand.IntN}
	p.SetWords(list)
	return p
}

// SetRand replaces the random source; intn must return a value in [0, n).
func (p *Pool) SetRand(intn func(n int) int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.intn = intn
}

// SetWords replaces the pool with the distinct valid entries of list.
func (p *Pool) SetWords(list []string) {
	uniq := dedup(list)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.words = uniq
}

// Len returns the number of words in the pool, not counting the fallback.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.words)
}

// Pick returns a uniformly random word from the pool other than avoid.
// A single-word pool always returns that word, even when it equals avoid.
// Selection draws once from the n-1 eligible words, so it never retries.
func (p *Pool) Pick(avoid string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	pool := p.active()
	if len(pool) == 1 {
		return pool[0]
	}

	skip := -1
	for i, w := range pool {
		if w == avoid {
			skip = i
			break
		}
	}
	if skip < 0 {
		return pool[p.intn(len(pool))]
	}
	i := p.intn(len(pool) - 1)
	if i >= skip {
		i++
	}
	return pool[i]
}

// active returns the supplied words, or Fallback when none were supplied.
func (p *Pool) active() []string {
	if len(p.words) == 0 {
		return Fallback
	}
	return p.words
}

// dedup returns the distinct normalized words of list in first-seen order.
// Anything else could never be solved and is dropped.
func dedup(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, w := range list {
		if !Valid(w) {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
