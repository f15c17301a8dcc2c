package kv

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// opTimeout bounds each best-effort storage operation.
const opTimeout = 2 * time.Second

// Prefs wraps a Store with best-effort helpers: read failures yield the zero
// value, write failures are logged and dropped. Game state transitions never
// see a storage error.
type Prefs struct {
	store Store
}

// NewPrefs returns best-effort helpers over s. A nil store behaves as if
// every read missed and every write failed.
func NewPrefs(s Store) *Prefs { return &Prefs{store: s} }

// Int returns the integer stored under key, or 0.
func (p *Prefs) Int(key string) int {
	raw, ok := p.get(key)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("prefs: bad integer")
		return 0
	}
	return n
}

// SetInt stores n under key.
func (p *Prefs) SetInt(key string, n int) {
	p.set(key, []byte(strconv.Itoa(n)))
}

// String returns the string stored under key, or "".
func (p *Prefs) String(key string) string {
	raw, _ := p.get(key)
	return string(raw)
}

// SetString stores s under key.
func (p *Prefs) SetString(key, s string) {
	p.set(key, []byte(s))
}

// JSON decodes the value under key into v and reports success. A missing or
// corrupt value leaves the caller to start fresh.
func (p *Prefs) JSON(key string, v any) bool {
	raw, ok := p.get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("prefs: corrupt record")
		return false
	}
	return true
}

// SetJSON encodes v and stores it under key.
func (p *Prefs) SetJSON(key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("prefs: encode record")
		return
	}
	p.set(key, raw)
}

func (p *Prefs) get(key string) ([]byte, bool) {
	if p == nil || p.store == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	raw, err := p.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Warn().Err(err).Str("key", key).Msg("prefs: read failed")
		}
		return nil, false
	}
	return raw, true
}

func (p *Prefs) set(key string, value []byte) {
	if p == nil || p.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := p.store.Set(ctx, key, value); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("prefs: write failed")
	}
}
