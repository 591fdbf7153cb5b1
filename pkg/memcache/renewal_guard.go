package mem

import (
	"sync"
	"time"
)

// RenewalGuard is an in-process single-flight guard keyed by renewal
// window. It only prevents duplicate work inside one process; the unique
// ledger reference key is the cross-process source of truth.
type RenewalGuard interface {
	// TryBegin claims key for ttl. Returns false if the key is already
	// claimed and not yet expired.
	TryBegin(key string, ttl time.Duration) bool

	// Release frees the key early (e.g. the attempt failed and may be
	// retried next cycle).
	Release(key string)
}

type guardEntry struct {
	expiresAt time.Time
}

type renewalGuard struct {
	mu   sync.Mutex
	data map[string]guardEntry
}

func NewRenewalGuard() RenewalGuard {
	return &renewalGuard{
		data: make(map[string]guardEntry),
	}
}

func (g *renewalGuard) TryBegin(key string, ttl time.Duration) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	if e, ok := g.data[key]; ok && now.Before(e.expiresAt) {
		return false
	}

	// Opportunistic cleanup of expired entries
	for k, e := range g.data {
		if now.After(e.expiresAt) {
			delete(g.data, k)
		}
	}

	g.data[key] = guardEntry{expiresAt: now.Add(ttl)}
	return true
}

func (g *renewalGuard) Release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.data, key)
}
