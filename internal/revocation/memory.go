package revocation

import (
	"context"
	"sync"
	"time"
)

// MemoryRegistry is a process-local Registry used in tests and single-node
// development runs.
type MemoryRegistry struct {
	mu      sync.RWMutex
	blocked map[string]time.Time
}

var _ Registry = (*MemoryRegistry)(nil)

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{blocked: make(map[string]time.Time)}
}

func (r *MemoryRegistry) Block(ctx context.Context, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blocked[token] = expiresAt
	return nil
}

func (r *MemoryRegistry) IsBlocked(ctx context.Context, token string) bool {
	r.mu.RLock()
	exp, ok := r.blocked[token]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if time.Now().After(exp) {
		r.mu.Lock()
		delete(r.blocked, token)
		r.mu.Unlock()
		return false
	}
	return true
}

func (r *MemoryRegistry) Ping(ctx context.Context) error { return nil }

func (r *MemoryRegistry) Close() error { return nil }
