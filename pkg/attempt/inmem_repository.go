package attempt

import (
	"context"
	"sync"
)

// InMemoryRepository implements Repository using in-memory storage.
type InMemoryRepository struct {
	mu       sync.RWMutex
	attempts []Attempt
}

// NewInMemoryRepository creates a new in-memory attempt repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

// Record appends an attempt.
func (r *InMemoryRepository) Record(ctx context.Context, a Attempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, a)
	return nil
}

// Attempts returns a copy of all recorded attempts.
func (r *InMemoryRepository) Attempts() []Attempt {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Attempt, len(r.attempts))
	copy(out, r.attempts)
	return out
}
