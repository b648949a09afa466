package uow

import (
	"context"
	"sync"
)

// InMemoryManager implements Manager without a real transaction backend.
// Completed and rolled-back works are counted so tests can assert on the
// transactional shape of a flow (how many independent works ran, whether
// they committed). Writes against in-memory repositories apply immediately;
// the manager only tracks the work lifecycle.
type InMemoryManager struct {
	mu         sync.Mutex
	began      int
	committed  int
	rolledBack int
}

// NewInMemoryManager creates a new in-memory unit of work manager.
func NewInMemoryManager() *InMemoryManager {
	return &InMemoryManager{}
}

func (m *InMemoryManager) Begin(ctx context.Context, opts Options) (context.Context, Work, error) {
	if !opts.Independent {
		if existing, ok := CurrentWork(ctx); ok {
			return ctx, &joinedWork{owner: existing}, nil
		}
	}

	m.mu.Lock()
	m.began++
	m.mu.Unlock()

	w := &inMemoryWork{manager: m}
	return withWork(ctx, w), w, nil
}

// BeganCount returns how many top-level works were started.
func (m *InMemoryManager) BeganCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.began
}

// CommittedCount returns how many works completed successfully.
func (m *InMemoryManager) CommittedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.committed
}

// RolledBackCount returns how many works ended without completing.
func (m *InMemoryManager) RolledBackCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rolledBack
}

type inMemoryWork struct {
	manager   *InMemoryManager
	completed bool
	ended     bool
}

func (w *inMemoryWork) SaveChanges(ctx context.Context) error {
	return nil
}

func (w *inMemoryWork) Complete(ctx context.Context) error {
	w.completed = true
	return nil
}

func (w *inMemoryWork) End(ctx context.Context) {
	if w.ended {
		return
	}
	w.ended = true

	w.manager.mu.Lock()
	defer w.manager.mu.Unlock()
	if w.completed {
		w.manager.committed++
	} else {
		w.manager.rolledBack++
	}
}

// joinedWork participates in an already-running work. Completing it is a
// no-op; the owning work decides the outcome.
type joinedWork struct {
	owner Work
}

func (w *joinedWork) SaveChanges(ctx context.Context) error {
	return w.owner.SaveChanges(ctx)
}

func (w *joinedWork) Complete(ctx context.Context) error {
	return nil
}

func (w *joinedWork) End(ctx context.Context) {}
