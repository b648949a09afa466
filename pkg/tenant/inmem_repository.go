package tenant

import (
	"context"
	"sync"
)

// InMemoryRepository implements Repository using in-memory storage.
type InMemoryRepository struct {
	mu            sync.RWMutex
	tenantsByName map[string]Tenant
}

// NewInMemoryRepository creates a new in-memory tenant repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		tenantsByName: make(map[string]Tenant),
	}
}

// AddTenant seeds a tenant. Intended for tests and demo wiring.
func (r *InMemoryRepository) AddTenant(t Tenant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tenantsByName[t.TenancyName] = t
}

// FindByName finds a tenant by exact tenancy name match.
func (r *InMemoryRepository) FindByName(ctx context.Context, tenancyName string) (*Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tenantsByName[tenancyName]
	if !ok {
		return nil, ErrTenantNotFound
	}
	found := t
	return &found, nil
}
