package settings

import (
	"context"
	"sync"
)

// Setting names consumed by the login flow.
const (
	// IsEmailConfirmationRequiredForLogin controls whether a user must have
	// a confirmed email address before logging in. Checked per tenant when
	// the user belongs to one, otherwise application-wide.
	IsEmailConfirmationRequiredForLogin = "UserManagement.IsEmailConfirmationRequiredForLogin"
)

// Provider defines read access to boolean settings, tenant-scoped or
// application-wide. Settings storage is owned by an external collaborator.
type Provider interface {
	BoolForTenant(ctx context.Context, name string, tenantID int64) (bool, error)
	BoolForApplication(ctx context.Context, name string) (bool, error)
}

// StaticProvider implements Provider from in-memory maps. Tenant values
// fall back to the application value when unset.
type StaticProvider struct {
	mu     sync.RWMutex
	app    map[string]bool
	tenant map[int64]map[string]bool
}

// NewStaticProvider creates an empty static settings provider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{
		app:    make(map[string]bool),
		tenant: make(map[int64]map[string]bool),
	}
}

// SetForApplication sets an application-wide value.
func (p *StaticProvider) SetForApplication(name string, value bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.app[name] = value
}

// SetForTenant sets a tenant-specific value.
func (p *StaticProvider) SetForTenant(name string, tenantID int64, value bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tenant[tenantID] == nil {
		p.tenant[tenantID] = make(map[string]bool)
	}
	p.tenant[tenantID][name] = value
}

func (p *StaticProvider) BoolForTenant(ctx context.Context, name string, tenantID int64) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if values, ok := p.tenant[tenantID]; ok {
		if v, ok := values[name]; ok {
			return v, nil
		}
	}
	return p.app[name], nil
}

func (p *StaticProvider) BoolForApplication(ctx context.Context, name string) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.app[name], nil
}
