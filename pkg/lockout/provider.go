package lockout

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// Provider defines failure counting and lockout state keyed by
// (tenant, user). Counting and thresholds are owned by an external
// user-management collaborator; Initialize loads the tenant's thresholds
// before the other operations are used for that tenant.
type Provider interface {
	Initialize(ctx context.Context, tenantID *int64) error
	IsLockedOut(ctx context.Context, tenantID *int64, userID int64) (bool, error)
	RecordFailure(ctx context.Context, tenantID *int64, userID int64) (nowLockedOut bool, err error)
	ResetFailures(ctx context.Context, tenantID *int64, userID int64) error
}

// Settings are the lockout thresholds for one tenant.
type Settings struct {
	Enabled           bool
	MaxFailedAttempts int
	LockoutDuration   time.Duration
}

// DefaultSettings returns lockout thresholds used when a tenant has no
// specific configuration.
func DefaultSettings() Settings {
	return Settings{
		Enabled:           true,
		MaxFailedAttempts: 5,
		LockoutDuration:   30 * time.Minute,
	}
}

// InMemoryProvider implements Provider with windowed lockouts in memory.
// Reaching the failure threshold locks the account for the configured
// duration and resets the counter; the lock clears when the window elapses.
type InMemoryProvider struct {
	mu        sync.Mutex
	defaults  Settings
	perTenant map[string]Settings
	entries   map[string]*entry
	now       func() time.Time
}

type entry struct {
	failures   int
	lockoutEnd time.Time
}

// NewInMemoryProvider creates an in-memory lockout provider with the given
// default thresholds.
func NewInMemoryProvider(defaults Settings) *InMemoryProvider {
	return &InMemoryProvider{
		defaults:  defaults,
		perTenant: make(map[string]Settings),
		entries:   make(map[string]*entry),
		now:       time.Now,
	}
}

// SetTenantSettings overrides thresholds for one tenant.
func (p *InMemoryProvider) SetTenantSettings(tenantID *int64, s Settings) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.perTenant[tenantKey(tenantID)] = s
}

// SetClock overrides the time source. Intended for tests.
func (p *InMemoryProvider) SetClock(now func() time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = now
}

func tenantKey(tenantID *int64) string {
	if tenantID == nil {
		return "host"
	}
	return strconv.FormatInt(*tenantID, 10)
}

func entryKey(tenantID *int64, userID int64) string {
	return tenantKey(tenantID) + "/" + strconv.FormatInt(userID, 10)
}

func (p *InMemoryProvider) settings(tenantID *int64) Settings {
	if s, ok := p.perTenant[tenantKey(tenantID)]; ok {
		return s
	}
	return p.defaults
}

// Initialize ensures thresholds are loaded for the tenant. Tenants without
// overrides use the defaults.
func (p *InMemoryProvider) Initialize(ctx context.Context, tenantID *int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := tenantKey(tenantID)
	if _, ok := p.perTenant[key]; !ok {
		p.perTenant[key] = p.defaults
	}
	return nil
}

func (p *InMemoryProvider) IsLockedOut(ctx context.Context, tenantID *int64, userID int64) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.entries[entryKey(tenantID, userID)]
	if !ok {
		return false, nil
	}
	return p.now().Before(e.lockoutEnd), nil
}

func (p *InMemoryProvider) RecordFailure(ctx context.Context, tenantID *int64, userID int64) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.settings(tenantID)
	if !s.Enabled {
		return false, nil
	}

	key := entryKey(tenantID, userID)
	e, ok := p.entries[key]
	if !ok {
		e = &entry{}
		p.entries[key] = e
	}

	e.failures++
	if e.failures >= s.MaxFailedAttempts {
		e.lockoutEnd = p.now().Add(s.LockoutDuration)
		e.failures = 0
		return true, nil
	}
	return p.now().Before(e.lockoutEnd), nil
}

func (p *InMemoryProvider) ResetFailures(ctx context.Context, tenantID *int64, userID int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if e, ok := p.entries[entryKey(tenantID, userID)]; ok {
		e.failures = 0
	}
	return nil
}
