package extauth

import (
	"context"
	"sync"

	"github.com/tenauth/tenauth/pkg/tenant"
	"github.com/tenauth/tenauth/pkg/user"
)

// StaticSource implements Source from a fixed credential map. Useful for
// demos and tests; a real deployment plugs in a directory-backed source.
type StaticSource struct {
	name        string
	mu          sync.RWMutex
	credentials map[string]string // identifier -> plaintext password
	updated     map[string]int    // identifier -> UpdateUser call count
}

// NewStaticSource creates a static source with the given name and
// credential map.
func NewStaticSource(name string, credentials map[string]string) *StaticSource {
	creds := make(map[string]string, len(credentials))
	for k, v := range credentials {
		creds[k] = v
	}
	return &StaticSource{
		name:        name,
		credentials: creds,
		updated:     make(map[string]int),
	}
}

func (s *StaticSource) Name() string {
	return s.name
}

func (s *StaticSource) TryAuthenticate(ctx context.Context, identifier, plainPassword string, t *tenant.Tenant) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.credentials[identifier]
	return ok && stored == plainPassword, nil
}

func (s *StaticSource) CreateUser(ctx context.Context, identifier string, t *tenant.Tenant) (*user.User, error) {
	return &user.User{
		UserName:         identifier,
		Email:            identifier,
		IsActive:         true,
		IsEmailConfirmed: true,
	}, nil
}

func (s *StaticSource) UpdateUser(ctx context.Context, u *user.User, t *tenant.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updated[u.UserName]++
	return nil
}

// UpdateCount reports how many times UpdateUser ran for an identifier.
// Intended for tests.
func (s *StaticSource) UpdateCount(identifier string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updated[identifier]
}
