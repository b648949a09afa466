package extauth

import (
	"context"

	"github.com/tenauth/tenauth/pkg/tenant"
	"github.com/tenauth/tenauth/pkg/user"
)

// Source is a pluggable external authentication source (an external
// directory, for example). A source can authenticate a credential without
// consulting the local password store, and builds or syncs the local user
// mirror for identities it owns. Name tags provisioned users.
type Source interface {
	// Name returns the source's identity, stored on users it provisions.
	Name() string

	// TryAuthenticate reports whether the source authenticated the
	// credential. A false return means "not mine / wrong password"; an
	// error is a hard failure that terminates the login attempt.
	TryAuthenticate(ctx context.Context, identifier, plainPassword string, t *tenant.Tenant) (bool, error)

	// CreateUser builds a local user mirror for an identity unknown
	// locally. The bridge assigns tenant, source tag, password and default
	// roles before persisting.
	CreateUser(ctx context.Context, identifier string, t *tenant.Tenant) (*user.User, error)

	// UpdateUser syncs profile attributes onto an existing local mirror.
	UpdateUser(ctx context.Context, u *user.User, t *tenant.Tenant) error
}

// Registry holds the configured sources in priority order. Sources are
// registered at configuration time; iteration order is registration order
// and the first source to authenticate wins.
type Registry struct {
	sources []Source
}

// NewRegistry creates a registry with the given sources, highest priority
// first.
func NewRegistry(sources ...Source) *Registry {
	return &Registry{sources: sources}
}

// Add appends a source with the lowest priority so far.
func (r *Registry) Add(source Source) *Registry {
	r.sources = append(r.sources, source)
	return r
}

// Sources returns the sources in priority order.
func (r *Registry) Sources() []Source {
	return r.sources
}
