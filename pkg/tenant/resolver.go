package tenant

import (
	"context"
	"errors"
	"fmt"
)

// Resolution errors. ErrInvalidTenancyName and ErrTenantNotActive are
// business failures the caller translates into login outcomes.
// ErrDefaultTenantMissing is a deployment misconfiguration and fatal.
var (
	ErrInvalidTenancyName   = errors.New("unknown tenancy name")
	ErrTenantNotActive      = errors.New("tenant is not active")
	ErrDefaultTenantMissing = errors.New("there should be a 'Default' tenant if multi-tenancy is disabled")
)

// Resolver resolves the acting tenant for a login call from a tenancy name
// and the multi-tenancy switch.
type Resolver struct {
	repository          Repository
	multiTenancyEnabled bool
}

// NewResolver creates a tenant resolver.
func NewResolver(repository Repository, multiTenancyEnabled bool) *Resolver {
	return &Resolver{
		repository:          repository,
		multiTenancyEnabled: multiTenancyEnabled,
	}
}

// Resolve resolves the tenant for the supplied tenancy name.
//
// With multi-tenancy disabled the well-known default tenant is required;
// its absence is ErrDefaultTenantMissing, not a login failure. With
// multi-tenancy enabled an empty name resolves to the host context
// (nil tenant, nil error). A supplied name must match an existing tenant
// exactly; ErrTenantNotActive carries the tenant so callers keep its
// context on the result.
func (r *Resolver) Resolve(ctx context.Context, tenancyName string) (*Tenant, error) {
	if !r.multiTenancyEnabled {
		t, err := r.repository.FindByName(ctx, DefaultTenantName)
		if err != nil {
			if errors.Is(err, ErrTenantNotFound) {
				return nil, ErrDefaultTenantMissing
			}
			return nil, fmt.Errorf("failed to find default tenant: %w", err)
		}
		return t, nil
	}

	if tenancyName == "" {
		return nil, nil
	}

	t, err := r.repository.FindByName(ctx, tenancyName)
	if err != nil {
		if errors.Is(err, ErrTenantNotFound) {
			return nil, ErrInvalidTenancyName
		}
		return nil, fmt.Errorf("failed to find tenant %q: %w", tenancyName, err)
	}

	if !t.IsActive {
		return t, ErrTenantNotActive
	}

	return t, nil
}
