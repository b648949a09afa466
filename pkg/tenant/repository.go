package tenant

import (
	"context"
	"errors"
)

// Tenant represents an isolated customer context. Users and roles belong to
// a tenant, or to the tenant-less host context when the owning id is nil.
type Tenant struct {
	ID          int64
	TenancyName string
	IsActive    bool
}

// DefaultTenantName is the tenancy name looked up when multi-tenancy is
// disabled.
const DefaultTenantName = "Default"

// Common errors for tenant repositories
var (
	ErrTenantNotFound = errors.New("tenant not found")
)

// Repository defines lookup of tenants by tenancy name. Tenants are owned
// by an external store; this module never creates or mutates them.
type Repository interface {
	FindByName(ctx context.Context, tenancyName string) (*Tenant, error)
}
