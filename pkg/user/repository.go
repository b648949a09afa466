package user

import (
	"context"
	"errors"
	"time"
)

// Role represents a role definition owned by a tenant (or by the host when
// TenantID is nil). Roles flagged IsDefault are attached to users
// provisioned from external authentication sources.
type Role struct {
	ID        int64
	TenantID  *int64
	Name      string
	IsDefault bool
}

// UserRole is a role assignment on a user.
type UserRole struct {
	TenantID *int64
	UserID   int64
	RoleID   int64
}

// ExternalLogin links a user to an identity at an external login provider.
type ExternalLogin struct {
	LoginProvider string
	ProviderKey   string
}

// User represents a locally-mirrored account. Users are owned by an
// external store; this module mutates only LastLoginAt,
// AuthenticationSource, PasswordHash (for provisioned external users) and
// Roles (defaults on creation), then asks the store to persist.
type User struct {
	ID                   int64
	TenantID             *int64
	UserName             string
	Email                string
	PasswordHash         string
	IsActive             bool
	IsEmailConfirmed     bool
	AuthenticationSource string
	LastLoginAt          *time.Time
	Roles                []UserRole
	Logins               []ExternalLogin
}

// Common errors for user repositories
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrNoTenantScope       = errors.New("no tenant scope entered")
	ErrTenantScopeMismatch = errors.New("tenant scope does not match requested tenant")
)

// Repository defines user lookup and persistence. Every call must run
// inside a tenant scope matching the requested tenant id (nil for host);
// implementations reject unscoped or mismatched calls.
type Repository interface {
	FindByExternalLogin(ctx context.Context, tenantID *int64, loginProvider, providerKey string) (*User, error)
	FindByIdentifier(ctx context.Context, tenantID *int64, identifier string) (*User, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
}

// RoleRepository defines lookup of role definitions per tenant.
type RoleRepository interface {
	DefaultRoles(ctx context.Context, tenantID *int64) ([]Role, error)
}
