package user

import (
	"context"
	"strings"
	"sync"

	"github.com/tenauth/tenauth/pkg/uow"
)

// InMemoryRepository implements Repository using in-memory storage. It
// enforces the tenant-scoping discipline: every call must carry a tenant
// scope matching the requested tenant id.
type InMemoryRepository struct {
	mu     sync.RWMutex
	users  map[int64]User
	nextID int64
}

// NewInMemoryRepository creates a new in-memory user repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		users:  make(map[int64]User),
		nextID: 1,
	}
}

// AddUser seeds a user, assigning an id when none is set. Intended for
// tests and demo wiring.
func (r *InMemoryRepository) AddUser(u User) User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == 0 {
		u.ID = r.nextID
		r.nextID++
	} else if u.ID >= r.nextID {
		r.nextID = u.ID + 1
	}
	r.users[u.ID] = u
	return u
}

// GetByID returns a copy of the stored user. Intended for test assertions.
func (r *InMemoryRepository) GetByID(id int64) (User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	return u, ok
}

// Count returns the number of stored users.
func (r *InMemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

func checkScope(ctx context.Context, tenantID *int64) error {
	scopeID, ok := uow.TenantScope(ctx)
	if !ok {
		return ErrNoTenantScope
	}
	if (scopeID == nil) != (tenantID == nil) {
		return ErrTenantScopeMismatch
	}
	if scopeID != nil && *scopeID != *tenantID {
		return ErrTenantScopeMismatch
	}
	return nil
}

func sameTenant(a, b *int64) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

// FindByExternalLogin finds a user by external provider identity within the
// given tenant.
func (r *InMemoryRepository) FindByExternalLogin(ctx context.Context, tenantID *int64, loginProvider, providerKey string) (*User, error) {
	if err := checkScope(ctx, tenantID); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if !sameTenant(u.TenantID, tenantID) {
			continue
		}
		for _, l := range u.Logins {
			if l.LoginProvider == loginProvider && l.ProviderKey == providerKey {
				found := u
				return &found, nil
			}
		}
	}
	return nil, ErrUserNotFound
}

// FindByIdentifier finds a user by username or email within the given
// tenant. Matching is case-insensitive.
func (r *InMemoryRepository) FindByIdentifier(ctx context.Context, tenantID *int64, identifier string) (*User, error) {
	if err := checkScope(ctx, tenantID); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if !sameTenant(u.TenantID, tenantID) {
			continue
		}
		if strings.EqualFold(u.UserName, identifier) || strings.EqualFold(u.Email, identifier) {
			found := u
			return &found, nil
		}
	}
	return nil, ErrUserNotFound
}

// Create persists a new user, assigning its id.
func (r *InMemoryRepository) Create(ctx context.Context, u *User) error {
	if err := checkScope(ctx, u.TenantID); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u.ID = r.nextID
	r.nextID++
	for i := range u.Roles {
		u.Roles[i].UserID = u.ID
	}
	r.users[u.ID] = *u
	return nil
}

// Update persists changes to an existing user.
func (r *InMemoryRepository) Update(ctx context.Context, u *User) error {
	if err := checkScope(ctx, u.TenantID); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[u.ID]; !ok {
		return ErrUserNotFound
	}
	r.users[u.ID] = *u
	return nil
}

// InMemoryRoleRepository implements RoleRepository using in-memory storage.
type InMemoryRoleRepository struct {
	mu     sync.RWMutex
	roles  []Role
	nextID int64
}

// NewInMemoryRoleRepository creates a new in-memory role repository.
func NewInMemoryRoleRepository() *InMemoryRoleRepository {
	return &InMemoryRoleRepository{nextID: 1}
}

// AddRole seeds a role definition, assigning an id when none is set.
func (r *InMemoryRoleRepository) AddRole(role Role) Role {
	r.mu.Lock()
	defer r.mu.Unlock()
	if role.ID == 0 {
		role.ID = r.nextID
		r.nextID++
	} else if role.ID >= r.nextID {
		r.nextID = role.ID + 1
	}
	r.roles = append(r.roles, role)
	return role
}

// DefaultRoles returns the roles flagged as default for the given tenant.
func (r *InMemoryRoleRepository) DefaultRoles(ctx context.Context, tenantID *int64) ([]Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var defaults []Role
	for _, role := range r.roles {
		if role.IsDefault && sameTenant(role.TenantID, tenantID) {
			defaults = append(defaults, role)
		}
	}
	return defaults, nil
}
