package extauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/tenauth/tenauth/pkg/password"
	"github.com/tenauth/tenauth/pkg/tenant"
	"github.com/tenauth/tenauth/pkg/uow"
	"github.com/tenauth/tenauth/pkg/user"
)

// Bridge tries the configured external sources in priority order and keeps
// the local user mirror consistent on success: unknown identities are
// provisioned with the tenant's default roles and an unusable password,
// known ones are synced and re-tagged. All of that persists before control
// returns, because the caller's next step is looking the user up by
// identifier.
type Bridge struct {
	registry *Registry
	users    user.Repository
	roles    user.RoleRepository
	hasher   password.Hasher
}

// NewBridge creates an external authentication bridge.
func NewBridge(registry *Registry, users user.Repository, roles user.RoleRepository, hasher password.Hasher) *Bridge {
	return &Bridge{
		registry: registry,
		users:    users,
		roles:    roles,
		hasher:   hasher,
	}
}

// TryExternal attempts external authentication for the credential. It
// returns true when a source authenticated and the local mirror is up to
// date. Source errors propagate; they are not swallowed into "try next".
func (b *Bridge) TryExternal(ctx context.Context, identifier, plainPassword string, t *tenant.Tenant) (bool, error) {
	if len(b.registry.Sources()) == 0 {
		return false, nil
	}

	for _, source := range b.registry.Sources() {
		ok, err := source.TryAuthenticate(ctx, identifier, plainPassword, t)
		if err != nil {
			return false, fmt.Errorf("external source %q failed: %w", source.Name(), err)
		}
		if !ok {
			continue
		}

		var tenantID *int64
		if t != nil {
			tenantID = &t.ID
		}
		scoped := uow.WithTenantScope(ctx, tenantID)

		if err := b.syncLocalUser(scoped, source, identifier, tenantID, t); err != nil {
			return false, err
		}

		if work, inWork := uow.CurrentWork(scoped); inWork {
			if err := work.SaveChanges(scoped); err != nil {
				return false, fmt.Errorf("failed to save provisioned user: %w", err)
			}
		}

		slog.Debug("Authenticated from external source", "source", source.Name(), "identifier", identifier)
		return true, nil
	}

	return false, nil
}

func (b *Bridge) syncLocalUser(ctx context.Context, source Source, identifier string, tenantID *int64, t *tenant.Tenant) error {
	existing, err := b.users.FindByIdentifier(ctx, tenantID, identifier)
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return fmt.Errorf("failed to look up user %q: %w", identifier, err)
	}

	if existing == nil {
		return b.provisionUser(ctx, source, identifier, tenantID, t)
	}

	if err := source.UpdateUser(ctx, existing, t); err != nil {
		return fmt.Errorf("external source %q failed to update user: %w", source.Name(), err)
	}
	existing.AuthenticationSource = source.Name()

	if err := b.users.Update(ctx, existing); err != nil {
		return fmt.Errorf("failed to update user %q: %w", identifier, err)
	}
	return nil
}

func (b *Bridge) provisionUser(ctx context.Context, source Source, identifier string, tenantID *int64, t *tenant.Tenant) error {
	newUser, err := source.CreateUser(ctx, identifier, t)
	if err != nil {
		return fmt.Errorf("external source %q failed to create user: %w", source.Name(), err)
	}

	newUser.TenantID = tenantID
	newUser.AuthenticationSource = source.Name()

	// The identity only ever authenticates externally; the local hash must
	// never verify.
	unusable, err := b.hasher.Hash(randomPassword())
	if err != nil {
		return fmt.Errorf("failed to hash placeholder password: %w", err)
	}
	newUser.PasswordHash = unusable

	defaults, err := b.roles.DefaultRoles(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to load default roles: %w", err)
	}
	newUser.Roles = make([]user.UserRole, 0, len(defaults))
	for _, role := range defaults {
		newUser.Roles = append(newUser.Roles, user.UserRole{
			TenantID: tenantID,
			RoleID:   role.ID,
		})
	}

	if err := b.users.Create(ctx, newUser); err != nil {
		return fmt.Errorf("failed to create user %q: %w", identifier, err)
	}

	slog.Info("Provisioned user from external source", "source", source.Name(), "identifier", identifier, "userID", newUser.ID)
	return nil
}

func randomPassword() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}
