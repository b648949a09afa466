package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenauth/tenauth/pkg/uow"
)

func int64Ptr(v int64) *int64 { return &v }

func TestInMemoryRepository_ScopeEnforcement(t *testing.T) {
	repo := NewInMemoryRepository()
	tenantID := int64Ptr(1)
	repo.AddUser(User{TenantID: tenantID, UserName: "alice", Email: "alice@example.com"})

	t.Run("no scope entered", func(t *testing.T) {
		_, err := repo.FindByIdentifier(context.Background(), tenantID, "alice")
		assert.ErrorIs(t, err, ErrNoTenantScope)
	})

	t.Run("scope mismatch", func(t *testing.T) {
		ctx := uow.WithTenantScope(context.Background(), int64Ptr(2))
		_, err := repo.FindByIdentifier(ctx, tenantID, "alice")
		assert.ErrorIs(t, err, ErrTenantScopeMismatch)
	})

	t.Run("host scope against tenant query", func(t *testing.T) {
		ctx := uow.WithTenantScope(context.Background(), nil)
		_, err := repo.FindByIdentifier(ctx, tenantID, "alice")
		assert.ErrorIs(t, err, ErrTenantScopeMismatch)
	})

	t.Run("matching scope", func(t *testing.T) {
		ctx := uow.WithTenantScope(context.Background(), tenantID)
		u, err := repo.FindByIdentifier(ctx, tenantID, "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", u.UserName)
	})
}

func TestInMemoryRepository_FindByIdentifier(t *testing.T) {
	repo := NewInMemoryRepository()
	tenantID := int64Ptr(1)
	repo.AddUser(User{TenantID: tenantID, UserName: "alice", Email: "alice@example.com"})
	repo.AddUser(User{TenantID: int64Ptr(2), UserName: "bob", Email: "bob@example.com"})
	repo.AddUser(User{TenantID: nil, UserName: "admin", Email: "admin@example.com"})

	ctx := uow.WithTenantScope(context.Background(), tenantID)

	t.Run("by username case-insensitive", func(t *testing.T) {
		u, err := repo.FindByIdentifier(ctx, tenantID, "ALICE")
		require.NoError(t, err)
		assert.Equal(t, "alice", u.UserName)
	})

	t.Run("by email", func(t *testing.T) {
		u, err := repo.FindByIdentifier(ctx, tenantID, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, "alice", u.UserName)
	})

	t.Run("other tenant's user is invisible", func(t *testing.T) {
		_, err := repo.FindByIdentifier(ctx, tenantID, "bob")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("host user visible only under host scope", func(t *testing.T) {
		_, err := repo.FindByIdentifier(ctx, tenantID, "admin")
		assert.ErrorIs(t, err, ErrUserNotFound)

		hostCtx := uow.WithTenantScope(context.Background(), nil)
		u, err := repo.FindByIdentifier(hostCtx, nil, "admin")
		require.NoError(t, err)
		assert.Equal(t, "admin", u.UserName)
	})
}

func TestInMemoryRepository_FindByExternalLogin(t *testing.T) {
	repo := NewInMemoryRepository()
	tenantID := int64Ptr(1)
	repo.AddUser(User{
		TenantID: tenantID,
		UserName: "alice",
		Logins:   []ExternalLogin{{LoginProvider: "corp-oidc", ProviderKey: "alice-key"}},
	})

	ctx := uow.WithTenantScope(context.Background(), tenantID)

	u, err := repo.FindByExternalLogin(ctx, tenantID, "corp-oidc", "alice-key")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.UserName)

	_, err = repo.FindByExternalLogin(ctx, tenantID, "corp-oidc", "unknown-key")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = repo.FindByExternalLogin(ctx, tenantID, "other-provider", "alice-key")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestInMemoryRepository_CreateAssignsIDAndRoleOwner(t *testing.T) {
	repo := NewInMemoryRepository()
	tenantID := int64Ptr(1)
	ctx := uow.WithTenantScope(context.Background(), tenantID)

	u := &User{
		TenantID: tenantID,
		UserName: "carol",
		Roles:    []UserRole{{TenantID: tenantID, RoleID: 10}},
	}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)
	assert.Equal(t, u.ID, u.Roles[0].UserID)

	stored, ok := repo.GetByID(u.ID)
	require.True(t, ok)
	assert.Equal(t, "carol", stored.UserName)
}

func TestInMemoryRoleRepository_DefaultRoles(t *testing.T) {
	roles := NewInMemoryRoleRepository()
	tenantID := int64Ptr(1)
	roles.AddRole(Role{TenantID: tenantID, Name: "member", IsDefault: true})
	roles.AddRole(Role{TenantID: tenantID, Name: "admin", IsDefault: false})
	roles.AddRole(Role{TenantID: int64Ptr(2), Name: "member", IsDefault: true})

	defaults, err := roles.DefaultRoles(context.Background(), tenantID)
	require.NoError(t, err)
	require.Len(t, defaults, 1)
	assert.Equal(t, "member", defaults[0].Name)
}
