package extauth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tenauth/tenauth/pkg/password"
	"github.com/tenauth/tenauth/pkg/tenant"
	"github.com/tenauth/tenauth/pkg/uow"
	"github.com/tenauth/tenauth/pkg/user"
)

func int64Ptr(v int64) *int64 { return &v }

type bridgeFixture struct {
	users  *user.InMemoryRepository
	roles  *user.InMemoryRoleRepository
	hasher *password.BcryptHasher
	bridge *Bridge
}

func newBridgeFixture(sources ...Source) *bridgeFixture {
	f := &bridgeFixture{
		users:  user.NewInMemoryRepository(),
		roles:  user.NewInMemoryRoleRepository(),
		hasher: password.NewBcryptHasherWithCost(bcrypt.MinCost),
	}
	f.bridge = NewBridge(NewRegistry(sources...), f.users, f.roles, f.hasher)
	return f
}

func TestBridge_EmptyRegistry(t *testing.T) {
	f := newBridgeFixture()

	ok, err := f.bridge.TryExternal(context.Background(), "alice", "pw", nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, f.users.Count())
}

func TestBridge_ProvisionsUnknownIdentity(t *testing.T) {
	acme := &tenant.Tenant{ID: 1, TenancyName: "acme", IsActive: true}
	source := NewStaticSource("corp-ldap", map[string]string{"dave@example.com": "dir-pass"})
	f := newBridgeFixture(source)
	f.roles.AddRole(user.Role{TenantID: int64Ptr(1), Name: "member", IsDefault: true})

	ok, err := f.bridge.TryExternal(context.Background(), "dave@example.com", "dir-pass", acme)
	require.NoError(t, err)
	require.True(t, ok)

	require.Equal(t, 1, f.users.Count())
	ctx := uow.WithTenantScope(context.Background(), int64Ptr(1))
	u, err := f.users.FindByIdentifier(ctx, int64Ptr(1), "dave@example.com")
	require.NoError(t, err)

	assert.Equal(t, "corp-ldap", u.AuthenticationSource)
	assert.Equal(t, int64(1), *u.TenantID)
	require.Len(t, u.Roles, 1)
	assert.Equal(t, u.ID, u.Roles[0].UserID)

	// The local hash is a placeholder; the directory password must never
	// verify against it.
	result, err := f.hasher.Verify(u.PasswordHash, "dir-pass")
	require.NoError(t, err)
	assert.Equal(t, password.VerificationFailed, result)
}

func TestBridge_SyncsExistingIdentity(t *testing.T) {
	acme := &tenant.Tenant{ID: 1, TenancyName: "acme", IsActive: true}
	source := NewStaticSource("corp-ldap", map[string]string{"alice": "dir-pass"})
	f := newBridgeFixture(source)
	seeded := f.users.AddUser(user.User{
		TenantID: int64Ptr(1),
		UserName: "alice",
		Email:    "alice@example.com",
		IsActive: true,
	})

	ok, err := f.bridge.TryExternal(context.Background(), "alice", "dir-pass", acme)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, 1, f.users.Count(), "no duplicate is created")
	assert.Equal(t, 1, source.UpdateCount("alice"))

	stored, found := f.users.GetByID(seeded.ID)
	require.True(t, found)
	assert.Equal(t, "corp-ldap", stored.AuthenticationSource)
}

func TestBridge_WrongCredentialFallsThrough(t *testing.T) {
	source := NewStaticSource("corp-ldap", map[string]string{"alice": "dir-pass"})
	f := newBridgeFixture(source)

	ok, err := f.bridge.TryExternal(context.Background(), "alice", "wrong", nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, f.users.Count())
}

type failingSource struct{ name string }

func (s failingSource) Name() string { return s.name }
func (s failingSource) TryAuthenticate(ctx context.Context, identifier, plainPassword string, t *tenant.Tenant) (bool, error) {
	return false, errors.New("directory unreachable")
}
func (s failingSource) CreateUser(ctx context.Context, identifier string, t *tenant.Tenant) (*user.User, error) {
	return nil, errors.New("not implemented")
}
func (s failingSource) UpdateUser(ctx context.Context, u *user.User, t *tenant.Tenant) error {
	return errors.New("not implemented")
}

func TestBridge_SourceErrorPropagates(t *testing.T) {
	f := newBridgeFixture(failingSource{name: "corp-ldap"})

	ok, err := f.bridge.TryExternal(context.Background(), "alice", "pw", nil)
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "corp-ldap")
}

func TestBridge_SourcesTriedInOrder(t *testing.T) {
	first := NewStaticSource("first", map[string]string{"alice": "pw"})
	second := NewStaticSource("second", map[string]string{"alice": "pw"})
	f := newBridgeFixture(first, second)
	f.roles.AddRole(user.Role{Name: "member", IsDefault: true})

	ok, err := f.bridge.TryExternal(context.Background(), "alice", "pw", nil)
	require.NoError(t, err)
	require.True(t, ok)

	hostCtx := uow.WithTenantScope(context.Background(), nil)
	u, err := f.users.FindByIdentifier(hostCtx, nil, "alice")
	require.NoError(t, err)
	assert.Equal(t, "first", u.AuthenticationSource)
}
