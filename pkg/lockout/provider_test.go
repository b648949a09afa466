package lockout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenauth/tenauth/pkg/uow"
)

// countingManager wraps the in-memory manager and counts independent
// begins, so tests can assert that failure recording runs in its own work.
type countingManager struct {
	uow.InMemoryManager
	independentBegins int
}

func (m *countingManager) Begin(ctx context.Context, opts uow.Options) (context.Context, uow.Work, error) {
	if opts.Independent {
		m.independentBegins++
	}
	return m.InMemoryManager.Begin(ctx, opts)
}

func int64Ptr(v int64) *int64 { return &v }

func TestInMemoryProvider_ThresholdLocks(t *testing.T) {
	ctx := context.Background()
	provider := NewInMemoryProvider(Settings{Enabled: true, MaxFailedAttempts: 3, LockoutDuration: 10 * time.Minute})
	tenantID := int64Ptr(1)

	for i := 0; i < 2; i++ {
		locked, err := provider.RecordFailure(ctx, tenantID, 42)
		require.NoError(t, err)
		assert.False(t, locked, "failure %d should not lock", i+1)
	}

	locked, err := provider.RecordFailure(ctx, tenantID, 42)
	require.NoError(t, err)
	assert.True(t, locked, "failure at threshold should lock")

	locked, err = provider.IsLockedOut(ctx, tenantID, 42)
	require.NoError(t, err)
	assert.True(t, locked)
}

func TestInMemoryProvider_WindowElapses(t *testing.T) {
	ctx := context.Background()
	provider := NewInMemoryProvider(Settings{Enabled: true, MaxFailedAttempts: 1, LockoutDuration: 10 * time.Minute})

	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	provider.SetClock(func() time.Time { return current })

	locked, err := provider.RecordFailure(ctx, nil, 7)
	require.NoError(t, err)
	require.True(t, locked)

	current = current.Add(9 * time.Minute)
	locked, err = provider.IsLockedOut(ctx, nil, 7)
	require.NoError(t, err)
	assert.True(t, locked, "lock holds inside the window")

	current = current.Add(2 * time.Minute)
	locked, err = provider.IsLockedOut(ctx, nil, 7)
	require.NoError(t, err)
	assert.False(t, locked, "lock clears once the window elapses")
}

func TestInMemoryProvider_ResetClearsCounter(t *testing.T) {
	ctx := context.Background()
	provider := NewInMemoryProvider(Settings{Enabled: true, MaxFailedAttempts: 2, LockoutDuration: time.Minute})
	tenantID := int64Ptr(1)

	locked, err := provider.RecordFailure(ctx, tenantID, 9)
	require.NoError(t, err)
	require.False(t, locked)

	require.NoError(t, provider.ResetFailures(ctx, tenantID, 9))

	locked, err = provider.RecordFailure(ctx, tenantID, 9)
	require.NoError(t, err)
	assert.False(t, locked, "counter restarts after a reset")
}

func TestInMemoryProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	provider := NewInMemoryProvider(Settings{Enabled: false, MaxFailedAttempts: 1, LockoutDuration: time.Minute})

	for i := 0; i < 5; i++ {
		locked, err := provider.RecordFailure(ctx, nil, 3)
		require.NoError(t, err)
		assert.False(t, locked)
	}
}

func TestInMemoryProvider_TenantIsolation(t *testing.T) {
	ctx := context.Background()
	provider := NewInMemoryProvider(Settings{Enabled: true, MaxFailedAttempts: 1, LockoutDuration: time.Minute})

	locked, err := provider.RecordFailure(ctx, int64Ptr(1), 5)
	require.NoError(t, err)
	require.True(t, locked)

	locked, err = provider.IsLockedOut(ctx, int64Ptr(2), 5)
	require.NoError(t, err)
	assert.False(t, locked, "same user id under another tenant is unaffected")

	locked, err = provider.IsLockedOut(ctx, nil, 5)
	require.NoError(t, err)
	assert.False(t, locked, "host-scoped user is unaffected")
}

func TestInMemoryProvider_TenantSettingsOverride(t *testing.T) {
	ctx := context.Background()
	provider := NewInMemoryProvider(DefaultSettings())
	tenantID := int64Ptr(3)
	provider.SetTenantSettings(tenantID, Settings{Enabled: true, MaxFailedAttempts: 1, LockoutDuration: time.Minute})

	locked, err := provider.RecordFailure(ctx, tenantID, 1)
	require.NoError(t, err)
	assert.True(t, locked, "tenant override applies")

	locked, err = provider.RecordFailure(ctx, nil, 1)
	require.NoError(t, err)
	assert.False(t, locked, "host still uses the defaults")
}

func TestPolicy_RecordFailureRunsIndependently(t *testing.T) {
	ctx := context.Background()
	provider := NewInMemoryProvider(Settings{Enabled: true, MaxFailedAttempts: 1, LockoutDuration: time.Minute})

	manager := &countingManager{}
	policy := NewPolicy(provider, manager)

	locked, err := policy.RecordFailure(ctx, int64Ptr(1), 8)
	require.NoError(t, err)
	assert.True(t, locked)
	assert.Equal(t, 1, manager.independentBegins)
}
