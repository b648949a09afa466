package uow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryManager_CommitAndRollback(t *testing.T) {
	manager := NewInMemoryManager()

	ctx, work, err := manager.Begin(context.Background(), Options{})
	require.NoError(t, err)
	require.NoError(t, work.Complete(ctx))
	work.End(ctx)

	_, work, err = manager.Begin(context.Background(), Options{})
	require.NoError(t, err)
	work.End(ctx)

	assert.Equal(t, 2, manager.BeganCount())
	assert.Equal(t, 1, manager.CommittedCount())
	assert.Equal(t, 1, manager.RolledBackCount())
}

func TestInMemoryManager_JoinedWorkIsNoOp(t *testing.T) {
	manager := NewInMemoryManager()

	ctx, outer, err := manager.Begin(context.Background(), Options{})
	require.NoError(t, err)

	innerCtx, inner, err := manager.Begin(ctx, Options{})
	require.NoError(t, err)
	require.NoError(t, inner.Complete(innerCtx))
	inner.End(innerCtx)

	assert.Equal(t, 1, manager.BeganCount(), "joining does not start a new work")
	assert.Equal(t, 0, manager.CommittedCount(), "the owner decides the outcome")

	require.NoError(t, outer.Complete(ctx))
	outer.End(ctx)
	assert.Equal(t, 1, manager.CommittedCount())
}

func TestInMemoryManager_IndependentWork(t *testing.T) {
	manager := NewInMemoryManager()

	ctx, outer, err := manager.Begin(context.Background(), Options{})
	require.NoError(t, err)

	innerCtx, inner, err := manager.Begin(ctx, Options{Independent: true})
	require.NoError(t, err)
	require.NoError(t, inner.Complete(innerCtx))
	inner.End(innerCtx)

	// The independent work commits even though the outer one rolls back.
	outer.End(ctx)

	assert.Equal(t, 2, manager.BeganCount())
	assert.Equal(t, 1, manager.CommittedCount())
	assert.Equal(t, 1, manager.RolledBackCount())
}

func TestInMemoryManager_EndIsIdempotent(t *testing.T) {
	manager := NewInMemoryManager()

	ctx, work, err := manager.Begin(context.Background(), Options{})
	require.NoError(t, err)
	require.NoError(t, work.Complete(ctx))
	work.End(ctx)
	work.End(ctx)

	assert.Equal(t, 1, manager.CommittedCount())
}

func TestTenantScope(t *testing.T) {
	base := context.Background()

	_, ok := TenantScope(base)
	assert.False(t, ok, "no scope entered")

	hostCtx := WithTenantScope(base, nil)
	id, ok := TenantScope(hostCtx)
	assert.True(t, ok)
	assert.Nil(t, id, "host scope carries a nil tenant")

	tenantID := int64(7)
	scoped := WithTenantScope(hostCtx, &tenantID)
	id, ok = TenantScope(scoped)
	require.True(t, ok)
	require.NotNil(t, id)
	assert.Equal(t, int64(7), *id)

	// The parent context is untouched.
	id, ok = TenantScope(hostCtx)
	require.True(t, ok)
	assert.Nil(t, id)
}
