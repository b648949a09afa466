package uow

import (
	"context"
)

// Work represents one unit of work over persistence operations.
// SaveChanges flushes pending writes, Complete commits the work, and End
// releases it, rolling back anything not completed. End must be called on
// every exit path, typically via defer.
type Work interface {
	SaveChanges(ctx context.Context) error
	Complete(ctx context.Context) error
	End(ctx context.Context)
}

// Options controls how a unit of work is started.
type Options struct {
	// Independent starts a new top-level unit of work that commits or rolls
	// back on its own, regardless of any ambient work already in progress.
	// Used for audit records and lockout counters that must survive a
	// rollback of the surrounding login transaction.
	Independent bool
}

// Manager begins units of work. When Independent is false, Begin joins the
// ambient work carried in ctx if one exists; completing a joined work is a
// no-op and the outcome is decided by the owner.
type Manager interface {
	Begin(ctx context.Context, opts Options) (context.Context, Work, error)
}

type contextKey int

const (
	workKey contextKey = iota
	tenantScopeKey
)

// tenantScope distinguishes "scope entered with no tenant (host)" from
// "no scope entered at all".
type tenantScope struct {
	tenantID *int64
}

// WithTenantScope returns a context bound to the given tenant id. A nil id
// means host-level (no tenant). The scope applies only to the returned
// context, never to the parent.
func WithTenantScope(ctx context.Context, tenantID *int64) context.Context {
	return context.WithValue(ctx, tenantScopeKey, tenantScope{tenantID: tenantID})
}

// TenantScope reports the tenant id bound to ctx. ok is false when no scope
// has been entered at all.
func TenantScope(ctx context.Context) (tenantID *int64, ok bool) {
	scope, ok := ctx.Value(tenantScopeKey).(tenantScope)
	if !ok {
		return nil, false
	}
	return scope.tenantID, true
}

func withWork(ctx context.Context, w Work) context.Context {
	return context.WithValue(ctx, workKey, w)
}

// CurrentWork returns the ambient unit of work carried in ctx, if any.
func CurrentWork(ctx context.Context) (Work, bool) {
	w, ok := ctx.Value(workKey).(Work)
	return w, ok
}
