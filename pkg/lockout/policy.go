package lockout

import (
	"context"
	"fmt"

	"github.com/tenauth/tenauth/pkg/uow"
)

// Policy is the thin lockout wrapper used by the login flow: a pre-check
// before password verification, conditional failure recording afterwards,
// and a counter reset on success. Failure recording runs in an independent
// unit of work so a failed login counts toward lockout even when the
// surrounding login transaction is rolled back.
type Policy struct {
	provider Provider
	manager  uow.Manager
}

// NewPolicy creates a lockout policy over the given provider.
func NewPolicy(provider Provider, manager uow.Manager) *Policy {
	return &Policy{
		provider: provider,
		manager:  manager,
	}
}

// Initialize loads the lockout thresholds for the tenant. Thresholds may be
// tenant-specific, so this runs once per login call before any check.
func (p *Policy) Initialize(ctx context.Context, tenantID *int64) error {
	return p.provider.Initialize(ctx, tenantID)
}

// IsLockedOut reports whether the account is currently locked.
func (p *Policy) IsLockedOut(ctx context.Context, tenantID *int64, userID int64) (bool, error) {
	return p.provider.IsLockedOut(ctx, tenantID, userID)
}

// RecordFailure counts a verification failure and reports whether the
// account became locked as a result.
func (p *Policy) RecordFailure(ctx context.Context, tenantID *int64, userID int64) (bool, error) {
	workCtx, work, err := p.manager.Begin(ctx, uow.Options{Independent: true})
	if err != nil {
		return false, fmt.Errorf("failed to begin lockout work: %w", err)
	}
	defer work.End(workCtx)

	workCtx = uow.WithTenantScope(workCtx, tenantID)

	nowLocked, err := p.provider.RecordFailure(workCtx, tenantID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to record lockout failure: %w", err)
	}

	if err := work.SaveChanges(workCtx); err != nil {
		return false, err
	}
	if err := work.Complete(workCtx); err != nil {
		return false, err
	}

	return nowLocked, nil
}

// ResetFailures clears the failure counter after a successful local
// verification.
func (p *Policy) ResetFailures(ctx context.Context, tenantID *int64, userID int64) error {
	return p.provider.ResetFailures(ctx, tenantID, userID)
}
