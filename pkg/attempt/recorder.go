package attempt

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tenauth/tenauth/pkg/uow"
)

// RecordParams carries the finalized outcome context for one attempt.
type RecordParams struct {
	TenantID    *int64
	TenancyName string
	UserID      *int64
	Identifier  string
	Outcome     string
}

// Recorder persists one audit record per login call. Recording runs in its
// own top-level unit of work, scoped to the tenant of the outcome, so the
// audit trail survives a rollback of the login transaction.
type Recorder struct {
	repository Repository
	clientInfo ClientInfoProvider
	manager    uow.Manager
	now        func() time.Time
}

// NewRecorder creates a login attempt recorder. A nil clientInfo defaults
// to empty client metadata.
func NewRecorder(repository Repository, clientInfo ClientInfoProvider, manager uow.Manager) *Recorder {
	if clientInfo == nil {
		clientInfo = NullClientInfoProvider{}
	}
	return &Recorder{
		repository: repository,
		clientInfo: clientInfo,
		manager:    manager,
		now:        time.Now,
	}
}

// SetClock overrides the time source. Intended for tests.
func (r *Recorder) SetClock(now func() time.Time) {
	r.now = now
}

// Record persists the attempt in an independent unit of work.
func (r *Recorder) Record(ctx context.Context, params RecordParams) error {
	workCtx, work, err := r.manager.Begin(ctx, uow.Options{Independent: true})
	if err != nil {
		return fmt.Errorf("failed to begin attempt work: %w", err)
	}
	defer work.End(workCtx)

	workCtx = uow.WithTenantScope(workCtx, params.TenantID)

	a := Attempt{
		ID:          uuid.New(),
		TenantID:    params.TenantID,
		TenancyName: params.TenancyName,
		UserID:      params.UserID,
		Identifier:  params.Identifier,
		Outcome:     params.Outcome,
		BrowserInfo: r.clientInfo.BrowserInfo(),
		ClientIP:    r.clientInfo.ClientIPAddress(),
		ClientName:  r.clientInfo.ComputerName(),
		CreatedAt:   r.now(),
	}

	if err := r.repository.Record(workCtx, a); err != nil {
		return fmt.Errorf("failed to record login attempt: %w", err)
	}
	if err := work.SaveChanges(workCtx); err != nil {
		return err
	}
	return work.Complete(workCtx)
}
