package login

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tenauth/tenauth/pkg/attempt"
	"github.com/tenauth/tenauth/pkg/extauth"
	"github.com/tenauth/tenauth/pkg/lockout"
	"github.com/tenauth/tenauth/pkg/password"
	"github.com/tenauth/tenauth/pkg/settings"
	"github.com/tenauth/tenauth/pkg/tenant"
	"github.com/tenauth/tenauth/pkg/token"
	"github.com/tenauth/tenauth/pkg/uow"
	"github.com/tenauth/tenauth/pkg/user"
)

// ErrInvalidArgument marks caller programming errors (empty identifier,
// password or provider fields). These fail the call before any outcome is
// computed or recorded; they are never ResultCodes.
var ErrInvalidArgument = errors.New("invalid argument")

// Service orchestrates the two public login flows: tenant resolution,
// external-source dispatch, credential verification, lockout transitions,
// shared result construction and attempt auditing. A Service is safe for
// concurrent use; all state lives in the injected collaborators.
type Service struct {
	resolver  *tenant.Resolver
	users     user.Repository
	bridge    *extauth.Bridge
	validator *password.Validator
	lockout   *lockout.Policy
	recorder  *attempt.Recorder
	settings  settings.Provider
	tokens    token.Factory
	manager   uow.Manager
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for last-login stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates the login orchestrator.
func NewService(
	resolver *tenant.Resolver,
	users user.Repository,
	bridge *extauth.Bridge,
	validator *password.Validator,
	lockoutPolicy *lockout.Policy,
	recorder *attempt.Recorder,
	settingsProvider settings.Provider,
	tokenFactory token.Factory,
	manager uow.Manager,
	opts ...Option,
) *Service {
	s := &Service{
		resolver:  resolver,
		users:     users,
		bridge:    bridge,
		validator: validator,
		lockout:   lockoutPolicy,
		recorder:  recorder,
		settings:  settingsProvider,
		tokens:    tokenFactory,
		manager:   manager,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoginByExternalInfo authenticates an external-provider login assertion:
// a (provider, provider key) pair previously linked to a local user.
func (s *Service) LoginByExternalInfo(ctx context.Context, loginProvider, providerKey, tenancyName string) (Result, error) {
	if strings.TrimSpace(loginProvider) == "" {
		return Result{}, fmt.Errorf("%w: login provider cannot be empty", ErrInvalidArgument)
	}
	if strings.TrimSpace(providerKey) == "" {
		return Result{}, fmt.Errorf("%w: provider key cannot be empty", ErrInvalidArgument)
	}

	workCtx, work, err := s.manager.Begin(ctx, uow.Options{})
	if err != nil {
		return Result{}, err
	}
	defer work.End(workCtx)

	result, err := s.loginByExternalInfoInternal(workCtx, loginProvider, providerKey, tenancyName)
	if err != nil {
		return Result{}, err
	}

	s.saveAttempt(workCtx, result, tenancyName, providerKey+"@"+loginProvider)

	if err := work.Complete(workCtx); err != nil {
		return Result{}, err
	}
	return result, nil
}

func (s *Service) loginByExternalInfoInternal(ctx context.Context, loginProvider, providerKey, tenancyName string) (Result, error) {
	t, err := s.resolver.Resolve(ctx, tenancyName)
	if failure, resolved := tenantFailure(t, err); resolved {
		return failure, nil
	}
	if err != nil {
		return Result{}, err
	}

	tenantID := tenantIDOf(t)
	scoped := uow.WithTenantScope(ctx, tenantID)

	u, err := s.users.FindByExternalLogin(scoped, tenantID, loginProvider, providerKey)
	if errors.Is(err, user.ErrUserNotFound) {
		return Result{Code: ResultUnknownExternalLogin, Tenant: t}, nil
	}
	if err != nil {
		return Result{}, err
	}

	return s.createLoginResult(scoped, u, t)
}

// LoginByPassword authenticates a username or email address against a
// plaintext password. External sources run first because they may create
// the very user record the local lookup depends on. shouldLockout controls
// whether a verification failure counts toward lockout.
func (s *Service) LoginByPassword(ctx context.Context, identifier, plainPassword, tenancyName string, shouldLockout bool) (Result, error) {
	if strings.TrimSpace(identifier) == "" {
		return Result{}, fmt.Errorf("%w: user name or email address cannot be empty", ErrInvalidArgument)
	}
	if plainPassword == "" {
		return Result{}, fmt.Errorf("%w: password cannot be empty", ErrInvalidArgument)
	}

	workCtx, work, err := s.manager.Begin(ctx, uow.Options{})
	if err != nil {
		return Result{}, err
	}
	defer work.End(workCtx)

	result, err := s.loginByPasswordInternal(workCtx, identifier, plainPassword, tenancyName, shouldLockout)
	if err != nil {
		return Result{}, err
	}

	s.saveAttempt(workCtx, result, tenancyName, identifier)

	if err := work.Complete(workCtx); err != nil {
		return Result{}, err
	}
	return result, nil
}

func (s *Service) loginByPasswordInternal(ctx context.Context, identifier, plainPassword, tenancyName string, shouldLockout bool) (Result, error) {
	// The tenant itself is host-owned, so its lookup runs under an explicit
	// nil tenant scope before the rest of the flow re-enters the resolved
	// one.
	hostCtx := uow.WithTenantScope(ctx, nil)
	t, err := s.resolver.Resolve(hostCtx, tenancyName)
	if failure, resolved := tenantFailure(t, err); resolved {
		return failure, nil
	}
	if err != nil {
		return Result{}, err
	}

	tenantID := tenantIDOf(t)
	scoped := uow.WithTenantScope(ctx, tenantID)

	// External sources may create the user, so they run before the local
	// lookup.
	external, err := s.bridge.TryExternal(scoped, identifier, plainPassword, t)
	if err != nil {
		return Result{}, err
	}

	u, err := s.users.FindByIdentifier(scoped, tenantID, identifier)
	if errors.Is(err, user.ErrUserNotFound) {
		return Result{Code: ResultInvalidUserNameOrEmailAddress, Tenant: t}, nil
	}
	if err != nil {
		return Result{}, err
	}

	if !external {
		if err := s.lockout.Initialize(scoped, tenantID); err != nil {
			return Result{}, err
		}

		locked, err := s.lockout.IsLockedOut(scoped, tenantID, u.ID)
		if err != nil {
			return Result{}, err
		}
		if locked {
			return Result{Code: ResultLockedOut, Tenant: t, User: u}, nil
		}

		verification, err := s.validator.Verify(u.PasswordHash, plainPassword)
		if err != nil {
			return Result{}, err
		}

		if verification == password.VerificationFailed {
			if shouldLockout {
				nowLocked, err := s.lockout.RecordFailure(scoped, tenantID, u.ID)
				if err != nil {
					return Result{}, err
				}
				if nowLocked {
					return Result{Code: ResultLockedOut, Tenant: t, User: u}, nil
				}
			}
			return Result{Code: ResultInvalidPassword, Tenant: t, User: u}, nil
		}

		if verification == password.VerificationSuccessRehashNeeded {
			s.rehashPassword(scoped, u, plainPassword)
		}

		if err := s.lockout.ResetFailures(scoped, tenantID, u.ID); err != nil {
			return Result{}, err
		}
	}

	return s.createLoginResult(scoped, u, t)
}

// createLoginResult is the shared finalization once a user is identified:
// account-state checks, last-login stamp and identity token issuance.
func (s *Service) createLoginResult(ctx context.Context, u *user.User, t *tenant.Tenant) (Result, error) {
	if !u.IsActive {
		return Result{Code: ResultUserIsNotActive}, nil
	}

	required, err := s.emailConfirmationRequired(ctx, u.TenantID)
	if err != nil {
		return Result{}, err
	}
	if required && !u.IsEmailConfirmed {
		return Result{Code: ResultUserEmailIsNotConfirmed}, nil
	}

	lastLogin := s.now()
	u.LastLoginAt = &lastLogin

	if err := s.users.Update(ctx, u); err != nil {
		return Result{}, fmt.Errorf("failed to stamp last login: %w", err)
	}

	if work, ok := uow.CurrentWork(ctx); ok {
		if err := work.SaveChanges(ctx); err != nil {
			return Result{}, err
		}
	}

	identityToken, err := s.tokens.Build(ctx, u)
	if err != nil {
		return Result{}, fmt.Errorf("failed to build identity token: %w", err)
	}

	return Result{
		Code:          ResultSuccess,
		Tenant:        t,
		User:          u,
		IdentityToken: identityToken,
	}, nil
}

func (s *Service) emailConfirmationRequired(ctx context.Context, tenantID *int64) (bool, error) {
	if tenantID != nil {
		return s.settings.BoolForTenant(ctx, settings.IsEmailConfirmationRequiredForLogin, *tenantID)
	}
	return s.settings.BoolForApplication(ctx, settings.IsEmailConfirmationRequiredForLogin)
}

func (s *Service) rehashPassword(ctx context.Context, u *user.User, plainPassword string) {
	newHash, err := s.validator.Hash(plainPassword)
	if err != nil {
		slog.Error("Failed to rehash password", "userID", u.ID, "err", err)
		return
	}
	u.PasswordHash = newHash
	if err := s.users.Update(ctx, u); err != nil {
		slog.Error("Failed to store rehashed password", "userID", u.ID, "err", err)
	}
}

// saveAttempt records the audit entry for a finalized outcome. A recording
// failure is logged and must never alter the already-decided result.
func (s *Service) saveAttempt(ctx context.Context, result Result, tenancyName, identifier string) {
	params := attempt.RecordParams{
		TenancyName: tenancyName,
		Identifier:  identifier,
		Outcome:     result.Code.String(),
	}
	if result.Tenant != nil {
		id := result.Tenant.ID
		params.TenantID = &id
	}
	if result.User != nil {
		id := result.User.ID
		params.UserID = &id
	}

	if err := s.recorder.Record(ctx, params); err != nil {
		slog.Error("Failed to record login attempt", "identifier", identifier, "outcome", result.Code.String(), "err", err)
	}
}

func tenantFailure(t *tenant.Tenant, err error) (Result, bool) {
	switch {
	case errors.Is(err, tenant.ErrInvalidTenancyName):
		return Result{Code: ResultInvalidTenancyName}, true
	case errors.Is(err, tenant.ErrTenantNotActive):
		return Result{Code: ResultTenantIsNotActive, Tenant: t}, true
	}
	return Result{}, false
}

func tenantIDOf(t *tenant.Tenant) *int64 {
	if t == nil {
		return nil
	}
	id := t.ID
	return &id
}
