// Package login is the multi-tenant login decision engine: it resolves the
// acting tenant, dispatches credential verification locally or to external
// authentication sources, applies the account-lockout policy, provisions
// local mirrors for externally-authenticated identities, and audits every
// attempt.
//
// # Overview
//
// Two public flows are exposed:
//   - LoginByPassword: username/email + password, with external-source
//     fallback and lockout enforcement
//   - LoginByExternalInfo: a provider/provider-key assertion for an
//     already-linked external identity
//
// Both compute exactly one Result from the closed ResultCode set and record
// exactly one audit attempt, whatever the outcome. Account-state failures
// are ResultCodes, never errors; errors are reserved for invalid arguments
// and collaborator failures, which propagate unmodified.
//
// # Basic Usage
//
//	resolver := tenant.NewResolver(tenants, false)
//	bridge := extauth.NewBridge(extauth.NewRegistry(), users, roles, hasher)
//	service := login.NewService(
//		resolver, users, bridge,
//		password.NewValidator(hasher),
//		lockout.NewPolicy(lockoutProvider, manager),
//		attempt.NewRecorder(attempts, nil, manager),
//		settingsProvider, tokenFactory, manager,
//	)
//
//	result, err := service.LoginByPassword(ctx, "alice@example.com", "secret", "", true)
//	if err != nil {
//		// invalid arguments or a collaborator failure
//	}
//	if result.Succeeded() {
//		// result.User, result.IdentityToken
//	}
//
// # Transactions
//
// Outcome computation joins the caller's ambient unit of work, so a
// successful login is durable only if that work commits. Attempt records
// and lockout failure counts run in independent units of work and survive a
// rollback of the login transaction.
package login
