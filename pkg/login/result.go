package login

import (
	"github.com/tenauth/tenauth/pkg/tenant"
	"github.com/tenauth/tenauth/pkg/user"
)

// ResultCode is the closed set of login outcomes. Every credential, tenant
// or account-state failure is one of these, never an error; errors are
// reserved for invalid arguments and collaborator failures.
type ResultCode int

const (
	ResultSuccess ResultCode = iota + 1
	ResultInvalidTenancyName
	ResultTenantIsNotActive
	ResultUnknownExternalLogin
	ResultInvalidUserNameOrEmailAddress
	ResultInvalidPassword
	ResultLockedOut
	ResultUserIsNotActive
	ResultUserEmailIsNotConfirmed
)

func (c ResultCode) String() string {
	switch c {
	case ResultSuccess:
		return "Success"
	case ResultInvalidTenancyName:
		return "InvalidTenancyName"
	case ResultTenantIsNotActive:
		return "TenantIsNotActive"
	case ResultUnknownExternalLogin:
		return "UnknownExternalLogin"
	case ResultInvalidUserNameOrEmailAddress:
		return "InvalidUserNameOrEmailAddress"
	case ResultInvalidPassword:
		return "InvalidPassword"
	case ResultLockedOut:
		return "LockedOut"
	case ResultUserIsNotActive:
		return "UserIsNotActive"
	case ResultUserEmailIsNotConfirmed:
		return "UserEmailIsNotConfirmed"
	default:
		return "Unknown"
	}
}

// Result is the outcome of one login call. Success always carries tenant
// context, a non-nil user and an identity token; failures carry only the
// context gathered before the failure.
type Result struct {
	Code          ResultCode
	Tenant        *tenant.Tenant
	User          *user.User
	IdentityToken string
}

// Succeeded reports whether the result is a successful login.
func (r Result) Succeeded() bool {
	return r.Code == ResultSuccess
}
