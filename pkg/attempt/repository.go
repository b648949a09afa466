package attempt

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Attempt is an immutable audit record of one login call. Exactly one is
// created per call to either public login entry point, whatever the
// outcome; it is never mutated or deleted.
type Attempt struct {
	ID          uuid.UUID
	TenantID    *int64
	TenancyName string
	UserID      *int64
	Identifier  string
	Outcome     string
	BrowserInfo string
	ClientIP    string
	ClientName  string
	CreatedAt   time.Time
}

// Repository persists login attempt records.
type Repository interface {
	Record(ctx context.Context, a Attempt) error
}

// ClientInfoProvider supplies caller metadata for the audit record. All
// values are optional; NullClientInfoProvider is the default.
type ClientInfoProvider interface {
	BrowserInfo() string
	ClientIPAddress() string
	ComputerName() string
}

// NullClientInfoProvider implements ClientInfoProvider with empty values.
type NullClientInfoProvider struct{}

func (NullClientInfoProvider) BrowserInfo() string     { return "" }
func (NullClientInfoProvider) ClientIPAddress() string { return "" }
func (NullClientInfoProvider) ComputerName() string    { return "" }

// StaticClientInfoProvider implements ClientInfoProvider from fixed values.
type StaticClientInfoProvider struct {
	Browser  string
	ClientIP string
	Client   string
}

func (p StaticClientInfoProvider) BrowserInfo() string     { return p.Browser }
func (p StaticClientInfoProvider) ClientIPAddress() string { return p.ClientIP }
func (p StaticClientInfoProvider) ComputerName() string    { return p.Client }
