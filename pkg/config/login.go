package config

import (
	"fmt"
	"time"
)

// LoginConfig contains login engine settings.
type LoginConfig struct {
	// MultiTenancyEnabled controls whether tenancy names are resolved. When
	// disabled, every login runs against the well-known default tenant.
	MultiTenancyEnabled bool `env:"LOGIN_MULTI_TENANCY_ENABLED" env-default:"true"`

	// LockoutEnabled controls whether failed password attempts count toward
	// account lockout.
	LockoutEnabled bool `env:"LOGIN_LOCKOUT_ENABLED" env-default:"true"`

	// MaxFailedAttempts is the number of failed attempts before lockout.
	MaxFailedAttempts int `env:"LOGIN_MAX_FAILED_ATTEMPTS" env-default:"5"`

	// LockoutDuration is how long an account stays locked.
	LockoutDuration time.Duration `env:"LOGIN_LOCKOUT_DURATION" env-default:"30m"`

	// RequireConfirmedEmail is the application-wide default for the
	// email-confirmation requirement; tenants may override it.
	RequireConfirmedEmail bool `env:"LOGIN_REQUIRE_CONFIRMED_EMAIL" env-default:"false"`
}

// DefaultLoginConfig returns a LoginConfig with sensible defaults.
func DefaultLoginConfig() LoginConfig {
	return LoginConfig{
		MultiTenancyEnabled: true,
		LockoutEnabled:      true,
		MaxFailedAttempts:   5,
		LockoutDuration:     30 * time.Minute,
	}
}

// Validate checks if the configuration is valid.
func (c *LoginConfig) Validate() error {
	if c.MaxFailedAttempts < 1 {
		return fmt.Errorf("max failed attempts must be at least 1, got %d", c.MaxFailedAttempts)
	}
	if c.LockoutDuration < 0 {
		return fmt.Errorf("lockout duration must be non-negative, got %v", c.LockoutDuration)
	}
	return nil
}

// TokenConfig contains identity token settings.
type TokenConfig struct {
	Secret     string        `env:"TOKEN_SECRET" env-default:"very-secure-token-secret"`
	Issuer     string        `env:"TOKEN_ISSUER" env-default:"tenauth"`
	Audience   string        `env:"TOKEN_AUDIENCE" env-default:"tenauth"`
	Expiration time.Duration `env:"TOKEN_EXPIRATION" env-default:"1h"`
}

// Validate checks if the configuration is valid.
func (c *TokenConfig) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("token secret cannot be empty")
	}
	if c.Expiration <= 0 {
		return fmt.Errorf("token expiration must be positive, got %v", c.Expiration)
	}
	return nil
}
