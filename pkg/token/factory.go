package token

import (
	"context"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tenauth/tenauth/pkg/user"
)

// Factory builds the identity token issued on a successful login.
type Factory interface {
	Build(ctx context.Context, u *user.User) (string, error)
}

// Claims struct for JWT claims
type Claims struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	TenantID *int64 `json:"tenant_id,omitempty"`
	jwt.RegisteredClaims
}

// JwtFactory implements Factory with HS256-signed JWTs.
type JwtFactory struct {
	secret   string
	issuer   string
	audience string
	expiry   time.Duration
	now      func() time.Time
}

// NewJwtFactory creates a new JwtFactory.
func NewJwtFactory(secret, issuer, audience string, expiry time.Duration) *JwtFactory {
	return &JwtFactory{
		secret:   secret,
		issuer:   issuer,
		audience: audience,
		expiry:   expiry,
		now:      time.Now,
	}
}

// SetClock overrides the time source. Intended for tests.
func (f *JwtFactory) SetClock(now func() time.Time) {
	f.now = now
}

// Build signs an identity token for the user.
func (f *JwtFactory) Build(ctx context.Context, u *user.User) (string, error) {
	issuedAt := f.now().UTC()
	claims := Claims{
		Username: u.UserName,
		Email:    u.Email,
		TenantID: u.TenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(f.expiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			Issuer:    f.issuer,
			Subject:   strconv.FormatInt(u.ID, 10),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{f.audience},
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(f.secret))
}

// Parse validates a token string and returns its claims.
func (f *JwtFactory) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(f.secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !t.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}
