package tokenauth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the read side shared by both token shapes. The set of
// implementations is closed: AccessClaims and RefreshClaims.
type Claims interface {
	Subject() string
	TokenID() string
	IssuedAt() time.Time
	Expires() time.Time
}

// AccessClaims is the short lived authorization grant:
// {sub, jti, iat, exp}.
type AccessClaims struct {
	jwt.RegisteredClaims
}

var _ Claims = (*AccessClaims)(nil)
var _ jwt.Claims = (*AccessClaims)(nil)

// Subject returns the identity key the token asserts
func (c *AccessClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// TokenID returns the jti claim
func (c *AccessClaims) TokenID() string {
	return c.RegisteredClaims.ID
}

// IssuedAt returns the iat claim
func (c *AccessClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// Expires returns the exp claim
func (c *AccessClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// RefreshClaims is the refresh half of a pair:
// {sub, jti, iat, exp, prf, pex}.
//
// prf names the jti of the access token minted in the same issuance cycle and
// pex mirrors that token's expiry. Both are advisory: the link is asserted by
// co-signature, never checked against a store.
type RefreshClaims struct {
	jwt.RegisteredClaims
	AccessTokenID   string           `json:"prf"`
	AccessExpiresAt *jwt.NumericDate `json:"pex"`
}

var _ Claims = (*RefreshClaims)(nil)
var _ jwt.Claims = (*RefreshClaims)(nil)
var _ jwt.ClaimsValidator = (*RefreshClaims)(nil)

// Subject returns the identity key the token asserts
func (c *RefreshClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// TokenID returns the jti claim
func (c *RefreshClaims) TokenID() string {
	return c.RegisteredClaims.ID
}

// IssuedAt returns the iat claim
func (c *RefreshClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// Expires returns the exp claim
func (c *RefreshClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// AccessExpires returns the pex claim
func (c *RefreshClaims) AccessExpires() time.Time {
	if c.AccessExpiresAt != nil {
		return c.AccessExpiresAt.Time
	}
	return time.Time{}
}

// Validate runs during jwt.ParseWithClaims. A refresh payload without its
// sibling reference fields is the wrong claim shape, e.g. an access token
// presented to the refresh endpoint, and must fail decoding.
func (c *RefreshClaims) Validate() error {
	if c.AccessTokenID == "" || c.AccessExpiresAt == nil {
		return jwt.ErrTokenRequiredClaimMissing
	}
	return nil
}
