package tokenauth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// DefaultTokenTTL is used when a lifetime is not configured. The source
// system issues both halves of the pair with this same duration; callers that
// want a longer lived refresh token set GetRefreshTokenTTL independently.
const DefaultTokenTTL = time.Hour

// TokenPair is the product of one issuance cycle. It is built atomically:
// either both tokens signed or the call failed.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenIssuer mints linked access/refresh pairs. Generate is a pure function
// of (identity, now, TTLs, secret) plus the entropy consumed for jti values;
// it performs no I/O and holds no mutable state.
type TokenIssuer struct {
	codec      *TokenCodec
	accessTTL  time.Duration
	refreshTTL time.Duration
	nowFn      func() time.Time
	logger     Logger
}

// NewTokenIssuer creates a new TokenIssuer instance
func NewTokenIssuer(codec *TokenCodec, accessTTL, refreshTTL time.Duration, logger Logger) *TokenIssuer {
	if accessTTL <= 0 {
		accessTTL = DefaultTokenTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = accessTTL
	}
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenIssuer{
		codec:      codec,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		nowFn:      time.Now,
		logger:     logger,
	}
}

// WithTimeFunc overrides the clock, mostly for tests
func (ti *TokenIssuer) WithTimeFunc(now func() time.Time) *TokenIssuer {
	if now != nil {
		ti.nowFn = now
	}
	return ti
}

// AccessTokenTTL returns the configured access token lifetime
func (ti *TokenIssuer) AccessTokenTTL() time.Duration {
	return ti.accessTTL
}

// RefreshTokenTTL returns the configured refresh token lifetime
func (ti *TokenIssuer) RefreshTokenTTL() time.Duration {
	return ti.refreshTTL
}

// Generate mints a linked access+refresh pair for the identity. Each token
// gets a fresh random jti; the refresh claims reference the access token's
// jti (prf) and expiry (pex) from this same call.
func (ti *TokenIssuer) Generate(identity Identity) (*TokenPair, error) {
	if identity == nil {
		return nil, errors.New("identity is required", errors.CategoryBadInput)
	}

	now := ti.nowFn()
	sub := identity.ID()

	accessTokenID := uuid.NewString()
	refreshTokenID := uuid.NewString()
	accessExpiresAt := jwt.NewNumericDate(now.Add(ti.accessTTL))

	accessClaims := &AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ID:        accessTokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: accessExpiresAt,
		},
	}

	refreshClaims := &RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ID:        refreshTokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.refreshTTL)),
		},
		AccessTokenID:   accessTokenID,
		AccessExpiresAt: accessExpiresAt,
	}

	accessToken, err := ti.codec.SignClaims(accessClaims)
	if err != nil {
		ti.logger.Error("TokenIssuer failed to sign access claims", "error", err)
		return nil, err
	}

	refreshToken, err := ti.codec.SignClaims(refreshClaims)
	if err != nil {
		ti.logger.Error("TokenIssuer failed to sign refresh claims", "error", err)
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
