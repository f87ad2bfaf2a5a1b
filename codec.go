package tokenauth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenCodec signs and verifies claim sets against a single process wide
// HMAC-SHA256 secret. The secret is injected once at construction; decode
// never goes back to configuration or the environment.
type TokenCodec struct {
	signingKey []byte
	logger     Logger
}

// NewTokenCodec creates a new TokenCodec instance
func NewTokenCodec(signingKey []byte, logger Logger) *TokenCodec {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenCodec{
		signingKey: signingKey,
		logger:     logger,
	}
}

// SignClaims signs the given claims using the configured signing key. A
// failure here is a configuration level problem, surfaced as ErrTokenCreation.
func (tc *TokenCodec) SignClaims(claims jwt.Claims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(tc.signingKey)
	if err != nil {
		return "", errors.Wrap(err, ErrTokenCreation.Category, ErrTokenCreation.Message).
			WithTextCode(ErrTokenCreation.TextCode)
	}

	return signedString, nil
}

// DecodeAccess verifies signature and expiry and returns the access claims
func (tc *TokenCodec) DecodeAccess(tokenString string) (*AccessClaims, error) {
	return decodeClaims[AccessClaims](tc, tokenString)
}

// DecodeRefresh verifies signature and expiry and returns the refresh claims.
// A token without the prf/pex reference fields fails as malformed.
func (tc *TokenCodec) DecodeRefresh(tokenString string) (*RefreshClaims, error) {
	return decodeClaims[RefreshClaims](tc, tokenString)
}

// decodeClaims is the shared parse path for both claim shapes. Expiry is
// mandatory: a well signed token with no exp, or an elapsed one, never
// validates. Expired and malformed stay distinct internally; callers map both
// to one 401.
func decodeClaims[T any, PT interface {
	*T
	jwt.Claims
}](tc *TokenCodec, tokenString string) (PT, error) {
	claims := PT(new(T))

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			tc.logger.Error("TokenCodec decode encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return tc.signingKey, nil
	}, jwt.WithExpirationRequired())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	if !token.Valid {
		tc.logger.Error("TokenCodec decode could not validate claims")
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
