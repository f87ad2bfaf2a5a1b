package tokenauth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// ErrMissingCredentials is returned when a protected request carries no token
// in either the access_token cookie or the Authorization header.
var ErrMissingCredentials = errors.New("You are not logged in, please provide token", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("MISSING_CREDENTIALS")

// ErrTokenExpired is a well signed token whose exp has elapsed. Kept distinct
// from ErrTokenMalformed for logs and metrics; both surface the same 401.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("TOKEN_EXPIRED")

// ErrTokenMalformed covers bad signature, bad structure, wrong claim shape,
// and algorithm mismatch.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("TOKEN_MALFORMED")

// ErrIdentityNotFound is the error we return for non found identities. It maps
// to the same 401 as every other auth failure so callers cannot probe which
// subjects exist.
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("IDENTITY_NOT_FOUND")

// ErrMismatchedHashAndPassword is returned when credentials do not verify
var ErrMismatchedHashAndPassword = errors.New("invalid credentials provided", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("WRONG_CREDENTIALS")

// ErrTooManyLoginAttempts is returned when a user exceeds the allowed number
// of failed logins inside the cool down window
var ErrTooManyLoginAttempts = errors.New("max number of login attempts, try later", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("TOO_MANY_ATTEMPTS")

// ErrTokenCreation means signing failed during issuance. This is a
// configuration level failure, fatal for the request and never retried.
var ErrTokenCreation = errors.New("failed to create token", errors.CategoryInternal).
	WithCode(errors.CodeInternal).
	WithTextCode("TOKEN_CREATION")

// ErrHashingFailed means the hashing primitive itself failed, not that the
// input was wrong.
var ErrHashingFailed = errors.New("failed to hash credentials", errors.CategoryInternal).
	WithCode(errors.CodeInternal).
	WithTextCode("HASHING_FAILED")

// ErrNoEmptyString rejects empty passwords before they reach bcrypt
var ErrNoEmptyString = errors.New("value should not be an empty string", errors.CategoryValidation).
	WithTextCode("EMPTY_STRING")

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenExpired) ||
		strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenMalformed) ||
		strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed token")
}

// IsAuthError reports whether err belongs to the 401 family.
func IsAuthError(err error) bool {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.Category == errors.CategoryAuth || richErr.Category == errors.CategoryAuthz
}
