package tokenauth

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of a resolved principal. Implementations are
// owned by the identity store; the auth core only ever reads from them.
type Identity interface {
	ID() string
	Username() string
	Email() string
}

// IdentityProvider ensures we have a store to retrieve auth identities
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error)
	FindIdentityByID(ctx context.Context, id uuid.UUID) (Identity, error)
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	DecodeAccess(tokenString string) (*AccessClaims, error)
	ResolveSubject(ctx context.Context, subject string) (Identity, error)
}

type LoginPayload interface {
	GetIdentifier() string
	GetPassword() string
}

type Middleware interface {
	ProtectedRoute(cfg Config, errorHandler func(router.Context, error) error) router.MiddlewareFunc
}

type HTTPAuthenticator interface {
	Middleware
	Login(c router.Context, payload LoginPayload) (*TokenPair, error)
	Refresh(c router.Context, refreshToken string) (*TokenPair, error)
	Logout(c router.Context)
	SetTokenCookies(c router.Context, pair *TokenPair)
}

// Config holds auth options. The implementation is expected to be constructed
// once at process start and shared by reference; nothing in this package
// re-reads the environment after construction.
type Config interface {
	GetSigningKey() string
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
	GetContextKey() string
	GetTokenLookup() string
	GetAuthScheme() string
	GetBypassRoutes() []string
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
