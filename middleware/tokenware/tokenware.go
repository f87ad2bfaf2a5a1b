package tokenware

import (
	"context"
	"errors"

	"github.com/goliatone/go-router"
)

var (
	defaultTokenLookup = "cookie:access_token,header:" + router.HeaderAuthorization

	// ErrMissingToken means no candidate token was found in any configured
	// location. Distinct from a decode failure for observability, identical
	// to it for the client.
	ErrMissingToken = errors.New("missing or malformed token")
)

// Claims mirrors the claim accessors from the tokenauth package so this
// middleware has no import cycle with it
type Claims interface {
	Subject() string
	TokenID() string
}

// TokenDecoder validates a raw access token and returns its claims
type TokenDecoder interface {
	DecodeToken(tokenString string) (Claims, error)
}

// TokenDecoderFunc adapts a function into a TokenDecoder
type TokenDecoderFunc func(tokenString string) (Claims, error)

func (f TokenDecoderFunc) DecodeToken(tokenString string) (Claims, error) {
	return f(tokenString)
}

// Identity mirrors the resolved principal from the tokenauth package
type Identity interface {
	ID() string
}

// IdentityResolver resolves a token subject to a live identity. Implementations
// own the storage access; the middleware never holds a lock across this call.
type IdentityResolver interface {
	ResolveSubject(ctx context.Context, subject string) (Identity, error)
}

// IdentityResolverFunc adapts a function into an IdentityResolver
type IdentityResolverFunc func(ctx context.Context, subject string) (Identity, error)

func (f IdentityResolverFunc) ResolveSubject(ctx context.Context, subject string) (Identity, error) {
	return f(ctx, subject)
}

type Config struct {
	// Filter short-circuits the middleware: when it returns true the request
	// is forwarded without any token work. Used for the unauthenticated
	// allow-list (health check, the auth endpoints themselves).
	Filter         func(router.Context) bool
	SuccessHandler router.HandlerFunc
	ErrorHandler   router.ErrorHandler
	// Decoder is required for token validation
	Decoder TokenDecoder
	// Resolver is required to map a validated subject to a live identity
	Resolver    IdentityResolver
	ContextKey  string
	TokenLookup string
	AuthScheme  string

	// ContextEnricher is an optional function to propagate the identity and
	// claims to the standard Go context. If provided, it will be called after
	// the identity has been resolved.
	ContextEnricher func(c context.Context, identity Identity, claims Claims) context.Context
}

// New builds the per request gate. Order matters and short-circuits on the
// first failure: bypass filter, extraction, validation, identity resolution,
// attach and forward. Every failure is terminal for the request.
func New(config ...Config) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		cfg := GetDefaultConfig(config...)
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			raw, err := ExtractRawTokenFromContext(ctx, cfg.getExtractors())
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			claims, err := cfg.Decoder.DecodeToken(raw)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			identity, err := cfg.Resolver.ResolveSubject(ctx.Context(), claims.Subject())
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			ctx.Locals(cfg.ContextKey, identity)

			// if a context enricher we use it to propagate the identity to the standard context
			if cfg.ContextEnricher != nil {
				stdCtx := ctx.Context()
				ctx.SetContext(cfg.ContextEnricher(stdCtx, identity, claims))
			}

			return cfg.SuccessHandler(ctx)
		}
	}
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(ctx router.Context) error {
			return ctx.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = defaultErrorHandler
	}

	if cfg.Decoder == nil {
		panic("AUTH: tokenware middleware configuration: Decoder is required.")
	}

	if cfg.Resolver == nil {
		panic("AUTH: tokenware middleware configuration: Resolver is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "identity"
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	return cfg
}

// defaultErrorHandler keeps the response shape identical for every failure
// cause: the client learns it is not authorized, not which check failed.
func defaultErrorHandler(c router.Context, err error) error {
	message := "Invalid token"
	if errors.Is(err, ErrMissingToken) {
		message = "You are not logged in, please provide token"
	}
	return c.JSON(router.StatusUnauthorized, map[string]any{
		"status":  "fail",
		"message": message,
	})
}

func (cfg *Config) getExtractors() []TokenExtractor {
	return GetExtractors(cfg.TokenLookup, cfg.AuthScheme)
}
