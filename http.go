package tokenauth

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-tokenauth/middleware/tokenware"
)

// Cookie names shared between the login, refresh, and logout handlers and the
// request gate. logged_in is the only one readable by page scripts; it carries
// no token material.
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
	LoggedInCookie     = "logged_in"
)

// DefaultBypassRoutes are forwarded without token checks when the Config does
// not provide its own list. Prefix match, see routeFilter.
var DefaultBypassRoutes = []string{
	"/api/healthchecker",
	"/api/auth/",
}

type RouteAuthenticator struct {
	auth             Authenticator
	cfg              Config
	Logger           Logger
	AuthErrorHandler func(c router.Context, err error) error
	ErrorHandler     func(c router.Context, err error) error
}

var _ HTTPAuthenticator = (*RouteAuthenticator)(nil)

func NewHTTPAuthenticator(auther Authenticator, cfg Config) (*RouteAuthenticator, error) {
	a := &RouteAuthenticator{
		cfg:    cfg,
		auth:   auther,
		Logger: defLogger{},
	}

	a.ErrorHandler = a.defaultErrHandler
	a.AuthErrorHandler = a.defaultAuthErrHandler

	return a, nil
}

// ProtectedRoute builds the request gate for authenticated endpoints. Paths in
// cfg.GetBypassRoutes are forwarded untouched; everything else must present a
// valid access token that resolves to a live identity.
func (a *RouteAuthenticator) ProtectedRoute(cfg Config, errorHandler func(router.Context, error) error) router.MiddlewareFunc {
	return tokenware.New(tokenware.Config{
		Filter:       routeFilter(cfg.GetBypassRoutes()),
		ErrorHandler: errorHandler,
		Decoder: tokenware.TokenDecoderFunc(func(tokenString string) (tokenware.Claims, error) {
			claims, err := a.auth.DecodeAccess(tokenString)
			if err != nil {
				return nil, err
			}
			return claims, nil
		}),
		Resolver: tokenware.IdentityResolverFunc(func(ctx context.Context, subject string) (tokenware.Identity, error) {
			identity, err := a.auth.ResolveSubject(ctx, subject)
			if err != nil {
				return nil, err
			}
			return identity, nil
		}),
		AuthScheme:  cfg.GetAuthScheme(),
		ContextKey:  cfg.GetContextKey(),
		TokenLookup: cfg.GetTokenLookup(),
		ContextEnricher: func(ctx context.Context, identity tokenware.Identity, claims tokenware.Claims) context.Context {
			if id, ok := identity.(Identity); ok {
				ctx = WithIdentityContext(ctx, id)
			}
			if cl, ok := claims.(Claims); ok {
				ctx = WithClaimsContext(ctx, cl)
			}
			return ctx
		},
	})
}

// Login verifies the payload credentials and, on success, mints a fresh pair
// and sets the session cookies.
func (a *RouteAuthenticator) Login(ctx router.Context, payload LoginPayload) (*TokenPair, error) {
	pair, err := a.auth.Login(ctx.Context(), payload.GetIdentifier(), payload.GetPassword())
	if err != nil {
		a.Logger.Error("Login error: %s", err)
		return nil, err
	}

	a.SetTokenCookies(ctx, pair)
	return pair, nil
}

// Refresh exchanges a refresh token for a brand new pair and resets the
// session cookies.
func (a *RouteAuthenticator) Refresh(ctx router.Context, refreshToken string) (*TokenPair, error) {
	pair, err := a.auth.Refresh(ctx.Context(), refreshToken)
	if err != nil {
		a.Logger.Error("Refresh error: %s", err)
		return nil, err
	}

	a.SetTokenCookies(ctx, pair)
	return pair, nil
}

// Logout expires the access token cookie. The refresh token cookie ages out
// on its own; with no server side session there is nothing else to revoke.
func (a *RouteAuthenticator) Logout(ctx router.Context) {
	a.cookieDel(ctx, AccessTokenCookie)
}

// SetTokenCookies writes the pair to the access_token and refresh_token
// cookies plus the script readable logged_in marker.
func (a *RouteAuthenticator) SetTokenCookies(c router.Context, pair *TokenPair) {
	accessExpires := time.Now().Add(a.cookieDuration())

	c.Cookie(&router.Cookie{
		Name:     AccessTokenCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		Expires:  accessExpires,
		HTTPOnly: true,
		SameSite: "Lax",
	})

	c.Cookie(&router.Cookie{
		Name:     RefreshTokenCookie,
		Value:    pair.RefreshToken,
		Path:     "/",
		Expires:  time.Now().Add(a.refreshCookieDuration()),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	c.Cookie(&router.Cookie{
		Name:     LoggedInCookie,
		Value:    "true",
		Path:     "/",
		Expires:  accessExpires,
		HTTPOnly: false,
		SameSite: "Lax",
	})
}

func (a *RouteAuthenticator) cookieDuration() time.Duration {
	if d := a.cfg.GetAccessTokenTTL(); d > 0 {
		return d
	}
	return DefaultTokenTTL
}

func (a *RouteAuthenticator) refreshCookieDuration() time.Duration {
	if d := a.cfg.GetRefreshTokenTTL(); d > 0 {
		return d
	}
	return a.cookieDuration()
}

// MakeClientRouteAuthErrorHandler normalizes middleware failures into the
// auth error family before handing them to the configured handler. When
// optional is true the request proceeds unauthenticated instead.
func (a *RouteAuthenticator) MakeClientRouteAuthErrorHandler(optional bool) func(router.Context, error) error {
	return func(ctx router.Context, err error) error {
		var richErr *errors.Error

		if IsTokenExpiredError(err) {
			richErr = ErrTokenExpired
		} else if IsMalformedError(err) {
			richErr = ErrTokenMalformed
		} else if errors.As(err, &richErr) && richErr.Category == errors.CategoryAuth {
			// keep as is
		} else {
			richErr = errors.Wrap(err, errors.CategoryAuth, "Invalid authentication token").
				WithCode(errors.CodeUnauthorized)
		}

		if optional {
			a.Logger.Info("Optional auth failed, proceeding", "error", richErr.Message)
			return ctx.Next()
		}

		return a.ErrorHandler(ctx, richErr)
	}
}

func (a *RouteAuthenticator) cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// authFailureMessage keeps the two user-visible 401 bodies apart: a request
// that never presented a token is told to log in, everything else gets the
// generic invalid-token message regardless of which check rejected it.
func authFailureMessage(err error) string {
	if errors.Is(err, ErrMissingCredentials) || errors.Is(err, tokenware.ErrMissingToken) {
		return ErrMissingCredentials.Message
	}
	return "Invalid token"
}

// defaultAuthErrHandler is the JSON 401 for API clients. Beyond the
// missing-token hint, the body does not reveal which check rejected the
// request.
func (a *RouteAuthenticator) defaultAuthErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryAuth, "An unexpected authentication error").
			WithCode(errors.CodeUnauthorized)
	}

	a.Logger.Info(
		"Authentication error",
		"error", richErr.Message,
		"text_code", richErr.TextCode,
		"path", c.Path(),
	)

	return c.JSON(router.StatusUnauthorized, map[string]any{
		"status":  "fail",
		"message": authFailureMessage(err),
	})
}

func (a *RouteAuthenticator) defaultErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	a.Logger.Info(
		"Middleware error handler",
		"error", richErr.Message,
		"category", richErr.Category,
		"details", print.MaybePrettyJSON(richErr.Metadata),
	)

	switch richErr.Category {
	case errors.CategoryAuth, errors.CategoryAuthz:
		return a.AuthErrorHandler(c, richErr)
	default:
		return c.JSON(statusForError(richErr), map[string]any{
			"status":  "error",
			"message": richErr.Message,
		})
	}
}

// statusForError maps an error category to an HTTP status code
func statusForError(err *errors.Error) int {
	switch err.Category {
	case errors.CategoryAuth, errors.CategoryAuthz:
		return router.StatusUnauthorized
	case errors.CategoryBadInput, errors.CategoryValidation:
		return router.StatusBadRequest
	case errors.CategoryConflict:
		return fiber.StatusConflict
	default:
		if err.Code > 0 {
			return err.Code
		}
		return fiber.StatusInternalServerError
	}
}

// routeFilter returns a bypass predicate over the given path prefixes
func routeFilter(bypass []string) func(router.Context) bool {
	if len(bypass) == 0 {
		bypass = DefaultBypassRoutes
	}
	return func(c router.Context) bool {
		path := c.Path()
		for _, prefix := range bypass {
			if strings.HasPrefix(path, prefix) {
				return true
			}
		}
		return false
	}
}
