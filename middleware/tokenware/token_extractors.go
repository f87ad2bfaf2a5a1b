package tokenware

import (
	"strings"

	"github.com/goliatone/go-router"
)

// TokenExtractor pulls a candidate token out of one request location
type TokenExtractor func(c router.Context) (string, error)

// ExtractRawTokenFromContext tries each extractor in order and keeps the first
// non empty hit. The last error wins when nothing matched.
func ExtractRawTokenFromContext(ctx router.Context, extractors []TokenExtractor) (string, error) {
	var raw string
	var err error

	for _, extractor := range extractors {
		raw, err = extractor(ctx)
		if raw != "" && err == nil {
			break
		}
	}

	return raw, err
}

// GetExtractors parses a lookup string of the form
// "cookie:access_token,header:Authorization,query:token" into extractors,
// preserving order.
func GetExtractors(tokenLookup string, authSchemes ...string) []TokenExtractor {
	extractors := make([]TokenExtractor, 0)

	authScheme := "Bearer"
	if len(authSchemes) > 0 {
		authScheme = authSchemes[0]
	}

	rootParts := strings.Split(tokenLookup, ",")
	for _, rootPart := range rootParts {
		//header:Authorization
		parts := strings.Split(strings.TrimSpace(rootPart), ":")
		if len(parts) != 2 {
			continue
		}

		for i, el := range parts {
			parts[i] = strings.TrimSpace(el)
		}

		switch parts[0] {
		case "header":
			extractors = append(extractors, tokenFromHeader(parts[1], authScheme))
		case "query":
			extractors = append(extractors, tokenFromQuery(parts[1]))
		case "cookie":
			extractors = append(extractors, tokenFromCookie(parts[1]))
		}
	}

	return extractors
}

// tokenFromHeader returns a function that extracts a token from the request
// header. A "Bearer " prefix is stripped when the scheme matches; any other
// value is handed over raw and left for decoding to reject.
func tokenFromHeader(header string, authScheme string) TokenExtractor {
	return func(c router.Context) (string, error) {
		a := c.GetString(header, "")
		if a == "" {
			return "", ErrMissingToken
		}
		authScheme = strings.TrimSpace(authScheme)
		l := len(authScheme)
		if l > 0 && len(a) > l+1 && strings.EqualFold(a[:l], authScheme) {
			return strings.TrimSpace(a[l:]), nil
		}
		return a, nil
	}
}

// tokenFromQuery returns a function that extracts a token from the query string.
func tokenFromQuery(param string) TokenExtractor {
	return func(c router.Context) (string, error) {
		token := c.Query(param, "")
		if token == "" {
			return "", ErrMissingToken
		}
		return token, nil
	}
}

// tokenFromCookie returns a function that extracts a token from the named cookie.
func tokenFromCookie(name string) TokenExtractor {
	return func(c router.Context) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", ErrMissingToken
		}
		return token, nil
	}
}
