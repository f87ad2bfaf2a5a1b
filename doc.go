// Package tokenauth provides stateless paired-token authentication: bcrypt
// credential hashing, HS256 signing and verification of linked access/refresh
// claim pairs, and an HTTP middleware that gates requests against an injected
// identity store.
//
// Token pairs:
//   - TokenIssuer mints one access token and one refresh token per issuance
//     cycle. The refresh token carries the access token's jti (prf) and expiry
//     (pex) so the pair can be correlated without any server side state.
//   - TokenCodec verifies signature and expiry only; tokens are never stored
//     and never revoked before their exp elapses.
//
// Identity resolution:
//   - IdentityProvider abstracts the user store. UserProvider is the bundled
//     Bun-backed implementation, but the middleware and Auther only ever see
//     the interface, so any storage technology can back it.
//
// Request gating:
//   - middleware/tokenware extracts a candidate token from the access_token
//     cookie or the Authorization header, decodes it, resolves the subject to
//     a live identity, and attaches that identity to the request context.
//     Every failure along the way collapses into the same 401 response so
//     callers cannot probe which check rejected them.
package tokenauth
