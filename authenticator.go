package tokenauth

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Auther orchestrates credential verification and pair issuance against an
// injected identity store.
type Auther struct {
	provider IdentityProvider
	codec    *TokenCodec
	issuer   *TokenIssuer
	logger   Logger
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, cfg Config) *Auther {
	codec := NewTokenCodec([]byte(cfg.GetSigningKey()), defLogger{})

	return &Auther{
		provider: provider,
		codec:    codec,
		issuer:   NewTokenIssuer(codec, cfg.GetAccessTokenTTL(), cfg.GetRefreshTokenTTL(), defLogger{}),
		logger:   defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Codec returns the TokenCodec used by this Authenticator
func (s *Auther) Codec() *TokenCodec {
	return s.codec
}

// Issuer returns the TokenIssuer used by this Authenticator
func (s *Auther) Issuer() *TokenIssuer {
	return s.issuer
}

// Login verifies the credentials against the identity store and, on success,
// mints a fresh token pair. Wrong identifier and wrong password are not
// distinguishable from the returned error.
func (s *Auther) Login(ctx context.Context, identifier, password string) (*TokenPair, error) {
	identity, err := s.provider.VerifyIdentity(ctx, identifier, password)
	if err != nil {
		s.logger.Error("Login verify identity error", "error", err)
		return nil, err
	}

	pair, err := s.issuer.Generate(identity)
	if err != nil {
		s.logger.Error("Login token generation error", "error", err)
		return nil, err
	}

	return pair, nil
}

// Refresh validates a refresh token, re-resolves the subject against the
// identity store, and mints a brand new pair. The old pair is not revoked;
// it simply ages out.
func (s *Auther) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.codec.DecodeRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	identity, err := s.ResolveSubject(ctx, claims.Subject())
	if err != nil {
		return nil, err
	}

	return s.issuer.Generate(identity)
}

// DecodeAccess delegates to the codec
func (s *Auther) DecodeAccess(tokenString string) (*AccessClaims, error) {
	return s.codec.DecodeAccess(tokenString)
}

// ResolveSubject parses a token subject as an identity key and looks it up in
// the store. A malformed subject, a missing identity, and a store error all
// collapse into unauthorized; we never leak which one happened.
func (s *Auther) ResolveSubject(ctx context.Context, subject string) (Identity, error) {
	id, err := uuid.Parse(subject)
	if err != nil {
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	identity, err := s.provider.FindIdentityByID(ctx, id)
	if err != nil {
		s.logger.Error("ResolveSubject lookup error", "error", err, "subject", subject)
		return nil, ErrIdentityNotFound
	}

	if identity == nil {
		return nil, ErrIdentityNotFound
	}

	return identity, nil
}
