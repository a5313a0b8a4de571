package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fivetwenty-io/ghostctl/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrCredentialRequired = errors.New("credential is required")
	ErrKeyIDMismatch      = errors.New("token kid does not match credential")
	ErrMissingKeyID       = errors.New("token header has no kid")
)

// Generator signs admin tokens for a single credential.
type Generator struct {
	credential *Credential
	ttl        time.Duration
	audience   string
	scheme     string
	now        func() time.Time
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithClock replaces the time source used for iat and exp.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		g.now = now
	}
}

// WithTTL overrides the token lifetime.
func WithTTL(ttl time.Duration) GeneratorOption {
	return func(g *Generator) {
		if ttl > 0 {
			g.ttl = ttl
		}
	}
}

// WithScheme sets the Authorization scheme recorded as the token type. Empty keeps Bearer.
func WithScheme(scheme string) GeneratorOption {
	return func(g *Generator) {
		if scheme != "" {
			g.scheme = scheme
		}
	}
}

// NewGenerator creates a token generator for credential.
func NewGenerator(credential *Credential, opts ...GeneratorOption) *Generator {
	generator := &Generator{
		credential: credential,
		ttl:        constants.TokenTTL,
		audience:   constants.TokenAudience,
		scheme:     constants.AuthSchemeBearer,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(generator)
	}

	return generator
}

// KeyID returns the identifier embedded in every token header.
func (g *Generator) KeyID() string {
	return g.credential.ID()
}

// Now returns the generator's current time.
func (g *Generator) Now() time.Time {
	return g.now()
}

// Generate signs a new HS256 token valid for the configured TTL.
func (g *Generator) Generate() (*Token, error) {
	if g.credential == nil {
		return nil, ErrCredentialRequired
	}

	// NumericDate has second precision, so exp - iat stays exactly ttl.
	issuedAt := g.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(g.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": g.credential.ID(),
		"iat": issuedAt.Unix(),
		"exp": expiresAt.Unix(),
		"aud": g.audience,
	})
	token.Header["kid"] = g.credential.ID()

	signed, err := token.SignedString(g.credential.signingKey())
	if err != nil {
		return nil, fmt.Errorf("signing admin token: %w", err)
	}

	return &Token{
		AccessToken: signed,
		TokenType:   g.scheme,
		KeyID:       g.credential.ID(),
		IssuedAt:    issuedAt,
		ExpiresAt:   expiresAt,
	}, nil
}

// Claims is the verified content of an admin token.
type Claims struct {
	KeyID     string
	Issuer    string
	Audience  []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Verify checks signature, kid, audience and expiry of an admin token against credential.
func Verify(tokenString string, credential *Credential, now time.Time) (*Claims, error) {
	if credential == nil {
		return nil, ErrCredentialRequired
	}

	claims := jwt.MapClaims{}

	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		kid, ok := token.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, ErrMissingKeyID
		}

		if kid != credential.ID() {
			return nil, fmt.Errorf("%w: %s", ErrKeyIDMismatch, kid)
		}

		return credential.signingKey(), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(constants.TokenAudience),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return nil, fmt.Errorf("verifying admin token: %w", err)
	}

	return claimsOf(parsed, claims), nil
}

// Inspect decodes an admin token without verifying its signature.
// It is used for display only and never returns the signature.
func Inspect(tokenString string) (*Claims, error) {
	claims := jwt.MapClaims{}

	parsed, _, err := jwt.NewParser().ParseUnverified(tokenString, claims)
	if err != nil {
		return nil, fmt.Errorf("decoding admin token: %w", err)
	}

	return claimsOf(parsed, claims), nil
}

func claimsOf(parsed *jwt.Token, claims jwt.MapClaims) *Claims {
	result := &Claims{}
	result.KeyID, _ = parsed.Header["kid"].(string)
	result.Issuer, _ = claims.GetIssuer()
	result.Audience, _ = claims.GetAudience()

	if issuedAt, _ := claims.GetIssuedAt(); issuedAt != nil {
		result.IssuedAt = issuedAt.Time
	}

	if expiresAt, _ := claims.GetExpirationTime(); expiresAt != nil {
		result.ExpiresAt = expiresAt.Time
	}

	return result
}
