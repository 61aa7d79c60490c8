package transport

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// DefaultTokenTTL is how long a session token stays valid when no TTL is
// configured.
const DefaultTokenTTL = 30 * time.Minute

// TokenIssuerName is the issuer claim of session tokens.
const TokenIssuerName = "uisync"

// ErrInvalidToken is returned for tokens that are malformed, expired, or
// signed with another secret.
var ErrInvalidToken = errors.New("invalid session token")

// TokenIssuer signs and verifies the HS256 tokens a client presents to get
// back to its session after a reconnect. The token subject is the session id.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates an issuer. A ttl of zero or less uses DefaultTokenTTL.
func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("transport: token secret is empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL returns how long issued tokens stay valid.
func (ti *TokenIssuer) TTL() time.Duration {
	return ti.ttl
}

// Issue returns a token for sessionID.
func (ti *TokenIssuer) Issue(sessionID string) (string, error) {
	now := ti.now()
	claims := gojwt.RegisteredClaims{
		Issuer:    TokenIssuerName,
		Subject:   sessionID,
		ID:        ulid.Make().String(),
		IssuedAt:  gojwt.NewNumericDate(now),
		ExpiresAt: gojwt.NewNumericDate(now.Add(ti.ttl)),
	}
	return gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(ti.secret)
}

// Verify checks token and returns the session id it was issued for.
func (ti *TokenIssuer) Verify(token string) (string, error) {
	var claims gojwt.RegisteredClaims
	_, err := gojwt.ParseWithClaims(token, &claims,
		func(*gojwt.Token) (any, error) { return ti.secret, nil },
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithIssuer(TokenIssuerName),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(ti.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: no session", ErrInvalidToken)
	}
	return claims.Subject, nil
}
