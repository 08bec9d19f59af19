package util

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// TokenKind separates the three kinds of token the service signs with one key.
// A token of one kind never verifies as another.
type TokenKind string

const (
	TokenAccess       TokenKind = "access"
	TokenResetCode    TokenKind = "reset_code"
	TokenResetSession TokenKind = "reset_session"
)

// Claims is the signed payload. The subject is the username, UserID pins the
// token to one account row so a freed username cannot be reused by it.
type Claims struct {
	Kind   TokenKind `json:"typ"`
	UserID uuid.UUID `json:"uid"`
	jwt.RegisteredClaims
}

// Username returns the subject of the token.
func (c *Claims) Username() string {
	return c.Subject
}

// TokenIssuer mints and verifies HMAC signed tokens. It holds no state besides
// its configuration and is safe for concurrent use.
type TokenIssuer struct {
	secret []byte
	method jwt.SigningMethod
	ttl    map[TokenKind]time.Duration
	now    func() time.Time
}

// TokenTTLs lists the lifetime of each token kind.
type TokenTTLs struct {
	Access       time.Duration
	ResetCode    time.Duration
	ResetSession time.Duration
}

// NewTokenIssuer builds an issuer for one of HS256, HS384 or HS512.
func NewTokenIssuer(secret, algorithm string, ttls TokenTTLs) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	var method jwt.SigningMethod
	switch algorithm {
	case "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}

	return &TokenIssuer{
		secret: []byte(secret),
		method: method,
		ttl: map[TokenKind]time.Duration{
			TokenAccess:       ttls.Access,
			TokenResetCode:    ttls.ResetCode,
			TokenResetSession: ttls.ResetSession,
		},
		now: time.Now,
	}, nil
}

// TTL returns the configured lifetime for kind.
func (i *TokenIssuer) TTL(kind TokenKind) time.Duration {
	return i.ttl[kind]
}

// Issue signs a token of the given kind for the user and returns it with its expiry.
func (i *TokenIssuer) Issue(userID uuid.UUID, username string, kind TokenKind) (string, time.Time, error) {
	ttl, ok := i.ttl[kind]
	if !ok {
		return "", time.Time{}, fmt.Errorf("unknown token kind %q", kind)
	}

	now := i.now()
	expiresAt := now.Add(ttl)
	claims := Claims{
		Kind:   kind,
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify checks signature, expiry and kind. Expiry is reported as
// ErrExpiredToken, everything else as ErrInvalidToken.
func (i *TokenIssuer) Verify(tokenString string, kind TokenKind) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{i.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Kind != kind || claims.Subject == "" || claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
