package utils // package utils provides helpers for signing and reading session tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
	"github.com/google/uuid"       // random token ids (jti)
)

// ErrInvalidToken is returned for any token that fails signature, expiry
// or claim checks.  Callers never need to tell those cases apart.
var ErrInvalidToken = errors.New("invalid session token")

// SessionToken is a signed HS256 JWT together with the values it carries.
type SessionToken struct {
	Token string    // the serialized JWT string
	ID    string    // jti claim, unique per login
	Exp   time.Time // UTC expiration time
}

// SessionClaims are the claims read back from a verified token.
type SessionClaims struct {
	Email string
	Role  string
	ID    string
	Exp   time.Time
}

// NewSessionToken signs a token whose subject is the user's email.  The
// claims are sub, role, jti, exp and iat.
func NewSessionToken(secret, email, role string, ttl time.Duration, now time.Time) (SessionToken, error) {
	exp := now.UTC().Add(ttl)
	id := uuid.NewString()
	claims := jwt.MapClaims{
		"sub":  email,
		"role": role,
		"jti":  id,
		"exp":  exp.Unix(),
		"iat":  now.UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, ID: id, Exp: exp}, nil
}

// ParseSessionToken verifies raw with secret and returns its claims.
// Only HMAC signatures are accepted.
func ParseSessionToken(secret, raw string) (SessionClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return SessionClaims{}, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return SessionClaims{}, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	jti, _ := claims["jti"].(string)
	if sub == "" || role == "" {
		return SessionClaims{}, ErrInvalidToken
	}
	out := SessionClaims{Email: sub, Role: role, ID: jti}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.Exp = exp.Time.UTC()
	}
	return out, nil
}
