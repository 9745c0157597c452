package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session credentials are HS256-signed claim sets issued at login.
// There is no refresh mechanism; expiry forces re-login.

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

const DefaultTTL = 7 * 24 * time.Hour

// Claims is the claim set embedded in a session credential.
// Only the subject is trusted for authorization; name, email and role are
// carried for client convenience and re-resolved server-side per request.
type Claims struct {
	UserID string
	Name   string
	Email  string
	Role   string
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Codec struct {
	secret []byte
	ttl    time.Duration
}

func NewCodec(secret string, ttl time.Duration) (Codec, error) {
	if strings.TrimSpace(secret) == "" {
		return Codec{}, errors.New("token secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return Codec{secret: []byte(secret), ttl: ttl}, nil
}

func (c Codec) TTL() time.Duration {
	return c.ttl
}

func (c Codec) Issue(claims Claims, now time.Time) (string, error) {
	if strings.TrimSpace(claims.UserID) == "" || strings.TrimSpace(claims.Email) == "" {
		return "", ErrTokenInvalid
	}
	now = now.UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Name:  claims.Name,
		Email: claims.Email,
		Role:  claims.Role,
	})
	return token.SignedString(c.secret)
}

func (c Codec) Verify(raw string, now time.Time) (Claims, error) {
	if strings.TrimSpace(raw) == "" {
		return Claims{}, ErrTokenInvalid
	}

	var parsed sessionClaims
	_, err := jwt.ParseWithClaims(raw, &parsed,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now.UTC() }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if strings.TrimSpace(parsed.Subject) == "" {
		return Claims{}, ErrTokenInvalid
	}

	return Claims{
		UserID: parsed.Subject,
		Name:   parsed.Name,
		Email:  parsed.Email,
		Role:   parsed.Role,
	}, nil
}
