// Package jwt issues and verifies the HS512 session tokens handed out after a
// completed sign-in, and carries verified claims through a request context.
package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrSigningKeyTooShort = errors.New("jwt: HS512 key must be at least 64 bytes")
	ErrTokenExpired       = errors.New("jwt: token has expired")
	ErrInvalidToken       = errors.New("jwt: invalid token")
)

type JWT interface {
	Generate(uid int64, email string) (string, error)
	Verify(token string) (Claims, error)
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

type Config struct {
	Secret    []byte
	Issuer    string
	Audiences []string
	// TTL is how long an issued token stays valid.
	TTL   time.Duration
	Clock clocker
	// UUID fills the jti claim.
	UUID generator
}

// Claims are the registered claims plus the signed-in user.
type Claims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"user_id,string"`
	UserEmail string `json:"user_email"`
}

type ctxKey struct{}

// GetAuth returns the claims put on ctx by SetAuth, or nil.
func GetAuth(ctx context.Context) *Claims {
	clm, ok := ctx.Value(ctxKey{}).(Claims)
	if !ok {
		return nil
	}
	return &clm
}

func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, clm)
}
