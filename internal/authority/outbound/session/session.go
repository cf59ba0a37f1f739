package session

import (
	"context"
	"net/http"
	"time"

	"github.com/shandysiswandi/twostep/internal/pkg/cookie"
)

// CookieSuffix is appended to the deployment cookie prefix.
const CookieSuffix = ".session_token"

// CookieName returns the session cookie name for prefix.
func CookieName(prefix string) string {
	return prefix + CookieSuffix
}

// Cookie writes the signed-in session token to the client.
type Cookie struct {
	name   string
	secure bool
}

func NewCookie(prefix string, secure bool) *Cookie {
	return &Cookie{name: CookieName(prefix), secure: secure}
}

func (c *Cookie) Name() string {
	return c.name
}

func (c *Cookie) Set(ctx context.Context, token string, ttl time.Duration) error {
	jar, err := cookie.FromContext(ctx)
	if err != nil {
		return err
	}

	return jar.Set(c.cookie(token, int(ttl/time.Second)))
}

func (c *Cookie) Clear(ctx context.Context) error {
	jar, err := cookie.FromContext(ctx)
	if err != nil {
		return err
	}

	return jar.Set(c.cookie("", -1))
}

func (c *Cookie) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     c.name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
