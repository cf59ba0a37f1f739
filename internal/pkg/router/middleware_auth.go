package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/twostep/internal/pkg/jwt"
)

// routeSet holds "METHOD /pattern" keys matched against httprouter patterns.
type routeSet map[string]struct{}

func newRouteSet(routes ...string) routeSet {
	s := make(routeSet, len(routes))
	for _, r := range routes {
		s[r] = struct{}{}
	}
	return s
}

func (s routeSet) has(r *http.Request) bool {
	_, ok := s[r.Method+" "+matchedRoutePath(r)]
	return ok
}

// sessionToken prefers an Authorization bearer token. A malformed
// Authorization header is not rescued by the cookie.
func sessionToken(r *http.Request, cookieName string) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(strings.TrimSpace(h), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return ""
		}
		return strings.TrimSpace(token)
	}

	if cookieName == "" {
		return ""
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

func middlewareAuthentication(verifier jwt.JWT, cookieName string, public routeSet) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if public.has(r) {
				next.ServeHTTP(w, r)
				return
			}

			token := sessionToken(r, cookieName)
			if token == "" {
				writeJSON(w, errorResponse{Message: "Authentication required"}, http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				writeJSON(w, errorResponse{Message: "Invalid or expired token"}, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(jwt.SetAuth(r.Context(), claims)))
		})
	}
}
