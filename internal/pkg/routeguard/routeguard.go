// Package routeguard decides page redirects from the request path and whether
// the caller has a session. API paths are never redirected; their handlers
// authenticate on their own.
package routeguard

import (
	"net/http"
	"net/url"
	"path"
	"strings"
)

const (
	LoginPath     = "/login"
	SignupPath    = "/signup"
	DashboardPath = "/dashboard"

	callbackParam = "callbackUrl"
)

var protectedRoutes = []string{DashboardPath}

var staticPrefixes = []string{"/_next/static/", "/_next/image"}

var staticFiles = map[string]struct{}{
	"/favicon.ico": {},
	"/sitemap.xml": {},
	"/robots.txt":  {},
}

var staticExts = map[string]struct{}{
	".svg": {}, ".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".webp": {}, ".ico": {},
}

func IsAPIRoute(p string) bool {
	return strings.HasPrefix(p, "/api/")
}

// IsProtectedRoute reports whether p is a protected route or below one.
func IsProtectedRoute(p string) bool {
	for _, route := range protectedRoutes {
		if p == route || strings.HasPrefix(p, route+"/") {
			return true
		}
	}
	return false
}

func IsAuthPage(p string) bool {
	return p == LoginPath || p == SignupPath
}

// IsStaticAsset matches paths the guard never looks at.
func IsStaticAsset(p string) bool {
	if _, ok := staticFiles[p]; ok {
		return true
	}
	for _, prefix := range staticPrefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	_, ok := staticExts[strings.ToLower(path.Ext(p))]
	return ok
}

func ShouldRedirectToLogin(p string, hasSession bool) bool {
	return IsProtectedRoute(p) && !hasSession
}

func ShouldRedirectToDashboard(p string, hasSession bool) bool {
	return IsAuthPage(p) && hasSession
}

// BuildLoginURL resolves the login page against base and, when callback is
// set, adds it as callbackUrl so the user returns there after signing in.
func BuildLoginURL(base, callback string) (*url.URL, error) {
	u, err := resolve(base, LoginPath)
	if err != nil {
		return nil, err
	}

	if callback != "" {
		q := u.Query()
		q.Set(callbackParam, callback)
		u.RawQuery = q.Encode()
	}

	return u, nil
}

func resolve(base, p string) (*url.URL, error) {
	b, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	return b.ResolveReference(&url.URL{Path: p}), nil
}

// Middleware redirects page requests with 307 Temporary Redirect: protected
// pages without a session go to login, auth pages with one go to the dashboard.
func Middleware(hasSession func(r *http.Request) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := r.URL.Path
			if IsAPIRoute(p) || IsStaticAsset(p) {
				next.ServeHTTP(w, r)
				return
			}

			session := hasSession(r)
			base := requestBase(r)

			if ShouldRedirectToLogin(p, session) {
				u, err := BuildLoginURL(base, p)
				if err != nil {
					http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
					return
				}
				http.Redirect(w, r, u.String(), http.StatusTemporaryRedirect)
				return
			}

			if ShouldRedirectToDashboard(p, session) {
				u, err := resolve(base, DashboardPath)
				if err != nil {
					http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
					return
				}
				http.Redirect(w, r, u.String(), http.StatusTemporaryRedirect)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requestBase(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fp := r.Header.Get("X-Forwarded-Proto"); fp == "http" || fp == "https" {
		scheme = fp
	}
	return scheme + "://" + r.Host + "/"
}
