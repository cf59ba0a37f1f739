package router

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/twostep/internal/pkg/config"
	"github.com/shandysiswandi/twostep/internal/pkg/cookie"
	"github.com/shandysiswandi/twostep/internal/pkg/instrument"
	"github.com/shandysiswandi/twostep/internal/pkg/jwt"
	"github.com/shandysiswandi/twostep/internal/pkg/uid"
)

// Handler returns the payload for the success envelope or an error for the
// error envelope. See writeSuccess and writeError.
type Handler func(r *Request) (any, error)

type Config struct {
	Config     config.Config
	UUID       uid.StringID
	JWT        jwt.JWT
	Instrument instrument.Instrumentation
	// SessionCookie is read when no bearer token is sent.
	SessionCookie string
}

// Router serves httprouter routes through a fixed middleware chain. Route
// specific middleware runs after the shared chain.
type Router struct {
	hr  *httprouter.Router
	mws []Middleware
}

// publicRoutes are served without a session token.
var publicRoutes = newRouteSet(
	"GET /",
	"GET /health",
	"GET /api/v1/identity/login/pending",
	"POST /api/v1/identity/register",
	"POST /api/v1/identity/login/credentials",
	"POST /api/v1/identity/login/otp/send",
	"POST /api/v1/identity/login/otp/verify",
	"POST /api/v1/identity/login/reset",
	"POST /api/v1/authority/email-otp/send",
	"POST /api/v1/authority/email-otp/check",
	"POST /api/v1/authority/sign-in/email-otp",
	"POST /api/v1/authority/sign-out",
	"POST /api/v1/client-errors",
)

func NewRouter(cfg Config) *Router {
	hr := &httprouter.Router{
		RedirectTrailingSlash:  true,
		RedirectFixedPath:      true,
		HandleMethodNotAllowed: true,
		HandleOPTIONS:          true,
		SaveMatchedRoutePath:   true,
		NotFound: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, errorResponse{Message: "endpoint not found"}, http.StatusNotFound)
		}),
		MethodNotAllowed: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, errorResponse{Message: "method not allowed"}, http.StatusMethodNotAllowed)
		}),
	}

	hr.GET("/", staticMessage("Welcome to API TwoStep"))
	hr.GET("/health", staticMessage("ok"))

	return &Router{
		hr: hr,
		mws: []Middleware{
			middlewareRecoverer,
			middlewareRequestIdentity(cfg.UUID),
			middlewareObservability(cfg.Instrument),
			middlewareMaintenance(cfg.Config),
			middlewareAuthentication(cfg.JWT, cfg.SessionCookie, publicRoutes),
		},
	}
}

func (r *Router) GET(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodGet, path, h, mws...)
}

func (r *Router) POST(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPost, path, h, mws...)
}

func (r *Router) endpoint(method, path string, h Handler, mws ...Middleware) {
	chain := append(r.mws[:len(r.mws):len(r.mws)], mws...)
	r.hr.Handler(method, path, Chain(adapt(h), chain...))
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}

// adapt gives the handler a cookie jar and renders its result. The error is
// also handed to the response recorder so the span can record it.
func adapt(h Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jar := cookie.NewJar(r, w, cookie.WritableMethod(r.Method))
		r = r.WithContext(cookie.NewContext(r.Context(), jar))

		resp, err := h(&Request{Request: r})
		if err == nil {
			writeSuccess(w, resp)
			return
		}

		if rec, ok := w.(interface{ SetError(error) }); ok {
			rec.SetError(err)
		}
		writeError(w, err)
	})
}

func staticMessage(msg string) httprouter.Handle {
	return func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		writeJSON(w, map[string]string{"message": msg}, http.StatusOK)
	}
}
