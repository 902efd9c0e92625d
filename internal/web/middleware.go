package web

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/erazemk/nadzor/internal/model"
)

// CookieName is the console's own session cookie.
const CookieName = "nadzor_session"

type webContextKey string

const sessionKey webContextKey = "session"
const backendCookieKey webContextKey = "backendcookie"

// requireSession is the route guard: requests without a resolvable session
// are redirected to the login page, carrying the originally requested path so
// login can return there. It performs no backend calls.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		if err != nil || cookie.Value == "" {
			redirectToLogin(w, r)
			return
		}

		sess, backendCookie, err := s.Sessions.Resolve(r.Context(), cookie.Value)
		if err != nil {
			clearAuthCookie(w)
			redirectToLogin(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, sess)
		ctx = context.WithValue(ctx, backendCookieKey, backendCookie)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// redirectToLogin sends the browser to the login page, preserving the
// originally requested location for the post-login redirect.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := "/login"
	if r.Method == http.MethodGet {
		from := r.URL.RequestURI()
		if from != "/" && from != "" {
			target += "?from=" + url.QueryEscape(from)
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// safeReturnPath accepts only local absolute paths as post-login targets,
// refusing protocol-relative and absolute URLs.
func safeReturnPath(from string) string {
	if from == "" || !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") {
		return ""
	}
	return from
}

// setAuthCookie installs the signed session cookie.
func setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   86400, // 24 hours
	})
}

// clearAuthCookie clears the session cookie with consistent attributes.
func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// CurrentSession retrieves the session placed in the context by the guard.
func CurrentSession(ctx context.Context) *model.Session {
	sess, _ := ctx.Value(sessionKey).(*model.Session)
	return sess
}

// BackendCookie retrieves the backend session cookie from the context.
func BackendCookie(ctx context.Context) string {
	cookie, _ := ctx.Value(backendCookieKey).(string)
	return cookie
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs HTTP requests with method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.RequestURI(),
			"status", rec.status,
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}
