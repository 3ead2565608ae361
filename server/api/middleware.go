package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/mani-shailesh/focus/server/auth"
	"github.com/mani-shailesh/focus/server/database"
)

// SessionCookieName is the cookie holding the session token.
const SessionCookieName = "session"

// Authenticated loads the session from the request cookie and rejects
// requests without a valid one.
func (h *handler) Authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			h.respondDetail(w, r, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}

		session, err := h.DB.GetSessionWithUser(r.Context(), cookie.Value)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) || errors.Is(err, database.ErrSessionExpired) {
				h.clearSessionCookie(w)
				h.respondDetail(w, r, http.StatusUnauthorized, "Invalid or expired session.")
				return
			}
			h.respondDBErr(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.SetSession(r.Context(), *session)))
	})
}

// SecretaryOnly rejects requests from users without the secretary flag.
func (h *handler) SecretaryOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := auth.GetSession(r)
		if !session.User.IsSecretary {
			h.respondDetail(w, r, http.StatusForbidden, "You do not have permission to perform this action.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimited applies a per-IP rate limit, used on the auth endpoints.
func (h *handler) RateLimited(next http.Handler) http.Handler {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		mu.Lock()
		limiter, ok := limiters[ip]
		if !ok {
			limiter = rate.NewLimiter(rate.Every(time.Second), 10)
			limiters[ip] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			h.respondDetail(w, r, http.StatusTooManyRequests, "Request was throttled.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AccessLog logs every request with its status and duration.
func (h *handler) AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		slog.DebugContext(r.Context(), "Request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rw.status),
			slog.Duration("took", time.Since(start)),
		)
	})
}

type statusResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (h *handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
