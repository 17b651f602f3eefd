package http

import (
	"context"
	"net/http"
	"time"

	"vestadmin/internal/auth"
	applog "vestadmin/internal/log"
)

const sessionCookieName = "session"

type contextKey string

const claimsContextKey contextKey = "session_claims"

// requireSession rejects requests without a valid session cookie. Every
// failure gets the same 401 body.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			UnauthorizedError("authentication required").Write(w)
			return
		}

		claims, err := s.sessions.Verify(cookie.Value)
		if err != nil {
			applog.FromContext(r.Context()).DebugContext(r.Context(), "Session rejected",
				applog.FieldError, err.Error())
			UnauthorizedError("authentication required").Write(w)
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next(w, r.WithContext(ctx))
	}
}

func claimsFromContext(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(auth.Claims)
	return claims, ok
}

func (s *Server) sessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.sessionTTL / time.Second),
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

func (s *Server) clearedSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
