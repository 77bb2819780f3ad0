package middleware

import (
	"context"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/mkline/member-portal/internal/service"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"

	tokenCookie = "token"
	loginPath   = "/auth/login"
	profilePath = "/profile"
)

// Auth gates API routes. It verifies the session cookie and injects the
// user ID into the request context; there is no database access here.
func Auth(tokens *service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := verifyCookie(r, tokens)
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"Unauthorized"}`))
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth gates protected pages: without a valid session the request
// is bounced to the login page.
func RequireAuth(tokens *service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := verifyCookie(r, tokens)
			if !ok {
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RedirectIfAuthenticated wraps auth-only pages such as the login form: a
// caller already holding a valid session is sent to their profile instead.
// Missing or invalid tokens fall through to the page.
func RedirectIfAuthenticated(tokens *service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := verifyCookie(r, tokens); ok {
				http.Redirect(w, r, profilePath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func verifyCookie(r *http.Request, tokens *service.TokenService) (uuid.UUID, bool) {
	cookie, err := r.Cookie(tokenCookie)
	if err != nil || cookie.Value == "" {
		return uuid.Nil, false
	}

	userID, err := tokens.Verify(cookie.Value)
	if err != nil {
		log.Printf("WARN [middleware.Auth] token rejected: %v", err)
		return uuid.Nil, false
	}

	return userID, true
}

func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}
