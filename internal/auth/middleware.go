package auth

import (
	"log/slog"
	"net/http"
)

// Middleware resolves the session once per request and attaches the
// identity to the request context. Requests without a session pass through
// untouched.
func Middleware(sessions *Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := sessions.Current(r)
			if err != nil {
				if _, cerr := r.Cookie(SessionCookie); cerr == nil {
					// A cookie that no longer verifies is dropped so the
					// browser stops sending it.
					slog.DebugContext(r.Context(), "Discarding invalid session", "error", err)
					sessions.Clear(w)
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireUser redirects anonymous browser requests to /login.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); !ok {
			if r.Header.Get("HX-Request") == "true" {
				w.Header().Set("HX-Redirect", "/login")
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAPIUser answers anonymous API requests with 401.
func RequireAPIUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"error":"authentication required"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
