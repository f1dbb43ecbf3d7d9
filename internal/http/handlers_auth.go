package http

import (
	"net/http"

	applog "expensetracker/internal/log"
)

// handleAuthStart sends the browser to the identity provider.
func (s *Server) handleAuthStart(w http.ResponseWriter, r *http.Request) {
	state := s.sessions.NewState(w)
	http.Redirect(w, r, s.provider.AuthCodeURL(state), http.StatusFound)
}

// handleAuthCallback completes sign-in. Any failure is logged as an auth
// error and the user lands back on /login to retry.
func (s *Server) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	ctx := applog.WithLogger(r.Context(), applog.FromContext(r.Context()).WithComponent(applog.ComponentAuth))

	if err := s.sessions.CheckState(w, r); err != nil {
		applog.LogError(ctx, "Sign-in callback rejected", err, applog.ErrorTypeAuth, applog.OpSignIn)
		http.Redirect(w, r, "/login?error=state", http.StatusSeeOther)
		return
	}

	if msg := r.URL.Query().Get("error"); msg != "" {
		applog.FromContext(ctx).WarnContext(ctx, "Provider refused sign-in",
			applog.FieldErrorType, applog.ErrorTypeAuth, "provider_error", msg)
		http.Redirect(w, r, "/login?error=provider", http.StatusSeeOther)
		return
	}

	id, err := s.provider.Exchange(ctx, r.URL.Query().Get("code"))
	if err != nil {
		applog.LogError(ctx, "Sign-in exchange failed", err, applog.ErrorTypeAuth, applog.OpSignIn)
		http.Redirect(w, r, "/login?error=provider", http.StatusSeeOther)
		return
	}

	if err := s.sessions.Issue(w, id); err != nil {
		applog.LogError(ctx, "Failed to issue session", err, applog.ErrorTypeAuth, applog.OpSignIn, applog.FieldUserID, id.ID)
		http.Redirect(w, r, "/login?error=session", http.StatusSeeOther)
		return
	}

	applog.FromContext(ctx).InfoContext(ctx, "User signed in",
		applog.FieldUserID, id.ID, applog.FieldOperation, applog.OpSignIn, "provider", s.provider.Name())
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handleLogout clears the session and returns to /login.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Clear(w)
	if isHTMX(r) {
		NewHTMXResponse().Redirect("/login").Write(w)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
