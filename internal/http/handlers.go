package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"expensetracker/internal/auth"
	"expensetracker/internal/core"
	"expensetracker/internal/form"
)

// Tabs of the dashboard shell.
const (
	TabExpenses  = "expenses"
	TabAnalytics = "analytics"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady checks the record store and the rate limiter.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := map[string]any{}

	if err := s.expenses.Ping(ctx); err != nil {
		checks["record_store"] = "failed: " + err.Error()
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["record_store"] = "ok"
	}
	checks["rate_limiter"] = map[string]any{
		"active_clients": s.limiter.ActiveClients(),
		"status":         "ok",
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

type authPageData struct {
	Title    string
	Provider string
	Error    string
}

var signInErrors = map[string]string{
	"state":    "Your sign-in session expired. Please try again.",
	"provider": "Sign-in failed. Please try again.",
	"session":  "We couldn't keep you signed in. Please try again.",
}

func (s *Server) authPage(w http.ResponseWriter, r *http.Request, name, title string) {
	if _, ok := auth.FromContext(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	s.page(w, r, name, authPageData{
		Title:    title,
		Provider: s.provider.Name(),
		Error:    signInErrors[r.URL.Query().Get("error")],
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.authPage(w, r, "login.html", "Sign in")
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	s.authPage(w, r, "signup.html", "Create your account")
}

type expensesPanel struct {
	Form  *form.ExpenseForm
	Today string
}

type analyticsPanel struct {
	Window  core.Window
	Windows []core.Window
}

type dashboardData struct {
	User      auth.Identity
	Tab       string
	Expenses  expensesPanel
	Analytics analyticsPanel
	// OOB marks the tab bar for an out-of-band swap on panel switches.
	OOB bool
}

func (s *Server) dashboard(r *http.Request, tab string) dashboardData {
	if tab != TabAnalytics {
		tab = TabExpenses
	}
	return dashboardData{
		User: identity(r),
		Tab:  tab,
		Expenses: expensesPanel{
			Form:  form.New(s.now()),
			Today: s.today().String(),
		},
		Analytics: analyticsPanel{
			Window:  core.DefaultWindow,
			Windows: core.Windows(),
		},
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, "dashboard.html", s.dashboard(r, TabExpenses))
}

// handlePanel swaps the dashboard body for another tab. Unknown tabs fall
// back to expenses; the URL is left alone.
func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request) {
	data := s.dashboard(r, chi.URLParam(r, "tab"))
	data.OOB = true
	s.page(w, r, "panel", data)
}
