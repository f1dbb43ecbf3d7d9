// Package http serves the expense tracker: HTMX pages and partials, the
// sign-in flow and a JSON API, all behind session authentication.
package http

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"expensetracker/internal/auth"
	"expensetracker/internal/core"
	"expensetracker/internal/form"
	applog "expensetracker/internal/log"
	"expensetracker/internal/middleware/ratelimit"
	"expensetracker/internal/middleware/security"
	"expensetracker/internal/middleware/trace"
	"expensetracker/internal/records"
	"expensetracker/internal/services"
	appweb "expensetracker/web"
)

// ExpenseStore is the record store client the handlers talk to.
type ExpenseStore interface {
	form.Creator
	ListForUser(ctx context.Context, userID string) services.Result
	Update(ctx context.Context, userID, id string, p records.Patch) services.Result
	Delete(ctx context.Context, userID, id string) services.Result
	Ping(ctx context.Context) error
}

// Options carries everything NewServer needs.
type Options struct {
	Addr               string
	Expenses           ExpenseStore
	Sessions           *auth.Sessions
	Provider           auth.Provider
	Logger             *applog.Logger
	RateLimitPerMinute int
	// Now defaults to time.Now; tests pin it.
	Now func() time.Time
}

// Server is the web front end: pages, HTMX partials and the JSON API.
type Server struct {
	http.Server
	templates *template.Template
	expenses  ExpenseStore
	sessions  *auth.Sessions
	provider  auth.Provider
	logger    *applog.Logger
	limiter   *ratelimit.Limiter
	detector  *security.Detector
	now       func() time.Time
	started   time.Time

	shutdownOnce sync.Once
}

// NewServer parses the embedded templates and wires the router.
func NewServer(opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig())
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		templates: t,
		expenses:  opts.Expenses,
		sessions:  opts.Sessions,
		provider:  opts.Provider,
		logger:    opts.Logger.WithComponent(applog.ComponentHTTP),
		limiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector:  security.NewDetector(opts.Logger.WithComponent(applog.ComponentSecurity).Logger),
		now:       opts.Now,
		started:   time.Now(),
	}
	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(applog.Middleware(s.logger, trace.RequestID))
	r.Use(trace.NewMiddleware(s.detector.ClientIP).Handler)
	r.Use(s.detector.Middleware)
	r.Use(security.Headers(security.DefaultHeadersConfig()))
	r.Use(auth.Middleware(s.sessions))

	limited := s.limiter.Middleware(s.detector.ClientIP, s.onRateLimit)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		r.With(security.StaticAssetMiddleware(3600)).
			Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(sub))))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})
	r.Get("/login", s.handleLogin)
	r.Get("/signup", s.handleSignup)
	r.Get("/auth/login", s.handleAuthStart)
	r.Get("/auth/callback", s.handleAuthCallback)
	r.With(limited).Post("/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser, security.NoStore)
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/ui/panel/{tab}", s.handlePanel)
		r.Get("/ui/expenses", s.handleExpenseList)
		r.Get("/ui/analytics", s.handleAnalytics)
		r.With(limited).Post("/expenses", s.handleCreateExpense)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAPIUser, security.NoStore)
		r.Get("/categories", s.handleAPICategories)
		r.Get("/expenses", s.handleAPIListExpenses)
		r.Get("/analytics", s.handleAPIAnalytics)
		r.Group(func(r chi.Router) {
			r.Use(limited)
			r.Post("/expenses", s.handleAPICreateExpense)
			r.Patch("/expenses/{id}", s.handleAPIUpdateExpense)
			r.Delete("/expenses/{id}", s.handleAPIDeleteExpense)
		})
	})

	return r
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.detector.ClientIP(r),
		applog.FieldPath, r.URL.Path)
	msg := "Rate limit exceeded. Please try again later."
	if isHTMX(r) || !isAPI(r) {
		TooManyRequestsError(msg).Write(w)
		return
	}
	writeJSON(w, http.StatusTooManyRequests, apiError{Error: msg})
}

// render executes a template into a buffer so a failing template never
// leaves a half-written response.
func (s *Server) render(r *http.Request, name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		applog.LogError(r.Context(), "Template execution failed", err, applog.ErrorTypeInternal, applog.OpRender,
			applog.FieldTemplate, name)
		return nil, err
	}
	return buf.Bytes(), nil
}

// page renders a full page or partial with status 200.
func (s *Server) page(w http.ResponseWriter, r *http.Request, name string, data any) {
	body, err := s.render(r, name, data)
	if err != nil {
		InternalServerError("Something went wrong rendering this page.").Write(w)
		return
	}
	NewHTMXResponse().BodyHTML(body).Write(w)
}

// identity returns the signed-in user; routes behind RequireUser always have one.
func identity(r *http.Request) auth.Identity {
	id, _ := auth.FromContext(r.Context())
	return id
}

func (s *Server) today() core.Date {
	return core.DateOf(s.now())
}

// Shutdown stops the rate limiter janitor and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
