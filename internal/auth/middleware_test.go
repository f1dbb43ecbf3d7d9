package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestMiddlewareAttachesIdentity(t *testing.T) {
	s := NewSessions("secret", time.Hour, false)
	rec := httptest.NewRecorder()
	if err := s.Issue(rec, Identity{ID: "u1", DisplayName: "Ada"}); err != nil {
		t.Fatal(err)
	}
	cookie := rec.Result().Cookies()[0]

	var seen Identity
	var ok bool
	h := Middleware(s)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, ok = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookie)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if !ok || seen.ID != "u1" || seen.Name() != "Ada" {
		t.Fatalf("identity not attached: %+v %v", seen, ok)
	}

	ok = true
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if ok {
		t.Fatal("anonymous request got an identity")
	}
}

func TestMiddlewareDropsInvalidCookie(t *testing.T) {
	s := NewSessions("secret", time.Hour, false)
	h := Middleware(s)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "garbage"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("invalid cookie not cleared: %v", cookies)
	}
}

func TestRequireUser(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })

	tests := []struct {
		name       string
		identity   *Identity
		htmx       bool
		wantStatus int
		wantHeader string
	}{
		{"anonymous browser", nil, false, http.StatusSeeOther, "Location"},
		{"anonymous htmx", nil, true, http.StatusUnauthorized, "HX-Redirect"},
		{"signed in", &Identity{ID: "u1"}, false, http.StatusTeapot, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
			if tt.htmx {
				req.Header.Set("HX-Request", "true")
			}
			if tt.identity != nil {
				req = req.WithContext(WithIdentity(req.Context(), *tt.identity))
			}
			rec := httptest.NewRecorder()
			RequireUser(inner).ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status %d want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantHeader != "" && rec.Header().Get(tt.wantHeader) != "/login" {
				t.Fatalf("expected %s=/login, got %q", tt.wantHeader, rec.Header().Get(tt.wantHeader))
			}
		})
	}
}

func TestRequireAPIUser(t *testing.T) {
	rec := httptest.NewRecorder()
	RequireAPIUser(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/expenses", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
