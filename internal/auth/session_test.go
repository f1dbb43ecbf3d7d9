package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func requestWith(cookies ...*http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestSessionRoundTrip(t *testing.T) {
	s := NewSessions("secret", time.Hour, false)
	id := Identity{ID: "u1", DisplayName: "Ada", PhotoURL: "https://example.com/a.png", Email: "ada@example.com"}

	rec := httptest.NewRecorder()
	if err := s.Issue(rec, id); err != nil {
		t.Fatalf("issue: %v", err)
	}
	c := sessionCookie(t, rec)
	if !c.HttpOnly || c.SameSite != http.SameSiteLaxMode {
		t.Fatalf("cookie flags not set: %+v", c)
	}

	got, err := s.Current(requestWith(c))
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if got != id {
		t.Fatalf("got %+v want %+v", got, id)
	}
}

func TestSessionRejectsTamperingAndExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewSessions("secret", time.Hour, false)
	s.now = func() time.Time { return now }

	rec := httptest.NewRecorder()
	if err := s.Issue(rec, Identity{ID: "u1"}); err != nil {
		t.Fatal(err)
	}
	c := sessionCookie(t, rec)

	other := NewSessions("different", time.Hour, false)
	other.now = s.now
	if _, err := other.Current(requestWith(c)); !errors.Is(err, ErrNoSession) {
		t.Fatalf("foreign secret accepted: %v", err)
	}

	now = now.Add(2 * time.Hour)
	if _, err := s.Current(requestWith(c)); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expired session accepted: %v", err)
	}

	if _, err := s.Current(requestWith()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("missing cookie: %v", err)
	}
}

func TestClearExpiresCookie(t *testing.T) {
	s := NewSessions("secret", time.Hour, true)
	rec := httptest.NewRecorder()
	s.Clear(rec)
	c := sessionCookie(t, rec)
	if c.MaxAge >= 0 || c.Value != "" || !c.Secure {
		t.Fatalf("cookie not cleared: %+v", c)
	}
}

func TestStateCheck(t *testing.T) {
	s := NewSessions("secret", time.Hour, false)
	rec := httptest.NewRecorder()
	state := s.NewState(rec)

	var stateCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == StateCookie {
			stateCookie = c
		}
	}
	if stateCookie == nil || stateCookie.Value != state {
		t.Fatalf("state cookie missing: %v", rec.Result().Cookies())
	}

	good := httptest.NewRequest(http.MethodGet, "/auth/callback?state="+state, nil)
	good.AddCookie(stateCookie)
	if err := s.CheckState(httptest.NewRecorder(), good); err != nil {
		t.Fatalf("matching state rejected: %v", err)
	}

	bad := httptest.NewRequest(http.MethodGet, "/auth/callback?state=forged", nil)
	bad.AddCookie(stateCookie)
	if err := s.CheckState(httptest.NewRecorder(), bad); !errors.Is(err, ErrStateMismatch) {
		t.Fatalf("forged state accepted: %v", err)
	}
}
