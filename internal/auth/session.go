package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	SessionCookie = "et_session"
	StateCookie   = "et_oauth_state"
	issuer        = "expensetracker"
	stateTTL      = 10 * time.Minute
)

type sessionClaims struct {
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	Email   string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Sessions issues and reads HS256-signed session cookies.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewSessions creates a session manager. secure marks cookies HTTPS-only.
func NewSessions(secret string, ttl time.Duration, secure bool) *Sessions {
	return &Sessions{secret: []byte(secret), ttl: ttl, secure: secure, now: time.Now}
}

// Issue signs id into a session cookie on w.
func (s *Sessions) Issue(w http.ResponseWriter, id Identity) error {
	now := s.now()
	claims := sessionClaims{
		Name:    id.DisplayName,
		Picture: id.PhotoURL,
		Email:   id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}
	http.SetCookie(w, s.cookie(SessionCookie, token, now.Add(s.ttl)))
	return nil
}

// Current returns the identity carried by the request's session cookie.
func (s *Sessions) Current(r *http.Request) (Identity, error) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return Identity{}, ErrNoSession
	}

	var claims sessionClaims
	_, err = jwt.ParseWithClaims(c.Value, &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Identity{}, errors.Join(ErrNoSession, err)
	}
	if claims.Subject == "" {
		return Identity{}, ErrNoSession
	}
	return Identity{ID: claims.Subject, DisplayName: claims.Name, PhotoURL: claims.Picture, Email: claims.Email}, nil
}

// Clear expires the session cookie.
func (s *Sessions) Clear(w http.ResponseWriter) {
	c := s.cookie(SessionCookie, "", time.Unix(0, 0))
	c.MaxAge = -1
	http.SetCookie(w, c)
}

// NewState sets a one-time state cookie and returns its value.
func (s *Sessions) NewState(w http.ResponseWriter) string {
	state := uuid.NewString()
	http.SetCookie(w, s.cookie(StateCookie, state, s.now().Add(stateTTL)))
	return state
}

// CheckState compares the callback's state with the cookie and clears it.
func (s *Sessions) CheckState(w http.ResponseWriter, r *http.Request) error {
	c, err := r.Cookie(StateCookie)
	expired := s.cookie(StateCookie, "", time.Unix(0, 0))
	expired.MaxAge = -1
	http.SetCookie(w, expired)

	if err != nil || c.Value == "" || c.Value != r.URL.Query().Get("state") {
		return ErrStateMismatch
	}
	return nil
}

func (s *Sessions) cookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
