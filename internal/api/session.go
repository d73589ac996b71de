package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/orderdesk/request-dashboard/internal/biz/domain"
	"github.com/orderdesk/request-dashboard/internal/biz/usecase"
)

const (
	// SessionCookie carries the view session id
	SessionCookie = "rd_session"
	// ThemeCookie remembers the last chosen theme across sessions
	ThemeCookie = "rd_theme"
)

// Sessions maps requests to view sessions through a cookie
type Sessions struct {
	uc  *usecase.SessionUsecase
	now func() time.Time

	mu       sync.Mutex
	sharedID string // session used by API callers without a cookie
}

// NewSessions creates a cookie session resolver
func NewSessions(uc *usecase.SessionUsecase) *Sessions {
	return &Sessions{uc: uc, now: time.Now}
}

// Resolve returns the caller's session, creating one (and setting the cookie)
// when the cookie is missing or the session has expired
func (s *Sessions) Resolve(w http.ResponseWriter, r *http.Request) *domain.ViewSession {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}

	sess, created := s.uc.GetOrCreate(r.Context(), id, s.InitialTheme(r))
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}

// ResolveAPI returns the caller's session when the request carries a session
// cookie. Callers without one share a single session so that scripted clients
// do not start a new batch fetch on every call. No cookie is set for it.
func (s *Sessions) ResolveAPI(w http.ResponseWriter, r *http.Request) *domain.ViewSession {
	if _, err := r.Cookie(SessionCookie); err == nil {
		return s.Resolve(w, r)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, created := s.uc.GetOrCreate(r.Context(), s.sharedID, domain.ThemeLight)
	if created {
		s.sharedID = sess.ID
	}
	return sess
}

// InitialTheme picks the remembered theme, else dark between 18:00 and 06:00
func (s *Sessions) InitialTheme(r *http.Request) domain.Theme {
	if c, err := r.Cookie(ThemeCookie); err == nil {
		switch domain.Theme(c.Value) {
		case domain.ThemeLight, domain.ThemeDark:
			return domain.Theme(c.Value)
		}
	}
	return domain.ThemeForHour(s.now().Hour())
}

// RememberTheme stores theme in a long-lived cookie
func RememberTheme(w http.ResponseWriter, theme domain.Theme) {
	http.SetCookie(w, &http.Cookie{
		Name:     ThemeCookie,
		Value:    string(theme),
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		SameSite: http.SameSiteLaxMode,
	})
}
