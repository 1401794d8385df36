package session

import (
	"time"

	"github.com/spec-kit/it-inventory/internal/domain"
)

// Flash message kinds.
const (
	FlashError   = "error_msg"
	FlashSuccess = "success_msg"
)

// User is the authenticated identity kept in a session.
type User struct {
	ID       int64       `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"rol"`
}

// Session is the server-side state attached to a caller's cookie.
type Session struct {
	ID        string              `json:"-"`
	User      *User               `json:"user,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	Flash     map[string][]string `json:"flash,omitempty"`

	dirty       bool
	destroyedID string
}

// Authenticated reports whether a user is signed in on this session.
func (s *Session) Authenticated() bool {
	return s.User != nil
}

// Login binds the user to a fresh session id and starts the expiry window at now.
func (s *Session) Login(user User, now time.Time) {
	if s.ID != "" {
		s.destroyedID = s.ID
		s.ID = ""
	}
	s.User = &user
	s.CreatedAt = now
	s.dirty = true
}

// Touch slides the expiry window to now.
func (s *Session) Touch(now time.Time) {
	s.CreatedAt = now
	s.dirty = true
}

// Destroy drops all server-side state. Flash messages added afterwards
// travel on a new anonymous session.
func (s *Session) Destroy() {
	if s.ID != "" {
		s.destroyedID = s.ID
	}
	s.ID = ""
	s.User = nil
	s.CreatedAt = time.Time{}
	s.Flash = nil
	s.dirty = false
}

// AddFlash queues a one-shot message for the next rendered view.
func (s *Session) AddFlash(kind, message string) {
	if s.Flash == nil {
		s.Flash = make(map[string][]string)
	}
	s.Flash[kind] = append(s.Flash[kind], message)
	s.dirty = true
}

// Flashes returns and clears the pending flash messages.
func (s *Session) Flashes() map[string][]string {
	out := s.Flash
	if len(out) > 0 {
		s.Flash = nil
		s.dirty = true
	}
	if out == nil {
		out = map[string][]string{}
	}
	return out
}
