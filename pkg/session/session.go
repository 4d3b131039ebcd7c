package session

import (
	"context"
	"errors"
	"strings"
)

// ErrNoSession is returned when a command requires an authenticated session
var ErrNoSession = errors.New("no authenticated session")

// Role is the backend's role label for a user
type Role string

const (
	RoleAdmin  Role = "System Administrator"
	RoleOwner  Role = "Store Owner"
	RoleNormal Role = "Normal User"
)

// Roles lists every role the backend issues
var Roles = []Role{RoleAdmin, RoleOwner, RoleNormal}

func (r Role) String() string {
	return string(r)
}

// IsValid reports whether r is one of the backend's roles
func (r Role) IsValid() bool {
	_, ok := capabilityTable[r]
	return ok
}

// ParseRole matches a role label case-insensitively
func ParseRole(s string) (Role, bool) {
	for _, r := range Roles {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r, true
		}
	}
	return "", false
}

// User is the authenticated principal as reported by the backend
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address,omitempty"`
	Role    Role   `json:"role"`
}

// Session carries the authenticated user and the credential used to reach the API.
// It is passed explicitly to the views that need it.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"-"`
}

// New builds a session for the given user and credential
func New(user User, token string) *Session {
	return &Session{User: user, Token: token}
}

// Capabilities returns what the session's role may do
func (s *Session) Capabilities() Capabilities {
	if s == nil {
		return Capabilities{}
	}
	return s.User.Role.Capabilities()
}

// Layout returns the navigation layout for the session's role
func (s *Session) Layout() Layout {
	if s == nil {
		return guestLayout
	}
	return s.User.Role.Layout()
}

type contextKey string

const sessionCtxKey contextKey = "session"

// ContextWithSession stores the session in ctx
func ContextWithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey, s)
}

// FromContext returns the session stored in ctx.
func FromContext(ctx context.Context) (*Session, error) {
	if ctx == nil {
		return nil, ErrNoSession
	}
	s, ok := ctx.Value(sessionCtxKey).(*Session)
	if !ok || s == nil {
		return nil, ErrNoSession
	}
	return s, nil
}
