// Package session owns the single authentication state of the client and the
// operations that move it: check, begin login, complete login and end.
package session

import "github.com/jrsteele09/reposcribe/users"

// State is the position of the session in its lifecycle.
type State int

const (
	StateInitializing State = iota
	StateUnauthenticated
	StateExchangingCode
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateExchangingCode:
		return "exchanging_code"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// User facing messages stored in Session.Error.
const (
	MessageAuthCheckFailed = "Failed to check authentication status"
	MessageLoginFailed     = "Failed to complete authentication"
)

// Session is a snapshot of the authentication state. Callers get copies.
type Session struct {
	State         State       `json:"state"`
	Authenticated bool        `json:"authenticated"`
	User          *users.User `json:"user,omitempty"`
	Loading       bool        `json:"loading"`
	Error         string      `json:"error,omitempty"`
}

func initialSession() Session {
	return Session{State: StateInitializing, Loading: true}
}

func unauthenticated(message string) Session {
	return Session{State: StateUnauthenticated, Error: message}
}

func authenticated(user *users.User) Session {
	return Session{State: StateAuthenticated, Authenticated: true, User: user}
}

func (s Session) clone() Session {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
