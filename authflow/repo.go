// Package authflow tracks logins that have been started but not yet
// completed, keyed by their anti-forgery state value.
package authflow

import "time"

// PendingLogin is the server side record of a started login.
type PendingLogin struct {
	ID          string
	RedirectURI string
	ReturnURL   string
	CreatedAt   time.Time
}

type Repo interface {
	Upsert(id string, login *PendingLogin) error
	// Consume returns the pending login and removes it, so a state is accepted once.
	Consume(id string) (*PendingLogin, error)
	// Prune drops logins created before cutoff and reports how many went.
	Prune(cutoff time.Time) int
}
