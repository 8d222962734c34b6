package authflow

import (
	"errors"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/reposcribe/internal/errors"
)

// InMemoryRepo is a thread-safe in-memory implementation of the Repo interface
type InMemoryRepo struct {
	mu     sync.RWMutex
	logins map[string]*PendingLogin
}

var _ Repo = (*InMemoryRepo)(nil)

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		logins: make(map[string]*PendingLogin),
	}
}

// Upsert stores or replaces a pending login
func (r *InMemoryRepo) Upsert(id string, login *PendingLogin) error {
	if id == "" {
		return errors.New("login id cannot be empty")
	}
	if login == nil {
		return errors.New("login cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Copy to prevent external modifications
	stored := *login
	stored.ID = id
	r.logins[id] = &stored
	return nil
}

func (r *InMemoryRepo) Consume(id string) (*PendingLogin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	login, exists := r.logins[id]
	if !exists {
		return nil, apperrors.ErrNotFound
	}
	delete(r.logins, id)
	return login, nil
}

func (r *InMemoryRepo) Prune(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	pruned := 0
	for id, login := range r.logins {
		if login.CreatedAt.Before(cutoff) {
			delete(r.logins, id)
			pruned++
		}
	}
	return pruned
}
