package repofake

import (
	"sync"

	"github.com/jrsteele09/reposcribe/internal/errors"
)

// FakeTokenStore is an in-memory token store. It counts calls so tests can
// assert which operations touched the store.
type FakeTokenStore struct {
	lock   sync.RWMutex
	token  string
	Gets   int
	Sets   int
	Clears int
}

func NewFakeTokenStore() *FakeTokenStore {
	return &FakeTokenStore{}
}

// NewFakeTokenStoreWith returns a store that already holds token.
func NewFakeTokenStoreWith(token string) *FakeTokenStore {
	return &FakeTokenStore{token: token}
}

func (s *FakeTokenStore) Get() (string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Gets++
	if s.token == "" {
		return "", errors.ErrTokenNotFound
	}
	return s.token, nil
}

func (s *FakeTokenStore) Set(token string) error {
	if token == "" {
		return errors.ErrEmptyToken
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Sets++
	s.token = token
	return nil
}

func (s *FakeTokenStore) Clear() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Clears++
	s.token = ""
	return nil
}

// Peek returns the stored value without counting a Get.
func (s *FakeTokenStore) Peek() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.token
}
