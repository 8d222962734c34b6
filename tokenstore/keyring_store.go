package tokenstore

import (
	"github.com/jrsteele09/reposcribe/internal/errors"
	"github.com/zalando/go-keyring"
)

const keyringService = "reposcribe"

var _ Store = (*KeyringStore)(nil)

// KeyringStore keeps the token in the operating system's secret service.
type KeyringStore struct {
	service string
	key     string
}

func NewKeyringStore(key string) *KeyringStore {
	return &KeyringStore{service: keyringService, key: key}
}

func (s *KeyringStore) Get() (string, error) {
	token, err := keyring.Get(s.service, s.key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", errors.ErrTokenNotFound
	}
	if err != nil {
		return "", errors.Wrapf(err, "[tokenstore KeyringStore] get")
	}
	if token == "" {
		return "", errors.ErrTokenNotFound
	}
	return token, nil
}

func (s *KeyringStore) Set(token string) error {
	if token == "" {
		return errors.ErrEmptyToken
	}
	if err := keyring.Set(s.service, s.key, token); err != nil {
		return errors.Wrapf(err, "[tokenstore KeyringStore] set")
	}
	return nil
}

func (s *KeyringStore) Clear() error {
	err := keyring.Delete(s.service, s.key)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return errors.Wrapf(err, "[tokenstore KeyringStore] delete")
	}
	return nil
}
