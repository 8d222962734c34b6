package config

import "strings"

type StoreConfig interface {
	GetTokenStore() string
	GetTokenKey() string
}

type Store struct{}

var _ StoreConfig = Store{}

// GetTokenStore selects the token persistence backend: file, keyring, sqlite or memory.
func (Store) GetTokenStore() string {
	return strings.ToLower(GetEnv("TOKEN_STORE", "file"))
}

func (Store) GetTokenKey() string {
	return GetEnv("TOKEN_KEY", "accessToken")
}
