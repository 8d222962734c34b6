package tokenstore

import (
	"fmt"

	"github.com/jrsteele09/reposcribe/internal/config"
	"github.com/jrsteele09/reposcribe/tokenstore/repofake"
)

type factoryConfig interface {
	config.StoreConfig
	GetDataFolder() string
}

// New builds the Store selected by TOKEN_STORE.
func New(cfg factoryConfig) (Store, error) {
	key := cfg.GetTokenKey()
	switch kind := cfg.GetTokenStore(); kind {
	case "file", "":
		return NewFileStore(cfg.GetDataFolder(), key)
	case "keyring":
		return NewKeyringStore(key), nil
	case "sqlite":
		return NewSQLiteStore(cfg.GetDataFolder(), key)
	case "memory":
		return repofake.NewFakeTokenStore(), nil
	default:
		return nil, fmt.Errorf("[tokenstore New] unknown token store %q", kind)
	}
}
