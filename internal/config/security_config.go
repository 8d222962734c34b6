package config

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

type SecurityConfig interface {
	GetStateSecret() []byte
	GetLoginStateTimeout() time.Duration
}

type Security struct{}

var _ SecurityConfig = Security{}

var (
	generatedSecretOnce sync.Once
	generatedSecret     []byte
)

// GetStateSecret returns the HMAC key for login state values. Without
// STATE_SECRET a random key is generated per process, which only invalidates
// logins that are in progress during a restart.
func (Security) GetStateSecret() []byte {
	if secret := GetEnv("STATE_SECRET", ""); secret != "" {
		return []byte(secret)
	}
	generatedSecretOnce.Do(func() {
		b := make([]byte, 32)
		_, _ = rand.Read(b)
		generatedSecret = []byte(hex.EncodeToString(b))
	})
	return generatedSecret
}

func (Security) GetLoginStateTimeout() time.Duration {
	return getDuration("LOGIN_STATE_TIMEOUT", 10*time.Minute)
}
