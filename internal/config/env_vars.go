package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	portEnvVar      = "PORT"
	hostEnvVar      = "HOST"
	appNameVar      = "APP_NAME"
	folderEnvVar    = "FOLDER"
	publicURLEnvVar = "PUBLIC_URL"
	logLevelEnvVar  = "LOG_LEVEL"
	envEnvVar       = "ENV"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "3000")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	return port
}

// GetHost is the interface the web shell binds to. The shell serves a single
// signed in user, so it stays on loopback unless HOST widens it (e.g. "0.0.0.0").
func (EnvVars) GetHost() string {
	return GetEnv(hostEnvVar, "127.0.0.1")
}

// GetListenAddr joins GetHost and GetPort.
func (e EnvVars) GetListenAddr() string {
	return e.GetHost() + e.GetPort()
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "RepoScribe")
}

func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, "./data")
}

// GetPublicURL returns the externally visible base URL of this client (e.g. "http://localhost:3000").
// The OAuth callback address is derived from it, so it must match the one registered with the provider.
func (EnvVars) GetPublicURL() string {
	return strings.TrimSuffix(GetEnv(publicURLEnvVar, "http://localhost:3000"), "/")
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelEnvVar, "info")
}

func (EnvVars) GetEnv() string {
	return GetEnv(envEnvVar, "DEV")
}

// GetEnv looks a variable up in the process environment (which includes .env),
// then in the CONFIG_FILE values, then falls back to defaultValue.
func GetEnv(envVar, defaultValue string) string {
	if value := lookupEnv(envVar); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(envVar string, defaultValue time.Duration) time.Duration {
	raw := lookupEnv(envVar)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Warn().Str("var", envVar).Str("value", raw).Msg("invalid duration, using default")
		return defaultValue
	}
	return d
}

func getInt(envVar string, defaultValue int) int {
	raw := lookupEnv(envVar)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn().Str("var", envVar).Str("value", raw).Msg("invalid integer, using default")
		return defaultValue
	}
	return n
}

func getBool(envVar string, defaultValue bool) bool {
	raw := lookupEnv(envVar)
	if raw == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Warn().Str("var", envVar).Str("value", raw).Msg("invalid boolean, using default")
		return defaultValue
	}
	return b
}
