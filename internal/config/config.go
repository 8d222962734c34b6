package config

type Config interface {
	EnvConfig
	CorsConfig
	OAuthConfig
	SecurityConfig
	BackendConfig
	WorkflowConfig
	StoreConfig
}

type EnvConfig interface {
	GetPort() string
	GetHost() string
	GetListenAddr() string
	GetAppName() string
	GetDataFolder() string
	GetPublicURL() string
	GetLogLevel() string
	GetEnv() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	OAuth
	Security
	Backend
	Workflow
	Store
}

// New loads the optional .env and CONFIG_FILE layers once and returns the
// environment backed configuration.
func New() Config {
	loadLayers()
	return mainConfig{}
}
