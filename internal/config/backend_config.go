package config

import (
	"strings"
	"time"
)

type BackendConfig interface {
	GetAPIBaseURL() string
	GetHTTPTimeout() time.Duration
	GetGenerateTimeout() time.Duration
	GetRepoPageSize() int
}

type Backend struct{}

var _ BackendConfig = Backend{}

func (Backend) GetAPIBaseURL() string {
	return strings.TrimSuffix(GetEnv("API_BASE_URL", "https://reposcribe-1.onrender.com"), "/")
}

func (Backend) GetHTTPTimeout() time.Duration {
	return getDuration("HTTP_TIMEOUT", 30*time.Second)
}

// GetGenerateTimeout bounds the documentation request, which is much slower
// than the other backend calls.
func (Backend) GetGenerateTimeout() time.Duration {
	return getDuration("GENERATE_TIMEOUT", 5*time.Minute)
}

func (Backend) GetRepoPageSize() int {
	size := getInt("REPO_PAGE_SIZE", 100)
	if size <= 0 {
		return 100
	}
	return size
}
