package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func resetFileValues(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		fileMu.Lock()
		fileValues = map[string]string{}
		fileLoaded = false
		fileMu.Unlock()
		layersOnce = sync.Once{}
	})
}

func TestDefaults(t *testing.T) {
	resetFileValues(t)
	for _, v := range []string{"PORT", "HOST", "PUBLIC_URL", "PHASE_DELAY", "TOKEN_STORE", "TOKEN_KEY", "REPO_PAGE_SIZE", "CONTAINS_API"} {
		t.Setenv(v, "")
	}
	c := mainConfig{}

	require.Equal(t, ":3000", c.GetPort())
	require.Equal(t, "127.0.0.1:3000", c.GetListenAddr())
	require.Equal(t, "http://localhost:3000/auth/callback", c.GetCallbackURL())
	require.Equal(t, 2*time.Second, c.GetPhaseDelay())
	require.Equal(t, "file", c.GetTokenStore())
	require.Equal(t, "accessToken", c.GetTokenKey())
	require.Equal(t, 100, c.GetRepoPageSize())
	require.True(t, c.GetContainsAPI())
}

func TestEnvironmentOverrides(t *testing.T) {
	resetFileValues(t)
	t.Setenv("PORT", ":9090")
	t.Setenv("HOST", "0.0.0.0")
	t.Setenv("PUBLIC_URL", "https://docs.example.com/")
	t.Setenv("PHASE_DELAY", "0s")
	t.Setenv("OAUTH_SCOPES", "read:user  repo")
	t.Setenv("REPO_PAGE_SIZE", "not-a-number")
	c := mainConfig{}

	require.Equal(t, ":9090", c.GetPort())
	require.Equal(t, "0.0.0.0:9090", c.GetListenAddr())
	require.Equal(t, "https://docs.example.com/auth/callback", c.GetCallbackURL())
	require.Equal(t, time.Duration(0), c.GetPhaseDelay())
	require.Equal(t, []string{"read:user", "repo"}, c.GetScopes())
	require.Equal(t, 100, c.GetRepoPageSize())
}

func TestLoadFile(t *testing.T) {
	resetFileValues(t)
	t.Setenv("API_BASE_URL", "")
	t.Setenv("PHASE_DELAY", "")
	t.Setenv("CONTAINS_API", "")
	t.Setenv("TOKEN_STORE", "sqlite")

	path := filepath.Join(t.TempDir(), "reposcribe.yaml")
	content := "API_BASE_URL: https://api.example.com/\nPHASE_DELAY: 500ms\nTOKEN_STORE: keyring\ncontains_api: false\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	require.NoError(t, LoadFile(path))

	c := mainConfig{}
	require.Equal(t, "https://api.example.com", c.GetAPIBaseURL())
	require.Equal(t, 500*time.Millisecond, c.GetPhaseDelay())
	require.False(t, c.GetContainsAPI())

	t.Run("environment wins over file", func(t *testing.T) {
		require.Equal(t, "sqlite", c.GetTokenStore())
	})

	t.Run("missing file", func(t *testing.T) {
		require.Error(t, LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))
	})
}

func TestExplicitFileBeatsConfigFileVar(t *testing.T) {
	resetFileValues(t)
	layersOnce = sync.Once{}
	t.Setenv("API_BASE_URL", "")

	dir := t.TempDir()
	explicit := filepath.Join(dir, "explicit.yaml")
	fromEnv := filepath.Join(dir, "env.yaml")
	require.NoError(t, os.WriteFile(explicit, []byte("API_BASE_URL: https://explicit.example.com\n"), 0o600))
	require.NoError(t, os.WriteFile(fromEnv, []byte("API_BASE_URL: https://env.example.com\n"), 0o600))
	t.Setenv("CONFIG_FILE", fromEnv)

	require.NoError(t, LoadFile(explicit))
	c := New()
	require.Equal(t, "https://explicit.example.com", c.GetAPIBaseURL())
}

func TestAllowedOrigins(t *testing.T) {
	resetFileValues(t)
	t.Setenv("PUBLIC_URL", "http://localhost:3000")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com/")

	origins := Cors{}.GetAllowedOrigins()
	require.True(t, origins.IsAllowedOrigin("http://localhost:3000"))
	require.True(t, origins.IsAllowedOrigin("https://a.example.com"))
	require.True(t, origins.IsAllowedOrigin("https://b.example.com"))
	require.False(t, origins.IsAllowedOrigin("https://evil.example.com"))
}

func TestStateSecret(t *testing.T) {
	resetFileValues(t)
	t.Setenv("STATE_SECRET", "")
	generated := Security{}.GetStateSecret()
	require.NotEmpty(t, generated)
	require.Equal(t, generated, Security{}.GetStateSecret())

	t.Setenv("STATE_SECRET", "fixed")
	require.Equal(t, []byte("fixed"), Security{}.GetStateSecret())
}
