package config

import (
	"strings"

	"golang.org/x/oauth2/github"
)

type OAuthConfig interface {
	GetGitHubClientID() string
	GetAuthURL() string
	GetScopes() []string
	GetCallbackURL() string
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

// CallbackPath is where the identity provider sends the browser back to.
const CallbackPath = "/auth/callback"

// GetGitHubClientID returns the OAuth App client id. When empty the login is
// delegated to the backend managed entrypoint.
func (OAuth) GetGitHubClientID() string {
	return GetEnv("GITHUB_CLIENT_ID", "")
}

func (OAuth) GetAuthURL() string {
	return GetEnv("GITHUB_AUTH_URL", github.Endpoint.AuthURL)
}

func (OAuth) GetScopes() []string {
	return strings.Fields(GetEnv("OAUTH_SCOPES", "read:user user:email repo"))
}

// GetCallbackURL is the redirect_uri used both when starting the login and
// when exchanging the code; the provider requires the two to match.
func (OAuth) GetCallbackURL() string {
	return EnvVars{}.GetPublicURL() + CallbackPath
}
