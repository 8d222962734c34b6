package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jrsteele09/reposcribe/users"
)

// LoginResult is what the backend returns after exchanging a GitHub code.
type LoginResult struct {
	AccessToken string      `json:"accessToken"`
	User        *users.User `json:"user"`
}

// LoginURL is the backend managed OAuth entrypoint, used when this client has
// no GitHub client id of its own.
func (c *Client) LoginURL(redirectURI, state string) string {
	q := url.Values{}
	q.Set("redirect_uri", redirectURI)
	if state != "" {
		q.Set("state", state)
	}
	return c.endpoint(PathLogin, q)
}

// ExchangeCode trades a one-time authorization code for an access token and
// the signed-in user. redirectURI must equal the one used to start the login.
func (c *Client) ExchangeCode(ctx context.Context, code, redirectURI string) (*LoginResult, error) {
	q := url.Values{}
	q.Set("code", code)
	q.Set("redirect_uri", redirectURI)

	req, err := c.newRequest(ctx, http.MethodGet, PathCallback, q, nil)
	if err != nil {
		return nil, err
	}
	var result LoginResult
	if err := do(c.httpClient, req, &result); err != nil {
		return nil, err
	}
	if result.AccessToken == "" {
		return nil, fmt.Errorf("[backend %s] malformed response: missing accessToken", PathCallback)
	}
	return &result, nil
}

// GetUser validates token and returns the account it belongs to.
func (c *Client) GetUser(ctx context.Context, token string) (*users.User, error) {
	req, err := c.newRequest(ctx, http.MethodGet, PathUser, nil, nil)
	if err != nil {
		return nil, err
	}
	var user users.User
	if err := do(c.bearerClient(ctx, token), req, &user); err != nil {
		return nil, err
	}
	if user.Login == "" && user.ID == 0 {
		return nil, fmt.Errorf("[backend %s] malformed response: empty user", PathUser)
	}
	return &user, nil
}
