package backend

import (
	"context"
	"net/http"

	"github.com/jrsteele09/reposcribe/repositories"
)

// ListRepositories returns the repositories the backend lists for token.
func (c *Client) ListRepositories(ctx context.Context, token string) ([]repositories.Repository, error) {
	req, err := c.newRequest(ctx, http.MethodGet, PathRepositories, nil, nil)
	if err != nil {
		return nil, err
	}
	var list []repositories.Repository
	if err := do(c.bearerClient(ctx, token), req, &list); err != nil {
		return nil, err
	}
	return list, nil
}
