package repositories

import (
	"context"
	"fmt"

	"github.com/jrsteele09/reposcribe/internal/errors"
	"github.com/rs/zerolog/log"
)

// Lister fetches the raw repository list for a bearer token.
type Lister interface {
	ListRepositories(ctx context.Context, token string) ([]Repository, error)
}

// TokenSource yields the current bearer token. It is read on every List call
// because a logout may clear it at any time.
type TokenSource interface {
	Get() (string, error)
}

// Directory lists the repositories owned by the signed-in user.
type Directory struct {
	lister   Lister
	tokens   TokenSource
	pageSize int
}

func NewDirectory(lister Lister, tokens TokenSource, pageSize int) *Directory {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &Directory{lister: lister, tokens: tokens, pageSize: pageSize}
}

// List fetches the user's repositories, drops forks, orders them by most
// recently updated and keeps at most the page size. Any failure wraps
// ErrListFetchFailed; authorization failures also wrap ErrUnauthorized.
func (d *Directory) List(ctx context.Context) ([]Repository, error) {
	token, err := d.tokens.Get()
	if err != nil || token == "" {
		return nil, fmt.Errorf("%w: %w", errors.ErrListFetchFailed, errors.ErrUnauthorized)
	}

	all, err := d.lister.ListRepositories(ctx, token)
	if err != nil {
		log.Debug().Err(err).Msg("repository listing failed")
		if errors.Is(err, errors.ErrUnauthorized) {
			return nil, fmt.Errorf("%w: %w", errors.ErrListFetchFailed, errors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("%w: %w", errors.ErrListFetchFailed, err)
	}

	owned := make([]Repository, 0, len(all))
	for _, r := range all {
		if !r.Fork {
			owned = append(owned, r)
		}
	}
	return Recent(owned, d.pageSize), nil
}
