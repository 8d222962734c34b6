package repositories_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jrsteele09/reposcribe/internal/errors"
	"github.com/jrsteele09/reposcribe/repositories"
	"github.com/jrsteele09/reposcribe/tokenstore/repofake"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	list   []repositories.Repository
	err    error
	calls  int
	tokens []string
}

func (f *fakeLister) ListRepositories(_ context.Context, token string) ([]repositories.Repository, error) {
	f.calls++
	f.tokens = append(f.tokens, token)
	return f.list, f.err
}

func repoAt(id int64, name string, updated time.Time, fork bool) repositories.Repository {
	return repositories.Repository{
		ID:        id,
		Name:      name,
		URL:       "https://github.com/alice/" + name,
		UpdatedAt: repositories.NewTimestamp(updated),
		Fork:      fork,
	}
}

func TestDirectoryList(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("no token", func(t *testing.T) {
		lister := &fakeLister{}
		dir := repositories.NewDirectory(lister, repofake.NewFakeTokenStore(), 100)

		_, err := dir.List(context.Background())
		require.ErrorIs(t, err, errors.ErrListFetchFailed)
		require.ErrorIs(t, err, errors.ErrUnauthorized)
		require.Zero(t, lister.calls)
	})

	t.Run("drops forks and orders by update", func(t *testing.T) {
		lister := &fakeLister{list: []repositories.Repository{
			repoAt(1, "old", base.Add(-48*time.Hour), false),
			repoAt(2, "forked", base, true),
			repoAt(3, "new", base, false),
		}}
		dir := repositories.NewDirectory(lister, repofake.NewFakeTokenStoreWith("tok1"), 100)

		list, err := dir.List(context.Background())
		require.NoError(t, err)
		require.Equal(t, []string{"tok1"}, lister.tokens)
		require.Len(t, list, 2)
		require.Equal(t, "new", list[0].Name)
		require.Equal(t, "old", list[1].Name)
	})

	t.Run("page size", func(t *testing.T) {
		var all []repositories.Repository
		for i := range 5 {
			all = append(all, repoAt(int64(i), fmt.Sprintf("r%d", i), base.Add(time.Duration(i)*time.Hour), false))
		}
		dir := repositories.NewDirectory(&fakeLister{list: all}, repofake.NewFakeTokenStoreWith("tok1"), 3)

		list, err := dir.List(context.Background())
		require.NoError(t, err)
		require.Len(t, list, 3)
		require.Equal(t, "r4", list[0].Name)
	})

	t.Run("rejected token", func(t *testing.T) {
		lister := &fakeLister{err: fmt.Errorf("backend says: %w", errors.ErrUnauthorized)}
		dir := repositories.NewDirectory(lister, repofake.NewFakeTokenStoreWith("stale"), 100)

		_, err := dir.List(context.Background())
		require.ErrorIs(t, err, errors.ErrListFetchFailed)
		require.ErrorIs(t, err, errors.ErrUnauthorized)
	})

	t.Run("upstream failure", func(t *testing.T) {
		boom := fmt.Errorf("connection refused")
		dir := repositories.NewDirectory(&fakeLister{err: boom}, repofake.NewFakeTokenStoreWith("tok1"), 100)

		_, err := dir.List(context.Background())
		require.ErrorIs(t, err, errors.ErrListFetchFailed)
		require.ErrorIs(t, err, boom)
		require.NotErrorIs(t, err, errors.ErrUnauthorized)
	})
}
