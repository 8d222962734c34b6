package authflow_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/reposcribe/authflow"
	"github.com/jrsteele09/reposcribe/internal/errors"
	"github.com/stretchr/testify/require"
)

const callback = "http://localhost:3000/auth/callback"

func setupTestFixture(t *testing.T) (*authflow.Flow, *authflow.InMemoryRepo) {
	t.Helper()
	repo := authflow.NewInMemoryRepo()
	signer := authflow.NewSigner([]byte("test-secret"), 10*time.Minute)
	return authflow.NewFlow(signer, repo), repo
}

func freezeTime(t *testing.T, at time.Time) *time.Time {
	t.Helper()
	now := at
	original := authflow.NowTimeFunc
	authflow.NowTimeFunc = func() time.Time { return now }
	t.Cleanup(func() { authflow.NowTimeFunc = original })
	return &now
}

func TestFlow(t *testing.T) {
	t.Run("state is accepted once", func(t *testing.T) {
		flow, _ := setupTestFixture(t)

		state, err := flow.Begin(callback, "/dashboard")
		require.NoError(t, err)

		login, err := flow.Complete(state)
		require.NoError(t, err)
		require.Equal(t, callback, login.RedirectURI)
		require.Equal(t, "/dashboard", login.ReturnURL)

		_, err = flow.Complete(state)
		require.ErrorIs(t, err, errors.ErrInvalidState)
	})

	t.Run("tampered state", func(t *testing.T) {
		flow, _ := setupTestFixture(t)

		state, err := flow.Begin(callback, "")
		require.NoError(t, err)

		_, err = flow.Complete(state + "x")
		require.ErrorIs(t, err, errors.ErrInvalidState)
	})

	t.Run("state signed with another secret", func(t *testing.T) {
		flow, _ := setupTestFixture(t)
		other := authflow.NewFlow(authflow.NewSigner([]byte("other"), time.Minute), authflow.NewInMemoryRepo())

		state, err := other.Begin(callback, "")
		require.NoError(t, err)

		_, err = flow.Complete(state)
		require.ErrorIs(t, err, errors.ErrInvalidState)
	})

	t.Run("empty state", func(t *testing.T) {
		flow, _ := setupTestFixture(t)
		_, err := flow.Complete("")
		require.ErrorIs(t, err, errors.ErrInvalidState)
	})

	t.Run("expired state", func(t *testing.T) {
		now := freezeTime(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
		flow, _ := setupTestFixture(t)

		state, err := flow.Begin(callback, "")
		require.NoError(t, err)

		*now = now.Add(11 * time.Minute)
		_, err = flow.Complete(state)
		require.ErrorIs(t, err, errors.ErrInvalidState)
	})

	t.Run("expired logins are pruned on begin", func(t *testing.T) {
		now := freezeTime(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
		flow, repo := setupTestFixture(t)

		_, err := flow.Begin(callback, "")
		require.NoError(t, err)

		*now = now.Add(time.Hour)
		_, err = flow.Begin(callback, "")
		require.NoError(t, err)
		require.Zero(t, repo.Prune(now.Add(-time.Minute)))
	})
}

func TestInMemoryRepo(t *testing.T) {
	repo := authflow.NewInMemoryRepo()
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.Error(t, repo.Upsert("", &authflow.PendingLogin{}))
	require.Error(t, repo.Upsert("a", nil))

	original := &authflow.PendingLogin{RedirectURI: callback, CreatedAt: created}
	require.NoError(t, repo.Upsert("c", original))
	original.RedirectURI = "changed"

	login, err := repo.Consume("c")
	require.NoError(t, err)
	require.Equal(t, "c", login.ID)
	require.Equal(t, callback, login.RedirectURI)

	_, err = repo.Consume("c")
	require.ErrorIs(t, err, errors.ErrNotFound)

	require.NoError(t, repo.Upsert("b", &authflow.PendingLogin{CreatedAt: created}))
	require.Equal(t, 1, repo.Prune(created.Add(time.Second)))
	_, err = repo.Consume("b")
	require.ErrorIs(t, err, errors.ErrNotFound)
}
