package session_test

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/reposcribe/backend"
	"github.com/jrsteele09/reposcribe/internal/errors"
	"github.com/jrsteele09/reposcribe/session"
	"github.com/jrsteele09/reposcribe/tokenstore/repofake"
	"github.com/jrsteele09/reposcribe/users"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	clientID string
}

func (c testConfig) GetGitHubClientID() string         { return c.clientID }
func (testConfig) GetAuthURL() string                  { return "https://github.com/login/oauth/authorize" }
func (testConfig) GetScopes() []string                 { return []string{"read:user", "repo"} }
func (testConfig) GetCallbackURL() string              { return "http://localhost:3000/auth/callback" }
func (testConfig) GetStateSecret() []byte              { return []byte("test-secret") }
func (testConfig) GetLoginStateTimeout() time.Duration { return 10 * time.Minute }

type fakeBackend struct {
	mu          sync.Mutex
	users       map[string]*users.User
	exchange    map[string]*backend.LoginResult
	userCalls   int
	exchanges   []string
	redirectURI string

	// hold, when set, parks the next GetUser call until it is closed.
	hold    chan struct{}
	entered chan struct{}
}

// holdNextUserCall parks the next GetUser call and returns a function that
// waits for the call to arrive and a function that releases it.
func (f *fakeBackend) holdNextUserCall() (waitEntered func(), release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hold = make(chan struct{})
	f.entered = make(chan struct{})
	hold, entered := f.hold, f.entered
	return func() { <-entered }, func() { close(hold) }
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users:    map[string]*users.User{},
		exchange: map[string]*backend.LoginResult{},
	}
}

func (f *fakeBackend) GetUser(_ context.Context, token string) (*users.User, error) {
	f.mu.Lock()
	hold, entered := f.hold, f.entered
	f.hold, f.entered = nil, nil
	f.mu.Unlock()
	if hold != nil {
		close(entered)
		<-hold
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.userCalls++
	user, ok := f.users[token]
	if !ok {
		return nil, &backend.StatusError{Endpoint: backend.PathUser, StatusCode: 401}
	}
	return user, nil
}

func (f *fakeBackend) ExchangeCode(_ context.Context, code, redirectURI string) (*backend.LoginResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exchanges = append(f.exchanges, code)
	f.redirectURI = redirectURI
	result, ok := f.exchange[code]
	if !ok {
		return nil, &backend.StatusError{Endpoint: backend.PathCallback, StatusCode: 400, Message: "bad_verification_code"}
	}
	return result, nil
}

func (f *fakeBackend) LoginURL(redirectURI, state string) string {
	return "https://api.example.com/auth/github/login?" + url.Values{"redirect_uri": {redirectURI}, "state": {state}}.Encode()
}

type fixture struct {
	manager *session.Manager
	store   *repofake.FakeTokenStore
	backend *fakeBackend
}

func setupTestFixture(t *testing.T, token string, clientID string) *fixture {
	t.Helper()
	store := repofake.NewFakeTokenStoreWith(token)
	api := newFakeBackend()
	return &fixture{
		manager: session.NewManager(testConfig{clientID: clientID}, store, api),
		store:   store,
		backend: api,
	}
}

func stateFrom(t *testing.T, loginURL string) string {
	t.Helper()
	u, err := url.Parse(loginURL)
	require.NoError(t, err)
	state := u.Query().Get("state")
	require.NotEmpty(t, state)
	return state
}

func TestInitialSession(t *testing.T) {
	f := setupTestFixture(t, "", "")
	s := f.manager.Session()
	require.Equal(t, session.StateInitializing, s.State)
	require.True(t, s.Loading)
	require.False(t, s.Authenticated)
}

func TestCheckSession(t *testing.T) {
	t.Run("no stored token", func(t *testing.T) {
		f := setupTestFixture(t, "", "")

		require.NoError(t, f.manager.CheckSession(context.Background()))
		require.Equal(t, session.Session{State: session.StateUnauthenticated}, f.manager.Session())
		require.Zero(t, f.backend.userCalls)
	})

	t.Run("valid token", func(t *testing.T) {
		f := setupTestFixture(t, "abc", "")
		f.backend.users["abc"] = &users.User{ID: 1, Login: "alice"}

		require.NoError(t, f.manager.CheckSession(context.Background()))
		s := f.manager.Session()
		require.True(t, s.Authenticated)
		require.False(t, s.Loading)
		require.Empty(t, s.Error)
		require.Equal(t, &users.User{ID: 1, Login: "alice"}, s.User)
	})

	t.Run("rejected token is cleared", func(t *testing.T) {
		f := setupTestFixture(t, "stale", "")

		err := f.manager.CheckSession(context.Background())
		require.ErrorIs(t, err, errors.ErrAuthCheckFailed)
		require.ErrorIs(t, err, errors.ErrUnauthorized)

		s := f.manager.Session()
		require.False(t, s.Authenticated)
		require.Equal(t, session.MessageAuthCheckFailed, s.Error)
		require.Empty(t, f.store.Peek())
	})
}

func TestBeginLogin(t *testing.T) {
	t.Run("github authorize url", func(t *testing.T) {
		f := setupTestFixture(t, "", "client-1")

		loginURL, err := f.manager.BeginLogin("/")
		require.NoError(t, err)

		u, err := url.Parse(loginURL)
		require.NoError(t, err)
		require.Equal(t, "github.com", u.Host)
		require.Equal(t, "/login/oauth/authorize", u.Path)
		q := u.Query()
		require.Equal(t, "client-1", q.Get("client_id"))
		require.Equal(t, "http://localhost:3000/auth/callback", q.Get("redirect_uri"))
		require.Equal(t, "read:user repo", q.Get("scope"))
		require.NotEmpty(t, q.Get("state"))
	})

	t.Run("backend managed login", func(t *testing.T) {
		f := setupTestFixture(t, "", "")

		loginURL, err := f.manager.BeginLogin("/")
		require.NoError(t, err)
		require.Contains(t, loginURL, "https://api.example.com/auth/github/login?")
		stateFrom(t, loginURL)
	})
}

func TestCompleteLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := setupTestFixture(t, "", "client-1")
		f.backend.exchange["code-1"] = &backend.LoginResult{AccessToken: "tok1", User: &users.User{ID: 7, Login: "bob"}}

		loginURL, err := f.manager.BeginLogin("/dashboard")
		require.NoError(t, err)

		returnURL, err := f.manager.CompleteLogin(context.Background(), "code-1", stateFrom(t, loginURL))
		require.NoError(t, err)
		require.Equal(t, "/dashboard", returnURL)
		require.Equal(t, "tok1", f.store.Peek())
		require.Equal(t, "http://localhost:3000/auth/callback", f.backend.redirectURI)

		s := f.manager.Session()
		require.True(t, s.Authenticated)
		require.Equal(t, "bob", s.User.Login)
	})

	t.Run("code is exchanged once", func(t *testing.T) {
		f := setupTestFixture(t, "", "client-1")
		f.backend.exchange["code-1"] = &backend.LoginResult{AccessToken: "tok1", User: &users.User{Login: "bob"}}

		loginURL, err := f.manager.BeginLogin("/")
		require.NoError(t, err)
		state := stateFrom(t, loginURL)

		_, err = f.manager.CompleteLogin(context.Background(), "code-1", state)
		require.NoError(t, err)
		_, err = f.manager.CompleteLogin(context.Background(), "code-1", state)
		require.ErrorIs(t, err, errors.ErrCodeAlreadyUsed)

		require.Equal(t, []string{"code-1"}, f.backend.exchanges)
		require.True(t, f.manager.Session().Authenticated)
	})

	t.Run("concurrent duplicate callbacks exchange once", func(t *testing.T) {
		f := setupTestFixture(t, "", "client-1")
		f.backend.exchange["code-1"] = &backend.LoginResult{AccessToken: "tok1", User: &users.User{Login: "bob"}}

		loginURL, err := f.manager.BeginLogin("/")
		require.NoError(t, err)
		state := stateFrom(t, loginURL)

		var wg sync.WaitGroup
		for range 2 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = f.manager.CompleteLogin(context.Background(), "code-1", state)
			}()
		}
		wg.Wait()
		require.Len(t, f.backend.exchanges, 1)
	})

	t.Run("missing code", func(t *testing.T) {
		f := setupTestFixture(t, "", "")
		_, err := f.manager.CompleteLogin(context.Background(), "", "state")
		require.ErrorIs(t, err, errors.ErrMissingCode)
	})

	t.Run("invalid state makes no network call", func(t *testing.T) {
		f := setupTestFixture(t, "", "")

		_, err := f.manager.CompleteLogin(context.Background(), "code-1", "forged")
		require.ErrorIs(t, err, errors.ErrInvalidState)
		require.ErrorIs(t, err, errors.ErrLoginExchangeFailed)
		require.Empty(t, f.backend.exchanges)
		require.Equal(t, session.MessageLoginFailed, f.manager.Session().Error)
	})

	t.Run("replayed state makes no network call", func(t *testing.T) {
		f := setupTestFixture(t, "", "")
		f.backend.exchange["code-1"] = &backend.LoginResult{AccessToken: "tok1", User: &users.User{Login: "bob"}}

		loginURL, err := f.manager.BeginLogin("/")
		require.NoError(t, err)
		state := stateFrom(t, loginURL)

		_, err = f.manager.CompleteLogin(context.Background(), "code-1", state)
		require.NoError(t, err)
		_, err = f.manager.CompleteLogin(context.Background(), "code-2", state)
		require.ErrorIs(t, err, errors.ErrInvalidState)
		require.Len(t, f.backend.exchanges, 1)
	})

	t.Run("rejected code leaves token unset", func(t *testing.T) {
		f := setupTestFixture(t, "", "")

		loginURL, err := f.manager.BeginLogin("/")
		require.NoError(t, err)

		_, err = f.manager.CompleteLogin(context.Background(), "bad", stateFrom(t, loginURL))
		require.ErrorIs(t, err, errors.ErrLoginExchangeFailed)
		require.Empty(t, f.store.Peek())

		s := f.manager.Session()
		require.False(t, s.Authenticated)
		require.Equal(t, session.MessageLoginFailed, s.Error)
	})

	t.Run("token without user is validated", func(t *testing.T) {
		f := setupTestFixture(t, "", "")
		f.backend.exchange["code-1"] = &backend.LoginResult{AccessToken: "tok1"}
		f.backend.users["tok1"] = &users.User{ID: 3, Login: "carol"}

		loginURL, err := f.manager.BeginLogin("/")
		require.NoError(t, err)

		_, err = f.manager.CompleteLogin(context.Background(), "code-1", stateFrom(t, loginURL))
		require.NoError(t, err)
		require.Equal(t, "carol", f.manager.Session().User.Login)
	})
}

func TestAcceptToken(t *testing.T) {
	t.Run("valid token", func(t *testing.T) {
		f := setupTestFixture(t, "", "")
		f.backend.users["tok9"] = &users.User{Login: "dave"}

		require.NoError(t, f.manager.AcceptToken(context.Background(), "tok9"))
		require.Equal(t, "tok9", f.store.Peek())
		require.True(t, f.manager.Session().Authenticated)
	})

	t.Run("rejected token leaves the store empty", func(t *testing.T) {
		f := setupTestFixture(t, "", "")

		require.Error(t, f.manager.AcceptToken(context.Background(), "bogus"))
		require.Empty(t, f.store.Peek())
		require.False(t, f.manager.Session().Authenticated)
	})

	t.Run("empty token", func(t *testing.T) {
		f := setupTestFixture(t, "", "")
		require.ErrorIs(t, f.manager.AcceptToken(context.Background(), ""), errors.ErrEmptyToken)
	})
}

func TestEndSession(t *testing.T) {
	t.Run("while loading", func(t *testing.T) {
		f := setupTestFixture(t, "abc", "")
		require.True(t, f.manager.Session().Loading)

		f.manager.EndSession()
		require.Equal(t, session.Session{State: session.StateUnauthenticated}, f.manager.Session())
		require.Empty(t, f.store.Peek())
		require.Zero(t, f.backend.userCalls)
	})

	t.Run("after login", func(t *testing.T) {
		f := setupTestFixture(t, "abc", "")
		f.backend.users["abc"] = &users.User{Login: "alice"}
		require.NoError(t, f.manager.CheckSession(context.Background()))

		f.manager.EndSession()
		s := f.manager.Session()
		require.False(t, s.Authenticated)
		require.Nil(t, s.User)
		require.Empty(t, s.Error)
		require.Equal(t, 1, f.store.Clears)
	})
}

func TestStaleCheck(t *testing.T) {
	t.Run("logout while checking stays logged out", func(t *testing.T) {
		f := setupTestFixture(t, "abc", "")
		f.backend.users["abc"] = &users.User{ID: 1, Login: "alice"}
		waitEntered, release := f.backend.holdNextUserCall()

		errs := make(chan error, 1)
		go func() { errs <- f.manager.CheckSession(context.Background()) }()
		waitEntered()
		f.manager.EndSession()
		release()

		require.ErrorIs(t, <-errs, errors.ErrSessionChanged)
		s := f.manager.Session()
		require.False(t, s.Authenticated)
		require.Nil(t, s.User)
		require.Empty(t, f.store.Peek())
	})

	t.Run("failed check keeps a token accepted meanwhile", func(t *testing.T) {
		f := setupTestFixture(t, "stale", "")
		f.backend.users["tok9"] = &users.User{Login: "dave"}
		waitEntered, release := f.backend.holdNextUserCall()

		errs := make(chan error, 1)
		go func() { errs <- f.manager.CheckSession(context.Background()) }()
		waitEntered()
		require.NoError(t, f.manager.AcceptToken(context.Background(), "tok9"))
		release()

		require.ErrorIs(t, <-errs, errors.ErrAuthCheckFailed)
		require.Equal(t, "tok9", f.store.Peek())
		s := f.manager.Session()
		require.True(t, s.Authenticated)
		require.Equal(t, "dave", s.User.Login)
		require.Empty(t, s.Error)
	})

	t.Run("logout during exchange discards the token", func(t *testing.T) {
		f := setupTestFixture(t, "", "")
		f.backend.exchange["code-1"] = &backend.LoginResult{AccessToken: "tok1"}
		f.backend.users["tok1"] = &users.User{Login: "carol"}

		loginURL, err := f.manager.BeginLogin("/")
		require.NoError(t, err)
		state := stateFrom(t, loginURL)
		waitEntered, release := f.backend.holdNextUserCall()

		errs := make(chan error, 1)
		go func() {
			_, err := f.manager.CompleteLogin(context.Background(), "code-1", state)
			errs <- err
		}()
		waitEntered()
		f.manager.EndSession()
		release()

		require.ErrorIs(t, <-errs, errors.ErrSessionChanged)
		require.Empty(t, f.store.Peek())
		require.False(t, f.manager.Session().Authenticated)
	})
}

func TestSubscribe(t *testing.T) {
	f := setupTestFixture(t, "abc", "")
	f.backend.users["abc"] = &users.User{Login: "alice"}

	var seen []session.State
	unsubscribe := f.manager.Subscribe(func(s session.Session) {
		seen = append(seen, s.State)
	})

	require.NoError(t, f.manager.CheckSession(context.Background()))
	f.manager.EndSession()
	unsubscribe()
	require.NoError(t, f.manager.CheckSession(context.Background()))

	require.Equal(t, []session.State{session.StateAuthenticated, session.StateUnauthenticated}, seen)
}

func TestTokenSource(t *testing.T) {
	f := setupTestFixture(t, "abc", "")
	token, err := f.manager.Get()
	require.NoError(t, err)
	require.Equal(t, "abc", token)

	f.manager.EndSession()
	_, err = f.manager.Token()
	require.ErrorIs(t, err, errors.ErrTokenNotFound)
}

func ExampleState() {
	fmt.Println(session.StateExchangingCode)
	// Output: exchanging_code
}
