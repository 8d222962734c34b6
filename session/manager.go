package session

import (
	"context"
	"sync"

	"github.com/jrsteele09/reposcribe/authflow"
	"github.com/jrsteele09/reposcribe/backend"
	"github.com/jrsteele09/reposcribe/internal/config"
	"github.com/jrsteele09/reposcribe/internal/errors"
	"github.com/jrsteele09/reposcribe/tokenstore"
	"github.com/jrsteele09/reposcribe/users"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Backend is the subset of the backend API the session needs.
type Backend interface {
	GetUser(ctx context.Context, token string) (*users.User, error)
	ExchangeCode(ctx context.Context, code, redirectURI string) (*backend.LoginResult, error)
	LoginURL(redirectURI, state string) string
}

type Config interface {
	config.OAuthConfig
	config.SecurityConfig
}

// Manager is the single writer of the Session. Subscribers are notified
// outside the lock, in registration order.
//
// Every login or logout starts a new epoch. A network result only lands if
// its epoch is still current, so a late check cannot undo a logout and a late
// failure cannot clear a token stored after it started.
type Manager struct {
	mu          sync.Mutex
	session     Session
	epoch       uint64
	usedCodes   map[string]struct{}
	subscribers []func(Session)

	store       tokenstore.Store
	backend     Backend
	flow        *authflow.Flow
	oauth       *oauth2.Config
	callbackURL string
}

func NewManager(cfg Config, store tokenstore.Store, api Backend) *Manager {
	m := &Manager{
		session:     initialSession(),
		usedCodes:   make(map[string]struct{}),
		store:       store,
		backend:     api,
		flow:        authflow.NewFlow(authflow.NewSigner(cfg.GetStateSecret(), cfg.GetLoginStateTimeout()), authflow.NewInMemoryRepo()),
		callbackURL: cfg.GetCallbackURL(),
	}
	if clientID := cfg.GetGitHubClientID(); clientID != "" {
		m.oauth = &oauth2.Config{
			ClientID:    clientID,
			RedirectURL: m.callbackURL,
			Scopes:      cfg.GetScopes(),
			Endpoint:    oauth2.Endpoint{AuthURL: cfg.GetAuthURL()},
		}
	}
	return m
}

// CallbackURL is the redirect_uri registered with the provider.
func (m *Manager) CallbackURL() string {
	return m.callbackURL
}

// Session returns a snapshot of the current state.
func (m *Manager) Session() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.clone()
}

// Subscribe registers fn to receive every new snapshot and returns a function
// that removes it.
func (m *Manager) Subscribe(fn func(Session)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
	idx := len(m.subscribers) - 1
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.subscribers[idx] = nil
	}
}

// Token re-reads the persisted bearer token.
func (m *Manager) Token() (string, error) {
	return m.store.Get()
}

// Get lets the manager stand in as a token source for other components.
func (m *Manager) Get() (string, error) {
	return m.Token()
}

// begin starts a new epoch, superseding every check or exchange in flight.
func (m *Manager) begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.epoch++
	return m.epoch
}

func (m *Manager) currentEpoch() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.epoch
}

// commit publishes next if epoch is still current and, when token is set,
// the store still holds token. persist, if any, runs first under the same
// lock; its error is returned and the session is left unchanged.
func (m *Manager) commit(epoch uint64, token string, persist func(tokenstore.Store) error, next Session) (bool, error) {
	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		return false, nil
	}
	if token != "" {
		if current, err := m.store.Get(); err != nil || current != token {
			m.mu.Unlock()
			return false, nil
		}
	}
	if persist != nil {
		if err := persist(m.store); err != nil {
			m.mu.Unlock()
			return false, err
		}
	}

	prev := m.session.State
	m.session = next
	subs := make([]func(Session), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		if fn != nil {
			subs = append(subs, fn)
		}
	}
	m.mu.Unlock()

	log.Debug().Stringer("from", prev).Stringer("to", next.State).Msg("session state change")
	for _, fn := range subs {
		fn(next.clone())
	}
	return true, nil
}

func clearToken(s tokenstore.Store) error {
	return s.Clear()
}

// CheckSession validates the persisted token, if any, against the backend.
// A rejected or failed check clears the token.
func (m *Manager) CheckSession(ctx context.Context) error {
	epoch := m.currentEpoch()
	token, err := m.store.Get()
	if err != nil || token == "" {
		_, _ = m.commit(epoch, "", nil, unauthenticated(""))
		return nil
	}
	return m.validate(ctx, epoch, token, "[Manager CheckSession]")
}

func (m *Manager) validate(ctx context.Context, epoch uint64, token, op string) error {
	user, err := m.backend.GetUser(ctx, token)
	if err != nil {
		log.Err(err).Msg("session check failed")
		if _, clearErr := m.commit(epoch, token, clearToken, unauthenticated(MessageAuthCheckFailed)); clearErr != nil {
			log.Err(clearErr).Msg("failed to clear rejected token")
			_, _ = m.commit(epoch, "", nil, unauthenticated(MessageAuthCheckFailed))
		}
		return errors.Wrapf(err, op+" %w", errors.ErrAuthCheckFailed)
	}

	if committed, _ := m.commit(epoch, token, nil, authenticated(user)); !committed {
		log.Debug().Msg("session changed during check, result dropped")
		return errors.Wrapf(errors.ErrSessionChanged, op)
	}
	return nil
}

// BeginLogin registers a pending login and returns the URL the browser should
// navigate to. returnURL is where the shell goes after a successful callback.
func (m *Manager) BeginLogin(returnURL string) (string, error) {
	state, err := m.flow.Begin(m.callbackURL, returnURL)
	if err != nil {
		return "", errors.Wrapf(err, "[Manager BeginLogin]")
	}
	if m.oauth == nil {
		return m.backend.LoginURL(m.callbackURL, state), nil
	}
	return m.oauth.AuthCodeURL(state), nil
}

// CompleteLogin exchanges the authorization code for a token. A code is
// exchanged at most once per process; a repeated call fails with
// ErrCodeAlreadyUsed and no network call. It returns the pending login's
// return URL on success.
func (m *Manager) CompleteLogin(ctx context.Context, code, state string) (string, error) {
	const op = "[Manager CompleteLogin]"
	if code == "" {
		return "", errors.Wrapf(errors.ErrMissingCode, op)
	}

	m.mu.Lock()
	if _, seen := m.usedCodes[code]; seen {
		m.mu.Unlock()
		return "", errors.Wrapf(errors.ErrCodeAlreadyUsed, op)
	}
	m.usedCodes[code] = struct{}{}
	m.mu.Unlock()

	epoch := m.begin()
	fail := func(err error) (string, error) {
		_, _ = m.commit(epoch, "", nil, unauthenticated(MessageLoginFailed))
		return "", errors.Wrapf(err, op+" %w", errors.ErrLoginExchangeFailed)
	}

	login, err := m.flow.Complete(state)
	if err != nil {
		return fail(err)
	}

	_, _ = m.commit(epoch, "", nil, Session{State: StateExchangingCode, Loading: true})

	result, err := m.backend.ExchangeCode(ctx, code, login.RedirectURI)
	if err != nil {
		log.Err(err).Msg("code exchange failed")
		return fail(err)
	}

	user := result.User
	if user == nil {
		// Older backends return only the token.
		if user, err = m.backend.GetUser(ctx, result.AccessToken); err != nil {
			return fail(err)
		}
	}

	committed, err := m.commit(epoch, "", func(s tokenstore.Store) error {
		return s.Set(result.AccessToken)
	}, authenticated(user))
	if err != nil {
		log.Err(err).Msg("failed to persist token")
		return fail(err)
	}
	if !committed {
		return "", errors.Wrapf(errors.ErrSessionChanged, op+" %w", errors.ErrLoginExchangeFailed)
	}
	return login.ReturnURL, nil
}

// AcceptToken stores a token handed over by the backend's success redirect
// and validates it like CheckSession.
func (m *Manager) AcceptToken(ctx context.Context, token string) error {
	const op = "[Manager AcceptToken]"
	if token == "" {
		return errors.Wrapf(errors.ErrEmptyToken, op)
	}
	epoch := m.begin()
	if _, err := m.commit(epoch, "", func(s tokenstore.Store) error {
		return s.Set(token)
	}, Session{State: StateExchangingCode, Loading: true}); err != nil {
		_, _ = m.commit(epoch, "", nil, unauthenticated(MessageLoginFailed))
		return errors.Wrapf(err, op+" %w", errors.ErrLoginExchangeFailed)
	}
	return m.validate(ctx, epoch, token, op)
}

// EndSession forgets the token and the user. It never fails and makes no
// network call. Checks and exchanges still in flight are dropped.
func (m *Manager) EndSession() {
	epoch := m.begin()
	if _, err := m.commit(epoch, "", clearToken, unauthenticated("")); err != nil {
		log.Err(err).Msg("failed to clear token on logout")
		_, _ = m.commit(epoch, "", nil, unauthenticated(""))
	}
}
