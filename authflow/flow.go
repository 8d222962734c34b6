package authflow

import (
	"github.com/jrsteele09/reposcribe/internal/errors"
	"github.com/rs/zerolog/log"
)

// Flow pairs the state signer with the pending login registry. A state is
// accepted only if it verifies and its login is still pending.
type Flow struct {
	signer *Signer
	repo   Repo
}

func NewFlow(signer *Signer, repo Repo) *Flow {
	return &Flow{signer: signer, repo: repo}
}

// Begin registers a new pending login and returns its state value.
func (f *Flow) Begin(redirectURI, returnURL string) (string, error) {
	if pruned := f.repo.Prune(NowTimeFunc().Add(-f.signer.ttl)); pruned > 0 {
		log.Debug().Int("count", pruned).Msg("pruned expired pending logins")
	}

	state, claims, err := f.signer.Issue(redirectURI, returnURL)
	if err != nil {
		return "", err
	}
	err = f.repo.Upsert(claims.ID, &PendingLogin{
		RedirectURI: redirectURI,
		ReturnURL:   returnURL,
		CreatedAt:   claims.IssuedAt.Time,
	})
	if err != nil {
		return "", errors.Wrapf(err, "[Flow Begin] failed to register login")
	}
	return state, nil
}

// Complete verifies state and consumes its pending login.
func (f *Flow) Complete(state string) (*PendingLogin, error) {
	claims, err := f.signer.Verify(state)
	if err != nil {
		return nil, err
	}

	login, err := f.repo.Consume(claims.ID)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidState, "[Flow Complete] login not pending")
	}
	if login.RedirectURI != claims.RedirectURI {
		return nil, errors.Wrapf(errors.ErrInvalidState, "[Flow Complete] redirect mismatch")
	}
	return login, nil
}
