package server

import (
	"net/http"

	"github.com/jrsteele09/reposcribe/internal/errors"
	"github.com/rs/zerolog/log"
)

// LoginHandler starts a login and sends the browser to the provider.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loginURL, err := s.sessions.BeginLogin(localPath(r.URL.Query().Get("return")))
		if err != nil {
			log.Err(err).Msg("failed to start login")
			redirectWithError(w, r, RouteIndex, ErrorCodeAuthFailed)
			return
		}
		redirectSuccess(w, r, loginURL)
	}
}

// OAuthCallbackHandler completes a login from the provider's redirect.
func (s *Server) OAuthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if errorParam := query.Get("error"); errorParam != "" {
			log.Warn().Str("error", errorParam).Str("description", query.Get("error_description")).Msg("provider reported an authorization error")
			redirectWithError(w, r, RouteIndex, ErrorCodeOAuth)
			return
		}

		returnURL, err := s.sessions.CompleteLogin(r.Context(), query.Get("code"), query.Get("state"))
		switch {
		case errors.Is(err, errors.ErrCodeAlreadyUsed):
			// A reload or a duplicate delivery of a code the first request already handled.
			redirectSuccess(w, r, RouteIndex)
		case err != nil:
			log.Err(err).Msg("login callback failed")
			redirectWithError(w, r, RouteIndex, ErrorCodeAuthFailed)
		default:
			s.shell.reset()
			redirectSuccess(w, r, localPath(returnURL))
		}
	}
}

// AuthSuccessHandler accepts a token handed over by the backend's own login
// page.
func (s *Server) AuthSuccessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("accessToken")
		if token == "" {
			redirectWithError(w, r, RouteIndex, ErrorCodeAuthFailed)
			return
		}
		if err := s.sessions.AcceptToken(r.Context(), token); err != nil {
			log.Err(err).Msg("token hand-off failed")
			redirectWithError(w, r, RouteIndex, ErrorCodeAuthFailed)
			return
		}
		s.shell.reset()
		redirectSuccess(w, r, RouteIndex)
	}
}

// LogoutHandler ends the session and forgets everything fetched for it.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.shell.reset()
		s.sessions.EndSession()
		redirectSuccess(w, r, RouteIndex)
	}
}
