package server

import (
	"net/http"
)

// RequireSession sends unauthenticated requests back to the landing page.
func (s *Server) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.sessions.Session().Authenticated {
			redirectSuccess(w, r, RouteIndex)
			return
		}
		next(w, r)
	}
}
