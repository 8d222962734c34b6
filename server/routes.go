package server

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

func (s *Server) initRoutes() error {
	index, err := s.IndexHandler()
	if err != nil {
		return err
	}
	list, err := s.RepositoryListHandler()
	if err != nil {
		return err
	}
	refresh, err := s.RefreshRepositoriesHandler()
	if err != nil {
		return err
	}
	dashboard, err := s.DashboardHandler()
	if err != nil {
		return err
	}
	generatePage, err := s.GeneratePageHandler()
	if err != nil {
		return err
	}
	generateStatus, err := s.GenerateStatusHandler()
	if err != nil {
		return err
	}
	regenerate, err := s.RegenerateHandler()
	if err != nil {
		return err
	}

	s.RegisterRouteHandler("GET /{$}", ChainMiddleware(index, s.HTMLMiddleWare()...))

	// LOGIN
	s.RegisterRouteHandler("GET "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteAuthCallback, ChainMiddleware(s.OAuthCallbackHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteAuthSuccess, ChainMiddleware(s.AuthSuccessHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))

	// Pages that need a signed in user
	s.RegisterRouteHandler("GET "+RouteRepositoryList, ChainMiddleware(list, s.HTMLMiddleWare(s.RequireSession)...))
	s.RegisterRouteHandler("POST "+RouteRepositoryRefresh, ChainMiddleware(refresh, s.HTMLMiddleWare(s.RequireSession)...))
	s.RegisterRouteHandler("GET "+RouteDashboard, ChainMiddleware(dashboard, s.HTMLMiddleWare(s.RequireSession)...))

	s.RegisterRouteHandler("GET "+RouteGenerate, ChainMiddleware(generatePage, s.HTMLMiddleWare(s.RequireSession)...))
	s.RegisterRouteHandler("GET "+RouteGenerateStatus, ChainMiddleware(generateStatus, s.HTMLMiddleWare(s.RequireSession)...))
	s.RegisterRouteHandler("GET "+RouteGenerateDownload, ChainMiddleware(s.DownloadHandler(), s.HTMLMiddleWare(s.RequireSession)...))
	s.RegisterRouteHandler("POST "+RouteGenerateRegenerate, ChainMiddleware(regenerate, s.HTMLMiddleWare(s.RequireSession)...))
	s.RegisterRouteHandler("POST "+RouteGenerateCopy, ChainMiddleware(s.CopyHandler(), s.HTMLMiddleWare(s.RequireSession)...))
	s.RegisterRouteHandler("POST "+RouteGenerateBack, ChainMiddleware(s.BackHandler(), s.HTMLMiddleWare(s.RequireSession)...))
	s.RegisterRouteHandler("POST "+RouteGenerateStart, ChainMiddleware(s.GenerateStartHandler(), s.HTMLMiddleWare(s.RequireSession)...))

	// API routes
	s.RegisterRouteHandler("GET "+RouteAPISession, ChainMiddleware(s.SessionAPIHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("OPTIONS "+RouteAPISession, ChainMiddleware(s.SessionAPIHandler(), s.APIMiddleware()...))

	s.RegisterRouteHandler("GET "+RouteStaticCSS, ChainMiddleware(s.serveFileHandler(), s.StaticMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteStaticJS, ChainMiddleware(s.serveFileHandler(), s.StaticMiddleware()...))
	return nil
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := strings.TrimPrefix(r.URL.Path, "/")
		if filePath == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		if err := StreamFile(w, r, filePath); err != nil {
			logError(r.Method, filePath, err.Error())
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}

func logError(method, path, message string) {
	log.Warn().Msgf("[%-19s] %s %s", colourMethod(method), path, Red+message+ResetColor)
}
