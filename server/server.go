package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/reposcribe/docgen"
	"github.com/jrsteele09/reposcribe/internal/config"
	"github.com/jrsteele09/reposcribe/internal/errors"
	"github.com/jrsteele09/reposcribe/repositories"
	"github.com/jrsteele09/reposcribe/session"
	"github.com/rs/zerolog/log"
)

// Dependencies are the components the web shell composes.
type Dependencies struct {
	Sessions  *session.Manager
	Directory *repositories.Directory
	Generator docgen.Generator
	Clipboard docgen.Clipboard
}

type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	mux    *http.ServeMux
	routes []string
	config config.Config
	// publicOrigin is the scheme://host pages of this shell are served from.
	publicOrigin string
	sessions     *session.Manager
	generator    docgen.Generator
	clipboard    docgen.Clipboard
	shell        *shell
}

func New(cfg config.Config, deps Dependencies) (*Server, error) {
	if deps.Sessions == nil || deps.Directory == nil || deps.Generator == nil {
		return nil, fmt.Errorf("[Server New] sessions, directory and generator are required")
	}
	if deps.Clipboard == nil {
		deps.Clipboard = docgen.SystemClipboard{}
	}

	s := &Server{
		env:          cfg.GetEnv(),
		mux:          http.NewServeMux(),
		config:       cfg,
		publicOrigin: originOf(cfg.GetPublicURL()),
		sessions:     deps.Sessions,
		generator:    deps.Generator,
		clipboard:    deps.Clipboard,
		shell:        newShell(deps.Directory),
	}

	if err := s.initRoutes(); err != nil {
		return nil, errors.Wrapf(err, "[Server New]")
	}
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		method, path, found := strings.Cut(route, " ")
		if !found {
			method, path = "", route
		}
		log.Info().Msgf("[%-19s] %s", colourMethod(method), path)
	}
}

// newWorkflow builds a workflow for repo with the configured timing.
func (s *Server) newWorkflow(repo repositories.Repository) *docgen.Workflow {
	return docgen.NewWorkflow(repo, s.generator, s.sessions,
		docgen.WithPhaseDelay(s.config.GetPhaseDelay()),
		docgen.WithContainsAPI(s.config.GetContainsAPI()),
	)
}
