// Package app wires the client's components from configuration. Both the web
// server and the CLI start from here.
package app

import (
	"io"

	"github.com/jrsteele09/reposcribe/backend"
	"github.com/jrsteele09/reposcribe/docgen"
	"github.com/jrsteele09/reposcribe/internal/config"
	"github.com/jrsteele09/reposcribe/internal/errors"
	"github.com/jrsteele09/reposcribe/repositories"
	"github.com/jrsteele09/reposcribe/server"
	"github.com/jrsteele09/reposcribe/session"
	"github.com/jrsteele09/reposcribe/tokenstore"
)

type App struct {
	Config    config.Config
	Store     tokenstore.Store
	Backend   *backend.Client
	Sessions  *session.Manager
	Directory *repositories.Directory
}

func New(cfg config.Config) (*App, error) {
	store, err := tokenstore.New(cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "[app New]")
	}

	client := backend.New(cfg.GetAPIBaseURL(), cfg.GetHTTPTimeout(),
		backend.WithGenerateTimeout(cfg.GetGenerateTimeout()),
	)
	sessions := session.NewManager(cfg, store, client)

	return &App{
		Config:    cfg,
		Store:     store,
		Backend:   client,
		Sessions:  sessions,
		Directory: repositories.NewDirectory(client, sessions, cfg.GetRepoPageSize()),
	}, nil
}

// NewWorkflow prepares the documentation workflow for repo.
func (a *App) NewWorkflow(repo repositories.Repository, opts ...docgen.Option) *docgen.Workflow {
	base := []docgen.Option{
		docgen.WithPhaseDelay(a.Config.GetPhaseDelay()),
		docgen.WithContainsAPI(a.Config.GetContainsAPI()),
	}
	return docgen.NewWorkflow(repo, a.Backend, a.Sessions, append(base, opts...)...)
}

// Handler builds the web shell.
func (a *App) Handler() (*server.Server, error) {
	return server.New(a.Config, server.Dependencies{
		Sessions:  a.Sessions,
		Directory: a.Directory,
		Generator: a.Backend,
		Clipboard: docgen.SystemClipboard{},
	})
}

// Close releases the token store when it holds a resource.
func (a *App) Close() error {
	if closer, ok := a.Store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
