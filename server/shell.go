package server

import (
	"context"
	"sync"

	"github.com/jrsteele09/reposcribe/docgen"
	"github.com/jrsteele09/reposcribe/repositories"
)

// shell is the view state of the single user: the last fetched repository
// list and the workflow currently on screen.
type shell struct {
	directory *repositories.Directory

	mu       sync.Mutex
	repos    []repositories.Repository
	loaded   bool
	workflow *docgen.Workflow
}

func newShell(directory *repositories.Directory) *shell {
	return &shell{directory: directory}
}

// repositories returns the cached list, fetching it on first use or when
// refresh is set. Failed fetches are not cached.
func (s *shell) repositories(ctx context.Context, refresh bool) ([]repositories.Repository, error) {
	s.mu.Lock()
	if s.loaded && !refresh {
		repos := s.repos
		s.mu.Unlock()
		return repos, nil
	}
	s.mu.Unlock()

	repos, err := s.directory.List(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.repos = repos
	s.loaded = true
	s.mu.Unlock()
	return repos, nil
}

func (s *shell) current() *docgen.Workflow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workflow
}

// show replaces the workflow on screen. A previous one still in flight is
// orphaned and its late result is never displayed.
func (s *shell) show(w *docgen.Workflow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workflow = w
}

func (s *shell) abandon() {
	s.show(nil)
}

func (s *shell) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repos = nil
	s.loaded = false
	s.workflow = nil
}
