package server

import (
	"github.com/jrsteele09/reposcribe/docgen"
	"github.com/jrsteele09/reposcribe/internal/errors"
	"github.com/jrsteele09/reposcribe/repositories"
	"github.com/jrsteele09/reposcribe/session"
)

// PageData is the template model shared by all pages.
type PageData struct {
	AppName string
	Session session.Session
	Error   string

	Picker   *PickerView
	Workflow *WorkflowView
}

// PickerView is the repository list with its search and sort controls.
type PickerView struct {
	Query        string
	Sort         string
	SortOptions  []SortOption
	Repositories []repositories.Repository
	Total        int
	Error        string
}

type SortOption struct {
	Value    string
	Label    string
	Selected bool
}

// PhaseView is one row of the progress list.
type PhaseView struct {
	Number      int
	Name        string
	Description string
	Done        bool
	Active      bool
}

// WorkflowView renders a workflow snapshot.
type WorkflowView struct {
	Repository repositories.Repository
	Phases     []PhaseView
	Running    bool
	Completed  bool
	Failed     bool
	Error      string
	Content    string
	Filename   string
	Generated  string
}

func newPickerView(list []repositories.Repository, query string, sortKey repositories.SortKey) *PickerView {
	view := &PickerView{
		Query:        query,
		Sort:         string(sortKey),
		Repositories: repositories.View(list, query, sortKey),
		Total:        len(list),
	}
	for _, key := range repositories.SortKeys {
		view.SortOptions = append(view.SortOptions, SortOption{
			Value:    string(key),
			Label:    key.Label(),
			Selected: key == sortKey,
		})
	}
	return view
}

func listErrorMessage(err error) string {
	if errors.Is(err, errors.ErrUnauthorized) {
		return "Your GitHub session is no longer valid. Sign out and sign in again."
	}
	return "Failed to fetch repositories"
}

func newWorkflowView(snap docgen.Snapshot) *WorkflowView {
	view := &WorkflowView{
		Repository: snap.Repository,
		Running:    snap.State.Running(),
		Completed:  snap.State == docgen.StateCompleted,
		Failed:     snap.State == docgen.StateFailed,
		Error:      snap.Error,
		Filename:   docgen.Filename(snap.Repository.Name),
	}

	active := snap.State.PhaseIndex()
	requesting := snap.State == docgen.StateRequesting
	for i, phase := range docgen.Phases {
		view.Phases = append(view.Phases, PhaseView{
			Number:      i + 1,
			Name:        phase.Name,
			Description: phase.Description,
			Done:        view.Completed || (active >= 0 && i < active) || (requesting && i < len(docgen.Phases)-1),
			Active:      i == active || (requesting && i == len(docgen.Phases)-1),
		})
	}

	if snap.Result != nil {
		view.Content = snap.Result.Content
		view.Generated = snap.Result.GeneratedAt.Format("Jan 2, 2006 15:04")
	}
	return view
}
