package server

import (
	"html/template"
	"net/http"

	"github.com/jrsteele09/reposcribe/repositories"
	"github.com/rs/zerolog/log"
)

const dashboardRecentCount = 12

func (s *Server) pageData(r *http.Request) PageData {
	sess := s.sessions.Session()
	message := loginErrorMessage(r.URL.Query().Get("error"))
	if message == "" {
		message = sess.Error
	}
	return PageData{
		AppName: s.config.GetAppName(),
		Session: sess,
		Error:   message,
	}
}

// picker fetches (or reuses) the repository list and applies the request's
// search and sort parameters.
func (s *Server) picker(r *http.Request, refresh bool) *PickerView {
	query := r.URL.Query().Get("q")
	sortKey := repositories.ParseSortKey(r.URL.Query().Get("sort"))
	if r.Method == http.MethodPost {
		query = r.FormValue("q")
		sortKey = repositories.ParseSortKey(r.FormValue("sort"))
	}

	list, err := s.shell.repositories(r.Context(), refresh)
	view := newPickerView(list, query, sortKey)
	if err != nil {
		log.Err(err).Msg("failed to list repositories")
		view.Error = listErrorMessage(err)
	}
	return view
}

func render(w http.ResponseWriter, tmpl *template.Template, name string, data any) {
	w.Header().Set("Content-Type", contentTypeHTML)
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Err(err).Str("template", name).Msg("failed to render template")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

// IndexHandler renders the loading, landing or repository picker view
func (s *Server) IndexHandler() (http.HandlerFunc, error) {
	tmpl, err := ParseTemplate("index.html", "layout.html", "repo_list.html")
	if err != nil {
		return nil, err
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data := s.pageData(r)
		if data.Session.Authenticated {
			data.Picker = s.picker(r, false)
		}
		render(w, tmpl, "index.html", data)
	}, nil
}

// RepositoryListHandler renders the picker fragment for the current search
func (s *Server) RepositoryListHandler() (http.HandlerFunc, error) {
	tmpl, err := ParseTemplate("repo_list.html")
	if err != nil {
		return nil, err
	}
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, tmpl, "repo_list", s.picker(r, false))
	}, nil
}

// RefreshRepositoriesHandler re-fetches the list ("try again")
func (s *Server) RefreshRepositoriesHandler() (http.HandlerFunc, error) {
	tmpl, err := ParseTemplate("repo_list.html")
	if err != nil {
		return nil, err
	}
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, tmpl, "repo_list", s.picker(r, true))
	}, nil
}

// DashboardHandler shows the user card and the most recently updated repositories
func (s *Server) DashboardHandler() (http.HandlerFunc, error) {
	tmpl, err := ParseTemplate("dashboard.html", "layout.html")
	if err != nil {
		return nil, err
	}
	return func(w http.ResponseWriter, r *http.Request) {
		data := s.pageData(r)
		list, err := s.shell.repositories(r.Context(), false)
		view := &PickerView{Repositories: repositories.Recent(list, dashboardRecentCount), Total: len(list)}
		if err != nil {
			log.Err(err).Msg("failed to list repositories")
			view.Error = listErrorMessage(err)
		}
		data.Picker = view
		render(w, tmpl, "dashboard.html", data)
	}, nil
}
