package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/jrsteele09/reposcribe/internal/errors"
	"github.com/jrsteele09/reposcribe/repositories"
	"github.com/rs/zerolog/log"
)

// GenerateStartHandler selects a repository and starts its workflow
func (s *Server) GenerateStartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid repository id", http.StatusBadRequest)
			return
		}

		list, err := s.shell.repositories(r.Context(), false)
		if err != nil {
			log.Err(err).Msg("failed to list repositories")
			redirectSuccess(w, r, RouteIndex)
			return
		}
		repo, ok := repositories.FindByID(list, id)
		if !ok {
			http.Error(w, "Repository not found", http.StatusNotFound)
			return
		}

		workflow := s.newWorkflow(repo)
		// The request context ends with this handler; the workflow detaches from it.
		if err := workflow.Start(r.Context()); err != nil {
			log.Err(err).Msg("failed to start documentation workflow")
			http.Error(w, "Failed to start documentation", http.StatusInternalServerError)
			return
		}
		s.shell.show(workflow)
		redirectSuccess(w, r, RouteGenerate)
	}
}

// GeneratePageHandler renders the progress or result page
func (s *Server) GeneratePageHandler() (http.HandlerFunc, error) {
	tmpl, err := ParseTemplate("generate.html", "layout.html", "generate_status.html")
	if err != nil {
		return nil, err
	}
	return func(w http.ResponseWriter, r *http.Request) {
		workflow := s.shell.current()
		if workflow == nil {
			redirectSuccess(w, r, RouteIndex)
			return
		}
		data := s.pageData(r)
		data.Workflow = newWorkflowView(workflow.Snapshot())
		render(w, tmpl, "generate.html", data)
	}, nil
}

// GenerateStatusHandler renders the polled status fragment
func (s *Server) GenerateStatusHandler() (http.HandlerFunc, error) {
	tmpl, err := ParseTemplate("generate_status.html")
	if err != nil {
		return nil, err
	}
	return func(w http.ResponseWriter, r *http.Request) {
		workflow := s.shell.current()
		if workflow == nil {
			redirectSuccess(w, r, RouteIndex)
			return
		}
		render(w, tmpl, "generate_status", newWorkflowView(workflow.Snapshot()))
	}, nil
}

// RegenerateHandler discards the result and runs the workflow again
func (s *Server) RegenerateHandler() (http.HandlerFunc, error) {
	tmpl, err := ParseTemplate("generate_status.html")
	if err != nil {
		return nil, err
	}
	return func(w http.ResponseWriter, r *http.Request) {
		workflow := s.shell.current()
		if workflow == nil {
			redirectSuccess(w, r, RouteIndex)
			return
		}
		if err := workflow.Regenerate(r.Context()); err != nil && !errors.Is(err, errors.ErrInFlight) {
			log.Err(err).Msg("failed to regenerate documentation")
		}
		if !isHTMXRequest(r) {
			redirectSuccess(w, r, RouteGenerate)
			return
		}
		render(w, tmpl, "generate_status", newWorkflowView(workflow.Snapshot()))
	}, nil
}

// CopyHandler copies the generated markdown to the clipboard of the machine
// running the client
func (s *Server) CopyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workflow := s.shell.current()
		if workflow == nil {
			redirectSuccess(w, r, RouteIndex)
			return
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := workflow.CopyToClipboard(s.clipboard); err != nil {
			log.Err(err).Msg("copy to clipboard failed")
			w.WriteHeader(http.StatusConflict)
			_, _ = fmt.Fprint(w, `<span class="copy-status error">Copy failed</span>`)
			return
		}
		_, _ = fmt.Fprint(w, `<span class="copy-status">Copied!</span>`)
	}
}

// DownloadHandler sends the markdown as <name>-README.md
func (s *Server) DownloadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workflow := s.shell.current()
		if workflow == nil {
			http.Error(w, "Nothing to download", http.StatusNotFound)
			return
		}
		dl, err := workflow.Download()
		if err != nil {
			http.Error(w, "Documentation is not ready", http.StatusConflict)
			return
		}

		w.Header().Set("Content-Type", dl.ContentType+"; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dl.Filename))
		w.Header().Set("Content-Length", strconv.Itoa(len(dl.Data)))
		if _, err := w.Write(dl.Data); err != nil {
			log.Err(err).Msg("failed to write download")
		}
	}
}

// BackHandler abandons the workflow and returns to the picker
func (s *Server) BackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.shell.abandon()
		redirectSuccess(w, r, RouteIndex)
	}
}
