package server

import (
	"net/http"
	"net/url"
	"strings"
)

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent) // 204 - no content, just redirect instruction
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectWithError helper for htmx-aware error redirects
func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorCode string) {
	redirectSuccess(w, r, path+"?error="+url.QueryEscape(errorCode))
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// localPath accepts only same-site absolute paths, so a login cannot be used
// to bounce the browser to another host.
func localPath(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, "\\") {
		return RouteIndex
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return RouteIndex
	}
	return raw
}

// loginErrorMessage maps the error codes used on "/?error=" to banner text.
func loginErrorMessage(code string) string {
	switch code {
	case "":
		return ""
	case ErrorCodeOAuth:
		return "GitHub sign in was cancelled or failed. Please try again."
	case ErrorCodeAuthFailed:
		return "Failed to complete authentication"
	default:
		return "Something went wrong. Please try again."
	}
}
