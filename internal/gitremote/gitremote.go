// Package gitremote resolves the GitHub repository a local working copy
// was cloned from.
package gitremote

import (
	"net/url"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/jrsteele09/reposcribe/internal/errors"
)

const DefaultRemote = "origin"

// Remote identifies a hosted repository.
type Remote struct {
	Host  string
	Owner string
	Name  string
}

// FullName is "owner/name".
func (r Remote) FullName() string {
	return r.Owner + "/" + r.Name
}

// WebURL is the browser address of the repository.
func (r Remote) WebURL() string {
	return "https://" + r.Host + "/" + r.FullName()
}

// Origin opens the working copy containing path (searching parent
// directories) and parses its origin remote.
func Origin(path string) (*Remote, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.Wrapf(err, "[gitremote Origin] open %s", path)
	}

	remote, err := repo.Remote(DefaultRemote)
	if err != nil {
		return nil, errors.Wrapf(err, "[gitremote Origin]")
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "[gitremote Origin] remote %q has no url", DefaultRemote)
	}
	return Parse(urls[0])
}

// Parse accepts https, ssh and scp-like ("git@host:owner/name.git") remote URLs.
func Parse(raw string) (*Remote, error) {
	raw = strings.TrimSpace(raw)
	var host, path string

	switch {
	case strings.Contains(raw, "://"):
		u, err := url.Parse(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "[gitremote Parse]")
		}
		host, path = u.Hostname(), u.Path
	case strings.Contains(raw, ":"):
		// scp-like syntax
		userHost, p, _ := strings.Cut(raw, ":")
		if at := strings.LastIndex(userHost, "@"); at >= 0 {
			userHost = userHost[at+1:]
		}
		host, path = userHost, p
	default:
		return nil, errors.Wrapf(errors.ErrUnsupported, "[gitremote Parse] unsupported remote url %q", raw)
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	owner, name, ok := strings.Cut(path, "/")
	if host == "" || !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return nil, errors.Wrapf(errors.ErrUnsupported, "[gitremote Parse] cannot find owner/name in %q", raw)
	}
	return &Remote{Host: host, Owner: owner, Name: name}, nil
}
