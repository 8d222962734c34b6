package repositories

import (
	"github.com/jrsteele09/reposcribe/internal/utils"
)

// Repository is an immutable snapshot of a GitHub repository as listed by the
// backend. Identity is ID.
type Repository struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Description *string   `json:"description"`
	URL         string    `json:"html_url"`
	Language    *string   `json:"language"`
	StarCount   int       `json:"stargazers_count"`
	ForkCount   int       `json:"forks_count"`
	UpdatedAt   Timestamp `json:"updated_at"`
	IsPrivate   bool      `json:"private"`
	Fork        bool      `json:"fork"`
}

// DescriptionText returns the description or "" when absent.
func (r Repository) DescriptionText() string {
	return utils.Value(r.Description)
}

// LanguageText returns the primary language or "" when absent.
func (r Repository) LanguageText() string {
	return utils.Value(r.Language)
}

// Visibility is the label shown next to the repository name.
func (r Repository) Visibility() string {
	if r.IsPrivate {
		return "Private"
	}
	return "Public"
}

// FindByID returns the repository with the given id.
func FindByID(list []Repository, id int64) (Repository, bool) {
	for _, r := range list {
		if r.ID == id {
			return r, true
		}
	}
	return Repository{}, false
}

// FindByName matches on the short name or the owner/name full name.
func FindByName(list []Repository, name string) (Repository, bool) {
	for _, r := range list {
		if r.Name == name || r.FullName == name {
			return r, true
		}
	}
	return Repository{}, false
}
