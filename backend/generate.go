package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/reposcribe/internal/errors"
	"github.com/jrsteele09/reposcribe/repositories"
)

// GenerateRequest is the body of POST /api/generateDoc.
type GenerateRequest struct {
	AccessToken string `json:"accessToken"`
	RepoLink    string `json:"repoLink"`
	ContainsAPI bool   `json:"containsAPI"`
}

// GeneratedDoc is the documentation shaped result of the generator.
type GeneratedDoc struct {
	ID          string                 `json:"id,omitempty"`
	Content     string                 `json:"content"`
	GeneratedAt repositories.Timestamp `json:"generatedAt,omitempty"`
	Status      string                 `json:"status,omitempty"`
}

// GenerateDoc asks the backend to document the repository at req.RepoLink.
func (c *Client) GenerateDoc(ctx context.Context, req GenerateRequest) (*GeneratedDoc, error) {
	if c.generateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.generateTimeout)
		defer cancel()
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrapf(err, "[backend %s] encode request", PathGenerateDoc)
	}
	httpReq, err := c.newRequest(ctx, http.MethodPost, PathGenerateDoc, nil, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	// The generator can run longer than the shared client timeout; ctx bounds it instead.
	client := *c.httpClient
	client.Timeout = 0

	var doc GeneratedDoc
	if err := do(&client, httpReq, &doc); err != nil {
		return nil, err
	}
	if strings.TrimSpace(doc.Content) == "" {
		return nil, fmt.Errorf("[backend %s] malformed response: empty content", PathGenerateDoc)
	}
	if doc.Status == "error" {
		return nil, fmt.Errorf("[backend %s] generator reported an error", PathGenerateDoc)
	}
	return &doc, nil
}
