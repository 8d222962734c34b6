package docgen

import (
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/jrsteele09/reposcribe/internal/errors"
)

const MarkdownContentType = "text/markdown"

// Clipboard receives copied documentation.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return errors.Wrapf(errors.ErrUnsupported, "[SystemClipboard WriteAll] no clipboard utility available")
	}
	return clipboard.WriteAll(text)
}

// Download is a completed result packaged as a file.
type Download struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Filename is the download name for a repository's README.
func Filename(repositoryName string) string {
	return repositoryName + "-README.md"
}

func (w *Workflow) result() (*Documentation, error) {
	snap := w.Snapshot()
	if snap.State != StateCompleted || snap.Result == nil {
		return nil, errors.ErrNotCompleted
	}
	return snap.Result, nil
}

// CopyToClipboard copies the generated markdown.
func (w *Workflow) CopyToClipboard(cb Clipboard) error {
	doc, err := w.result()
	if err != nil {
		return errors.Wrapf(err, "[Workflow CopyToClipboard]")
	}
	if err := cb.WriteAll(doc.Content); err != nil {
		return errors.Wrapf(err, "[Workflow CopyToClipboard]")
	}
	return nil
}

// Download packages the generated markdown as <name>-README.md.
func (w *Workflow) Download() (*Download, error) {
	doc, err := w.result()
	if err != nil {
		return nil, errors.Wrapf(err, "[Workflow Download]")
	}
	return &Download{
		Filename:    Filename(doc.Repository.Name),
		ContentType: MarkdownContentType,
		Data:        []byte(doc.Content),
	}, nil
}

// WriteFile saves the download into dir and returns its path.
func (w *Workflow) WriteFile(dir string) (string, error) {
	dl, err := w.Download()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "[Workflow WriteFile]")
	}
	path := filepath.Join(dir, dl.Filename)
	if err := os.WriteFile(path, dl.Data, 0o644); err != nil {
		return "", errors.Wrapf(err, "[Workflow WriteFile]")
	}
	return path, nil
}
