package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/docsearch/internal/core/domain"
	"github.com/custodia-labs/docsearch/internal/core/ports/driven"
	"github.com/custodia-labs/docsearch/internal/core/ports/driving"
	"github.com/custodia-labs/docsearch/internal/logger"
)

// Operating system identifiers.
const (
	osDarwin  = "darwin"
	osLinux   = "linux"
	osWindows = "windows"
)

// maxNameAttempts bounds the "name (n).ext" suffixes tried on collision.
const maxNameAttempts = 100

// Ensure DocumentActionService implements the interface.
var _ driving.DocumentActionService = (*DocumentActionService)(nil)

// DocumentActionService provides actions on result documents.
type DocumentActionService struct {
	client driven.SearchClient
	open   func(url string) error
}

// NewDocumentActionService creates a new document action service.
func NewDocumentActionService(client driven.SearchClient) *DocumentActionService {
	return &DocumentActionService{
		client: client,
		open:   openURL,
	}
}

// WithOpener replaces the browser launcher.
func (s *DocumentActionService) WithOpener(open func(url string) error) *DocumentActionService {
	s.open = open
	return s
}

// DocumentURL returns the detail view location of a document.
func (s *DocumentActionService) DocumentURL(documentID string) (string, error) {
	id, err := parseDocumentID(documentID)
	if err != nil {
		return "", err
	}
	return s.client.DocumentURL(id), nil
}

// OpenDocument opens the document's detail view in the default browser.
func (s *DocumentActionService) OpenDocument(_ context.Context, documentID string) error {
	target, err := s.DocumentURL(documentID)
	if err != nil {
		return err
	}
	logger.Debug("opening %s", target)
	return s.open(target)
}

// Download saves the document into dir and returns the written path. The
// server-suggested filename is used when present, otherwise the document
// ID. Existing files are never overwritten.
func (s *DocumentActionService) Download(ctx context.Context, documentID, dir string) (string, error) {
	id, err := parseDocumentID(documentID)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}

	dl, err := s.client.Download(ctx, id)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", id, err)
	}
	defer dl.Body.Close()

	name := safeFilename(dl.Filename)
	if name == "" {
		name = id
	}

	f, path, err := createUnique(dir, name)
	if err != nil {
		return "", err
	}

	n, err := io.Copy(f, dl.Body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	logger.Debug("downloaded %s to %s (%d bytes)", id, path, n)
	return path, nil
}

func parseDocumentID(documentID string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(documentID))
	if err != nil {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidDocumentID, documentID)
	}
	return id.String(), nil
}

// safeFilename strips directory components so a server-provided name can
// never escape the target directory.
func safeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(strings.TrimSpace(name))
	switch name {
	case ".", "/", "..":
		return ""
	}
	return name
}

// createUnique creates dir/name, or "name (n).ext" when it already exists.
func createUnique(dir, name string) (*os.File, string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for i := 0; i < maxNameAttempts; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, i, ext)
		}
		path := filepath.Join(dir, candidate)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", err
		}
	}
	return nil, "", fmt.Errorf("no free filename for %s in %s", name, dir)
}

// openURL opens a URL in the default browser using OS-specific commands.
func openURL(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case osDarwin:
		cmd = exec.Command("open", url)
	case osLinux:
		cmd = exec.Command("xdg-open", url)
	case osWindows:
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
