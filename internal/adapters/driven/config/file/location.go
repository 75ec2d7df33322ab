package file

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docsearch/internal/core/domain"
	"github.com/custodia-labs/docsearch/internal/core/ports/driven"
	"github.com/custodia-labs/docsearch/internal/logger"
)

// Ensure Location implements the interface.
var _ driven.Location = (*Location)(nil)

// LocationBase is the deep link prefix of the search view.
const LocationBase = "docsearch://search"

// Location is a search view location persisted to a file in the config
// directory, so the last search survives restarts and can be shared as a
// deep link.
type Location struct {
	mu     sync.RWMutex
	path   string
	values url.Values
}

// NewLocation creates a file-backed location in configDir. A non-empty
// deepLink (e.g. docsearch://search?q=invoice) takes precedence over the
// persisted location.
func NewLocation(configDir, deepLink string) (*Location, error) {
	if configDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	l := &Location{
		path:   filepath.Join(configDir, "location"),
		values: url.Values{},
	}

	if deepLink != "" {
		values, err := ParseDeepLink(deepLink)
		if err != nil {
			return nil, err
		}
		l.values = values
		return l, nil
	}

	if err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// ParseDeepLink extracts the query parameters of a search deep link.
func ParseDeepLink(link string) (url.Values, error) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return nil, fmt.Errorf("%w: deep link %q", domain.ErrInvalidInput, link)
	}
	if u.Scheme != "" && u.Scheme != "docsearch" {
		return nil, fmt.Errorf("%w: unsupported deep link scheme %q", domain.ErrInvalidInput, u.Scheme)
	}
	return u.Query(), nil
}

// Reload re-reads the persisted location. A missing file means an empty
// location.
func (l *Location) Reload() error {
	_, err := l.reload(false)
	return err
}

// reload re-reads the file and reports whether the parameters changed.
// With skipEmpty an empty file is ignored, as it is seen mid-write.
func (l *Location) reload(skipEmpty bool) (bool, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if skipEmpty && strings.TrimSpace(string(data)) == "" {
		return false, nil
	}

	values, err := ParseDeepLink(string(data))
	if err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if reflect.DeepEqual(values, l.values) {
		return false, nil
	}
	l.values = values
	return true, nil
}

// Watch reloads the location when another process rewrites the file and
// calls onChange when its parameters differ. Writes made through Replace
// leave the parameters unchanged and are not reported.
// It blocks until ctx is cancelled.
func (l *Location) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(l.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != l.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			changed, err := l.reload(true)
			if err != nil {
				logger.Warn("location reload failed: %v", err)
				continue
			}
			if !changed {
				continue
			}
			logger.Debug("location changed: %s", l.String())
			if onChange != nil {
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("location watcher: %v", err)
		}
	}
}

// Values returns a copy of the query parameters.
func (l *Location) Values() url.Values {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(url.Values, len(l.values))
	for k, v := range l.values {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Replace swaps the query parameters and persists the location.
func (l *Location) Replace(values url.Values) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.values = make(url.Values, len(values))
	for k, v := range values {
		l.values[k] = append([]string(nil), v...)
	}
	return os.WriteFile(l.path, []byte(l.string()+"\n"), 0600)
}

// String returns the shareable deep link.
func (l *Location) String() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.string()
}

func (l *Location) string() string {
	if len(l.values) == 0 {
		return LocationBase
	}
	return LocationBase + "?" + l.values.Encode()
}

// Path returns the file backing the location.
func (l *Location) Path() string {
	return l.path
}
