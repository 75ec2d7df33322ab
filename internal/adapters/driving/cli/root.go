// Package cli provides the cobra command tree for docsearch.
// It implements a driving adapter following hexagonal architecture principles.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docsearch/internal/core/domain"
	"github.com/custodia-labs/docsearch/internal/core/ports/driving"
	"github.com/custodia-labs/docsearch/internal/logger"
)

// version is set at build time.
var version = "dev"

// Global flags.
var (
	verbose   bool
	configDir string
	serverURL string
)

// Services wired by the composition root.
var (
	searchService   driving.SearchService
	settingsService driving.SettingsService
	actionService   driving.DocumentActionService
	newSession      func(deepLink string) (driving.SearchSession, error)
	watchConfig     func(ctx context.Context, onChange func()) error
	watchLocation   func(ctx context.Context, onChange func()) error
)

// Options are the global flag values handed to the bootstrap function.
type Options struct {
	// ConfigDir overrides the configuration directory.
	ConfigDir string

	// ServerURL overrides the configured server URL.
	ServerURL string
}

// Services holds everything the commands need. Search, Actions and
// NewSession are nil when no server is configured.
type Services struct {
	Search   driving.SearchService
	Settings driving.SettingsService
	Actions  driving.DocumentActionService

	// NewSession creates an interactive session seeded from deepLink, or
	// from the persisted location when deepLink is empty.
	NewSession func(deepLink string) (driving.SearchSession, error)

	// WatchConfig calls onChange whenever the configuration file changes.
	// It blocks until ctx is cancelled.
	WatchConfig func(ctx context.Context, onChange func()) error

	// WatchLocation calls onChange whenever the location of the most
	// recent session is changed from outside. It blocks until ctx is
	// cancelled.
	WatchLocation func(ctx context.Context, onChange func()) error
}

// Bootstrap builds the services once global flags are parsed.
type Bootstrap func(opts Options) (*Services, error)

var bootstrap Bootstrap

var rootCmd = &cobra.Command{
	Use:   "docsearch",
	Short: "Search documents on a readur server",
	Long: `docsearch searches the documents of a readur server from the terminal.

Configure the server once, then search from the command line or launch the
interactive search view:

  docsearch config set server.url https://readur.example.com
  docsearch config token
  docsearch search invoice --tag finance
  docsearch tui`,
	SilenceUsage:      true,
	PersistentPreRunE: initialise,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.docsearch)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server URL, overriding the configured one")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetBootstrap sets the function that builds services before a command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices installs the services used by the commands.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	searchService = s.Search
	settingsService = s.Settings
	actionService = s.Actions
	newSession = s.NewSession
	watchConfig = s.WatchConfig
	watchLocation = s.WatchLocation
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func initialise(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if bootstrap == nil {
		return nil
	}

	services, err := bootstrap(Options{ConfigDir: configDir, ServerURL: serverURL})
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	SetServices(services)
	return nil
}

// errNotConfigured explains how to configure the server.
var errNotConfigured = fmt.Errorf("%w: run 'docsearch config set server.url <url>' or pass --server",
	domain.ErrNoServer)

// requireSearch returns the search service or a configuration hint.
func requireSearch() (driving.SearchService, error) {
	if searchService == nil {
		return nil, errNotConfigured
	}
	return searchService, nil
}

// requireActions returns the action service or a configuration hint.
func requireActions() (driving.DocumentActionService, error) {
	if actionService == nil {
		return nil, errNotConfigured
	}
	return actionService, nil
}

// requireSettings returns the settings service.
func requireSettings() (driving.SettingsService, error) {
	if settingsService == nil {
		return nil, errors.New("settings service not configured")
	}
	return settingsService, nil
}

// currentSettings returns the stored settings, falling back to defaults.
func currentSettings() domain.AppSettings {
	if settingsService == nil {
		return domain.DefaultAppSettings()
	}
	settings, err := settingsService.Get()
	if err != nil {
		logger.Warn("Reading settings failed, using defaults: %v", err)
		return domain.DefaultAppSettings()
	}
	return *settings
}
