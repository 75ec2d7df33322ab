// Command docsearch searches the documents of a readur server from the
// terminal.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/docsearch/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docsearch/internal/adapters/driven/readur"
	"github.com/custodia-labs/docsearch/internal/adapters/driving/cli"
	"github.com/custodia-labs/docsearch/internal/core/ports/driving"
	"github.com/custodia-labs/docsearch/internal/core/services"
	"github.com/custodia-labs/docsearch/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// bootstrap wires the driven adapters into the core services. Without a
// configured server only the settings commands are available.
func bootstrap(opts cli.Options) (*cli.Services, error) {
	dir := opts.ConfigDir
	if dir == "" {
		var err error
		dir, err = file.DefaultDir()
		if err != nil {
			return nil, err
		}
	}

	store, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, err
	}
	logger.Debug("Config: %s", store.Path())

	settingsService := services.NewSettingsService(store)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}
	if opts.ServerURL != "" {
		settings.Server.BaseURL = opts.ServerURL
	}

	wired := &cli.Services{
		Settings:    settingsService,
		WatchConfig: store.Watch,
	}
	if !settings.Server.IsConfigured() {
		logger.Debug("No server configured")
		return wired, nil
	}

	client, err := readur.NewClient(readur.ConfigFromSettings(settings.Server))
	if err != nil {
		return nil, err
	}
	logger.Debug("Server: %s", settings.Server.BaseURL)

	wired.Search = services.NewSearchService(client, settings.Search)
	wired.Actions = services.NewDocumentActionService(client)

	var current *file.Location
	wired.NewSession = func(deepLink string) (driving.SearchSession, error) {
		location, err := file.NewLocation(dir, deepLink)
		if err != nil {
			return nil, err
		}
		current = location
		return services.NewSearchSession(client, location, services.SessionOptions{
			Settings: *settings,
		}), nil
	}
	wired.WatchLocation = func(ctx context.Context, onChange func()) error {
		if current == nil {
			return nil
		}
		return current.Watch(ctx, onChange)
	}

	return wired, nil
}
