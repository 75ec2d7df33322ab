package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docsearch/internal/adapters/driving/tui"
	"github.com/custodia-labs/docsearch/internal/core/ports/driving"
	"github.com/custodia-labs/docsearch/internal/logger"
)

var (
	tuiURL         string
	tuiQuery       string
	tuiLogFile     string
	tuiDownloadDir string
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive search view",
	Long: `Launch the interactive terminal search view.

Results update as you type. The last search is remembered and restored on the
next launch; --url opens a shared deep link instead. Only the q parameter of
a deep link is applied; other parameters are kept but ignored. Rewriting the
location file in the config directory moves a running view to its query.

Controls:
  Type      - Edit the query
  Tab/Enter - Move to the results
  ↑/k, ↓/j  - Navigate results
  Enter     - Open or download the selected document
  o m e     - Cycle OCR filter, search mode, backend
  a s l     - Cycle age, size, result limit
  t y       - Cycle tag and type filters
  1 2 3     - Apply a suggestion
  /         - Back to the query
  ?         - Help
  q         - Quit`,
	Example: `  docsearch tui
  docsearch tui --query invoice
  docsearch tui --url 'docsearch://search?q=invoice'`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiURL, "url", "", "deep link to open, e.g. docsearch://search?q=invoice")
	tuiCmd.Flags().StringVarP(&tuiQuery, "query", "q", "", "initial query")
	tuiCmd.Flags().StringVar(&tuiLogFile, "log-file", "", "write logs to this file")
	tuiCmd.Flags().StringVar(&tuiDownloadDir, "download-dir", ".", "directory for downloaded documents")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	if newSession == nil {
		return errNotConfigured
	}

	// stderr belongs to the terminal UI.
	if tuiLogFile != "" {
		restore, err := logger.ToFile(tuiLogFile)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer restore()
	} else if logger.IsVerbose() {
		logger.SetVerbose(false)
		defer logger.SetVerbose(true)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	session, err := newSession(tuiURL)
	if err != nil {
		return fmt.Errorf("creating search session: %w", err)
	}
	if err := session.Start(ctx); err != nil {
		return fmt.Errorf("starting search session: %w", err)
	}
	defer session.Close()

	if tuiQuery != "" {
		if err := session.SetQuery(tuiQuery); err != nil {
			return fmt.Errorf("setting query: %w", err)
		}
	}

	go followConfig(ctx, session)
	go followLocation(ctx, session)

	app, err := tui.NewApp(&tui.Ports{
		Session:     session,
		Search:      searchService,
		Actions:     actionService,
		DownloadDir: tuiDownloadDir,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	app.WithContext(ctx)

	if err := app.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

// followConfig applies configuration edits to the running session until ctx
// is cancelled.
func followConfig(ctx context.Context, session driving.SearchSession) {
	if watchConfig == nil || settingsService == nil {
		return
	}

	err := watchConfig(ctx, func() {
		settings, err := settingsService.Get()
		if err != nil {
			logger.Warn("Reloading settings failed: %v", err)
			return
		}
		if err := session.ApplySettings(*settings); err != nil {
			logger.Warn("Applying settings failed: %v", err)
			return
		}
		logger.Info("Settings reloaded")
	})
	if err != nil && ctx.Err() == nil {
		logger.Warn("Watching configuration failed: %v", err)
	}
}

// followLocation adopts external edits of the location until ctx is
// cancelled.
func followLocation(ctx context.Context, session driving.SearchSession) {
	if watchLocation == nil {
		return
	}

	err := watchLocation(ctx, func() {
		if err := session.LocationChanged(); err != nil {
			logger.Warn("Following location failed: %v", err)
		}
	})
	if err != nil && ctx.Err() == nil {
		logger.Warn("Watching location failed: %v", err)
	}
}
