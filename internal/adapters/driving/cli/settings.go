package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docsearch/internal/core/domain"
)

//nolint:gosec // G101: config key name, not a credential.
const tokenKey = "server.token"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change the server connection, search defaults and timing.

Settings are stored in config.toml in the configuration directory. A running
TUI picks up changes immediately.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a single configuration value. Run 'docsearch config keys' to list
the recognised keys.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List configuration keys",
	RunE:  runConfigKeys,
}

var configTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Set the API token",
	Long:  `Prompts for the bearer token without echoing it.`,
	RunE:  runConfigToken,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configTokenCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	service, err := requireSettings()
	if err != nil {
		return err
	}

	settings, err := service.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Server]")
	if settings.Server.IsConfigured() {
		cmd.Printf("  URL: %s\n", settings.Server.BaseURL)
	} else {
		cmd.Printf("  URL: (not set)\n")
	}
	if settings.Server.Token != "" {
		cmd.Printf("  Token: %s\n", maskToken(settings.Server.Token))
	} else {
		cmd.Printf("  Token: (not set)\n")
	}
	cmd.Printf("  Enhanced backend: %s\n", yesNo(settings.Server.Enhanced))
	cmd.Printf("  Timeout: %s\n", settings.Server.Timeout)
	if settings.Server.RequestsPerSecond > 0 {
		cmd.Printf("  Requests per second: %g\n", settings.Server.RequestsPerSecond)
	} else {
		cmd.Printf("  Requests per second: unlimited\n")
	}
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Mode: %s\n", settings.Search.Mode.Description())
	cmd.Printf("  Limit: %d\n", settings.Search.Limit)
	cmd.Printf("  Snippets: %s (%d characters)\n", yesNo(settings.Search.IncludeSnippets), settings.Search.SnippetLength)
	cmd.Println()

	cmd.Println("[Timing]")
	cmd.Printf("  Search debounce: %s\n", settings.Timing.SearchDebounce)
	cmd.Printf("  Suggestion debounce: %s\n", settings.Timing.SuggestDebounce)
	cmd.Printf("  Progress: +%d%% every %s, cleared after %s\n",
		settings.Timing.ProgressStep, settings.Timing.ProgressInterval, settings.Timing.ProgressClear)

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	service, err := requireSettings()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	if err := service.Set(key, value); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return fmt.Errorf("%w (run 'docsearch config keys')", err)
		}
		return fmt.Errorf("failed to save setting: %w", err)
	}

	if key == tokenKey {
		value = maskToken(value)
	}
	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func runConfigKeys(cmd *cobra.Command, _ []string) error {
	service, err := requireSettings()
	if err != nil {
		return err
	}

	for _, key := range service.Keys() {
		cmd.Println(key)
	}
	return nil
}

func runConfigToken(cmd *cobra.Command, _ []string) error {
	service, err := requireSettings()
	if err != nil {
		return err
	}

	cmd.Print("Token: ")
	token := readPassword(cmd.InOrStdin())
	cmd.Println()

	if token == "" {
		return errors.New("no token entered")
	}
	if err := service.Set(tokenKey, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	cmd.Println("Token saved.")
	return nil
}

// readPassword reads a line without echo when stdin is a terminal, and a
// plain line from in otherwise.
func readPassword(in io.Reader) string {
	if in == os.Stdin && term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	reader := bufio.NewReader(in)
	input, _ := reader.ReadString('\n') //nolint:errcheck // partial input is used as is
	return strings.TrimSpace(input)
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
