package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/docsearch/internal/core/domain"
	"github.com/custodia-labs/docsearch/internal/core/ports/driven"
	"github.com/custodia-labs/docsearch/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyServerURL        = "server.url"
	keyServerToken      = "server.token"
	keyServerEnhanced   = "server.enhanced"
	keyServerTimeout    = "server.timeout_seconds"
	keyServerRPS        = "server.requests_per_second"
	keySearchMode       = "search.mode"
	keySearchLimit      = "search.limit"
	keySnippetLength    = "search.snippet_length"
	keyIncludeSnippets  = "search.include_snippets"
	keySearchDebounce   = "timing.search_debounce_ms"
	keySuggestDebounce  = "timing.suggest_debounce_ms"
	keyProgressInterval = "timing.progress_interval_ms"
	keyProgressStep     = "timing.progress_step"
	keyProgressClear    = "timing.progress_clear_ms"
)

// settingKeys lists every recognised key in display order.
var settingKeys = []string{
	keyServerURL,
	keyServerToken,
	keyServerEnhanced,
	keyServerTimeout,
	keyServerRPS,
	keySearchMode,
	keySearchLimit,
	keySnippetLength,
	keyIncludeSnippets,
	keySearchDebounce,
	keySuggestDebounce,
	keyProgressInterval,
	keyProgressStep,
	keyProgressClear,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
// Missing or invalid values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Server: domain.ServerSettings{
			BaseURL:           strings.TrimRight(s.configStore.GetString(keyServerURL), "/"),
			Token:             s.configStore.GetString(keyServerToken),
			Enhanced:          s.getBool(keyServerEnhanced, defaults.Server.Enhanced),
			Timeout:           s.getSeconds(keyServerTimeout, defaults.Server.Timeout),
			RequestsPerSecond: s.getFloat(keyServerRPS, defaults.Server.RequestsPerSecond),
		},
		Search: domain.SearchSettings{
			Mode:            s.getSearchMode(defaults.Search.Mode),
			Limit:           s.getInt(keySearchLimit, defaults.Search.Limit),
			SnippetLength:   s.getInt(keySnippetLength, defaults.Search.SnippetLength),
			IncludeSnippets: s.getBool(keyIncludeSnippets, defaults.Search.IncludeSnippets),
		},
		Timing: domain.TimingSettings{
			SearchDebounce:   s.getMillis(keySearchDebounce, defaults.Timing.SearchDebounce),
			SuggestDebounce:  s.getMillis(keySuggestDebounce, defaults.Timing.SuggestDebounce),
			ProgressInterval: s.getMillis(keyProgressInterval, defaults.Timing.ProgressInterval),
			ProgressStep:     s.getInt(keyProgressStep, defaults.Timing.ProgressStep),
			ProgressClear:    s.getMillis(keyProgressClear, defaults.Timing.ProgressClear),
		},
	}

	if settings.Search.Limit > domain.MaxResultLimit {
		settings.Search.Limit = domain.MaxResultLimit
	}

	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: nil settings", domain.ErrInvalidInput)
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{keyServerURL, settings.Server.BaseURL},
		{keyServerEnhanced, settings.Server.Enhanced},
		{keyServerTimeout, int(settings.Server.Timeout / time.Second)},
		{keyServerRPS, settings.Server.RequestsPerSecond},
		{keySearchMode, settings.Search.Mode.String()},
		{keySearchLimit, settings.Search.Limit},
		{keySnippetLength, settings.Search.SnippetLength},
		{keyIncludeSnippets, settings.Search.IncludeSnippets},
		{keySearchDebounce, int(settings.Timing.SearchDebounce / time.Millisecond)},
		{keySuggestDebounce, int(settings.Timing.SuggestDebounce / time.Millisecond)},
		{keyProgressInterval, int(settings.Timing.ProgressInterval / time.Millisecond)},
		{keyProgressStep, settings.Timing.ProgressStep},
		{keyProgressClear, int(settings.Timing.ProgressClear / time.Millisecond)},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// Only persist the token when one is set, so saving never wipes it.
	if settings.Server.Token != "" {
		if err := s.configStore.Set(keyServerToken, settings.Server.Token); err != nil {
			return fmt.Errorf("save %s: %w", keyServerToken, err)
		}
	}

	return nil
}

// Set parses value for key, validates the resulting settings and persists
// them.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	value = strings.TrimSpace(value)
	switch key {
	case keyServerURL:
		settings.Server.BaseURL = strings.TrimRight(value, "/")
	case keyServerToken:
		settings.Server.Token = value
		if value == "" {
			return s.configStore.Set(keyServerToken, "")
		}
	case keyServerEnhanced:
		settings.Server.Enhanced, err = parseBool(key, value)
	case keyServerTimeout:
		var secs int
		secs, err = parseInt(key, value)
		settings.Server.Timeout = time.Duration(secs) * time.Second
	case keyServerRPS:
		settings.Server.RequestsPerSecond, err = parseFloat(key, value)
	case keySearchMode:
		settings.Search.Mode = domain.SearchMode(strings.ToLower(value))
	case keySearchLimit:
		settings.Search.Limit, err = parseInt(key, value)
	case keySnippetLength:
		settings.Search.SnippetLength, err = parseInt(key, value)
	case keyIncludeSnippets:
		settings.Search.IncludeSnippets, err = parseBool(key, value)
	case keySearchDebounce:
		settings.Timing.SearchDebounce, err = parseMillis(key, value)
	case keySuggestDebounce:
		settings.Timing.SuggestDebounce, err = parseMillis(key, value)
	case keyProgressInterval:
		settings.Timing.ProgressInterval, err = parseMillis(key, value)
	case keyProgressStep:
		settings.Timing.ProgressStep, err = parseInt(key, value)
	case keyProgressClear:
		settings.Timing.ProgressClear, err = parseMillis(key, value)
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err != nil {
		return err
	}

	return s.Save(settings)
}

// Keys lists the recognised configuration keys.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settingKeys...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	val := s.configStore.GetFloat(key)
	if val < 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getMillis(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return time.Duration(val) * time.Millisecond
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return time.Duration(val) * time.Second
}

func (s *SettingsService) getSearchMode(defaultVal domain.SearchMode) domain.SearchMode {
	val := s.configStore.GetString(keySearchMode)
	if val == "" {
		return defaultVal
	}
	mode := domain.SearchMode(val)
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s expects an integer, got %q", domain.ErrInvalidInput, key, value)
	}
	return n, nil
}

func parseFloat(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s expects a number, got %q", domain.ErrInvalidInput, key, value)
	}
	return f, nil
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%w: %s expects true or false, got %q", domain.ErrInvalidInput, key, value)
	}
	return b, nil
}

func parseMillis(key, value string) (time.Duration, error) {
	n, err := parseInt(key, value)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Millisecond, nil
}
