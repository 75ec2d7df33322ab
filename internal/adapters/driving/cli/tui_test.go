package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsearch/internal/core/domain"
	"github.com/custodia-labs/docsearch/internal/core/ports/driving"
)

// MockTUISession implements driving.SearchSession for TUI command tests.
type MockTUISession struct {
	applied     []domain.AppSettings
	navigated   int
	navigateErr error
}

func (m *MockTUISession) Start(context.Context) error              { return nil }
func (m *MockTUISession) Close()                                   {}
func (m *MockTUISession) SetQuery(string) error                    { return nil }
func (m *MockTUISession) SetTags([]string) error                   { return nil }
func (m *MockTUISession) SetMimeTypes([]string) error              { return nil }
func (m *MockTUISession) SetAgeRange(domain.DayRange) error        { return nil }
func (m *MockTUISession) SetSizeRange(domain.SizeRange) error      { return nil }
func (m *MockTUISession) SetOCRPresence(domain.OCRPresence) error  { return nil }
func (m *MockTUISession) SetResultLimit(int) error                 { return nil }
func (m *MockTUISession) SetSearchMode(domain.SearchMode) error    { return nil }
func (m *MockTUISession) SetEnhanced(bool) error                   { return nil }
func (m *MockTUISession) Snapshot() (domain.SearchSnapshot, error) { return domain.SearchSnapshot{}, nil }
func (m *MockTUISession) Updates() <-chan domain.SearchSnapshot    { return nil }

func (m *MockTUISession) LocationChanged() error {
	m.navigated++
	return m.navigateErr
}

func (m *MockTUISession) ApplySettings(s domain.AppSettings) error {
	m.applied = append(m.applied, s)
	return nil
}

func TestTUICmd_Use(t *testing.T) {
	assert.Equal(t, "tui", tuiCmd.Use)
}

func TestTUICmd_Flags(t *testing.T) {
	for _, name := range []string{"url", "query", "log-file", "download-dir"} {
		assert.NotNil(t, tuiCmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "q", tuiCmd.Flags().Lookup("query").Shorthand)
	assert.Equal(t, ".", tuiCmd.Flags().Lookup("download-dir").DefValue)
}

func TestTUICmd_NotConfigured(t *testing.T) {
	SetServices(nil)

	_, err := executeCommand(t, "tui")

	assert.ErrorIs(t, err, domain.ErrNoServer)
}

func TestTUICmd_SessionError(t *testing.T) {
	defer SetServices(nil)
	var gotLink string
	SetServices(&Services{
		NewSession: func(deepLink string) (driving.SearchSession, error) {
			gotLink = deepLink
			return nil, errors.New("bad deep link")
		},
	})

	_, err := executeCommand(t, "tui", "--url", "docsearch://search?q=x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating search session: bad deep link")
	assert.Equal(t, "docsearch://search?q=x", gotLink)
}

func TestFollowConfig_AppliesReloadedSettings(t *testing.T) {
	settings := newMockSettingsService()
	settings.Settings.Search.Limit = 75
	session := &MockTUISession{}

	defer SetServices(nil)
	SetServices(&Services{
		Settings: settings,
		WatchConfig: func(_ context.Context, onChange func()) error {
			onChange()
			return nil
		},
	})

	followConfig(context.Background(), session)

	require.Len(t, session.applied, 1)
	assert.Equal(t, 75, session.applied[0].Search.Limit)
}

func TestFollowConfig_SkipsUnreadableSettings(t *testing.T) {
	settings := newMockSettingsService()
	settings.GetErr = errors.New("parse error")
	session := &MockTUISession{}

	defer SetServices(nil)
	SetServices(&Services{
		Settings: settings,
		WatchConfig: func(_ context.Context, onChange func()) error {
			onChange()
			return nil
		},
	})

	followConfig(context.Background(), session)

	assert.Empty(t, session.applied)
}

func TestFollowConfig_WithoutWatcher(t *testing.T) {
	SetServices(nil)
	session := &MockTUISession{}

	followConfig(context.Background(), session)

	assert.Empty(t, session.applied)
}

func TestFollowLocation_ForwardsNavigation(t *testing.T) {
	session := &MockTUISession{}

	defer SetServices(nil)
	SetServices(&Services{
		WatchLocation: func(_ context.Context, onChange func()) error {
			onChange()
			onChange()
			return nil
		},
	})

	followLocation(context.Background(), session)

	assert.Equal(t, 2, session.navigated)
}

func TestFollowLocation_ToleratesSessionErrors(t *testing.T) {
	session := &MockTUISession{navigateErr: domain.ErrSessionClosed}

	defer SetServices(nil)
	SetServices(&Services{
		WatchLocation: func(_ context.Context, onChange func()) error {
			onChange()
			return errors.New("watch failed")
		},
	})

	followLocation(context.Background(), session)

	assert.Equal(t, 1, session.navigated)
}

func TestFollowLocation_WithoutWatcher(t *testing.T) {
	SetServices(nil)
	session := &MockTUISession{}

	followLocation(context.Background(), session)

	assert.Zero(t, session.navigated)
}

func TestTUICmd_ExampleUsesQueryOnlyDeepLink(t *testing.T) {
	assert.Contains(t, tuiCmd.Example, "docsearch://search?q=invoice'")
	assert.NotContains(t, tuiCmd.Example, "tags=")
}
