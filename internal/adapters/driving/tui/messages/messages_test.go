package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/docsearch/internal/core/domain"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view     ViewType
		expected string
	}{
		{ViewSearch, "search"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.view.String())
		})
	}
}

func TestSnapshotReceived_CarriesSnapshot(t *testing.T) {
	snap := domain.SearchSnapshot{Cycle: 3, TotalCount: 1, Phase: domain.PhaseSettled}

	msg := SnapshotReceived{Snapshot: snap}

	assert.Equal(t, uint64(3), msg.Snapshot.Cycle)
	assert.Equal(t, domain.PhaseSettled, msg.Snapshot.Phase)
}

func TestActionCompleted_Error(t *testing.T) {
	err := errors.New("boom")

	msg := ActionCompleted{Err: err}

	assert.ErrorIs(t, msg.Err, err)
	assert.Empty(t, msg.Message)
}
