package mcp

import (
	"context"
	"errors"

	"github.com/custodia-labs/docsearch/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	outcome *domain.SearchOutcome
	facets  *domain.Facets
	err     error
	got     domain.FilterState
}

func (m *mockSearchService) Search(_ context.Context, filters domain.FilterState) (*domain.SearchOutcome, error) {
	m.got = filters
	if m.err != nil {
		return nil, m.err
	}
	if m.outcome == nil {
		return &domain.SearchOutcome{}, nil
	}
	return m.outcome, nil
}

func (m *mockSearchService) Facets(_ context.Context) (*domain.Facets, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.facets == nil {
		return &domain.Facets{}, nil
	}
	return m.facets, nil
}

// mockActionService is a mock implementation of driving.DocumentActionService.
type mockActionService struct{}

func (m *mockActionService) DocumentURL(id string) (string, error) {
	if id == "bad" {
		return "", domain.ErrInvalidDocumentID
	}
	return "https://readur.example/documents/" + id, nil
}

func (m *mockActionService) OpenDocument(_ context.Context, _ string) error {
	return errors.New("not supported")
}

func (m *mockActionService) Download(_ context.Context, _, _ string) (string, error) {
	return "", errors.New("not supported")
}
