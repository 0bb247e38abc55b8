package assistant

import (
	"context"
	"errors"

	"github.com/gridmart/martpilot/internal/domain"
)

type mockSearcher struct {
	results []domain.SearchResult
	err     error
	calls   int
}

func (m *mockSearcher) Rank(_ context.Context, _ string, _ int) ([]domain.SearchResult, error) {
	m.calls++
	return m.results, m.err
}

type mockNavigator struct {
	result domain.DirectionResult
	err    error
	calls  int
	asked  string
}

func (m *mockNavigator) Directions(_ context.Context, aisleName string) (domain.DirectionResult, error) {
	m.calls++
	m.asked = aisleName
	return m.result, m.err
}

type mockSettings struct {
	layout domain.StoreLayout
}

func (m *mockSettings) Layout(_ context.Context) (domain.StoreLayout, error) {
	return m.layout, nil
}

type mockGenerator struct {
	text   string
	err    error
	system string
	window []domain.Turn
	prompt string
	calls  int
}

func (m *mockGenerator) Generate(_ context.Context, system string, window []domain.Turn, contextBlock string) (string, error) {
	m.calls++
	m.system = system
	m.window = window
	m.prompt = contextBlock
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

type mockTranscriber struct {
	text string
	err  error
}

func (m *mockTranscriber) Transcribe(_ context.Context, _ []byte) (string, error) {
	return m.text, m.err
}

var errBackendDown = errors.New("backend down")

func locatedResult() domain.SearchResult {
	return domain.SearchResult{
		Product: domain.Product{
			ID: "p1", Name: "Amul Milk", Brand: "Amul", Category: "Dairy",
			Price: 33, Quantity: "500ml", Shelf: 2,
			AisleName: "A1", Section: "Dairy", AisleRow: 1, AisleCol: 1,
		},
		Score: 98, Rank: 1,
	}
}

// pinned makes phrase selection deterministic in tests.
func pinned(idx int) func(int) int {
	return func(int) int { return idx }
}
