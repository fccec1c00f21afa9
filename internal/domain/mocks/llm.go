// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/mcnamara-charles/planter-core/internal/domain/entities"
)

// GenerateCall records one Generate invocation.
type GenerateCall struct {
	Schema       string
	Instructions string
	Input        string
}

// StructuredClient is a mock implementation of ports.StructuredClient.
// Results and errors are keyed by schema name.
type StructuredClient struct {
	mu sync.Mutex

	// Results maps schema name to the raw value Generate returns.
	Results map[string]json.RawMessage
	// Errs maps schema name to an error Generate returns instead.
	Errs map[string]error

	Calls []GenerateCall
}

// Generate returns the configured result or error for the schema.
func (m *StructuredClient) Generate(ctx context.Context, schema entities.Schema, instructions, input string) (json.RawMessage, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, GenerateCall{Schema: schema.Name, Instructions: instructions, Input: input})
	m.mu.Unlock()

	if err, ok := m.Errs[schema.Name]; ok {
		return nil, err
	}
	if raw, ok := m.Results[schema.Name]; ok {
		return raw, nil
	}
	return json.RawMessage(`{}`), nil
}

// CallCount returns how many Generate calls were made for the schema name.
// Empty name counts every call.
func (m *StructuredClient) CallCount(schema string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if schema == "" {
		return len(m.Calls)
	}
	n := 0
	for _, c := range m.Calls {
		if c.Schema == schema {
			n++
		}
	}
	return n
}
