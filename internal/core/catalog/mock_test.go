package catalog

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type executedQuery struct {
	Query  string
	Params map[string]interface{}
}

// MockDriver records every query it receives. Queries that succeed are
// also recorded in Committed, mirroring auto-commit semantics.
type MockDriver struct {
	Executed   []executedQuery
	Committed  []executedQuery
	MockResult neo4j.EagerResult
	Err        error
	// FailOnCall makes the Nth call (1-based) fail when set.
	FailOnCall int
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	q := executedQuery{Query: query, Params: params}
	m.Executed = append(m.Executed, q)
	if m.Err != nil {
		return neo4j.EagerResult{}, m.Err
	}
	if m.FailOnCall > 0 && len(m.Executed) == m.FailOnCall {
		return neo4j.EagerResult{}, fmt.Errorf("write failed on call %d", m.FailOnCall)
	}
	m.Committed = append(m.Committed, q)
	return m.MockResult, nil
}

func (m *MockDriver) BuildIndices(ctx context.Context) error {
	return nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}
